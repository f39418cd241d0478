package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "panaderia-api", cfg.App.Name)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, 3, cfg.Inventory.ExpirationWarningDays)
	assert.True(t, cfg.Inventory.SuggestedOrderCoverage.Equal(decimal.RequireFromString("1.5")))
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "un-secreto-largo")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("SUGGESTED_ORDER_COVERAGE", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.True(t, cfg.Inventory.SuggestedOrderCoverage.Equal(decimal.NewFromInt(2)))
}

func TestLoad_SinSecretEnProduccion(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate_DiasDeAlerta(t *testing.T) {
	cfg := &Config{
		App:     AppConfig{Env: "development"},
		Storage: StorageConfig{Driver: "memory"},
		Inventory: InventoryConfig{
			ExpirationWarningDays:  1,
			ExpirationCriticalDays: 3,
			SuggestedOrderCoverage: decimal.NewFromInt(1),
		},
	}
	assert.Error(t, cfg.Validate())
}

func TestDBConfig_DSN(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "pan", Password: "p@ss:word", DBName: "panaderia", SSLMode: "disable"}
	assert.Equal(t, "postgres://pan:p%40ss%3Aword@db:5432/panaderia?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
