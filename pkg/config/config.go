package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente .env).
type Config struct {
	App       AppConfig
	DB        DBConfig
	JWT       JWTConfig
	HTTP      HTTPConfig
	Inventory InventoryConfig
	Storage   StorageConfig
	Log       LogConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL    string
	Host           string
	Port           int
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MigrateOnStart bool
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	CORSOrigins string
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// InventoryConfig parámetros de negocio del inventario.
type InventoryConfig struct {
	ExpirationWarningDays  int             // días antes del vencimiento para alerta "warning"
	ExpirationCriticalDays int             // días antes del vencimiento para alerta "critical"
	SuggestedOrderCoverage decimal.Decimal // multiplicador de min_stock cuando el insumo no tiene max_stock
	PermissionCacheTTL     time.Duration
}

// StorageConfig selecciona el driver de persistencia.
type StorageConfig struct {
	Driver string // postgres | memory
}

// LogConfig configuración del logger.
type LogConfig struct {
	Level string
}

// Load lee la configuración desde variables de entorno y, si existe, desde el archivo .env.
// Las env vars del proceso tienen prioridad sobre el archivo.
func Load() (*Config, error) {
	// godotenv no sobreescribe variables ya definidas en el proceso.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	coverage, err := decimal.NewFromString(getString(v, "SUGGESTED_ORDER_COVERAGE", "1.5"))
	if err != nil {
		return nil, fmt.Errorf("SUGGESTED_ORDER_COVERAGE inválido: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getString(v, "PERMISSION_CACHE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("PERMISSION_CACHE_TTL inválido: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "panaderia-api"),
		},
		DB: DBConfig{
			DatabaseURL:    getString(v, "DATABASE_URL", ""),
			Host:           getString(v, "DB_HOST", "localhost"),
			Port:           getInt(v, "DB_PORT", 5432),
			User:           getString(v, "DB_USER", "postgres"),
			Password:       getString(v, "DB_PASSWORD", ""),
			DBName:         getString(v, "DB_NAME", "panaderia"),
			SSLMode:        getString(v, "DB_SSLMODE", "disable"),
			MigrateOnStart: getBool(v, "MIGRATE_ON_START", false),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "panaderia-api"),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        getInt(v, "HTTP_PORT", 8080),
			CORSOrigins: getString(v, "CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		},
		Inventory: InventoryConfig{
			ExpirationWarningDays:  getInt(v, "EXPIRATION_WARNING_DAYS", 3),
			ExpirationCriticalDays: getInt(v, "EXPIRATION_CRITICAL_DAYS", 1),
			SuggestedOrderCoverage: coverage,
			PermissionCacheTTL:     cacheTTL,
		},
		Storage: StorageConfig{
			Driver: getString(v, "STORAGE_DRIVER", "postgres"),
		},
		Log: LogConfig{
			Level: getString(v, "LOG_LEVEL", "info"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate revisa combinaciones inválidas antes de arrancar.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" && c.App.Env != "development" {
		return fmt.Errorf("JWT_SECRET es obligatorio fuera de development")
	}
	if c.Storage.Driver != "postgres" && c.Storage.Driver != "memory" {
		return fmt.Errorf("STORAGE_DRIVER debe ser postgres o memory, recibido %q", c.Storage.Driver)
	}
	if c.Inventory.ExpirationCriticalDays > c.Inventory.ExpirationWarningDays {
		return fmt.Errorf("EXPIRATION_CRITICAL_DAYS no puede ser mayor que EXPIRATION_WARNING_DAYS")
	}
	if !c.Inventory.SuggestedOrderCoverage.GreaterThan(decimal.Zero) {
		return fmt.Errorf("SUGGESTED_ORDER_COVERAGE debe ser mayor que 0")
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
