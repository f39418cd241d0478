package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Panaderia-api/internal/domain"
)

func TestPaginate(t *testing.T) {
	q, args := paginate("SELECT 1", []any{"x"}, 10, 20)
	assert.Equal(t, "SELECT 1 LIMIT $2 OFFSET $3", q)
	assert.Equal(t, []any{"x", 10, 20}, args)

	q, args = paginate("SELECT 1", nil, 0, 0)
	assert.Equal(t, "SELECT 1", q)
	assert.Empty(t, args)
}

func TestMapWriteError_TraduceCodigosPostgres(t *testing.T) {
	cases := map[string]error{
		"23505": domain.ErrDuplicate,
		"23503": domain.ErrConflict,
		"23514": domain.ErrInvalidInput,
	}
	for code, want := range cases {
		err := mapWriteError("op", &pgconn.PgError{Code: code})
		assert.ErrorIs(t, err, want, code)
	}
	other := errors.New("conexión cerrada")
	assert.ErrorIs(t, mapWriteError("op", other), other)
}

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/pan?sslmode=disable", migrateURL("postgres://u:p@db:5432/pan?sslmode=disable"))
	assert.Equal(t, "pgx5://db/pan", migrateURL("postgresql://db/pan"))
	assert.Equal(t, "pgx5://db/pan", migrateURL("pgx5://db/pan"))
}

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, nullIfEmpty(""))
	assert.Equal(t, "a", *nullIfEmpty("a"))
	assert.Equal(t, "", deref(nil))
}
