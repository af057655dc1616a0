package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsRetryableTxError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"serialización", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"lock_timeout", &pgconn.PgError{Code: "55P03"}, true},
		{"envuelto", fmt.Errorf("update: %w", &pgconn.PgError{Code: "40P01"}), true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"check violation", &pgconn.PgError{Code: "23514"}, false},
		{"error genérico", errors.New("connection refused"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isRetryableTxError(tc.err))
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "40001"}))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% desc`, escapeLike("50% desc"))
	assert.Equal(t, `cable\_usb`, escapeLike("cable_usb"))
	assert.Equal(t, `a\\b`, escapeLike(`a\b`))
	assert.Equal(t, "camara", escapeLike("camara"))
}

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@localhost:5432/kardex?sslmode=disable",
		migrateURL("postgres://u:p@localhost:5432/kardex?sslmode=disable"))
	assert.Equal(t, "pgx5://u:p@db/kardex", migrateURL("postgresql://u:p@db/kardex"))
	assert.Equal(t, "pgx5://ya/convertido", migrateURL("pgx5://ya/convertido"))
}

func TestMigracionesEmbebidas(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	assert.NoError(t, err)
	assert.Len(t, entries, 4, "up y down por cada migración")
}
