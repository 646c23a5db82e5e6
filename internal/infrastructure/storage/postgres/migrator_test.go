package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@localhost:5432/db?sslmode=disable",
		MigrateURL("postgres://u:p@localhost:5432/db?sslmode=disable"))
	assert.Equal(t, "pgx5://u@db/x", MigrateURL("postgresql://u@db/x"))
	assert.Equal(t, "pgx5://already", MigrateURL("pgx5://already"))
}
