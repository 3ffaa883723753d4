package persistence

import (
	"io"
	"log/slog"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

// Pool construction and ExecuteTx need a live database; repository behavior
// against SQL is covered with pgxmock in internal/data/postgres.
func TestPostgresDB_Pool(t *testing.T) {
	var pool *pgxpool.Pool
	db := &PostgresDB{
		pool:   pool,
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}

	assert.Equal(t, pool, db.Pool())
}
