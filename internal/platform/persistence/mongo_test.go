package persistence

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// The driver's concrete types need a live server for anything beyond handle
// accessors; commitment store behavior is covered in internal/data/mongo.
func TestMongoDB_Accessors(t *testing.T) {
	client, _ := mongo.Connect(context.TODO(), options.Client().ApplyURI("mongodb://localhost:27017"))
	database := client.Database("budget_ledger_test")

	mdb := &MongoDB{
		logger:   slog.New(slog.NewJSONHandler(io.Discard, nil)),
		client:   client,
		database: database,
	}

	assert.Equal(t, database, mdb.Database())
	assert.Equal(t, "commitment_entries", mdb.Collection("commitment_entries").Name())
}
