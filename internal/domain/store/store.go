// Package store defines the uniform access surface every backend implements.
package store

import (
	"context"
	"time"

	"techmarket/internal/domain/entity"
	"techmarket/internal/domain/query"
)

// Record is one physical row or document, keyed by column or field name.
type Record map[string]any

// Write is a record addressed to a physical table or collection, together
// with the names of the key columns that identify it there.
type Write struct {
	Table  string
	Key    []string
	Record Record
}

// Store is an open session against one backend.
type Store interface {
	// CreateSchema creates tables, collections and indexes. It is idempotent.
	CreateSchema(ctx context.Context) error

	// InsertOne writes a single record.
	InsertOne(ctx context.Context, table string, record Record) error

	// InsertMany writes records in order.
	InsertMany(ctx context.Context, table string, records []Record) error

	// Query evaluates a statement, returning normalized rows and the time spent
	// from submission until every row was materialized.
	Query(ctx context.Context, stmt query.Statement) ([]query.Row, time.Duration, error)

	// Close releases the session.
	Close(ctx context.Context) error
}

// Connector opens sessions against one backend.
type Connector interface {
	Backend() entity.Backend
	// Driver names the concrete engine, e.g. "cassandra" or "memory".
	Driver() string
	Connect(ctx context.Context) (Store, error)
}
