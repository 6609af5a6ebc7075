package memory

import (
	"context"
	"testing"
	"time"

	"techmarket/internal/domain/query"
	"techmarket/internal/domain/schema"
	"techmarket/internal/domain/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWideColumn(t *testing.T) *WideColumn {
	t.Helper()
	w := NewWideColumn()
	require.NoError(t, w.CreateSchema(context.Background()))

	return w
}

func insertOrder(t *testing.T, w *WideColumn, customerID uuid.UUID, status string, at time.Time) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, w.InsertOne(context.Background(), schema.OrdersByCustomerStatus, store.Record{
		"customer_id": customerID,
		"status":      status,
		"ordered_at":  at,
		"order_id":    id,
		"total_value": 10.0,
	}))

	return id
}

func TestWideColumn_PartitionReadInClusteringOrder(t *testing.T) {
	w := newWideColumn(t)
	customer := uuid.New()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	oldest := insertOrder(t, w, customer, "delivered", base)
	newest := insertOrder(t, w, customer, "delivered", base.Add(2*time.Hour))
	middle := insertOrder(t, w, customer, "delivered", base.Add(time.Hour))
	insertOrder(t, w, customer, "pending", base.Add(3*time.Hour))
	insertOrder(t, w, uuid.New(), "delivered", base.Add(4*time.Hour))

	rows, _, err := w.Query(context.Background(), query.CQL{
		Table:   schema.OrdersByCustomerStatus,
		Columns: []string{"order_id", "ordered_at"},
		Partition: []query.Term{
			{Column: "customer_id", Value: customer},
			{Column: "status", Value: "delivered"},
		},
	})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []any{newest, middle, oldest}, query.Column(rows, "order_id"))
}

func TestWideColumn_RejectsIncompletePartitionKey(t *testing.T) {
	w := newWideColumn(t)

	_, _, err := w.Query(context.Background(), query.CQL{
		Table:     schema.OrdersByCustomerStatus,
		Columns:   []string{"order_id"},
		Partition: []query.Term{{Column: "customer_id", Value: uuid.New()}},
	})
	require.ErrorIs(t, err, ErrIncompletePartitionKey)
}

func TestWideColumn_RejectsRangeOffFirstClusteringColumn(t *testing.T) {
	w := newWideColumn(t)

	_, _, err := w.Query(context.Background(), query.CQL{
		Table:   schema.OrdersByCustomerStatus,
		Columns: []string{"order_id"},
		Partition: []query.Term{
			{Column: "customer_id", Value: uuid.New()},
			{Column: "status", Value: "delivered"},
		},
		Range: &query.Range{Column: "order_id", From: uuid.Nil, To: uuid.Max},
	})
	require.ErrorIs(t, err, ErrInvalidRange)
}

func TestWideColumn_FullScanNeedsLimit(t *testing.T) {
	w := newWideColumn(t)
	for range 5 {
		insertOrder(t, w, uuid.New(), "pending", time.Now().UTC())
	}

	_, _, err := w.Query(context.Background(), query.CQL{
		Table:   schema.OrdersByCustomerStatus,
		Columns: []string{"order_id"},
	})
	require.ErrorIs(t, err, ErrUnboundedScan)

	first, _, err := w.Query(context.Background(), query.CQL{
		Table:   schema.OrdersByCustomerStatus,
		Columns: []string{"order_id"},
		Limit:   3,
	})
	require.NoError(t, err)
	assert.Len(t, first, 3)

	again, _, err := w.Query(context.Background(), query.CQL{
		Table:   schema.OrdersByCustomerStatus,
		Columns: []string{"order_id"},
		Limit:   3,
	})
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestWideColumn_RangeBounds(t *testing.T) {
	w := newWideColumn(t)
	customer := uuid.New()
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	insertOrder(t, w, customer, "pending", base)
	insertOrder(t, w, customer, "pending", base.Add(24*time.Hour))
	insertOrder(t, w, customer, "pending", base.Add(48*time.Hour))

	stmt := query.CQL{
		Table:   schema.OrdersByCustomerStatus,
		Columns: []string{"order_id"},
		Partition: []query.Term{
			{Column: "customer_id", Value: customer},
			{Column: "status", Value: "pending"},
		},
		Range: &query.Range{Column: "ordered_at", From: base, To: base.Add(48 * time.Hour)},
	}
	rows, _, err := w.Query(context.Background(), stmt)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	stmt.Range.ToInclusive = true
	rows, _, err = w.Query(context.Background(), stmt)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestWideColumn_WriteValidation(t *testing.T) {
	w := newWideColumn(t)
	ctx := context.Background()

	err := w.InsertOne(ctx, "nope", store.Record{"x": 1})
	require.ErrorIs(t, err, ErrUnconfiguredTable)

	err = w.InsertOne(ctx, schema.CustomersByEmail, store.Record{"email": "a@b.c", "unknown": 1})
	require.Error(t, err)

	err = w.InsertOne(ctx, schema.CustomersByEmail, store.Record{"name": "no key"})
	require.Error(t, err)
}

func TestWideColumn_UpsertOnSamePrimaryKey(t *testing.T) {
	w := newWideColumn(t)
	ctx := context.Background()
	id := uuid.New()

	for _, name := range []string{"first", "second"} {
		require.NoError(t, w.InsertOne(ctx, schema.CustomersByEmail, store.Record{
			"email": "same@example.com", "customer_id": id, "name": name,
		}))
	}

	rows, _, err := w.Query(ctx, query.CQL{
		Table:     schema.CustomersByEmail,
		Columns:   []string{"customer_id", "name"},
		Partition: []query.Term{{Column: "email", Value: "same@example.com"}},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "second", rows[0]["name"])
}
