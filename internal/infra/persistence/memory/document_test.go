package memory

import (
	"context"
	"testing"

	"techmarket/internal/domain/query"
	"techmarket/internal/domain/schema"
	"techmarket/internal/domain/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDocument(t *testing.T) *Document {
	t.Helper()
	d := NewDocument()
	require.NoError(t, d.CreateSchema(context.Background()))

	return d
}

func TestDocument_UniqueIndexes(t *testing.T) {
	d := newDocument(t)
	ctx := context.Background()

	require.NoError(t, d.InsertOne(ctx, schema.CustomersCollection, store.Record{
		"_id": uuid.New(), "email": "ana@example.com", "national_id": "1",
	}))

	err := d.InsertOne(ctx, schema.CustomersCollection, store.Record{
		"_id": uuid.New(), "email": "ana@example.com", "national_id": "2",
	})
	require.ErrorIs(t, err, ErrDuplicateKey)

	id := uuid.New()
	require.NoError(t, d.InsertOne(ctx, schema.CustomersCollection, store.Record{
		"_id": id, "email": "bia@example.com", "national_id": "3",
	}))
	err = d.InsertOne(ctx, schema.CustomersCollection, store.Record{
		"_id": id, "email": "caio@example.com", "national_id": "4",
	})
	require.ErrorIs(t, err, ErrDuplicateKey)

	// Re-creating the schema keeps existing keys reserved.
	require.NoError(t, d.CreateSchema(ctx))
	err = d.InsertOne(ctx, schema.CustomersCollection, store.Record{
		"_id": uuid.New(), "email": "bia@example.com", "national_id": "5",
	})
	require.ErrorIs(t, err, ErrDuplicateKey)
}

func TestDocument_FindSortsLimitsAndProjects(t *testing.T) {
	d := newDocument(t)
	ctx := context.Background()

	cheap, mid, pricey := uuid.New(), uuid.New(), uuid.New()
	require.NoError(t, d.InsertMany(ctx, schema.ProductsCollection, []store.Record{
		{"_id": pricey, "name": "C", "category": "Games", "price": 300.0},
		{"_id": cheap, "name": "A", "category": "Games", "price": 10.0},
		{"_id": uuid.New(), "name": "X", "category": "Celulares", "price": 1.0},
		{"_id": mid, "name": "B", "category": "Games", "price": 150.0},
	}))

	rows, _, err := d.Query(ctx, query.Find{
		Collection: schema.ProductsCollection,
		Filter:     []query.Cond{{Path: "category", Op: query.OpEq, Value: "Games"}},
		Sort:       []query.SortKey{{Path: "price"}, {Path: "_id"}},
		Limit:      2,
		Fields:     []query.Field{{As: "product_id", Path: "_id"}, {As: "price", Path: "price"}},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []any{cheap, mid}, query.Column(rows, "product_id"))
	assert.Equal(t, []any{10.0, 150.0}, query.Column(rows, "price"))
	assert.NotContains(t, rows[0], "name")
}

func TestDocument_AggregateUnwindGroup(t *testing.T) {
	d := newDocument(t)
	ctx := context.Background()

	p1, p2 := uuid.New(), uuid.New()
	require.NoError(t, d.InsertMany(ctx, schema.ProductsCollection, []store.Record{
		{"_id": p1, "name": "Mouse", "category": "Periféricos", "price": 50.0},
		{"_id": p2, "name": "SSD", "category": "Informática", "price": 400.0},
	}))
	require.NoError(t, d.InsertMany(ctx, schema.OrdersCollection, []store.Record{
		{"_id": uuid.New(), "items": []any{
			map[string]any{"product_id": p1, "quantity": 2},
			map[string]any{"product_id": p2, "quantity": 1},
		}},
		{"_id": uuid.New(), "items": []any{
			map[string]any{"product_id": p1, "quantity": 3},
		}},
	}))

	rows, _, err := d.Query(ctx, query.Aggregate{
		Collection: schema.OrdersCollection,
		Stages: []query.Stage{
			query.Unwind{Path: "items"},
			query.Group{Key: "items.product_id", SumOf: "items.quantity", As: "total_sold"},
			query.Sort{Keys: []query.SortKey{{Path: "total_sold", Desc: true}, {Path: "_id"}}},
			query.Limit{N: 5},
			query.Lookup{From: schema.ProductsCollection, LocalField: "_id", ForeignField: "_id", As: "product"},
			query.Unwind{Path: "product"},
			query.Project{Fields: []query.Field{
				{As: "product_id", Path: "_id"},
				{As: "name", Path: "product.name"},
				{As: "total_sold", Path: "total_sold"},
			}},
		},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, p1, rows[0]["product_id"])
	assert.Equal(t, "Mouse", rows[0]["name"])
	assert.Equal(t, int64(5), rows[0]["total_sold"])
	assert.Equal(t, int64(1), rows[1]["total_sold"])
}

func TestDocument_StoredDataIsIsolated(t *testing.T) {
	d := newDocument(t)
	ctx := context.Background()

	rec := store.Record{"_id": uuid.New(), "items": []any{map[string]any{"quantity": 1}}}
	require.NoError(t, d.InsertOne(ctx, schema.OrdersCollection, rec))
	rec["items"].([]any)[0].(map[string]any)["quantity"] = 99

	rows, _, err := d.Query(ctx, query.Find{Collection: schema.OrdersCollection})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	items := rows[0]["items"].([]any)
	assert.Equal(t, int64(1), items[0].(map[string]any)["quantity"])
}
