package projection

import (
	"context"
	"testing"
	"time"

	"techmarket/internal/domain/entity"
	"techmarket/internal/domain/schema"
	"techmarket/internal/domain/store"
	"techmarket/internal/generator"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder() (*entity.Order, *entity.Payment) {
	orderedAt := time.Date(2025, 2, 10, 8, 30, 0, 0, time.UTC)
	o := &entity.Order{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		OrderedAt:  orderedAt,
		Status:     entity.OrderStatusDelivered,
		Items: []entity.LineItem{
			{ProductID: uuid.New(), Quantity: 2, UnitPrice: 19_90},
			{ProductID: uuid.New(), Quantity: 1, UnitPrice: 100_00},
		},
	}
	o.TotalValue = o.ItemsTotal()
	p := &entity.Payment{
		ID:      uuid.New(),
		OrderID: o.ID,
		Type:    entity.PaymentTypePix,
		Status:  entity.PaymentStatusApproved,
		PaidAt:  orderedAt.Add(time.Hour),
	}

	return o, p
}

func tables(writes []store.Write) []string {
	out := make([]string, 0, len(writes))
	for _, w := range writes {
		out = append(out, w.Table)
	}

	return out
}

func TestProjectOrder_WideColumnFanOut(t *testing.T) {
	o, p := sampleOrder()

	writes, err := ProjectOrder(entity.BackendWideColumn, o, p)
	require.NoError(t, err)
	assert.Equal(t, []string{
		schema.OrdersByCustomerStatus,
		schema.OrdersByCustomer,
		schema.OrdersByID,
		schema.OrderItemsByOrder,
		schema.OrderItemsByOrder,
		schema.PaymentsByTypeMonth,
		schema.PaymentsByID,
	}, tables(writes))

	for _, w := range writes[:3] {
		assert.Equal(t, o.ID, w.Record["order_id"])
		assert.Equal(t, o.CustomerID, w.Record["customer_id"])
		assert.InDelta(t, 139.80, w.Record["total_value"], 1e-9)
	}
	assert.Equal(t, "2025-02", writes[5].Record["year_month"])
	assert.Equal(t, o.ID, writes[6].Record["order_id"])
}

func TestProjectOrder_DocumentEmbedsItemsAndPayment(t *testing.T) {
	o, p := sampleOrder()

	writes, err := ProjectOrder(entity.BackendDocument, o, p)
	require.NoError(t, err)
	require.Len(t, writes, 1)

	rec := writes[0].Record
	assert.Equal(t, schema.OrdersCollection, writes[0].Table)
	assert.Equal(t, o.ID, rec["_id"])
	assert.Equal(t, o.CustomerID, rec["customer_id"])

	items, ok := rec["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 2)
	assert.Equal(t, o.Items[0].ProductID, items[0].(map[string]any)["product_id"])

	pay, ok := rec["payment"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, p.ID, pay["payment_id"])
	assert.Equal(t, "pix", pay["type"])
}

func TestProjectOrder_RelationalKeepsForeignKeys(t *testing.T) {
	o, p := sampleOrder()

	writes, err := ProjectOrder(entity.BackendRelational, o, p)
	require.NoError(t, err)
	assert.Equal(t, []string{
		schema.OrdersTable,
		schema.OrderItemsTable,
		schema.OrderItemsTable,
		schema.PaymentsTable,
	}, tables(writes))

	assert.Equal(t, o.CustomerID, writes[0].Record["customer_id"])
	assert.Equal(t, o.ID, writes[1].Record["order_id"])
	assert.Equal(t, o.Items[1].ProductID, writes[2].Record["product_id"])
	assert.Equal(t, o.ID, writes[3].Record["order_id"])
}

func TestProject_Errors(t *testing.T) {
	_, p := sampleOrder()

	_, err := Project(entity.BackendDocument, p)
	require.ErrorIs(t, err, ErrEmbeddedPayment)

	_, err = Project(entity.BackendRelational, "not an entity")
	require.ErrorIs(t, err, ErrUnsupportedEntity)

	_, err = Project(entity.Backend("graph"), &entity.Customer{})
	require.ErrorIs(t, err, ErrUnknownBackend)
}

func TestProperty_ProjectionIsDeterministic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)
	g := generator.New(generator.WithReference(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))

	properties.Property("the same entity projects to the same writes", prop.ForAll(
		func(seed int64, backendIdx int) bool {
			ds, err := g.Generate(context.Background(), seed, entity.Counts{Customers: 5, Products: 5, Orders: 5})
			if err != nil {
				return false
			}
			b := entity.Backends()[backendIdx]

			for _, c := range ds.Customers {
				first, err1 := Project(b, c)
				second, err2 := Project(b, c)
				if err1 != nil || err2 != nil || !assert.ObjectsAreEqual(first, second) {
					return false
				}
			}
			for i, o := range ds.Orders {
				first, err1 := ProjectOrder(b, o, ds.PaymentFor(i))
				second, err2 := ProjectOrder(b, o, ds.PaymentFor(i))
				if err1 != nil || err2 != nil || !assert.ObjectsAreEqual(first, second) {
					return false
				}
			}

			return true
		},
		gen.Int64(), gen.IntRange(0, 2),
	))

	properties.TestingRun(t)
}
