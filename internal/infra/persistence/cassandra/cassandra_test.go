package cassandra

import (
	"testing"
	"time"

	"techmarket/internal/domain/query"
	"techmarket/internal/domain/schema"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/inf.v0"
)

func TestRender_PartitionRangeAndLimit(t *testing.T) {
	s := &Store{keyspace: "ks"}
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	text, args, err := s.render(query.CQL{
		Table:   schema.PaymentsByTypeMonth,
		Columns: []string{"payment_id", "paid_at"},
		Partition: []query.Term{
			{Column: "payment_type", Value: "pix"},
			{Column: "year_month", Value: "2025-03"},
		},
		Range: &query.Range{Column: "paid_at", From: from, To: to},
		Limit: 10,
	})
	require.NoError(t, err)

	assert.Equal(t, "SELECT payment_id, paid_at FROM ks.payments_by_type_month "+
		"WHERE payment_type = ? AND year_month = ? AND paid_at >= ? AND paid_at < ? LIMIT 10", text)
	assert.Equal(t, []any{"pix", "2025-03", from, to}, args)
}

func TestRender_InclusiveUpperBound(t *testing.T) {
	s := &Store{keyspace: "ks"}
	id := uuid.New()

	text, args, err := s.render(query.CQL{
		Table:     schema.OrdersByCustomer,
		Columns:   []string{"total_value"},
		Partition: []query.Term{{Column: "customer_id", Value: id}},
		Range:     &query.Range{Column: "ordered_at", From: time.Unix(0, 0), To: time.Unix(10, 0), ToInclusive: true},
	})
	require.NoError(t, err)

	assert.Contains(t, text, "ordered_at <= ?")
	assert.Equal(t, gocql.UUID(id), args[0])
}

func TestRender_RejectsUnboundedScan(t *testing.T) {
	s := &Store{keyspace: "ks"}

	_, _, err := s.render(query.CQL{Table: schema.ProductsByCategory, Columns: []string{"name"}})
	assert.Error(t, err)

	_, _, err = s.render(query.CQL{Table: "nope", Columns: []string{"name"}, Limit: 1})
	assert.Error(t, err)
}

func TestToCQL_Decimal(t *testing.T) {
	v, err := toCQL(schema.TypeDecimal, 1234.56)
	require.NoError(t, err)

	dec, ok := v.(*inf.Dec)
	require.True(t, ok)
	assert.Equal(t, "1234.56", dec.String())
}

func TestFromCQLRow(t *testing.T) {
	id := uuid.New()
	row := fromCQLRow(map[string]any{
		"order_id":    gocql.UUID(id),
		"total_value": inf.NewDec(1999, 2),
		"status":      "delivered",
	})

	assert.Equal(t, id, row["order_id"])
	assert.InDelta(t, 19.99, row["total_value"], 1e-9)
	assert.Equal(t, "delivered", row["status"])
}
