package catalog

import (
	"time"

	"techmarket/internal/domain/entity"
	"techmarket/internal/domain/query"
	"techmarket/internal/domain/schema"

	"github.com/google/uuid"
)

// cqlDialect addresses one query-shaped table per statement. Ordering comes
// from clustering order, so no statement sorts.
type cqlDialect struct{}

func (cqlDialect) customerByEmail(email string) query.Statement {
	return query.CQL{
		Table:     schema.CustomersByEmail,
		Columns:   []string{"customer_id", "name", "email"},
		Partition: []query.Term{{Column: "email", Value: email}},
	}
}

func (cqlDialect) recentOrders(customerID uuid.UUID, limit int) query.Statement {
	return query.CQL{
		Table:     schema.OrdersByCustomer,
		Columns:   []string{"order_id", "ordered_at", "status", "total_value"},
		Partition: []query.Term{{Column: "customer_id", Value: customerID}},
		Limit:     limit,
	}
}

func (cqlDialect) productsByCategory(category entity.Category, limit int) query.Statement {
	return query.CQL{
		Table:     schema.ProductsByCategory,
		Columns:   []string{"product_id", "name", "category", "price", "stock"},
		Partition: []query.Term{{Column: "category", Value: category.String()}},
		Limit:     limit,
	}
}

func (cqlDialect) ordersByStatus(customerID uuid.UUID, status entity.OrderStatus, limit int) query.Statement {
	return query.CQL{
		Table:   schema.OrdersByCustomerStatus,
		Columns: []string{"order_id", "ordered_at", "status", "total_value"},
		Partition: []query.Term{
			{Column: "customer_id", Value: customerID},
			{Column: "status", Value: status.String()},
		},
		Limit: limit,
	}
}

func (cqlDialect) productSample(limit int) query.Statement {
	return query.CQL{
		Table:   schema.ProductsByCategory,
		Columns: []string{"product_id", "name", "category", "price"},
		Limit:   limit,
	}
}

func (cqlDialect) paymentsInRange(t entity.PaymentType, from, to time.Time, limit int) query.Statement {
	return query.CQL{
		Table:   schema.PaymentsByTypeMonth,
		Columns: []string{"payment_id", "order_id", "payment_type", "status", "paid_at"},
		Partition: []query.Term{
			{Column: "payment_type", Value: t.String()},
			{Column: "year_month", Value: entity.YearMonth(from)},
		},
		Range: &query.Range{Column: "paid_at", From: from, To: to},
		Limit: limit,
	}
}

func (cqlDialect) ordersInWindow(customerID uuid.UUID, from, to time.Time) query.Statement {
	return query.CQL{
		Table:     schema.OrdersByCustomer,
		Columns:   []string{"total_value"},
		Partition: []query.Term{{Column: "customer_id", Value: customerID}},
		Range:     &query.Range{Column: "ordered_at", From: from, To: to, ToInclusive: true},
	}
}
