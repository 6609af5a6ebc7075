package catalog

import (
	"time"

	"techmarket/internal/domain/entity"
	"techmarket/internal/domain/query"
	"techmarket/internal/domain/schema"

	"github.com/google/uuid"
)

// documentDialect reads the embedded order shape; payments live under "payment".
type documentDialect struct{}

var (
	orderFields = []query.Field{
		{As: "order_id", Path: "_id"},
		{As: "ordered_at", Path: "ordered_at"},
		{As: "status", Path: "status"},
		{As: "total_value", Path: "total_value"},
	}
	recentFirst = []query.SortKey{{Path: "ordered_at", Desc: true}, {Path: "_id"}}
)

func (documentDialect) customerByEmail(email string) query.Statement {
	return query.Find{
		Collection: schema.CustomersCollection,
		Filter:     []query.Cond{{Path: "email", Op: query.OpEq, Value: email}},
		Limit:      1,
		Fields: []query.Field{
			{As: "customer_id", Path: "_id"},
			{As: "name", Path: "name"},
			{As: "email", Path: "email"},
		},
	}
}

func (documentDialect) recentOrders(customerID uuid.UUID, limit int) query.Statement {
	return query.Find{
		Collection: schema.OrdersCollection,
		Filter:     []query.Cond{{Path: "customer_id", Op: query.OpEq, Value: customerID}},
		Sort:       recentFirst,
		Limit:      limit,
		Fields:     orderFields,
	}
}

func (documentDialect) productsByCategory(category entity.Category, limit int) query.Statement {
	return query.Find{
		Collection: schema.ProductsCollection,
		Filter:     []query.Cond{{Path: "category", Op: query.OpEq, Value: category.String()}},
		Sort:       []query.SortKey{{Path: "price"}, {Path: "_id"}},
		Limit:      limit,
		Fields: []query.Field{
			{As: "product_id", Path: "_id"},
			{As: "name", Path: "name"},
			{As: "category", Path: "category"},
			{As: "price", Path: "price"},
			{As: "stock", Path: "stock"},
		},
	}
}

func (documentDialect) ordersByStatus(customerID uuid.UUID, status entity.OrderStatus, limit int) query.Statement {
	return query.Find{
		Collection: schema.OrdersCollection,
		Filter: []query.Cond{
			{Path: "customer_id", Op: query.OpEq, Value: customerID},
			{Path: "status", Op: query.OpEq, Value: status.String()},
		},
		Sort:   recentFirst,
		Limit:  limit,
		Fields: orderFields,
	}
}

func (documentDialect) productSample(limit int) query.Statement {
	return query.Find{
		Collection: schema.ProductsCollection,
		Limit:      limit,
		Fields: []query.Field{
			{As: "product_id", Path: "_id"},
			{As: "name", Path: "name"},
			{As: "category", Path: "category"},
			{As: "price", Path: "price"},
		},
	}
}

func (documentDialect) topSellers(limit int) query.Statement {
	return query.Aggregate{
		Collection: schema.OrdersCollection,
		Stages: []query.Stage{
			query.Unwind{Path: "items"},
			query.Group{Key: "items.product_id", SumOf: "items.quantity", As: "total_sold"},
			query.Sort{Keys: []query.SortKey{{Path: "total_sold", Desc: true}, {Path: "_id"}}},
			query.Limit{N: limit},
			query.Lookup{From: schema.ProductsCollection, LocalField: "_id", ForeignField: "_id", As: "product"},
			query.Unwind{Path: "product"},
			query.Project{Fields: []query.Field{
				{As: "product_id", Path: "_id"},
				{As: "name", Path: "product.name"},
				{As: "category", Path: "product.category"},
				{As: "total_sold", Path: "total_sold"},
			}},
		},
	}
}

func (documentDialect) paymentsInRange(t entity.PaymentType, from, to time.Time, limit int) query.Statement {
	return query.Find{
		Collection: schema.OrdersCollection,
		Filter: []query.Cond{
			{Path: "payment.type", Op: query.OpEq, Value: t.String()},
			{Path: "payment.paid_at", Op: query.OpGte, Value: from},
			{Path: "payment.paid_at", Op: query.OpLt, Value: to},
		},
		Sort:  []query.SortKey{{Path: "payment.paid_at", Desc: true}, {Path: "payment.payment_id"}},
		Limit: limit,
		Fields: []query.Field{
			{As: "payment_id", Path: "payment.payment_id"},
			{As: "order_id", Path: "_id"},
			{As: "payment_type", Path: "payment.type"},
			{As: "status", Path: "payment.status"},
			{As: "paid_at", Path: "payment.paid_at"},
		},
	}
}

func windowConds(customerID uuid.UUID, from, to time.Time) []query.Cond {
	return []query.Cond{
		{Path: "customer_id", Op: query.OpEq, Value: customerID},
		{Path: "ordered_at", Op: query.OpGte, Value: from},
		{Path: "ordered_at", Op: query.OpLte, Value: to},
	}
}

func (documentDialect) spendInWindow(customerID uuid.UUID, from, to time.Time) query.Statement {
	return query.Aggregate{
		Collection: schema.OrdersCollection,
		Stages: []query.Stage{
			query.Match{Conds: windowConds(customerID, from, to)},
			query.Group{Key: "customer_id", SumOf: "total_value", As: "total_spent"},
			query.Project{Fields: []query.Field{
				{As: "customer_id", Path: "_id"},
				{As: "total_spent", Path: "total_spent"},
			}},
		},
	}
}

func (documentDialect) ordersInWindow(customerID uuid.UUID, from, to time.Time) query.Statement {
	return query.Find{
		Collection: schema.OrdersCollection,
		Filter:     windowConds(customerID, from, to),
		Fields:     []query.Field{{As: "total_value", Path: "total_value"}},
	}
}
