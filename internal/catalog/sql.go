package catalog

import (
	"strings"
	"time"

	"techmarket/internal/domain/entity"
	"techmarket/internal/domain/query"
	"techmarket/internal/domain/schema"

	"github.com/google/uuid"
)

// sqlDialect targets both PostgreSQL and SQLite: ? placeholders are rebound by
// GORM and money is cast to DOUBLE PRECISION so both drivers return float64.
type sqlDialect struct{}

func withLimit(text string, args []any, limit int) (string, []any) {
	if limit <= 0 {
		return text, args
	}

	return text + " LIMIT ?", append(args, limit)
}

func sqlStmt(table string, text string, args []any, limit int) query.SQL {
	text, args = withLimit(strings.Join(strings.Fields(text), " "), args, limit)

	return query.SQL{Table: table, Text: text, Args: args}
}

func (sqlDialect) customerByEmail(email string) query.Statement {
	return sqlStmt(schema.CustomersTable, `
		SELECT id AS customer_id, name, email
		FROM customers
		WHERE email = ?`, []any{email}, 0)
}

func (sqlDialect) recentOrders(customerID uuid.UUID, limit int) query.Statement {
	return sqlStmt(schema.OrdersTable, `
		SELECT id AS order_id, ordered_at, status, CAST(total_value AS DOUBLE PRECISION) AS total_value
		FROM orders
		WHERE customer_id = ?
		ORDER BY ordered_at DESC, id ASC`, []any{customerID}, limit)
}

func (sqlDialect) customerWithRecentOrders(email string, limit int) query.Statement {
	return sqlStmt(schema.CustomersTable, `
		SELECT c.id AS customer_id, c.name, c.email,
			o.id AS order_id, o.ordered_at, o.status, CAST(o.total_value AS DOUBLE PRECISION) AS total_value
		FROM customers c
		JOIN orders o ON o.customer_id = c.id
		WHERE c.email = ?
		ORDER BY o.ordered_at DESC, o.id ASC`, []any{email}, limit)
}

func (sqlDialect) productsByCategory(category entity.Category, limit int) query.Statement {
	return sqlStmt(schema.ProductsTable, `
		SELECT id AS product_id, name, category, CAST(price AS DOUBLE PRECISION) AS price, stock
		FROM products
		WHERE category = ?
		ORDER BY price ASC, id ASC`, []any{category.String()}, limit)
}

func (sqlDialect) ordersByStatus(customerID uuid.UUID, status entity.OrderStatus, limit int) query.Statement {
	return sqlStmt(schema.OrdersTable, `
		SELECT id AS order_id, ordered_at, status, CAST(total_value AS DOUBLE PRECISION) AS total_value
		FROM orders
		WHERE customer_id = ? AND status = ?
		ORDER BY ordered_at DESC, id ASC`, []any{customerID, status.String()}, limit)
}

func (sqlDialect) productSample(limit int) query.Statement {
	return sqlStmt(schema.ProductsTable, `
		SELECT id AS product_id, name, category, CAST(price AS DOUBLE PRECISION) AS price
		FROM products`, nil, limit)
}

func (sqlDialect) topSellers(limit int) query.Statement {
	return sqlStmt(schema.OrderItemsTable, `
		SELECT p.id AS product_id, p.name, p.category, SUM(i.quantity) AS total_sold
		FROM order_items i
		JOIN products p ON p.id = i.product_id
		GROUP BY p.id, p.name, p.category
		ORDER BY total_sold DESC, p.id ASC`, nil, limit)
}

func (sqlDialect) paymentsInRange(t entity.PaymentType, from, to time.Time, limit int) query.Statement {
	return sqlStmt(schema.PaymentsTable, `
		SELECT id AS payment_id, order_id, payment_type, status, paid_at
		FROM payments
		WHERE payment_type = ? AND paid_at >= ? AND paid_at < ?
		ORDER BY paid_at DESC, id ASC`, []any{t.String(), from, to}, limit)
}

func (sqlDialect) spendInWindow(customerID uuid.UUID, from, to time.Time) query.Statement {
	return sqlStmt(schema.OrdersTable, `
		SELECT customer_id, CAST(SUM(total_value) AS DOUBLE PRECISION) AS total_spent
		FROM orders
		WHERE customer_id = ? AND ordered_at >= ? AND ordered_at <= ?
		GROUP BY customer_id`, []any{customerID, from, to}, 0)
}

func (sqlDialect) ordersInWindow(customerID uuid.UUID, from, to time.Time) query.Statement {
	return sqlStmt(schema.OrdersTable, `
		SELECT CAST(total_value AS DOUBLE PRECISION) AS total_value
		FROM orders
		WHERE customer_id = ? AND ordered_at >= ? AND ordered_at <= ?`, []any{customerID, from, to}, 0)
}
