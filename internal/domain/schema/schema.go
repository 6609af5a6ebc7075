// Package schema describes the physical layouts of the non-relational backends.
// Relational tables are described by the GORM models in persistence/model.
package schema

import (
	"fmt"
	"strings"
)

// Wide-column table names.
const (
	CustomersByEmail       = "customers_by_email"
	ProductsByCategory     = "products_by_category"
	OrdersByCustomerStatus = "orders_by_customer_status"
	OrdersByCustomer       = "orders_by_customer"
	OrdersByID             = "orders"
	OrderItemsByOrder      = "order_items_by_order"
	PaymentsByTypeMonth    = "payments_by_type_month"
	PaymentsByID           = "payments"
)

// Document collection names.
const (
	CustomersCollection = "customers"
	ProductsCollection  = "products"
	OrdersCollection    = "orders"
)

// Relational table names.
const (
	CustomersTable  = "customers"
	ProductsTable   = "products"
	OrdersTable     = "orders"
	OrderItemsTable = "order_items"
	PaymentsTable   = "payments"
)

// ColumnType is a wide-column storage type.
type ColumnType string

const (
	TypeText      ColumnType = "text"
	TypeUUID      ColumnType = "uuid"
	TypeTimestamp ColumnType = "timestamp"
	TypeDecimal   ColumnType = "decimal"
	TypeInt       ColumnType = "int"
)

// Column is a typed wide-column column.
type Column struct {
	Name string
	Type ColumnType
}

// Clustering is a clustering column with its order.
type Clustering struct {
	Column string
	Desc   bool
}

// Table is a query-shaped wide-column table.
type Table struct {
	Name         string
	Columns      []Column
	PartitionKey []string
	Clustering   []Clustering
}

// PrimaryKey returns partition columns followed by clustering columns.
func (t Table) PrimaryKey() []string {
	keys := append([]string{}, t.PartitionKey...)
	for _, c := range t.Clustering {
		keys = append(keys, c.Column)
	}

	return keys
}

// ColumnType returns the declared type of the column.
func (t Table) ColumnType(name string) (ColumnType, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c.Type, true
		}
	}

	return "", false
}

// CreateCQL renders the CREATE TABLE statement inside keyspace.
func (t Table) CreateCQL(keyspace string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s.%s (", keyspace, t.Name)
	for _, c := range t.Columns {
		fmt.Fprintf(&b, "%s %s, ", c.Name, c.Type)
	}

	partition := strings.Join(t.PartitionKey, ", ")
	if len(t.PartitionKey) > 1 {
		partition = "(" + partition + ")"
	}
	pk := []string{partition}
	for _, c := range t.Clustering {
		pk = append(pk, c.Column)
	}
	fmt.Fprintf(&b, "PRIMARY KEY (%s))", strings.Join(pk, ", "))

	if len(t.Clustering) > 0 {
		order := make([]string, 0, len(t.Clustering))
		for _, c := range t.Clustering {
			dir := "ASC"
			if c.Desc {
				dir = "DESC"
			}
			order = append(order, c.Column+" "+dir)
		}
		fmt.Fprintf(&b, " WITH CLUSTERING ORDER BY (%s)", strings.Join(order, ", "))
	}

	return b.String()
}

var wideColumnTables = []Table{
	{
		Name: CustomersByEmail,
		Columns: []Column{
			{"email", TypeText},
			{"customer_id", TypeUUID},
			{"name", TypeText},
			{"phone", TypeText},
			{"registered_at", TypeTimestamp},
			{"national_id", TypeText},
		},
		PartitionKey: []string{"email"},
	},
	{
		Name: ProductsByCategory,
		Columns: []Column{
			{"category", TypeText},
			{"price", TypeDecimal},
			{"product_id", TypeUUID},
			{"name", TypeText},
			{"stock", TypeInt},
		},
		PartitionKey: []string{"category"},
		Clustering:   []Clustering{{Column: "price"}, {Column: "product_id"}},
	},
	{
		Name: OrdersByCustomerStatus,
		Columns: []Column{
			{"customer_id", TypeUUID},
			{"status", TypeText},
			{"ordered_at", TypeTimestamp},
			{"order_id", TypeUUID},
			{"total_value", TypeDecimal},
		},
		PartitionKey: []string{"customer_id", "status"},
		Clustering:   []Clustering{{Column: "ordered_at", Desc: true}, {Column: "order_id"}},
	},
	{
		Name: OrdersByCustomer,
		Columns: []Column{
			{"customer_id", TypeUUID},
			{"ordered_at", TypeTimestamp},
			{"order_id", TypeUUID},
			{"status", TypeText},
			{"total_value", TypeDecimal},
		},
		PartitionKey: []string{"customer_id"},
		Clustering:   []Clustering{{Column: "ordered_at", Desc: true}, {Column: "order_id"}},
	},
	{
		Name: OrdersByID,
		Columns: []Column{
			{"order_id", TypeUUID},
			{"customer_id", TypeUUID},
			{"ordered_at", TypeTimestamp},
			{"status", TypeText},
			{"total_value", TypeDecimal},
		},
		PartitionKey: []string{"order_id"},
	},
	{
		Name: OrderItemsByOrder,
		Columns: []Column{
			{"order_id", TypeUUID},
			{"product_id", TypeUUID},
			{"quantity", TypeInt},
			{"unit_price", TypeDecimal},
		},
		PartitionKey: []string{"order_id"},
		Clustering:   []Clustering{{Column: "product_id"}},
	},
	{
		Name: PaymentsByTypeMonth,
		Columns: []Column{
			{"payment_type", TypeText},
			{"year_month", TypeText},
			{"paid_at", TypeTimestamp},
			{"payment_id", TypeUUID},
			{"order_id", TypeUUID},
			{"status", TypeText},
		},
		PartitionKey: []string{"payment_type", "year_month"},
		Clustering:   []Clustering{{Column: "paid_at", Desc: true}, {Column: "payment_id"}},
	},
	{
		Name: PaymentsByID,
		Columns: []Column{
			{"payment_id", TypeUUID},
			{"order_id", TypeUUID},
			{"payment_type", TypeText},
			{"status", TypeText},
			{"paid_at", TypeTimestamp},
		},
		PartitionKey: []string{"payment_id"},
	},
}

// WideColumnTables returns every wide-column table in creation order.
func WideColumnTables() []Table {
	return wideColumnTables
}

// WideColumnTable looks up a table by name.
func WideColumnTable(name string) (Table, bool) {
	for _, t := range wideColumnTables {
		if t.Name == name {
			return t, true
		}
	}

	return Table{}, false
}

// IndexKey is one field of a document index.
type IndexKey struct {
	Field string
	Desc  bool
}

// Index is a secondary index on a document collection.
type Index struct {
	Collection string
	Keys       []IndexKey
	Unique     bool
}

// Name derives the index name from its keys, e.g. "category_1_price_1".
func (i Index) Name() string {
	parts := make([]string, 0, len(i.Keys))
	for _, k := range i.Keys {
		dir := "1"
		if k.Desc {
			dir = "-1"
		}
		parts = append(parts, k.Field+"_"+dir)
	}

	return strings.Join(parts, "_")
}

var documentIndexes = []Index{
	{Collection: CustomersCollection, Keys: []IndexKey{{Field: "email"}}, Unique: true},
	{Collection: CustomersCollection, Keys: []IndexKey{{Field: "national_id"}}, Unique: true},
	{Collection: ProductsCollection, Keys: []IndexKey{{Field: "category"}}},
	{Collection: ProductsCollection, Keys: []IndexKey{{Field: "price"}}},
	{Collection: ProductsCollection, Keys: []IndexKey{{Field: "category"}, {Field: "price"}}},
	{Collection: OrdersCollection, Keys: []IndexKey{{Field: "customer_id"}}},
	{Collection: OrdersCollection, Keys: []IndexKey{{Field: "customer_id"}, {Field: "status"}}},
	{Collection: OrdersCollection, Keys: []IndexKey{{Field: "customer_id"}, {Field: "ordered_at", Desc: true}}},
	{Collection: OrdersCollection, Keys: []IndexKey{{Field: "payment.type"}, {Field: "payment.paid_at", Desc: true}}},
}

// DocumentIndexes returns every document index in creation order.
func DocumentIndexes() []Index {
	return documentIndexes
}

// DocumentCollections returns every document collection.
func DocumentCollections() []string {
	return []string{CustomersCollection, ProductsCollection, OrdersCollection}
}
