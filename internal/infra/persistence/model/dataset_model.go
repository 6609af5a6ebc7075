package model

import (
	"time"

	"github.com/google/uuid"
)

// CustomerModel is the GORM-specific struct for the 'customers' table.
type CustomerModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_customers_email"`
	Phone        string    `gorm:"type:varchar(64)"`
	RegisteredAt time.Time `gorm:"not null"`
	NationalID   string    `gorm:"type:varchar(14);not null;uniqueIndex:idx_customers_national_id"`
}

// TableName explicitly sets the table name for GORM.
func (CustomerModel) TableName() string {
	return "customers"
}

// ProductModel is the GORM-specific struct for the 'products' table.
type ProductModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name     string    `gorm:"type:varchar(255);not null"`
	Category string    `gorm:"type:varchar(64);not null;index:idx_products_category;index:idx_products_category_price,priority:1"`
	Price    float64   `gorm:"type:decimal(10,2);not null;index:idx_products_price;index:idx_products_category_price,priority:2"`
	Stock    int       `gorm:"not null;default:0"`
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}

// OrderModel is the GORM-specific struct for the 'orders' table.
type OrderModel struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey"`
	CustomerID uuid.UUID      `gorm:"type:uuid;not null;index:idx_orders_customer_id"`
	Customer   *CustomerModel `gorm:"foreignKey:CustomerID;references:ID"`
	OrderedAt  time.Time      `gorm:"not null;index:idx_orders_ordered_at"`
	Status     string         `gorm:"type:varchar(32);not null;index:idx_orders_status"`
	TotalValue float64        `gorm:"type:decimal(10,2);not null"`
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel is the GORM-specific struct for the 'order_items' table.
// A product appears at most once per order.
type OrderItemModel struct {
	OrderID   uuid.UUID     `gorm:"type:uuid;primaryKey"`
	Order     *OrderModel   `gorm:"foreignKey:OrderID;references:ID"`
	ProductID uuid.UUID     `gorm:"type:uuid;primaryKey;index:idx_order_items_product_id"`
	Product   *ProductModel `gorm:"foreignKey:ProductID;references:ID"`
	Quantity  int           `gorm:"not null"`
	UnitPrice float64       `gorm:"type:decimal(10,2);not null"`
}

// TableName explicitly sets the table name for GORM.
func (OrderItemModel) TableName() string {
	return "order_items"
}

// PaymentModel is the GORM-specific struct for the 'payments' table.
// Each order has exactly one payment.
type PaymentModel struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_payments_order_id"`
	Order       *OrderModel `gorm:"foreignKey:OrderID;references:ID"`
	PaymentType string      `gorm:"type:varchar(16);not null;index:idx_payments_type_paid_at,priority:1"`
	Status      string      `gorm:"type:varchar(16);not null"`
	PaidAt      time.Time   `gorm:"not null;index:idx_payments_type_paid_at,priority:2;index:idx_payments_paid_at"`
}

// TableName explicitly sets the table name for GORM.
func (PaymentModel) TableName() string {
	return "payments"
}

// All returns every model in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&CustomerModel{},
		&ProductModel{},
		&OrderModel{},
		&OrderItemModel{},
		&PaymentModel{},
	}
}
