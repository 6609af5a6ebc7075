// Package projection maps logical entities onto the physical shape of each backend.
// Every function here is pure: the same input always yields the same writes.
package projection

import (
	"techmarket/internal/domain/entity"
	"techmarket/internal/domain/schema"
	"techmarket/internal/domain/store"
	"techmarket/internal/errors"
)

var (
	// ErrUnknownBackend is returned for a backend without projection rules.
	ErrUnknownBackend = errors.New("no projection rules for backend")
	// ErrUnsupportedEntity is returned for values that are not projectable entities.
	ErrUnsupportedEntity = errors.New("unsupported entity")
	// ErrEmbeddedPayment is returned when a payment is projected alone onto a
	// backend that embeds it in its order.
	ErrEmbeddedPayment = errors.New("document payments are embedded; use ProjectOrder")
)

// Project returns the writes for one entity on one backend.
func Project(b entity.Backend, e any) ([]store.Write, error) {
	switch v := e.(type) {
	case *entity.Customer:
		return customer(b, v)
	case *entity.Product:
		return product(b, v)
	case *entity.Order:
		return order(b, v, nil)
	case *entity.Payment:
		return payment(b, v)
	default:
		return nil, errors.Wrapf(ErrUnsupportedEntity, "%T", e)
	}
}

// ProjectOrder returns the writes for an order together with its payment, in
// referential order: the order's records always precede the payment's.
func ProjectOrder(b entity.Backend, o *entity.Order, p *entity.Payment) ([]store.Write, error) {
	if b == entity.BackendDocument {
		return order(b, o, p)
	}

	writes, err := order(b, o, nil)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return writes, nil
	}
	pw, err := payment(b, p)
	if err != nil {
		return nil, err
	}

	return append(writes, pw...), nil
}

func write(table string, key []string, rec store.Record) store.Write {
	return store.Write{Table: table, Key: key, Record: rec}
}

func customer(b entity.Backend, c *entity.Customer) ([]store.Write, error) {
	switch b {
	case entity.BackendWideColumn:
		return []store.Write{write(schema.CustomersByEmail, []string{"email"}, store.Record{
			"email":         c.Email,
			"customer_id":   c.ID,
			"name":          c.Name,
			"phone":         c.Phone,
			"registered_at": c.RegisteredAt,
			"national_id":   c.NationalID,
		})}, nil
	case entity.BackendDocument:
		return []store.Write{write(schema.CustomersCollection, []string{"_id"}, store.Record{
			"_id":           c.ID,
			"name":          c.Name,
			"email":         c.Email,
			"phone":         c.Phone,
			"registered_at": c.RegisteredAt,
			"national_id":   c.NationalID,
		})}, nil
	case entity.BackendRelational:
		return []store.Write{write(schema.CustomersTable, []string{"id"}, store.Record{
			"id":            c.ID,
			"name":          c.Name,
			"email":         c.Email,
			"phone":         c.Phone,
			"registered_at": c.RegisteredAt,
			"national_id":   c.NationalID,
		})}, nil
	}

	return nil, errors.Wrap(ErrUnknownBackend, b.String())
}

func product(b entity.Backend, p *entity.Product) ([]store.Write, error) {
	switch b {
	case entity.BackendWideColumn:
		return []store.Write{write(schema.ProductsByCategory, []string{"category", "price", "product_id"}, store.Record{
			"category":   p.Category.String(),
			"price":      p.Price.Float(),
			"product_id": p.ID,
			"name":       p.Name,
			"stock":      p.Stock,
		})}, nil
	case entity.BackendDocument:
		return []store.Write{write(schema.ProductsCollection, []string{"_id"}, store.Record{
			"_id":      p.ID,
			"name":     p.Name,
			"category": p.Category.String(),
			"price":    p.Price.Float(),
			"stock":    p.Stock,
		})}, nil
	case entity.BackendRelational:
		return []store.Write{write(schema.ProductsTable, []string{"id"}, store.Record{
			"id":       p.ID,
			"name":     p.Name,
			"category": p.Category.String(),
			"price":    p.Price.Float(),
			"stock":    p.Stock,
		})}, nil
	}

	return nil, errors.Wrap(ErrUnknownBackend, b.String())
}

func order(b entity.Backend, o *entity.Order, p *entity.Payment) ([]store.Write, error) {
	switch b {
	case entity.BackendWideColumn:
		return wideColumnOrder(o), nil
	case entity.BackendDocument:
		return []store.Write{documentOrder(o, p)}, nil
	case entity.BackendRelational:
		return relationalOrder(o), nil
	}

	return nil, errors.Wrap(ErrUnknownBackend, b.String())
}

func wideColumnOrder(o *entity.Order) []store.Write {
	total := o.TotalValue.Float()
	writes := []store.Write{
		write(schema.OrdersByCustomerStatus, []string{"customer_id", "status", "ordered_at", "order_id"}, store.Record{
			"customer_id": o.CustomerID,
			"status":      o.Status.String(),
			"ordered_at":  o.OrderedAt,
			"order_id":    o.ID,
			"total_value": total,
		}),
		write(schema.OrdersByCustomer, []string{"customer_id", "ordered_at", "order_id"}, store.Record{
			"customer_id": o.CustomerID,
			"ordered_at":  o.OrderedAt,
			"order_id":    o.ID,
			"status":      o.Status.String(),
			"total_value": total,
		}),
		write(schema.OrdersByID, []string{"order_id"}, store.Record{
			"order_id":    o.ID,
			"customer_id": o.CustomerID,
			"ordered_at":  o.OrderedAt,
			"status":      o.Status.String(),
			"total_value": total,
		}),
	}
	for _, li := range o.Items {
		writes = append(writes, write(schema.OrderItemsByOrder, []string{"order_id", "product_id"}, store.Record{
			"order_id":   o.ID,
			"product_id": li.ProductID,
			"quantity":   li.Quantity,
			"unit_price": li.UnitPrice.Float(),
		}))
	}

	return writes
}

func documentOrder(o *entity.Order, p *entity.Payment) store.Write {
	items := make([]any, 0, len(o.Items))
	for _, li := range o.Items {
		items = append(items, map[string]any{
			"product_id": li.ProductID,
			"quantity":   li.Quantity,
			"unit_price": li.UnitPrice.Float(),
		})
	}

	rec := store.Record{
		"_id":         o.ID,
		"customer_id": o.CustomerID,
		"ordered_at":  o.OrderedAt,
		"status":      o.Status.String(),
		"total_value": o.TotalValue.Float(),
		"items":       items,
	}
	if p != nil {
		rec["payment"] = map[string]any{
			"payment_id": p.ID,
			"type":       p.Type.String(),
			"status":     p.Status.String(),
			"paid_at":    p.PaidAt,
		}
	}

	return write(schema.OrdersCollection, []string{"_id"}, rec)
}

func relationalOrder(o *entity.Order) []store.Write {
	writes := []store.Write{
		write(schema.OrdersTable, []string{"id"}, store.Record{
			"id":          o.ID,
			"customer_id": o.CustomerID,
			"ordered_at":  o.OrderedAt,
			"status":      o.Status.String(),
			"total_value": o.TotalValue.Float(),
		}),
	}
	for _, li := range o.Items {
		writes = append(writes, write(schema.OrderItemsTable, []string{"order_id", "product_id"}, store.Record{
			"order_id":   o.ID,
			"product_id": li.ProductID,
			"quantity":   li.Quantity,
			"unit_price": li.UnitPrice.Float(),
		}))
	}

	return writes
}

func payment(b entity.Backend, p *entity.Payment) ([]store.Write, error) {
	switch b {
	case entity.BackendWideColumn:
		return []store.Write{
			write(schema.PaymentsByTypeMonth, []string{"payment_type", "year_month", "paid_at", "payment_id"}, store.Record{
				"payment_type": p.Type.String(),
				"year_month":   p.YearMonth(),
				"paid_at":      p.PaidAt,
				"payment_id":   p.ID,
				"order_id":     p.OrderID,
				"status":       p.Status.String(),
			}),
			write(schema.PaymentsByID, []string{"payment_id"}, store.Record{
				"payment_id":   p.ID,
				"order_id":     p.OrderID,
				"payment_type": p.Type.String(),
				"status":       p.Status.String(),
				"paid_at":      p.PaidAt,
			}),
		}, nil
	case entity.BackendDocument:
		return nil, ErrEmbeddedPayment
	case entity.BackendRelational:
		return []store.Write{write(schema.PaymentsTable, []string{"id"}, store.Record{
			"id":           p.ID,
			"order_id":     p.OrderID,
			"payment_type": p.Type.String(),
			"status":       p.Status.String(),
			"paid_at":      p.PaidAt,
		})}, nil
	}

	return nil, errors.Wrap(ErrUnknownBackend, b.String())
}
