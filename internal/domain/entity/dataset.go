package entity

import "github.com/google/uuid"

// Counts is the requested size of a dataset.
type Counts struct {
	Customers int
	Products  int
	Orders    int
}

// Dataset is one immutable generated universe of entities.
// Payments[i] settles Orders[i].
type Dataset struct {
	Seed      int64
	Customers []*Customer
	Products  []*Product
	Orders    []*Order
	Payments  []*Payment
}

// Counts reports the size of the dataset.
func (d *Dataset) Counts() Counts {
	return Counts{
		Customers: len(d.Customers),
		Products:  len(d.Products),
		Orders:    len(d.Orders),
	}
}

// CustomerByID builds a lookup of customers by ID.
func (d *Dataset) CustomerByID() map[uuid.UUID]*Customer {
	idx := make(map[uuid.UUID]*Customer, len(d.Customers))
	for _, c := range d.Customers {
		idx[c.ID] = c
	}

	return idx
}

// PaymentFor returns the payment settling the i-th order.
func (d *Dataset) PaymentFor(i int) *Payment {
	if i < 0 || i >= len(d.Payments) {
		return nil
	}

	return d.Payments[i]
}
