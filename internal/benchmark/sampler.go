package benchmark

import (
	"math/rand"

	"techmarket/internal/domain/entity"
	"techmarket/internal/domain/query"
)

// SampleParams picks the inputs of every question from the logical dataset so
// each question has something to find. The same dataset and seed always give
// the same params; all backends share them.
func SampleParams(ds *entity.Dataset, seed int64, resultLimit int) query.Params {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // reproducible sampling
	p := query.Params{
		Status:      entity.OrderStatusDelivered,
		ResultLimit: resultLimit,
		PaymentType: entity.PaymentTypePix,
	}

	customers := ds.CustomerByID()

	// Q1: a customer that placed at least one order.
	if len(ds.Orders) > 0 {
		o := ds.Orders[rng.Intn(len(ds.Orders))]
		if c, ok := customers[o.CustomerID]; ok {
			p.Email = c.Email
		}
	} else if len(ds.Customers) > 0 {
		p.Email = ds.Customers[rng.Intn(len(ds.Customers))].Email
	}

	// Q2: the category of a random product.
	if len(ds.Products) > 0 {
		p.Category = ds.Products[rng.Intn(len(ds.Products))].Category
	} else {
		p.Category = entity.Categories()[0]
	}

	// Q3: the customer of a random delivered order.
	delivered := make([]*entity.Order, 0)
	for _, o := range ds.Orders {
		if o.Status == entity.OrderStatusDelivered {
			delivered = append(delivered, o)
		}
	}
	switch {
	case len(delivered) > 0:
		p.CustomerID = delivered[rng.Intn(len(delivered))].CustomerID
	case len(ds.Customers) > 0:
		p.CustomerID = ds.Customers[rng.Intn(len(ds.Customers))].ID
	}

	// Q5: the month of a random pix payment, or of any payment when there is none.
	pix := make([]*entity.Payment, 0)
	for _, pay := range ds.Payments {
		if pay.Type == entity.PaymentTypePix {
			pix = append(pix, pay)
		}
	}
	pool := pix
	if len(pool) == 0 {
		pool = ds.Payments
	}
	if len(pool) > 0 {
		pay := pool[rng.Intn(len(pool))]
		p.PaymentType = pay.Type
		p.Month = pay.PaidAt
	}

	// Q6: the 90 days up to and including a random order.
	if len(ds.Orders) > 0 {
		o := ds.Orders[rng.Intn(len(ds.Orders))]
		p.SpendCustomerID = o.CustomerID
		p.WindowEnd = o.OrderedAt
		p.WindowStart = o.OrderedAt.Add(-query.SpendWindow)
	}

	return p
}
