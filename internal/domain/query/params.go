package query

import (
	"time"

	"techmarket/internal/domain/entity"

	"github.com/google/uuid"
)

// Default limits.
const (
	RecentOrdersLimit = 3
	TopSellersLimit   = 5
	SpendWindow       = 90 * 24 * time.Hour
)

// Params are the inputs shared by every backend for one benchmark session.
type Params struct {
	// Q1
	Email string
	// Q2
	Category entity.Category
	// Q3
	CustomerID uuid.UUID
	Status     entity.OrderStatus
	// Q5
	PaymentType entity.PaymentType
	Month       time.Time
	// Q6
	SpendCustomerID uuid.UUID
	WindowStart     time.Time
	WindowEnd       time.Time

	// ResultLimit caps Q2, Q3 and Q5; zero means unbounded.
	ResultLimit int
}

// MonthRange returns the half-open [start, next) interval of Params.Month.
func (p Params) MonthRange() (time.Time, time.Time) {
	m := p.Month.UTC()
	start := time.Date(m.Year(), m.Month(), 1, 0, 0, 0, 0, time.UTC)

	return start, start.AddDate(0, 1, 0)
}
