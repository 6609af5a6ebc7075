package entity

import (
	"time"

	"github.com/google/uuid"
)

// PaymentType is the method used to pay an order.
type PaymentType string

const (
	PaymentTypeCard   PaymentType = "card"
	PaymentTypePix    PaymentType = "pix"
	PaymentTypeBoleto PaymentType = "boleto"
)

// PaymentTypes lists every payment type in a stable order.
func PaymentTypes() []PaymentType {
	return []PaymentType{PaymentTypeCard, PaymentTypePix, PaymentTypeBoleto}
}

// String returns the string representation of the PaymentType.
func (t PaymentType) String() string {
	return string(t)
}

// PaymentStatus is the settlement state of a payment.
type PaymentStatus string

const (
	PaymentStatusApproved PaymentStatus = "approved"
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusDeclined PaymentStatus = "declined"
)

// PaymentStatuses lists every payment status in a stable order.
func PaymentStatuses() []PaymentStatus {
	return []PaymentStatus{PaymentStatusApproved, PaymentStatusPending, PaymentStatusDeclined}
}

// String returns the string representation of the PaymentStatus.
func (s PaymentStatus) String() string {
	return string(s)
}

// Payment settles exactly one order.
type Payment struct {
	ID      uuid.UUID
	OrderID uuid.UUID
	Type    PaymentType
	Status  PaymentStatus
	PaidAt  time.Time
}

// YearMonth returns the "YYYY-MM" bucket of the payment time.
func (p *Payment) YearMonth() string {
	return YearMonth(p.PaidAt)
}

// YearMonth formats t as "YYYY-MM" in UTC.
func YearMonth(t time.Time) string {
	return t.UTC().Format("2006-01")
}
