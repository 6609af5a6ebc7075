package entity

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a buyer registered in the store.
type Customer struct {
	ID           uuid.UUID
	Name         string
	Email        string // unique across the dataset
	Phone        string
	RegisteredAt time.Time
	NationalID   string // unique across the dataset
}
