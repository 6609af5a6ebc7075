package entity

import (
	"slices"

	"github.com/google/uuid"
)

// Category is one of the fixed product departments.
type Category string

const (
	CategoryElectronics Category = "Eletrônicos"
	CategoryComputing   Category = "Informática"
	CategoryGames       Category = "Games"
	CategoryPhones      Category = "Celulares"
	CategoryPeripherals Category = "Periféricos"
	CategoryAccessories Category = "Acessórios"
	CategoryAppliances  Category = "Eletrodomésticos"
	CategorySmartHome   Category = "Casa Inteligente"
)

// Categories lists every category in a stable order.
func Categories() []Category {
	return []Category{
		CategoryElectronics,
		CategoryComputing,
		CategoryGames,
		CategoryPhones,
		CategoryPeripherals,
		CategoryAccessories,
		CategoryAppliances,
		CategorySmartHome,
	}
}

// String returns the string representation of the Category.
func (c Category) String() string {
	return string(c)
}

// IsValid checks if the Category is one of the fixed values.
func (c Category) IsValid() bool {
	return slices.Contains(Categories(), c)
}

// Price bounds, inclusive.
const (
	MinPrice Money = 10_00
	MaxPrice Money = 5000_00
)

// Product is an item for sale.
type Product struct {
	ID       uuid.UUID
	Name     string
	Category Category
	Price    Money
	Stock    int
}
