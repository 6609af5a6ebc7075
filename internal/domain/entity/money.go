// Package entity contains the core business objects of the project.
package entity

import (
	"fmt"
	"math"
)

// Money is an amount in integer cents.
type Money int64

// MoneyFromFloat rounds a decimal amount to the nearest cent.
func MoneyFromFloat(v float64) Money {
	return Money(math.Round(v * 100))
}

// Float returns the amount as a decimal value with two fractional digits.
func (m Money) Float() float64 {
	return float64(m) / 100
}

// Mul multiplies the amount by an integer quantity.
func (m Money) Mul(qty int) Money {
	return m * Money(qty)
}

// String renders the amount with two decimals, e.g. "12.30".
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}

	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
