// Package query holds the backend-neutral description of benchmark questions
// and the statements that answer them.
package query

import (
	"strings"

	"techmarket/internal/errors"
)

// Question identifies one of the six benchmark questions.
type Question string

const (
	Q1 Question = "Q1"
	Q2 Question = "Q2"
	Q3 Question = "Q3"
	Q4 Question = "Q4"
	Q5 Question = "Q5"
	Q6 Question = "Q6"
)

var titles = map[Question]string{
	Q1: "customer by email with 3 most recent orders",
	Q2: "products in category by ascending price",
	Q3: "delivered orders of a customer",
	Q4: "top 5 best-selling products",
	Q5: "payments of a type in a calendar month",
	Q6: "customer spend in a 90-day window",
}

// Questions lists every question in report order.
func Questions() []Question {
	return []Question{Q1, Q2, Q3, Q4, Q5, Q6}
}

// Title is the human-readable description used in reports.
func (q Question) Title() string {
	return titles[q]
}

// ParseQuestion is case-insensitive.
func ParseQuestion(s string) (Question, error) {
	q := Question(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := titles[q]; !ok {
		return "", errors.Errorf("unknown question %q", s)
	}

	return q, nil
}
