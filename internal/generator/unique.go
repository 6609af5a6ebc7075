package generator

import (
	"fmt"
	"math/rand"

	domainerrors "techmarket/internal/domain/errors"
	"techmarket/internal/errors"
)

// uniquePool hands out values that were never handed out before.
type uniquePool struct {
	field       string
	maxAttempts int
	seen        map[string]struct{}
}

func newUniquePool(field string, maxAttempts int) *uniquePool {
	return &uniquePool{
		field:       field,
		maxAttempts: maxAttempts,
		seen:        make(map[string]struct{}),
	}
}

// draw calls next with increasing attempt numbers until it yields an unseen value.
func (p *uniquePool) draw(next func(attempt int) string) (string, error) {
	for attempt := range p.maxAttempts {
		v := next(attempt)
		if _, dup := p.seen[v]; dup {
			continue
		}
		p.seen[v] = struct{}{}

		return v, nil
	}

	return "", domainerrors.New(domainerrors.UniquenessExhaustion, "", "generate "+p.field,
		errors.Errorf("no unique value after %d attempts (%d issued)", p.maxAttempts, len(p.seen)))
}

// formatCPF returns a Brazilian taxpayer number "ddd.ddd.ddd-dd" with valid check digits.
func formatCPF(rng *rand.Rand) string {
	var d [11]int
	for i := range 9 {
		d[i] = rng.Intn(10)
	}
	d[9] = cpfDigit(d[:9])
	d[10] = cpfDigit(d[:10])

	return fmt.Sprintf("%d%d%d.%d%d%d.%d%d%d-%d%d",
		d[0], d[1], d[2], d[3], d[4], d[5], d[6], d[7], d[8], d[9], d[10])
}

func cpfDigit(digits []int) int {
	sum := 0
	weight := len(digits) + 1
	for _, v := range digits {
		sum += v * weight
		weight--
	}
	rem := sum % 11
	if rem < 2 {
		return 0
	}

	return 11 - rem
}
