package generator

import (
	"context"
	"testing"
	"time"

	"techmarket/internal/domain/entity"
	domainerrors "techmarket/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testReference = time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

func newTestGenerator(opts ...Option) *Generator {
	return New(append([]Option{WithReference(testReference)}, opts...)...)
}

func TestGenerate_ExactCounts(t *testing.T) {
	counts := entity.Counts{Customers: 100, Products: 50, Orders: 200}

	ds, err := newTestGenerator().Generate(context.Background(), 42, counts)
	require.NoError(t, err)

	assert.Equal(t, counts, ds.Counts())
	assert.Len(t, ds.Payments, counts.Orders)
	assert.Equal(t, int64(42), ds.Seed)
}

func TestGenerate_SameSeedSameDataset(t *testing.T) {
	counts := entity.Counts{Customers: 30, Products: 20, Orders: 60}
	g := newTestGenerator()

	a, err := g.Generate(context.Background(), 7, counts)
	require.NoError(t, err)
	b, err := g.Generate(context.Background(), 7, counts)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := g.Generate(context.Background(), 8, counts)
	require.NoError(t, err)
	assert.NotEqual(t, a.Customers[0].ID, c.Customers[0].ID)
}

func TestGenerate_TimestampsBeforeReference(t *testing.T) {
	ds, err := newTestGenerator().Generate(context.Background(), 3, entity.Counts{Customers: 20, Products: 10, Orders: 40})
	require.NoError(t, err)

	for _, c := range ds.Customers {
		assert.False(t, c.RegisteredAt.After(testReference))
		assert.Equal(t, c.RegisteredAt, c.RegisteredAt.Truncate(time.Millisecond))
		assert.Equal(t, time.UTC, c.RegisteredAt.Location())
	}
	for i, o := range ds.Orders {
		assert.False(t, o.OrderedAt.After(testReference))
		assert.True(t, o.OrderedAt.After(testReference.Add(-orderSpan-time.Millisecond)))
		assert.False(t, ds.Payments[i].PaidAt.After(testReference))
	}
}

func TestGenerate_RejectsOrdersWithoutParents(t *testing.T) {
	_, err := newTestGenerator().Generate(context.Background(), 1, entity.Counts{Products: 5, Orders: 3})
	require.Error(t, err)

	_, err = newTestGenerator().Generate(context.Background(), 1, entity.Counts{Customers: -1})
	require.Error(t, err)
}

func TestGenerate_HonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestGenerator().Generate(ctx, 1, entity.Counts{Customers: 10})
	require.ErrorIs(t, err, context.Canceled)
}

func TestGenerate_LineItemsCappedByProducts(t *testing.T) {
	ds, err := newTestGenerator().Generate(context.Background(), 11, entity.Counts{Customers: 5, Products: 2, Orders: 50})
	require.NoError(t, err)

	for _, o := range ds.Orders {
		assert.LessOrEqual(t, len(o.Items), 2)
		assert.GreaterOrEqual(t, len(o.Items), 1)
	}
}

// constantFaker always returns the same address, so every customer after the
// second collides.
type constantFaker struct{}

func (constantFaker) Seed(int64)             {}
func (constantFaker) Name() string           { return "Ana Souza" }
func (constantFaker) Email() string          { return "ana@example.com" }
func (constantFaker) Phone() string          { return "11 99999-0000" }
func (constantFaker) Word() string           { return "x" }
func (constantFaker) Numerify(string) string { return "0000" }

func TestGenerate_UniquenessExhaustion(t *testing.T) {
	g := newTestGenerator(
		WithMaxAttempts(4),
		WithFaker(func() Faker { return constantFaker{} }),
	)

	_, err := g.Generate(context.Background(), 1, entity.Counts{Customers: 3})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrUniquenessExhausted)
	kind, ok := domainerrors.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, domainerrors.UniquenessExhaustion, kind)
}

func TestFormatCPF_CheckDigits(t *testing.T) {
	// 529.982.247-25 is a well-known valid CPF.
	assert.Equal(t, 2, cpfDigit([]int{5, 2, 9, 9, 8, 2, 2, 4, 7}))
	assert.Equal(t, 5, cpfDigit([]int{5, 2, 9, 9, 8, 2, 2, 4, 7, 2}))
}

func TestProperty_DatasetIntegrity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 25
	properties := gopter.NewProperties(parameters)
	g := newTestGenerator()

	generate := func(seed int64, customers, products, orders int) *entity.Dataset {
		ds, err := g.Generate(context.Background(), seed, entity.Counts{
			Customers: customers, Products: products, Orders: orders,
		})
		if err != nil {
			t.Logf("generate: %v", err)

			return nil
		}

		return ds
	}

	properties.Property("every foreign key resolves", prop.ForAll(
		func(seed int64, customers, products, orders int) bool {
			ds := generate(seed, customers, products, orders)
			if ds == nil {
				return false
			}
			custIDs := make(map[uuid.UUID]struct{}, len(ds.Customers))
			for _, c := range ds.Customers {
				custIDs[c.ID] = struct{}{}
			}
			prodIDs := make(map[uuid.UUID]*entity.Product, len(ds.Products))
			for _, p := range ds.Products {
				prodIDs[p.ID] = p
			}
			for _, o := range ds.Orders {
				if _, ok := custIDs[o.CustomerID]; !ok {
					return false
				}
				for _, it := range o.Items {
					p, ok := prodIDs[it.ProductID]
					if !ok || p.Price != it.UnitPrice {
						return false
					}
				}
			}

			return true
		},
		gen.Int64(), gen.IntRange(1, 40), gen.IntRange(1, 20), gen.IntRange(0, 80),
	))

	properties.Property("emails and national IDs are unique", prop.ForAll(
		func(seed int64, customers int) bool {
			ds := generate(seed, customers, 0, 0)
			if ds == nil {
				return false
			}
			emails := make(map[string]struct{}, customers)
			nationalIDs := make(map[string]struct{}, customers)
			for _, c := range ds.Customers {
				emails[c.Email] = struct{}{}
				nationalIDs[c.NationalID] = struct{}{}
			}

			return len(emails) == customers && len(nationalIDs) == customers
		},
		gen.Int64(), gen.IntRange(1, 300),
	))

	properties.Property("exactly one payment settles each order", prop.ForAll(
		func(seed int64, orders int) bool {
			ds := generate(seed, 5, 5, orders)
			if ds == nil || len(ds.Payments) != len(ds.Orders) {
				return false
			}
			seen := make(map[uuid.UUID]int, orders)
			for i, p := range ds.Payments {
				if p.OrderID != ds.Orders[i].ID {
					return false
				}
				seen[p.OrderID]++
			}
			for _, n := range seen {
				if n != 1 {
					return false
				}
			}

			return len(seen) == orders
		},
		gen.Int64(), gen.IntRange(0, 100),
	))

	properties.Property("orders respect item, quantity and total bounds", prop.ForAll(
		func(seed int64) bool {
			ds := generate(seed, 10, 15, 50)
			if ds == nil {
				return false
			}
			for _, o := range ds.Orders {
				if len(o.Items) < entity.MinLineItems || len(o.Items) > entity.MaxLineItems {
					return false
				}
				distinct := make(map[uuid.UUID]struct{}, len(o.Items))
				for _, it := range o.Items {
					if it.Quantity < entity.MinQuantity || it.Quantity > entity.MaxQuantity {
						return false
					}
					distinct[it.ProductID] = struct{}{}
				}
				if len(distinct) != len(o.Items) || o.TotalValue != o.ItemsTotal() || o.TotalValue <= 0 {
					return false
				}
			}

			return true
		},
		gen.Int64(),
	))

	properties.Property("products stay within price and stock bounds", prop.ForAll(
		func(seed int64) bool {
			ds := generate(seed, 0, 60, 0)
			if ds == nil {
				return false
			}
			valid := make(map[entity.Category]struct{})
			for _, c := range entity.Categories() {
				valid[c] = struct{}{}
			}
			for _, p := range ds.Products {
				if p.Price < entity.MinPrice || p.Price > entity.MaxPrice || p.Stock < 0 {
					return false
				}
				if _, ok := valid[p.Category]; !ok {
					return false
				}
			}

			return true
		},
		gen.Int64(),
	))

	properties.TestingRun(t)
}
