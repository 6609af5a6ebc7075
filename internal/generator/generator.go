// Package generator builds the logical e-commerce dataset.
package generator

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"techmarket/internal/domain/entity"
	"techmarket/internal/errors"

	"github.com/bgadrian/fastfaker/faker"
	"github.com/google/uuid"
)

const (
	defaultMaxAttempts = 16
	checkEvery         = 1000

	registrationSpan = 2 * 365 * 24 * time.Hour
	orderSpan        = 365 * 24 * time.Hour
	paymentSpan      = 180 * 24 * time.Hour
	maxStock         = 1000
)

// Faker is the subset of fastfaker used for human-looking values.
type Faker interface {
	Seed(seed int64)
	Name() string
	Email() string
	Phone() string
	Word() string
	Numerify(str string) string
}

// Option configures a Generator.
type Option func(*Generator)

// WithReference fixes "now" for timestamp generation.
func WithReference(t time.Time) Option {
	return func(g *Generator) {
		g.reference = t.UTC().Truncate(time.Millisecond)
	}
}

// WithMaxAttempts bounds the retries spent finding a unique value.
func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// WithFaker replaces the value source.
func WithFaker(newFaker func() Faker) Option {
	return func(g *Generator) {
		g.newFaker = newFaker
	}
}

// Generator produces datasets. It holds no state between calls.
type Generator struct {
	reference   time.Time
	maxAttempts int
	newFaker    func() Faker
}

// New creates a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{
		reference:   time.Now().UTC().Truncate(time.Hour),
		maxAttempts: defaultMaxAttempts,
		newFaker:    func() Faker { return faker.NewFastFaker() },
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Reference returns the instant timestamps are generated relative to.
func (g *Generator) Reference() time.Time {
	return g.reference
}

// Generate builds a dataset with exactly the requested counts. The same seed,
// counts and reference always produce the same dataset.
func (g *Generator) Generate(ctx context.Context, seed int64, counts entity.Counts) (*entity.Dataset, error) {
	if counts.Customers < 0 || counts.Products < 0 || counts.Orders < 0 {
		return nil, errors.Errorf("negative counts: %+v", counts)
	}
	if counts.Orders > 0 && (counts.Customers == 0 || counts.Products == 0) {
		return nil, errors.Errorf("orders need at least one customer and one product: %+v", counts)
	}

	fake := g.newFaker()
	fake.Seed(seed)

	r := &run{
		gen:  g,
		rng:  rand.New(rand.NewSource(seed)), //nolint:gosec // reproducible data, not secrets
		fake: fake,
	}

	ds := &entity.Dataset{Seed: seed}
	var err error
	if ds.Customers, err = r.customers(ctx, counts.Customers); err != nil {
		return nil, err
	}
	if ds.Products, err = r.products(ctx, counts.Products); err != nil {
		return nil, err
	}
	if ds.Orders, ds.Payments, err = r.orders(ctx, counts.Orders, ds.Customers, ds.Products); err != nil {
		return nil, err
	}

	return ds, nil
}

// run is the state of one Generate call.
type run struct {
	gen  *Generator
	rng  *rand.Rand
	fake Faker
}

func (r *run) id() uuid.UUID {
	// rand.Rand never fails to read.
	return uuid.Must(uuid.NewRandomFromReader(r.rng))
}

func (r *run) before(span time.Duration) time.Time {
	offset := time.Duration(r.rng.Int63n(int64(span)))

	return r.gen.reference.Add(-offset).Truncate(time.Millisecond)
}

func cancelled(ctx context.Context, i int) error {
	if i%checkEvery != 0 {
		return nil
	}

	return errors.WithStack(ctx.Err())
}

func (r *run) customers(ctx context.Context, n int) ([]*entity.Customer, error) {
	emails := newUniquePool("email", r.gen.maxAttempts)
	nationalIDs := newUniquePool("national_id", r.gen.maxAttempts)

	out := make([]*entity.Customer, 0, n)
	for i := range n {
		if err := cancelled(ctx, i); err != nil {
			return nil, err
		}

		email, err := emails.draw(r.email)
		if err != nil {
			return nil, err
		}
		nationalID, err := nationalIDs.draw(r.nationalID)
		if err != nil {
			return nil, err
		}

		out = append(out, &entity.Customer{
			ID:           r.id(),
			Name:         r.fake.Name(),
			Email:        email,
			Phone:        r.fake.Phone(),
			RegisteredAt: r.before(registrationSpan),
			NationalID:   nationalID,
		})
	}

	return out, nil
}

// email returns the faker address on the first attempt and a suffixed variant afterwards.
func (r *run) email(attempt int) string {
	email := strings.ToLower(r.fake.Email())
	if attempt == 0 {
		return email
	}

	local, domain, ok := strings.Cut(email, "@")
	if !ok {
		return email
	}

	return fmt.Sprintf("%s.%s@%s", local, r.fake.Numerify("####"), domain)
}

func (r *run) nationalID(int) string {
	return formatCPF(r.rng)
}

func (r *run) products(ctx context.Context, n int) ([]*entity.Product, error) {
	categories := entity.Categories()
	span := int64(entity.MaxPrice - entity.MinPrice + 1)

	out := make([]*entity.Product, 0, n)
	for i := range n {
		if err := cancelled(ctx, i); err != nil {
			return nil, err
		}

		category := categories[r.rng.Intn(len(categories))]
		out = append(out, &entity.Product{
			ID:       r.id(),
			Name:     r.productName(category),
			Category: category,
			Price:    entity.MinPrice + entity.Money(r.rng.Int63n(span)),
			Stock:    r.rng.Intn(maxStock + 1),
		})
	}

	return out, nil
}

func (r *run) productName(c entity.Category) string {
	nouns := productNouns[c]
	word := r.fake.Word()
	if word != "" {
		word = strings.ToUpper(word[:1]) + word[1:]
	}

	return fmt.Sprintf("%s %s %s", nouns[r.rng.Intn(len(nouns))], word, r.fake.Numerify("##"))
}

func (r *run) orders(
	ctx context.Context,
	n int,
	customers []*entity.Customer,
	products []*entity.Product,
) ([]*entity.Order, []*entity.Payment, error) {
	statuses := entity.OrderStatuses()
	types := entity.PaymentTypes()
	payStatuses := entity.PaymentStatuses()

	orders := make([]*entity.Order, 0, n)
	payments := make([]*entity.Payment, 0, n)
	for i := range n {
		if err := cancelled(ctx, i); err != nil {
			return nil, nil, err
		}

		order := &entity.Order{
			ID:         r.id(),
			CustomerID: customers[r.rng.Intn(len(customers))].ID,
			OrderedAt:  r.before(orderSpan),
			Status:     statuses[r.rng.Intn(len(statuses))],
			Items:      r.lineItems(products),
		}
		order.TotalValue = order.ItemsTotal()

		payment := &entity.Payment{
			ID:      r.id(),
			OrderID: order.ID,
			Type:    types[r.rng.Intn(len(types))],
			Status:  payStatuses[r.rng.Intn(len(payStatuses))],
			PaidAt:  r.before(paymentSpan),
		}

		orders = append(orders, order)
		payments = append(payments, payment)
	}

	return orders, payments, nil
}

// lineItems samples distinct products without replacement.
func (r *run) lineItems(products []*entity.Product) []entity.LineItem {
	k := entity.MinLineItems + r.rng.Intn(entity.MaxLineItems-entity.MinLineItems+1)
	k = min(k, len(products))

	picked := make(map[int]struct{}, k)
	items := make([]entity.LineItem, 0, k)
	for len(items) < k {
		idx := r.rng.Intn(len(products))
		if _, dup := picked[idx]; dup {
			continue
		}
		picked[idx] = struct{}{}

		p := products[idx]
		items = append(items, entity.LineItem{
			ProductID: p.ID,
			Quantity:  entity.MinQuantity + r.rng.Intn(entity.MaxQuantity-entity.MinQuantity+1),
			UnitPrice: p.Price,
		})
	}

	return items
}

var productNouns = map[entity.Category][]string{
	entity.CategoryElectronics: {"Smart TV", "Soundbar", "Caixa de Som", "Projetor"},
	entity.CategoryComputing:   {"Notebook", "Monitor", "SSD", "Roteador"},
	entity.CategoryGames:       {"Console", "Controle", "Jogo", "Headset Gamer"},
	entity.CategoryPhones:      {"Smartphone", "Carregador", "Capa", "Película"},
	entity.CategoryPeripherals: {"Teclado", "Mouse", "Webcam", "Mousepad"},
	entity.CategoryAccessories: {"Cabo USB-C", "Suporte", "Mochila", "Hub"},
	entity.CategoryAppliances:  {"Geladeira", "Micro-ondas", "Air Fryer", "Aspirador"},
	entity.CategorySmartHome:   {"Lâmpada Smart", "Tomada Smart", "Câmera Wi-Fi", "Assistente"},
}
