// Package loader writes a generated dataset into a store.
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"techmarket/internal/domain/entity"
	domainerrors "techmarket/internal/domain/errors"
	"techmarket/internal/domain/store"
	"techmarket/internal/projection"
)

// DefaultBatchSize is the number of entities projected and flushed together.
const DefaultBatchSize = 500

// Progress is notified after each flushed batch with the number of entities written.
type Progress interface {
	Add(n int) error
}

// Option configures a Loader.
type Option func(*Loader)

// WithBatchSize sets how many entities are flushed per batch. 1 writes one entity at a time.
func WithBatchSize(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.batchSize = n
		}
	}
}

// WithProgress attaches a progress sink.
func WithProgress(p Progress) Option {
	return func(l *Loader) {
		l.progress = p
	}
}

// Stats summarises a finished load.
type Stats struct {
	Entities int
	Records  map[string]int
	Duration time.Duration
}

// Loader writes entities in referential order: customers, then products,
// then each order together with its payment.
type Loader struct {
	logger    *slog.Logger
	batchSize int
	progress  Progress
}

// New creates a Loader.
func New(logger *slog.Logger, opts ...Option) *Loader {
	l := &Loader{
		logger:    logger,
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load projects and writes the dataset. The first rejected write aborts the
// load with a WriteFailure naming the table and the entity.
func (l *Loader) Load(ctx context.Context, b entity.Backend, ds *entity.Dataset, st store.Store) (*Stats, error) {
	start := time.Now()
	stats := &Stats{Records: make(map[string]int)}

	customers := make([]item, 0, len(ds.Customers))
	for _, c := range ds.Customers {
		customers = append(customers, item{label: "customer " + c.ID.String(), project: func() ([]store.Write, error) {
			return projection.Project(b, c)
		}})
	}
	products := make([]item, 0, len(ds.Products))
	for _, p := range ds.Products {
		products = append(products, item{label: "product " + p.ID.String(), project: func() ([]store.Write, error) {
			return projection.Project(b, p)
		}})
	}
	orders := make([]item, 0, len(ds.Orders))
	for i, o := range ds.Orders {
		pay := ds.PaymentFor(i)
		orders = append(orders, item{label: "order " + o.ID.String(), project: func() ([]store.Write, error) {
			return projection.ProjectOrder(b, o, pay)
		}})
	}

	for _, phase := range []struct {
		name  string
		items []item
	}{
		{"customers", customers},
		{"products", products},
		{"orders", orders},
	} {
		phaseStart := time.Now()
		if err := l.loadPhase(ctx, b, st, phase.items, stats); err != nil {
			return stats, err
		}
		l.logger.InfoContext(ctx, "Loaded entities",
			slog.String("backend", b.String()),
			slog.String("phase", phase.name),
			slog.Int("count", len(phase.items)),
			slog.Duration("duration", time.Since(phaseStart)),
		)
	}

	stats.Duration = time.Since(start)

	return stats, nil
}

type item struct {
	label   string
	project func() ([]store.Write, error)
}

func (l *Loader) loadPhase(ctx context.Context, b entity.Backend, st store.Store, items []item, stats *Stats) error {
	for start := 0; start < len(items); start += l.batchSize {
		if err := ctx.Err(); err != nil {
			return domainerrors.New(domainerrors.WriteFailure, b.String(), "load", err)
		}

		chunk := items[start:min(start+l.batchSize, len(items))]
		batch := newBatch()
		for _, it := range chunk {
			writes, err := it.project()
			if err != nil {
				return domainerrors.New(domainerrors.WriteFailure, b.String(), "project "+it.label, err)
			}
			batch.add(it.label, writes)
		}

		if err := l.flush(ctx, b, st, batch, stats); err != nil {
			return err
		}
		stats.Entities += len(chunk)

		if l.progress != nil {
			_ = l.progress.Add(len(chunk))
		}
	}

	return nil
}

// flush writes each table's records in the order the tables were first seen,
// which keeps parents ahead of their children.
func (l *Loader) flush(ctx context.Context, b entity.Backend, st store.Store, bt *batch, stats *Stats) error {
	for _, table := range bt.tables {
		group := bt.groups[table]

		var err error
		if len(group.records) == 1 {
			err = st.InsertOne(ctx, table, group.records[0])
		} else {
			err = st.InsertMany(ctx, table, group.records)
		}
		if err != nil {
			op := fmt.Sprintf("insert into %s (%s", table, group.labels[0])
			if n := len(group.labels); n > 1 {
				op += fmt.Sprintf(" and %d more", n-1)
			}

			return domainerrors.New(domainerrors.WriteFailure, b.String(), op+")", err)
		}
		stats.Records[table] += len(group.records)
	}

	return nil
}

type group struct {
	records []store.Record
	labels  []string
}

type batch struct {
	tables []string
	groups map[string]*group
}

func newBatch() *batch {
	return &batch{groups: make(map[string]*group)}
}

func (bt *batch) add(label string, writes []store.Write) {
	for _, w := range writes {
		g, ok := bt.groups[w.Table]
		if !ok {
			g = &group{}
			bt.groups[w.Table] = g
			bt.tables = append(bt.tables, w.Table)
		}
		g.records = append(g.records, w.Record)
		if len(g.labels) == 0 || g.labels[len(g.labels)-1] != label {
			g.labels = append(g.labels, label)
		}
	}
}
