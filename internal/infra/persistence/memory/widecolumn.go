package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"techmarket/internal/domain/entity"
	"techmarket/internal/domain/query"
	"techmarket/internal/domain/schema"
	"techmarket/internal/domain/store"
	"techmarket/internal/errors"

	"github.com/spaolacci/murmur3"
)

var (
	// ErrUnconfiguredTable is returned for tables that do not exist yet.
	ErrUnconfiguredTable = errors.New("unconfigured table")
	// ErrIncompletePartitionKey is returned when a read or write does not fix every partition column.
	ErrIncompletePartitionKey = errors.New("partition key must be fully specified")
	// ErrInvalidRange is returned for a range that is not on the first clustering column.
	ErrInvalidRange = errors.New("range restriction only allowed on the first clustering column")
	// ErrUnboundedScan is returned for a full scan without a limit.
	ErrUnboundedScan = errors.New("full scan requires a limit")
)

// WideColumn is an in-process wide-column engine. Rows live in partitions
// addressed by the full partition key and are kept in clustering order; full
// scans walk partitions in murmur3 token order.
type WideColumn struct {
	mu     sync.RWMutex
	tables map[string]*wcTable
}

type wcTable struct {
	def        schema.Table
	partitions map[string]*partition
}

type partition struct {
	token int64
	rows  []store.Record
}

// NewWideColumn creates an empty engine.
func NewWideColumn() *WideColumn {
	return &WideColumn{tables: make(map[string]*wcTable)}
}

// WideColumnConnector hands out sessions on a shared engine, so data outlives
// individual connections the way it would on a server.
type WideColumnConnector struct {
	engine *WideColumn
}

// NewWideColumnConnector creates a connector over engine.
func NewWideColumnConnector(engine *WideColumn) *WideColumnConnector {
	return &WideColumnConnector{engine: engine}
}

func (c *WideColumnConnector) Backend() entity.Backend { return entity.BackendWideColumn }

func (c *WideColumnConnector) Driver() string { return Driver }

func (c *WideColumnConnector) Connect(context.Context) (store.Store, error) {
	return c.engine, nil
}

// CreateSchema creates every missing table.
func (w *WideColumn) CreateSchema(context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, def := range schema.WideColumnTables() {
		if _, ok := w.tables[def.Name]; !ok {
			w.tables[def.Name] = &wcTable{def: def, partitions: make(map[string]*partition)}
		}
	}

	return nil
}

// InsertOne upserts a row by primary key.
func (w *WideColumn) InsertOne(_ context.Context, table string, record store.Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.insert(table, record)
}

// InsertMany upserts rows in order.
func (w *WideColumn) InsertMany(_ context.Context, table string, records []store.Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, r := range records {
		if err := w.insert(table, r); err != nil {
			return err
		}
	}

	return nil
}

func (w *WideColumn) insert(table string, record store.Record) error {
	t, ok := w.tables[table]
	if !ok {
		return errors.Wrap(ErrUnconfiguredTable, table)
	}
	for col := range record {
		if _, ok := t.def.ColumnType(col); !ok {
			return errors.Errorf("undefined column %s in table %s", col, table)
		}
	}
	for _, col := range t.def.PrimaryKey() {
		if record[col] == nil {
			return errors.Errorf("missing primary key column %s in table %s", col, table)
		}
	}

	key := partitionKey(t.def.PartitionKey, func(col string) any { return record[col] })
	p, ok := t.partitions[key]
	if !ok {
		p = &partition{token: token(key)}
		t.partitions[key] = p
	}

	row, _ := deepCopy(map[string]any(record)).(map[string]any)
	i := sort.Search(len(p.rows), func(i int) bool {
		return compareClustering(t.def.Clustering, p.rows[i], row) >= 0
	})
	if i < len(p.rows) && compareClustering(t.def.Clustering, p.rows[i], row) == 0 {
		p.rows[i] = row
	} else {
		p.rows = append(p.rows, nil)
		copy(p.rows[i+1:], p.rows[i:])
		p.rows[i] = row
	}

	return nil
}

func partitionKey(columns []string, value func(string) any) string {
	parts := make([]string, 0, len(columns))
	for _, col := range columns {
		parts = append(parts, fmt.Sprintf("%v", value(col)))
	}

	return strings.Join(parts, "\x00")
}

func token(key string) int64 {
	return int64(murmur3.Sum64([]byte(key)))
}

func compareClustering(keys []schema.Clustering, a, b map[string]any) int {
	for _, k := range keys {
		c := compare(a[k.Column], b[k.Column])
		if k.Desc {
			c = -c
		}
		if c != 0 {
			return c
		}
	}

	return 0
}

// Query evaluates a CQL select.
func (w *WideColumn) Query(_ context.Context, stmt query.Statement) ([]query.Row, time.Duration, error) {
	c, ok := stmt.(query.CQL)
	if !ok {
		return nil, 0, errors.Errorf("wide-column store cannot evaluate %T", stmt)
	}

	start := time.Now()
	w.mu.RLock()
	rows, err := w.selectRows(c)
	w.mu.RUnlock()
	elapsed := time.Since(start)
	if err != nil {
		return nil, 0, err
	}

	return query.NormalizeAll(rows), elapsed, nil
}

func (w *WideColumn) selectRows(c query.CQL) ([]query.Row, error) {
	t, ok := w.tables[c.Table]
	if !ok {
		return nil, errors.Wrap(ErrUnconfiguredTable, c.Table)
	}
	for _, col := range c.Columns {
		if _, ok := t.def.ColumnType(col); !ok {
			return nil, errors.Errorf("undefined column %s in table %s", col, c.Table)
		}
	}
	if c.Range != nil && (len(t.def.Clustering) == 0 || t.def.Clustering[0].Column != c.Range.Column) {
		return nil, errors.Wrap(ErrInvalidRange, c.Range.Column)
	}

	var candidates []store.Record
	switch {
	case len(c.Partition) > 0:
		key, err := boundPartition(t.def, c.Partition)
		if err != nil {
			return nil, err
		}
		if p, ok := t.partitions[key]; ok {
			candidates = p.rows
		}
	case c.Limit > 0:
		parts := make([]*partition, 0, len(t.partitions))
		for _, p := range t.partitions {
			parts = append(parts, p)
		}
		sort.Slice(parts, func(i, j int) bool { return parts[i].token < parts[j].token })
		for _, p := range parts {
			candidates = append(candidates, p.rows...)
		}
	default:
		return nil, errors.Wrap(ErrUnboundedScan, c.Table)
	}

	out := make([]query.Row, 0)
	for _, r := range candidates {
		if c.Range != nil && !inRange(r[c.Range.Column], c.Range) {
			continue
		}
		row := make(query.Row, len(c.Columns))
		for _, col := range c.Columns {
			row[col] = deepCopy(r[col])
		}
		out = append(out, row)
		if c.Limit > 0 && len(out) == c.Limit {
			break
		}
	}

	return out, nil
}

// boundPartition requires an equality on every partition column and nothing else.
func boundPartition(def schema.Table, terms []query.Term) (string, error) {
	values := make(map[string]any, len(terms))
	for _, t := range terms {
		values[t.Column] = t.Value
	}
	if len(values) != len(def.PartitionKey) {
		return "", errors.Wrapf(ErrIncompletePartitionKey, "%s needs %v", def.Name, def.PartitionKey)
	}
	for _, col := range def.PartitionKey {
		if _, ok := values[col]; !ok {
			return "", errors.Wrapf(ErrIncompletePartitionKey, "%s needs %v", def.Name, def.PartitionKey)
		}
	}

	return partitionKey(def.PartitionKey, func(col string) any { return values[col] }), nil
}

func inRange(v any, r *query.Range) bool {
	if compare(v, r.From) < 0 {
		return false
	}
	c := compare(v, r.To)

	return c < 0 || (r.ToInclusive && c == 0)
}

// Close is a no-op; the engine outlives sessions.
func (w *WideColumn) Close(context.Context) error {
	return nil
}
