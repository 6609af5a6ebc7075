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
)

// ErrDuplicateKey is returned when an insert violates _id or a unique index.
var ErrDuplicateKey = errors.New("duplicate key")

// Document is an in-process document engine that evaluates Find and Aggregate
// statements over embedded documents.
type Document struct {
	mu          sync.RWMutex
	collections map[string]*collection
	indexes     []schema.Index
}

type collection struct {
	docs   []map[string]any
	ids    map[string]struct{}
	unique map[string]map[string]struct{} // index name -> taken keys
}

// NewDocument creates an empty engine.
func NewDocument() *Document {
	return &Document{collections: make(map[string]*collection)}
}

// DocumentConnector hands out sessions on a shared engine.
type DocumentConnector struct {
	engine *Document
}

// NewDocumentConnector creates a connector over engine.
func NewDocumentConnector(engine *Document) *DocumentConnector {
	return &DocumentConnector{engine: engine}
}

func (c *DocumentConnector) Backend() entity.Backend { return entity.BackendDocument }

func (c *DocumentConnector) Driver() string { return Driver }

func (c *DocumentConnector) Connect(context.Context) (store.Store, error) {
	return c.engine, nil
}

// CreateSchema creates the collections and registers unique indexes.
func (d *Document) CreateSchema(context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, name := range schema.DocumentCollections() {
		d.collectionLocked(name)
	}
	d.indexes = d.indexes[:0]
	for _, idx := range schema.DocumentIndexes() {
		if !idx.Unique {
			continue
		}
		d.indexes = append(d.indexes, idx)

		c := d.collectionLocked(idx.Collection)
		taken := make(map[string]struct{}, len(c.docs))
		for _, doc := range c.docs {
			taken[indexKey(idx, doc)] = struct{}{}
		}
		c.unique[idx.Name()] = taken
	}

	return nil
}

// collections are created on first write, as a document server does.
func (d *Document) collectionLocked(name string) *collection {
	c, ok := d.collections[name]
	if !ok {
		c = &collection{
			ids:    make(map[string]struct{}),
			unique: make(map[string]map[string]struct{}),
		}
		d.collections[name] = c
	}

	return c
}

// InsertOne stores a copy of the document.
func (d *Document) InsertOne(_ context.Context, table string, record store.Record) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.insert(table, record)
}

// InsertMany stores documents in order, stopping at the first failure.
func (d *Document) InsertMany(_ context.Context, table string, records []store.Record) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, r := range records {
		if err := d.insert(table, r); err != nil {
			return err
		}
	}

	return nil
}

func (d *Document) insert(table string, record store.Record) error {
	id, ok := record["_id"]
	if !ok {
		return errors.Errorf("document for %s has no _id", table)
	}
	c := d.collectionLocked(table)

	idKey := fmt.Sprintf("%v", id)
	if _, dup := c.ids[idKey]; dup {
		return errors.Wrapf(ErrDuplicateKey, "%s _id %s", table, idKey)
	}
	keys := make(map[string]string)
	for _, idx := range d.indexes {
		if idx.Collection != table {
			continue
		}
		k := indexKey(idx, record)
		if _, dup := c.unique[idx.Name()][k]; dup {
			return errors.Wrapf(ErrDuplicateKey, "%s index %s", table, idx.Name())
		}
		keys[idx.Name()] = k
	}

	doc, _ := deepCopy(map[string]any(record)).(map[string]any)
	c.docs = append(c.docs, doc)
	c.ids[idKey] = struct{}{}
	for name, k := range keys {
		c.unique[name][k] = struct{}{}
	}

	return nil
}

func indexKey(idx schema.Index, doc map[string]any) string {
	parts := make([]string, 0, len(idx.Keys))
	for _, k := range idx.Keys {
		parts = append(parts, fmt.Sprintf("%v", resolve(doc, k.Field)))
	}

	return strings.Join(parts, "\x00")
}

// Query evaluates a Find or an Aggregate.
func (d *Document) Query(_ context.Context, stmt query.Statement) ([]query.Row, time.Duration, error) {
	start := time.Now()
	d.mu.RLock()
	docs, err := d.evaluate(stmt)
	d.mu.RUnlock()
	elapsed := time.Since(start)
	if err != nil {
		return nil, 0, err
	}

	rows := make([]query.Row, 0, len(docs))
	for _, doc := range docs {
		rows = append(rows, query.Normalize(doc))
	}

	return rows, elapsed, nil
}

func (d *Document) evaluate(stmt query.Statement) ([]map[string]any, error) {
	switch st := stmt.(type) {
	case query.Find:
		docs := filter(d.source(st.Collection), st.Filter)
		sortDocs(docs, st.Sort)
		if st.Limit > 0 && len(docs) > st.Limit {
			docs = docs[:st.Limit]
		}
		if len(st.Fields) > 0 {
			return project(docs, st.Fields), nil
		}

		return copyDocs(docs), nil
	case query.Aggregate:
		docs := copyDocs(d.source(st.Collection))
		for _, stage := range st.Stages {
			var err error
			if docs, err = d.apply(docs, stage); err != nil {
				return nil, err
			}
		}

		return docs, nil
	default:
		return nil, errors.Errorf("document store cannot evaluate %T", stmt)
	}
}

func (d *Document) source(name string) []map[string]any {
	c, ok := d.collections[name]
	if !ok {
		return nil
	}

	return c.docs
}

func (d *Document) apply(docs []map[string]any, stage query.Stage) ([]map[string]any, error) {
	switch s := stage.(type) {
	case query.Match:
		return filter(docs, s.Conds), nil
	case query.Unwind:
		return unwind(docs, s.Path), nil
	case query.Group:
		return group(docs, s), nil
	case query.Sort:
		sortDocs(docs, s.Keys)

		return docs, nil
	case query.Limit:
		if s.N >= 0 && len(docs) > s.N {
			docs = docs[:s.N]
		}

		return docs, nil
	case query.Lookup:
		foreign := d.source(s.From)
		for _, doc := range docs {
			local := resolve(doc, s.LocalField)
			matched := make([]any, 0)
			for _, f := range foreign {
				if compare(resolve(f, s.ForeignField), local) == 0 {
					matched = append(matched, deepCopy(f))
				}
			}
			doc[s.As] = matched
		}

		return docs, nil
	case query.Project:
		return project(docs, s.Fields), nil
	default:
		return nil, errors.Errorf("unsupported pipeline stage %T", stage)
	}
}

// resolve walks a dotted path. Missing fields resolve to nil.
func resolve(doc map[string]any, path string) any {
	var cur any = doc
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[part]
	}

	return cur
}

func matches(doc map[string]any, c query.Cond) bool {
	v := resolve(doc, c.Path)
	if v == nil {
		return false
	}
	cmp := compare(v, c.Value)
	switch c.Op {
	case query.OpEq:
		return cmp == 0
	case query.OpGte:
		return cmp >= 0
	case query.OpLt:
		return cmp < 0
	case query.OpLte:
		return cmp <= 0
	}

	return false
}

func filter(docs []map[string]any, conds []query.Cond) []map[string]any {
	out := make([]map[string]any, 0, len(docs))
	for _, doc := range docs {
		ok := true
		for _, c := range conds {
			if !matches(doc, c) {
				ok = false

				break
			}
		}
		if ok {
			out = append(out, doc)
		}
	}

	return out
}

func sortDocs(docs []map[string]any, keys []query.SortKey) {
	if len(keys) == 0 {
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		for _, k := range keys {
			c := compare(resolve(docs[i], k.Path), resolve(docs[j], k.Path))
			if k.Desc {
				c = -c
			}
			if c != 0 {
				return c < 0
			}
		}

		return false
	})
}

func project(docs []map[string]any, fields []query.Field) []map[string]any {
	out := make([]map[string]any, 0, len(docs))
	for _, doc := range docs {
		row := make(map[string]any, len(fields))
		for _, f := range fields {
			if v := resolve(doc, f.Path); v != nil {
				row[f.As] = deepCopy(v)
			}
		}
		out = append(out, row)
	}

	return out
}

// unwind replaces a top-level array field by each of its elements in turn.
// Documents with a missing or empty array are dropped.
func unwind(docs []map[string]any, path string) []map[string]any {
	out := make([]map[string]any, 0, len(docs))
	for _, doc := range docs {
		arr, ok := doc[path].([]any)
		if !ok {
			continue
		}
		for _, elem := range arr {
			cp := make(map[string]any, len(doc))
			for k, v := range doc {
				cp[k] = v
			}
			cp[path] = elem
			out = append(out, cp)
		}
	}

	return out
}

// group keeps groups in first-seen order; sums stay integral while every
// addend is an integer.
func group(docs []map[string]any, g query.Group) []map[string]any {
	type acc struct {
		key      any
		intSum   int64
		floatSum float64
		isFloat  bool
	}

	order := make([]string, 0)
	groups := make(map[string]*acc)
	for _, doc := range docs {
		key := resolve(doc, g.Key)
		id := fmt.Sprintf("%T:%v", key, key)
		a, ok := groups[id]
		if !ok {
			a = &acc{key: key}
			groups[id] = a
			order = append(order, id)
		}
		switch n := resolve(doc, g.SumOf).(type) {
		case int:
			a.intSum += int64(n)
		case int32:
			a.intSum += int64(n)
		case int64:
			a.intSum += n
		case float64:
			a.floatSum += n
			a.isFloat = true
		}
	}

	out := make([]map[string]any, 0, len(order))
	for _, id := range order {
		a := groups[id]
		var sum any = a.intSum
		if a.isFloat {
			sum = a.floatSum + float64(a.intSum)
		}
		out = append(out, map[string]any{"_id": a.key, g.As: sum})
	}

	return out
}

func copyDocs(docs []map[string]any) []map[string]any {
	out := make([]map[string]any, 0, len(docs))
	for _, doc := range docs {
		cp, _ := deepCopy(doc).(map[string]any)
		out = append(out, cp)
	}

	return out
}

// Close is a no-op; the engine outlives sessions.
func (d *Document) Close(context.Context) error {
	return nil
}
