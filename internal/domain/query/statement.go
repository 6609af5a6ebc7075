package query

// Statement is a backend-specific request a store knows how to evaluate.
// Each concrete type belongs to exactly one backend family.
type Statement interface {
	// Target names the table or collection read by the statement.
	Target() string
}

// SQL is a relational statement using ? placeholders.
type SQL struct {
	Table string
	Text  string
	Args  []any
}

func (s SQL) Target() string { return s.Table }

// Term is an equality restriction.
type Term struct {
	Column string
	Value  any
}

// Range restricts the first clustering column. From is inclusive.
type Range struct {
	Column      string
	From        any
	To          any
	ToInclusive bool
}

// CQL is a single-table wide-column select. An empty Partition means a full
// scan, which is only valid together with a Limit.
type CQL struct {
	Table     string
	Columns   []string
	Partition []Term
	Range     *Range
	Limit     int
}

func (c CQL) Target() string { return c.Table }

// Op is a document filter operator.
type Op string

const (
	OpEq  Op = "$eq"
	OpGte Op = "$gte"
	OpLt  Op = "$lt"
	OpLte Op = "$lte"
)

// Cond compares the value at a dotted path.
type Cond struct {
	Path  string
	Op    Op
	Value any
}

// SortKey orders by the value at a dotted path.
type SortKey struct {
	Path string
	Desc bool
}

// Field maps an output name to a dotted source path.
type Field struct {
	As   string
	Path string
}

// Find is a filtered document read. With no Fields the whole document is returned.
type Find struct {
	Collection string
	Filter     []Cond
	Sort       []SortKey
	Limit      int
	Fields     []Field
}

func (f Find) Target() string { return f.Collection }

// Aggregate is a document pipeline.
type Aggregate struct {
	Collection string
	Stages     []Stage
}

func (a Aggregate) Target() string { return a.Collection }

// Stage is one step of an Aggregate pipeline.
type Stage interface {
	stage()
}

// Match keeps documents satisfying every condition.
type Match struct{ Conds []Cond }

// Unwind emits one document per element of the array at Path.
type Unwind struct{ Path string }

// Group groups by the value at Key into "_id" and sums SumOf into As.
type Group struct {
	Key   string
	SumOf string
	As    string
}

// Sort orders the stream.
type Sort struct{ Keys []SortKey }

// Limit truncates the stream.
type Limit struct{ N int }

// Lookup joins documents of From whose ForeignField equals LocalField into array As.
type Lookup struct {
	From         string
	LocalField   string
	ForeignField string
	As           string
}

// Project reshapes each document to the listed fields.
type Project struct{ Fields []Field }

func (Match) stage()   {}
func (Unwind) stage()  {}
func (Group) stage()   {}
func (Sort) stage()    {}
func (Limit) stage()   {}
func (Lookup) stage()  {}
func (Project) stage() {}
