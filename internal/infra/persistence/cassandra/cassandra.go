// Package cassandra stores the dataset in query-shaped Cassandra tables through gocql.
package cassandra

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"techmarket/config"
	"techmarket/internal/domain/entity"
	domainerrors "techmarket/internal/domain/errors"
	"techmarket/internal/domain/query"
	"techmarket/internal/domain/schema"
	"techmarket/internal/domain/store"
	"techmarket/internal/errors"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
	"gopkg.in/inf.v0"
)

// Driver is the name reported by the connector.
const Driver = "cassandra"

// Connector opens gocql sessions against the configured cluster.
type Connector struct {
	cfg    config.CassandraConfig
	logger *slog.Logger
}

// NewConnector creates a Cassandra Connector.
func NewConnector(cfg *config.Config, logger *slog.Logger) *Connector {
	return &Connector{cfg: cfg.Cassandra, logger: logger}
}

func (c *Connector) Backend() entity.Backend { return entity.BackendWideColumn }

func (c *Connector) Driver() string { return Driver }

func (c *Connector) cluster() *gocql.ClusterConfig {
	cluster := gocql.NewCluster(c.cfg.Hosts...)
	if c.cfg.Port > 0 {
		cluster.Port = c.cfg.Port
	}
	if c.cfg.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{Username: c.cfg.Username, Password: c.cfg.Password}
	}
	if c.cfg.ConnectTimeout > 0 {
		cluster.ConnectTimeout = c.cfg.ConnectTimeout
	}
	if c.cfg.Timeout > 0 {
		cluster.Timeout = c.cfg.Timeout
	}
	if c.cfg.NumConns > 0 {
		cluster.NumConns = c.cfg.NumConns
	}
	cluster.Consistency = gocql.One

	return cluster
}

// Connect creates a cluster-level session; statements are keyspace-qualified.
func (c *Connector) Connect(ctx context.Context) (store.Store, error) {
	if len(c.cfg.Hosts) == 0 {
		return nil, errors.New("cassandra hosts are not configured")
	}

	session, err := c.cluster().CreateSession()
	if err != nil {
		return nil, errors.Wrap(err, "create cassandra session")
	}
	if err := session.Query("SELECT release_version FROM system.local").WithContext(ctx).Exec(); err != nil {
		session.Close()

		return nil, errors.Wrap(err, "probe cassandra cluster")
	}
	c.logger.DebugContext(ctx, "Cassandra session opened", slog.Any("hosts", c.cfg.Hosts))

	replication := c.cfg.ReplicationFactor
	if replication <= 0 {
		replication = 1
	}

	return &Store{
		session:     session,
		keyspace:    c.cfg.Keyspace,
		replication: replication,
	}, nil
}

// Store is an open Cassandra session.
type Store struct {
	session     *gocql.Session
	keyspace    string
	replication int
}

// CreateSchema creates the keyspace and every query table.
func (s *Store) CreateSchema(ctx context.Context) error {
	statements := []string{fmt.Sprintf(
		"CREATE KEYSPACE IF NOT EXISTS %s WITH replication = {'class': 'SimpleStrategy', 'replication_factor': %d}",
		s.keyspace, s.replication)}
	for _, t := range schema.WideColumnTables() {
		statements = append(statements, t.CreateCQL(s.keyspace))
	}

	for _, stmt := range statements {
		if err := s.session.Query(stmt).WithContext(ctx).Exec(); err != nil {
			return domainerrors.New(domainerrors.SchemaCreationFailure, entity.BackendWideColumn.String(),
				stmt, errors.WithStack(err))
		}
	}

	return nil
}

// InsertOne writes one row. Cassandra inserts are upserts on the primary key.
func (s *Store) InsertOne(ctx context.Context, table string, record store.Record) error {
	def, ok := schema.WideColumnTable(table)
	if !ok {
		return errors.Errorf("unknown wide-column table %q", table)
	}

	columns := make([]string, 0, len(record))
	for col := range record {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	args := make([]any, 0, len(columns))
	for _, col := range columns {
		colType, _ := def.ColumnType(col)
		v, err := toCQL(colType, record[col])
		if err != nil {
			return errors.Wrapf(err, "column %s.%s", table, col)
		}
		args = append(args, v)
	}

	stmt := fmt.Sprintf("INSERT INTO %s.%s (%s) VALUES (%s)",
		s.keyspace, table, strings.Join(columns, ", "), placeholders(len(columns)))
	if err := s.session.Query(stmt, args...).WithContext(ctx).Exec(); err != nil {
		return errors.Wrapf(err, "insert into %s", table)
	}

	return nil
}

// InsertMany writes rows one statement at a time. Multi-partition batches
// would only add coordinator load.
func (s *Store) InsertMany(ctx context.Context, table string, records []store.Record) error {
	for _, r := range records {
		if err := s.InsertOne(ctx, table, r); err != nil {
			return err
		}
	}

	return nil
}

// Query runs a single-table select and drains the iterator before stopping the clock.
func (s *Store) Query(ctx context.Context, stmt query.Statement) ([]query.Row, time.Duration, error) {
	cql, ok := stmt.(query.CQL)
	if !ok {
		return nil, 0, errors.Errorf("wide-column store cannot evaluate %T", stmt)
	}
	text, args, err := s.render(cql)
	if err != nil {
		return nil, 0, err
	}

	start := time.Now()
	iter := s.session.Query(text, args...).WithContext(ctx).Iter()
	rows := make([]query.Row, 0)
	for {
		row := map[string]any{}
		if !iter.MapScan(row) {
			break
		}
		rows = append(rows, row)
	}
	if err := iter.Close(); err != nil {
		return nil, 0, errors.Wrapf(err, "select from %s", cql.Table)
	}
	elapsed := time.Since(start)

	for i, r := range rows {
		rows[i] = query.Normalize(fromCQLRow(r))
	}

	return rows, elapsed, nil
}

func (s *Store) render(c query.CQL) (string, []any, error) {
	def, ok := schema.WideColumnTable(c.Table)
	if !ok {
		return "", nil, errors.Errorf("unknown wide-column table %q", c.Table)
	}
	if len(c.Partition) == 0 && c.Limit <= 0 {
		return "", nil, errors.Errorf("unbounded full scan of %s", c.Table)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s.%s", strings.Join(c.Columns, ", "), s.keyspace, c.Table)

	var where []string
	var args []any
	for _, t := range c.Partition {
		colType, _ := def.ColumnType(t.Column)
		v, err := toCQL(colType, t.Value)
		if err != nil {
			return "", nil, err
		}
		where = append(where, t.Column+" = ?")
		args = append(args, v)
	}
	if r := c.Range; r != nil {
		colType, _ := def.ColumnType(r.Column)
		from, err := toCQL(colType, r.From)
		if err != nil {
			return "", nil, err
		}
		to, err := toCQL(colType, r.To)
		if err != nil {
			return "", nil, err
		}
		upper := "<"
		if r.ToInclusive {
			upper = "<="
		}
		where = append(where, r.Column+" >= ?", r.Column+" "+upper+" ?")
		args = append(args, from, to)
	}
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	if c.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", c.Limit)
	}

	return b.String(), args, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// toCQL converts a logical value into what gocql marshals for the column type.
func toCQL(t schema.ColumnType, v any) (any, error) {
	switch val := v.(type) {
	case uuid.UUID:
		return gocql.UUID(val), nil
	case float64:
		if t == schema.TypeDecimal {
			return inf.NewDec(int64(entity.MoneyFromFloat(val)), 2), nil
		}
	case time.Time:
		return val.UTC(), nil
	}

	return v, nil
}

func fromCQLRow(row map[string]any) query.Row {
	out := make(query.Row, len(row))
	for k, v := range row {
		switch val := v.(type) {
		case gocql.UUID:
			out[k] = uuid.UUID(val)
		case *inf.Dec:
			out[k] = decimalToFloat(val)
		default:
			out[k] = v
		}
	}

	return out
}

func decimalToFloat(d *inf.Dec) float64 {
	if d == nil {
		return 0
	}
	f, err := strconv.ParseFloat(d.String(), 64)
	if err != nil {
		return 0
	}

	return f
}

// Close ends the session.
func (s *Store) Close(_ context.Context) error {
	s.session.Close()

	return nil
}
