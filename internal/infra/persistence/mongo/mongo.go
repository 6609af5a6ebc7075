// Package mongo stores the dataset as MongoDB documents with embedded order
// items and payment.
package mongo

import (
	"context"
	"log/slog"
	"time"

	"techmarket/config"
	"techmarket/internal/domain/entity"
	domainerrors "techmarket/internal/domain/errors"
	"techmarket/internal/domain/query"
	"techmarket/internal/domain/schema"
	"techmarket/internal/domain/store"
	"techmarket/internal/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	// Driver is the name reported by the connector.
	Driver = "mongo"

	namespaceExistsCode = 48
)

// Connector opens MongoDB clients.
type Connector struct {
	cfg    config.MongoConfig
	logger *slog.Logger
}

// NewConnector creates a MongoDB Connector.
func NewConnector(cfg *config.Config, logger *slog.Logger) *Connector {
	return &Connector{cfg: cfg.Mongo, logger: logger}
}

func (c *Connector) Backend() entity.Backend { return entity.BackendDocument }

func (c *Connector) Driver() string { return Driver }

// Connect creates a client and pings the primary.
func (c *Connector) Connect(ctx context.Context) (store.Store, error) {
	opts := options.Client().ApplyURI(c.cfg.URI)
	if c.cfg.ServerSelectionTimeout > 0 {
		opts.SetServerSelectionTimeout(c.cfg.ServerSelectionTimeout)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(err, "connect mongo")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))

		return nil, errors.Wrap(err, "ping mongo")
	}
	c.logger.DebugContext(ctx, "Mongo client connected", slog.String("database", c.cfg.Database))

	return &Store{client: client, db: client.Database(c.cfg.Database)}, nil
}

// Store is an open MongoDB client bound to one database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// CreateSchema creates the collections and their secondary indexes.
func (s *Store) CreateSchema(ctx context.Context) error {
	for _, name := range schema.DocumentCollections() {
		if err := s.db.CreateCollection(ctx, name); err != nil && !isNamespaceExists(err) {
			return domainerrors.New(domainerrors.SchemaCreationFailure, entity.BackendDocument.String(),
				"create collection "+name, errors.WithStack(err))
		}
	}

	for _, idx := range schema.DocumentIndexes() {
		keys := bson.D{}
		for _, k := range idx.Keys {
			dir := 1
			if k.Desc {
				dir = -1
			}
			keys = append(keys, bson.E{Key: k.Field, Value: dir})
		}
		model := mongo.IndexModel{
			Keys:    keys,
			Options: options.Index().SetName(idx.Name()).SetUnique(idx.Unique),
		}
		if _, err := s.db.Collection(idx.Collection).Indexes().CreateOne(ctx, model); err != nil {
			return domainerrors.New(domainerrors.SchemaCreationFailure, entity.BackendDocument.String(),
				"create index "+idx.Collection+"."+idx.Name(), errors.WithStack(err))
		}
	}

	return nil
}

func isNamespaceExists(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code == namespaceExistsCode
	}

	return false
}

// InsertOne writes one document.
func (s *Store) InsertOne(ctx context.Context, table string, record store.Record) error {
	if _, err := s.db.Collection(table).InsertOne(ctx, toDocument(record)); err != nil {
		return errors.Wrapf(err, "insert into %s", table)
	}

	return nil
}

// InsertMany writes documents in order, stopping at the first failure.
func (s *Store) InsertMany(ctx context.Context, table string, records []store.Record) error {
	if len(records) == 0 {
		return nil
	}
	docs := make([]any, 0, len(records))
	for _, r := range records {
		docs = append(docs, toDocument(r))
	}
	if _, err := s.db.Collection(table).InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return errors.Wrapf(err, "insert into %s", table)
	}

	return nil
}

// Query runs a find or an aggregation and drains the cursor before stopping the clock.
func (s *Store) Query(ctx context.Context, stmt query.Statement) ([]query.Row, time.Duration, error) {
	var (
		cursor *mongo.Cursor
		err    error
	)

	start := time.Now()
	switch st := stmt.(type) {
	case query.Find:
		cursor, err = s.db.Collection(st.Collection).Find(ctx, filterDoc(st.Filter), findOptions(st))
	case query.Aggregate:
		cursor, err = s.db.Collection(st.Collection).Aggregate(ctx, pipeline(st.Stages))
	default:
		return nil, 0, errors.Errorf("document store cannot evaluate %T", stmt)
	}
	if err != nil {
		return nil, 0, errors.Wrapf(err, "query %s", stmt.Target())
	}

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, errors.Wrapf(err, "read %s", stmt.Target())
	}
	elapsed := time.Since(start)

	rows := make([]query.Row, 0, len(docs))
	for _, d := range docs {
		rows = append(rows, query.Normalize(fromDocument(d)))
	}

	return rows, elapsed, nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return errors.WithStack(s.client.Disconnect(ctx))
}
