// Package relational stores the dataset in normalized tables through GORM,
// on PostgreSQL or on an embedded SQLite database.
package relational

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"techmarket/config"
	"techmarket/internal/domain/entity"
	domainerrors "techmarket/internal/domain/errors"
	"techmarket/internal/domain/query"
	"techmarket/internal/domain/store"
	"techmarket/internal/errors"
	"techmarket/internal/infra/persistence/model"

	pgLib "github.com/slighter12/go-lib/database/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	dbPoolMonitorInterval       = 5 * time.Second
	dbPoolWarnDurationThreshold = 50 * time.Millisecond
	insertChunkSize             = 200
)

// Connector opens GORM sessions for the configured driver.
type Connector struct {
	cfg    *config.Config
	logger *slog.Logger
	driver string
}

// NewConnector creates a relational Connector. driver is "postgres" or "sqlite".
func NewConnector(cfg *config.Config, logger *slog.Logger, driver string) *Connector {
	return &Connector{cfg: cfg, logger: logger, driver: driver}
}

func (c *Connector) Backend() entity.Backend { return entity.BackendRelational }

func (c *Connector) Driver() string { return c.driver }

// Connect opens and pings the database.
func (c *Connector) Connect(ctx context.Context) (store.Store, error) {
	db, err := c.open()
	if err != nil {
		return nil, err
	}
	db = db.Session(&gorm.Session{
		// Each insert stands alone; there is nothing to roll back together.
		SkipDefaultTransaction: true,
		Logger:                 newGormSlogLogger(c.logger, c.cfg),
	})

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get %s sql.DB", c.driver)
	}
	if c.driver == DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()

		return nil, errors.Wrapf(err, "failed to ping %s", c.driver)
	}

	monitorCtx, cancelMonitor := context.WithCancel(context.Background())
	go monitorDBPool(monitorCtx, c.logger, sqlDB, dbPoolMonitorInterval)

	return &Store{
		db:            db,
		sqlDB:         sqlDB,
		driver:        c.driver,
		cancelMonitor: cancelMonitor,
	}, nil
}

func (c *Connector) open() (*gorm.DB, error) {
	switch c.driver {
	case DriverPostgres:
		if c.cfg.Postgres == nil {
			return nil, errors.New("postgres config is missing")
		}
		db, err := pgLib.New(c.cfg.Postgres)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create PostgreSQL client")
		}
		db.Config.TranslateError = true

		return db, nil
	case DriverSQLite:
		db, err := gorm.Open(sqlite.Open(c.cfg.SQLite.DSN), &gorm.Config{TranslateError: true})
		if err != nil {
			return nil, errors.Wrap(err, "failed to open SQLite database")
		}

		return db, nil
	default:
		return nil, errors.Errorf("unknown relational driver %q", c.driver)
	}
}

// Store is an open relational session.
type Store struct {
	db            *gorm.DB
	sqlDB         *sql.DB
	driver        string
	cancelMonitor context.CancelFunc
}

// CreateSchema migrates every table with its keys and indexes.
func (s *Store) CreateSchema(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(model.All()...); err != nil {
		return domainerrors.New(domainerrors.SchemaCreationFailure, entity.BackendRelational.String(),
			"auto-migrate", errors.WithStack(err))
	}

	return nil
}

// InsertOne writes a single row.
func (s *Store) InsertOne(ctx context.Context, table string, record store.Record) error {
	if err := s.db.WithContext(ctx).Table(table).Create(map[string]any(record)).Error; err != nil {
		return describeWriteError(err, table)
	}

	return nil
}

// InsertMany writes rows in multi-row statements, preserving order.
func (s *Store) InsertMany(ctx context.Context, table string, records []store.Record) error {
	for start := 0; start < len(records); start += insertChunkSize {
		chunk := records[start:min(start+insertChunkSize, len(records))]
		values := make([]map[string]any, 0, len(chunk))
		for _, r := range chunk {
			values = append(values, map[string]any(r))
		}
		if err := s.db.WithContext(ctx).Table(table).Create(values).Error; err != nil {
			return describeWriteError(err, table)
		}
	}

	return nil
}

// Query runs a SQL statement and scans every row before stopping the clock.
func (s *Store) Query(ctx context.Context, stmt query.Statement) ([]query.Row, time.Duration, error) {
	sqlStmt, ok := stmt.(query.SQL)
	if !ok {
		return nil, 0, errors.Errorf("relational store cannot evaluate %T", stmt)
	}

	start := time.Now()
	rows, err := s.db.WithContext(ctx).Raw(sqlStmt.Text, sqlStmt.Args...).Rows()
	if err != nil {
		return nil, 0, errors.Wrapf(err, "query %s", sqlStmt.Table)
	}
	defer rows.Close()

	out := make([]query.Row, 0)
	for rows.Next() {
		row := map[string]any{}
		if err := s.db.ScanRows(rows, &row); err != nil {
			return nil, 0, errors.Wrapf(err, "scan %s", sqlStmt.Table)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrapf(err, "iterate %s", sqlStmt.Table)
	}
	elapsed := time.Since(start)

	return query.NormalizeAll(out), elapsed, nil
}

// Close stops the pool monitor and closes the database.
func (s *Store) Close(_ context.Context) error {
	s.cancelMonitor()

	return errors.WithStack(s.sqlDB.Close())
}

func monitorDBPool(ctx context.Context, logger *slog.Logger, sqlDB *sql.DB, interval time.Duration) {
	if logger == nil || sqlDB == nil {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	prev := sqlDB.Stats()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cur := sqlDB.Stats()
			waitDelta := cur.WaitCount - prev.WaitCount
			waitDurationDelta := cur.WaitDuration - prev.WaitDuration

			if waitDelta > 0 {
				attrs := []slog.Attr{
					slog.Int64("waitCountDelta", waitDelta),
					slog.Duration("waitDurationDelta", waitDurationDelta),
					slog.Duration("avgWait", waitDurationDelta/time.Duration(waitDelta)),
					slog.Int("openConns", cur.OpenConnections),
					slog.Int("inUseConns", cur.InUse),
				}
				if waitDurationDelta >= dbPoolWarnDurationThreshold {
					logger.LogAttrs(ctx, slog.LevelWarn, "Relational pool wait detected", attrs...)
				} else {
					logger.LogAttrs(ctx, slog.LevelDebug, "Relational pool wait observed", attrs...)
				}
			}

			prev = cur
		}
	}
}
