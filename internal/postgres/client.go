package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/config"
	ierr "github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/errors"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/logger"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/types"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// IClient is the database handle repositories and services depend on
type IClient interface {
	// WithTx runs fn inside a transaction. Nested calls join the outer transaction.
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	// Writer returns the transaction bound to ctx or the pool
	Writer(ctx context.Context) *gorm.DB
	// Reader returns the transaction bound to ctx or the pool
	Reader(ctx context.Context) *gorm.DB
	// LockKey takes a transaction scoped advisory lock
	LockKey(ctx context.Context, req types.LockRequest) error
	// TryLockKey takes a transaction scoped advisory lock without waiting
	TryLockKey(ctx context.Context, key string) (bool, error)
}

type txKey struct{}

// Client wraps a gorm connection pool
type Client struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewClient opens the postgres pool through lib/pq
func NewClient(cfg *config.Configuration, log *logger.Logger) (*Client, error) {
	sqlDB, err := sql.Open("postgres", cfg.Postgres.GetDSN())
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to open database connection").
			Mark(ierr.ErrDatabase)
	}

	sqlDB.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.Postgres.ConnMaxLifetimeMinutes) * time.Minute)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DriverName: "postgres",
		Conn:       sqlDB,
	}), &gorm.Config{
		Logger:         newGormLogger(log),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to initialize database client").
			Mark(ierr.ErrDatabase)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Database is not reachable").
			WithReportableDetails(map[string]interface{}{
				"host":   cfg.Postgres.Host,
				"dbname": cfg.Postgres.DBName,
			}).
			Mark(ierr.ErrDatabase)
	}

	log.Infow("connected to postgres", "host", cfg.Postgres.Host, "dbname", cfg.Postgres.DBName)
	return &Client{db: db, log: log}, nil
}

// NewClientFromDB wraps an already opened gorm handle, e.g. sqlite in tests
func NewClientFromDB(db *gorm.DB, log *logger.Logger) *Client {
	return &Client{db: db, log: log}
}

// DB exposes the underlying pool for migrations
func (c *Client) DB() *gorm.DB {
	return c.db
}

// TxFromContext returns the transaction bound to ctx, if any
func (c *Client) TxFromContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return nil
}

func (c *Client) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if c.TxFromContext(ctx) != nil {
		return fn(ctx)
	}

	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, txKey{}, tx)
		if err := fn(txCtx); err != nil {
			c.log.Debugw("rolling back transaction", "error", err)
			return err
		}
		return nil
	})
}

func (c *Client) Writer(ctx context.Context) *gorm.DB {
	if tx := c.TxFromContext(ctx); tx != nil {
		return tx
	}
	return c.db.WithContext(ctx)
}

func (c *Client) Reader(ctx context.Context) *gorm.DB {
	return c.Writer(ctx)
}

// Close releases the pool
func (c *Client) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
