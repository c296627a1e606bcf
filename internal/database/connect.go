package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/hbomb79/Tubely/pkg/logger"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	sqldblogger "github.com/simukti/sqldb-logger"
)

const (
	SqlDialect = "postgres"

	defaultConnectAttempts = 5
	defaultRetryInterval   = 3 * time.Second
	migrationsDir          = "migrations"
)

var (
	//go:embed migrations/*.sql
	migrations embed.FS

	dbLogger = logger.Get("DB")

	ErrNotConnected = errors.New("database manager is not connected")
)

type (
	// DatabaseConfig describes how to reach the Postgres instance
	// holding the video records.
	DatabaseConfig struct {
		User     string `yaml:"username" env:"DB_USERNAME" env-required:"true"`
		Password string `yaml:"password" env:"DB_PASSWORD" env-required:"true"`
		Name     string `yaml:"name" env:"DB_NAME" env-default:"TUBELY_DB"`
		Host     string `yaml:"host" env:"DB_HOST" env-default:"0.0.0.0"`
		Port     string `yaml:"port" env:"DB_PORT" env-default:"5432"`
		SSLMode  string `yaml:"ssl_mode" env:"DB_SSL_MODE" env-default:"disable"`

		// The database may still be starting when Tubely boots (e.g. under
		// docker compose), so the first ping is retried.
		ConnectAttempts int           `yaml:"connect_attempts" env:"DB_CONNECT_ATTEMPTS" env-default:"5"`
		RetryInterval   time.Duration `yaml:"retry_interval" env:"DB_RETRY_INTERVAL" env-default:"3s"`
	}

	// Queryable is satisfied by both sqlx.DB and sqlx.Tx, allowing stores
	// to run their queries either inside or outside of a transaction.
	Queryable interface {
		sqlx.Queryer
		sqlx.Execer
		Get(dest interface{}, query string, args ...interface{}) error
		Select(dest interface{}, query string, args ...interface{}) error
		Rebind(query string) string
	}

	Manager interface {
		Connect(context.Context, DatabaseConfig) error
		GetSqlxDb() *sqlx.DB
		WrapTx(func(*sqlx.Tx) error) error
		Close() error
	}

	manager struct {
		db *sqlx.DB
	}
)

func New() *manager {
	return &manager{}
}

// DSN renders the config as a lib/pq keyword/value connection string.
func (config DatabaseConfig) DSN() string {
	sslMode := config.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		config.Host, config.Port, config.User, config.Password, config.Name, sslMode)
}

// Connect opens the connection pool (with query logging), waits for the
// database to answer and then applies any pending migrations. Cancelling
// the context abandons any remaining connection attempts.
func (db *manager) Connect(ctx context.Context, config DatabaseConfig) error {
	dsn := config.DSN()
	driverDb, err := sql.Open(SqlDialect, dsn)
	if err != nil {
		return fmt.Errorf("failed to open postgres connection: %w", err)
	}

	loggedDb := sqldblogger.OpenDriver(dsn, driverDb.Driver(), &sqlLogger{dbLogger})
	_ = driverDb.Close()

	if err := waitForDatabase(ctx, loggedDb, config); err != nil {
		_ = loggedDb.Close()
		return err
	}

	if err := migrate(loggedDb); err != nil {
		_ = loggedDb.Close()
		return err
	}

	db.db = sqlx.NewDb(loggedDb, SqlDialect)
	dbLogger.Emit(logger.SUCCESS, "Connected to %s@%s:%s/%s\n", config.User, config.Host, config.Port, config.Name)
	return nil
}

func waitForDatabase(ctx context.Context, db *sql.DB, config DatabaseConfig) error {
	attempts, interval := config.ConnectAttempts, config.RetryInterval
	if attempts <= 0 {
		attempts = defaultConnectAttempts
	}
	if interval <= 0 {
		interval = defaultRetryInterval
	}

	for attempt := 1; ; attempt++ {
		err := db.PingContext(ctx)
		if err == nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("database connection abandoned: %w", ctxErr)
		}
		if attempt >= attempts {
			dbLogger.Emit(logger.ERROR, "Database unreachable after %d attempts\n", attempts)
			return fmt.Errorf("failed to reach database: %w", err)
		}

		dbLogger.Emit(logger.WARNING, "Database not reachable (attempt %d/%d): %v. Retrying in %s\n", attempt, attempts, err, interval)
		select {
		case <-ctx.Done():
			return fmt.Errorf("database connection abandoned: %w", ctx.Err())
		case <-time.After(interval):
		}
	}
}

// migrate applies the embedded goose migrations.
func migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(dbLogger)
	if err := goose.SetDialect(SqlDialect); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	dbLogger.Emit(logger.DEBUG, "Database schema is up to date\n")
	return nil
}

// GetSqlxDb returns the connection pool, or nil before Connect succeeds.
func (db *manager) GetSqlxDb() *sqlx.DB {
	return db.db
}

func (db *manager) WrapTx(f func(tx *sqlx.Tx) error) error {
	if db.db == nil {
		return ErrNotConnected
	}

	return WrapTx(db.db, f)
}

func (db *manager) Close() error {
	if db.db == nil {
		return nil
	}

	err := db.db.Close()
	db.db = nil
	return err
}
