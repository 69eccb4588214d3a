package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database is the open connection pool. Postgres is the production store;
// sqlite serves local development and tests.
type Database struct {
	DB     *gorm.DB
	Driver string
	sql    *sql.DB
}

// Option adjusts how Open configures gorm
type Option func(*gorm.Config)

// WithLogger routes gorm's query log through l
func WithLogger(l gormlogger.Interface) Option {
	return func(c *gorm.Config) { c.Logger = l }
}

// Open connects with the configured driver and verifies the connection.
// Queries are not logged unless WithLogger is given.
func Open(cfg *config.DatabaseConfig, opts ...Option) (*Database, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = config.DriverPostgres
	}
	dialector, err := dialectorFor(driver, cfg)
	if err != nil {
		return nil, err
	}

	gormCfg := &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
		PrepareStmt:            driver == config.DriverPostgres,
		TranslateError:         true,
	}
	for _, opt := range opts {
		opt(gormCfg)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	d, err := wrap(db, driver)
	if err != nil {
		return nil, err
	}

	d.configurePool(cfg)
	if err := d.sql.Ping(); err != nil {
		_ = d.sql.Close()
		return nil, fmt.Errorf("ping %s database: %w", driver, err)
	}
	return d, nil
}

func wrap(db *gorm.DB, driver string) (*Database, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql.DB: %w", err)
	}
	return &Database{DB: db, Driver: driver, sql: sqlDB}, nil
}

func dialectorFor(driver string, cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch driver {
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN()), nil
	case config.DriverSQLite:
		path := cfg.SQLitePath
		if path == "" {
			path = ":memory:"
		}
		return sqlite.Open(path + "?_foreign_keys=on"), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func (d *Database) configurePool(cfg *config.DatabaseConfig) {
	if d.IsSQLite() {
		// one connection shares a ":memory:" database and serializes writers
		d.sql.SetMaxOpenConns(1)
		return
	}
	d.sql.SetMaxOpenConns(cfg.MaxOpenConns)
	d.sql.SetMaxIdleConns(cfg.MaxIdleConns)
	d.sql.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	d.sql.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)
}

func (d *Database) IsSQLite() bool {
	return d.Driver == config.DriverSQLite
}

// SQL exposes the pool for golang-migrate, which runs on database/sql
func (d *Database) SQL() *sql.DB {
	return d.sql
}

// PingContext backs the /health database check
func (d *Database) PingContext(ctx context.Context) error {
	return d.sql.PingContext(ctx)
}

func (d *Database) Close() error {
	return d.sql.Close()
}

// AutoMigrate builds the schema from the gorm models. Only sqlite databases
// use it; postgres runs the versioned SQL migrations.
func (d *Database) AutoMigrate() error {
	joins := []struct {
		field string
		model any
	}{
		{"Categories", &models.ProductCategoryModel{}},
		{"Sizes", &models.ProductSizeOptionModel{}},
	}
	for _, j := range joins {
		if err := d.DB.SetupJoinTable(&models.ProductModel{}, j.field, j.model); err != nil {
			return fmt.Errorf("set up product %s join table: %w", j.field, err)
		}
	}
	if err := d.DB.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto-migrate schema: %w", err)
	}
	return nil
}
