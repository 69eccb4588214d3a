// Package integration runs the storefront against a real PostgreSQL database.
// One container is started per package run with testcontainers and migrated
// with the embedded migration set the server ships with.
package integration

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/migration"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/migrations"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testDatabase = "storefront_test"

// postgresServer is the container shared by every test in the package
var postgresServer struct {
	sync.Mutex
	container *tcpostgres.PostgresContainer
	cfg       config.DatabaseConfig
}

// TestDB is a connection to the migrated shared database
type TestDB struct {
	DB *gorm.DB
	t  *testing.T
}

// NewSharedTestDB connects to the package database, starting and migrating
// the container on first use. Tests that use it must call CleanTables first.
func NewSharedTestDB(t *testing.T) *TestDB {
	t.Helper()

	cfg := sharedDatabase(t)
	db, err := persistence.Open(&cfg, sqlLogging()...)
	require.NoError(t, err, "Failed to connect to database")
	t.Cleanup(func() { _ = db.Close() })

	return &TestDB{DB: db.DB, t: t}
}

func sharedDatabase(t *testing.T) config.DatabaseConfig {
	t.Helper()

	postgresServer.Lock()
	defer postgresServer.Unlock()
	if postgresServer.container != nil {
		return postgresServer.cfg
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase(testDatabase),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("storefront"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	cfg := config.DatabaseConfig{
		Driver:       config.DriverPostgres,
		Host:         host,
		Port:         port.Int(),
		User:         "postgres",
		Password:     "storefront",
		DBName:       testDatabase,
		SSLMode:      "disable",
		MaxOpenConns: 10,
		MaxIdleConns: 2,
	}

	// The migrator owns the handle it is given and closes it with itself,
	// so migrations get a connection of their own.
	db, err := persistence.Open(&cfg)
	require.NoError(t, err)
	m, err := migration.Open(db.SQL(), migrations.FS, zap.NewNop())
	require.NoError(t, err, "Failed to create migrator")
	require.NoError(t, m.Up(), "Failed to run migrations")
	_ = m.Close()

	postgresServer.container = container
	postgresServer.cfg = cfg
	return cfg
}

func sqlLogging() []persistence.Option {
	if os.Getenv("TEST_DB_DEBUG") == "" {
		return nil
	}
	log := zap.Must(zap.NewDevelopment())
	return []persistence.Option{persistence.WithLogger(logger.NewSQLLogger(log, logger.SQLLogConfig{Level: "debug"}))}
}

// CleanTables empties every application table in one statement
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()

	var tables []string
	err := tdb.DB.Raw(`
		SELECT tablename FROM pg_tables
		WHERE schemaname = 'public' AND tablename != 'schema_migrations'
	`).Scan(&tables).Error
	require.NoError(tdb.t, err, "Failed to list tables")
	if len(tables) == 0 {
		return
	}

	stmt := fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(tables, ", "))
	require.NoError(tdb.t, tdb.DB.Exec(stmt).Error, "Failed to truncate tables")
}

// CleanupSharedContainer terminates the shared container. Call it from TestMain.
func CleanupSharedContainer() {
	postgresServer.Lock()
	defer postgresServer.Unlock()

	if postgresServer.container == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = postgresServer.container.Terminate(ctx)
	postgresServer.container = nil
}
