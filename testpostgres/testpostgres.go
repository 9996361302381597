// Package testpostgres creates a dedicated postgres database per test and
// drops it on cleanup.
package testpostgres

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

type config struct {
	host     string
	port     int
	user     string
	password string
}

type Option func(*config)

func WithHost(host string) Option {
	return func(c *config) {
		c.host = host
	}
}

func WithPort(port int) Option {
	return func(c *config) {
		c.port = port
	}
}

func WithUser(user string) Option {
	return func(c *config) {
		c.user = user
	}
}

func WithPassword(password string) Option {
	return func(c *config) {
		c.password = password
	}
}

type Postgres struct {
	dsn  string
	pool *pgxpool.Pool
}

func New(t *testing.T, opts ...Option) *Postgres {
	cfg := &config{
		host:     "postgres",
		port:     5432,
		user:     "postgres",
		password: "postgres",
	}

	for _, opt := range opts {
		opt(cfg)
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d", cfg.user, cfg.password, cfg.host, cfg.port)

	db, err := pgxpool.New(context.Background(), dsn+"?sslmode=disable")
	require.NoError(t, err, "failed to connect")

	dbName := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	_, err = db.Exec(context.Background(), "CREATE DATABASE "+dbName)
	require.NoError(t, err, "failed to create database "+dbName)

	testDSN := dsn + "/" + dbName + "?sslmode=disable"
	testDB, err := pgxpool.New(context.Background(), testDSN)
	require.NoError(t, err, "failed to connect to "+dbName)

	t.Cleanup(func() {
		testDB.Close()
		_, err = db.Exec(context.Background(), "DROP DATABASE "+dbName)
		require.NoError(t, err, "failed to drop database "+dbName)
		db.Close()
	})

	return &Postgres{
		dsn:  testDSN,
		pool: testDB,
	}
}

func (p *Postgres) DSN() string {
	return p.dsn
}

func (p *Postgres) DB() *pgxpool.Pool {
	return p.pool
}
