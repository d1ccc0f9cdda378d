// Package store is the aggregation source of the dashboard. It runs the
// read-only aggregate queries against PostgreSQL (pgx pool) or SQLite and
// returns plain rows from pkg/models. SQL is written once with ? placeholders
// and rebound for PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// ErrUnavailable reports that the database could not be reached.
var ErrUnavailable = errors.New("store unavailable")

// Supported drivers.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// Config selects and configures the backing database.
type Config struct {
	Driver      string
	DatabaseURL string
	SQLitePath  string
	// Migrate applies the embedded schema and seed. SQLite only.
	Migrate bool
}

type rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

type querier interface {
	query(ctx context.Context, sql string, args ...any) (rows, error)
	ping(ctx context.Context) error
	close()
}

// Store runs the aggregate queries.
type Store struct {
	q      querier
	driver string
}

// =============================================================================
// CONSTRUCTORS
// =============================================================================

// Open builds a store from cfg. An empty driver means PostgreSQL.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	switch cfg.Driver {
	case "", DriverPostgres, "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	case DriverSQLite:
		s, db, err := newSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if cfg.Migrate {
			if err := MigrateSQLite(db); err != nil {
				s.Close()
				return nil, err
			}
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.Driver)
	}
}

// NewPostgres connects a pgx pool to databaseURL.
func NewPostgres(ctx context.Context, databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	log.Info().Str("host", config.ConnConfig.Host).Msg("[STORE] PostgreSQL pool ready")
	return &Store{q: pgxQuerier{pool: pool}, driver: DriverPostgres}, nil
}

// NewSQLite opens the SQLite database at path. ":memory:" is allowed.
func NewSQLite(path string) (*Store, error) {
	s, _, err := newSQLite(path)
	return s, err
}

func newSQLite(path string) (*Store, *sql.DB, error) {
	if path == "" {
		path = ":memory:"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)
	log.Info().Str("path", path).Msg("[STORE] SQLite database ready")
	return FromDB(db), db, nil
}

// FromDB wraps an open database/sql handle using SQLite placeholders.
func FromDB(db *sql.DB) *Store {
	return &Store{q: sqlQuerier{db: db}, driver: DriverSQLite}
}

// Driver returns the driver name the store runs on.
func (s *Store) Driver() string { return s.driver }

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.q == nil {
		return ErrUnavailable
	}
	if err := s.q.ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Close releases the connections.
func (s *Store) Close() {
	if s != nil && s.q != nil {
		s.q.close()
	}
}

// =============================================================================
// DRIVER ADAPTERS
// =============================================================================

type pgxQuerier struct {
	pool *pgxpool.Pool
}

func (p pgxQuerier) query(ctx context.Context, sql string, args ...any) (rows, error) {
	return p.pool.Query(ctx, rebind(sql), args...)
}

func (p pgxQuerier) ping(ctx context.Context) error { return p.pool.Ping(ctx) }
func (p pgxQuerier) close()                         { p.pool.Close() }

type sqlQuerier struct {
	db *sql.DB
}

type sqlRows struct {
	*sql.Rows
}

func (r sqlRows) Close() { _ = r.Rows.Close() }

func (q sqlQuerier) query(ctx context.Context, query string, args ...any) (rows, error) {
	r, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return sqlRows{r}, nil
}

func (q sqlQuerier) ping(ctx context.Context) error { return q.db.PingContext(ctx) }
func (q sqlQuerier) close()                         { _ = q.db.Close() }

// rebind turns ? placeholders into $1..$n.
func rebind(query string) string {
	if !strings.Contains(query, "?") {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// =============================================================================
// QUERY HELPERS
// =============================================================================

type scanner interface {
	Scan(dest ...any) error
}

// classify marks connectivity failures with ErrUnavailable so handlers can
// tell them apart from query bugs.
func classify(op string, err error) error {
	var netErr net.Error
	var connErr *pgconn.ConnectError
	switch {
	case errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &connErr),
		errors.As(err, &netErr):
		return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// collect runs query and maps every row with scan.
func collect[T any](ctx context.Context, s *Store, op string, scan func(scanner) (T, error), query string, args ...any) ([]T, error) {
	if s == nil || s.q == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUnavailable)
	}
	rs, err := s.q.query(ctx, query, args...)
	if err != nil {
		return nil, classify(op, err)
	}
	defer rs.Close()

	out := make([]T, 0)
	for rs.Next() {
		v, err := scan(rs)
		if err != nil {
			return nil, classify(op, err)
		}
		out = append(out, v)
	}
	if err := rs.Err(); err != nil {
		return nil, classify(op, err)
	}
	return out, nil
}

// scalar runs a single-value query. No row yields the zero value.
func scalar[T any](ctx context.Context, s *Store, op string, query string, args ...any) (T, error) {
	var zero T
	vals, err := collect(ctx, s, op, func(sc scanner) (T, error) {
		var v T
		err := sc.Scan(&v)
		return v, err
	}, query, args...)
	if err != nil || len(vals) == 0 {
		return zero, err
	}
	return vals[0], nil
}

func nullInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
