package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	_ "modernc.org/sqlite"

	"peoplemover/internal/domain"
)

// dialect captures the per-driver SQL differences: the auto-assigned integer
// primary key column and the placeholder style.
type dialect struct {
	driverName string
	idColumn   string
	numbered   bool // $1-style placeholders and INSERT ... RETURNING
}

var dialects = map[string]dialect{
	DriverSQLite:   {driverName: "sqlite", idColumn: "id INTEGER PRIMARY KEY AUTOINCREMENT"},
	DriverMySQL:    {driverName: "mysql", idColumn: "id INTEGER PRIMARY KEY AUTO_INCREMENT"},
	DriverPostgres: {driverName: "postgres", idColumn: "id SERIAL PRIMARY KEY", numbered: true},
}

// sqlDB wraps a relational connection shared by the SQL store types.
type sqlDB struct {
	conn *sql.DB
	d    dialect
}

func openSQL(driver, dsn string) (*sqlDB, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported sql driver: %s", driver)
	}

	if driver == DriverSQLite {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create db directory: %w", err)
			}
		}
		dsn += "?_journal_mode=WAL&_busy_timeout=5000"
	}

	conn, err := sql.Open(d.driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if driver == DriverSQLite {
		// SQLite only supports one writer — limit to a single connection
		// to prevent SQLITE_BUSY
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(5)
		conn.SetMaxIdleConns(2)
		conn.SetConnMaxLifetime(10 * time.Minute)
	}

	return &sqlDB{conn: conn, d: d}, nil
}

func (db *sqlDB) Close() error {
	return db.conn.Close()
}

// bind rewrites ?-style placeholders for drivers that number them.
func (db *sqlDB) bind(query string) string {
	if !db.d.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// storeErr normalizes driver-specific "relation/table missing" failures to
// domain.ErrStoreUnavailable so callers can match on the sentinel.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1146 {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "42P01" {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if strings.Contains(err.Error(), "no such table") {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return err
}
