package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"peoplemover/internal/domain"
)

func TestBind(t *testing.T) {
	sqlite := &sqlDB{d: dialects[DriverSQLite]}
	pg := &sqlDB{d: dialects[DriverPostgres]}

	query := "INSERT INTO t (a, b, c) VALUES (?, ?, ?)"
	require.Equal(t, query, sqlite.bind(query))
	require.Equal(t, "INSERT INTO t (a, b, c) VALUES ($1, $2, $3)", pg.bind(query))
}

func TestStoreErr(t *testing.T) {
	require.NoError(t, storeErr(nil))

	// Driver-specific "missing table" failures normalize to the sentinel.
	cases := []error{
		errors.New("SQL logic error: no such table: input_people (1)"),
		&mysql.MySQLError{Number: 1146, Message: "Table 'demo.input_people' doesn't exist"},
		&pq.Error{Code: "42P01", Message: `relation "input_people" does not exist`},
		fmt.Errorf("query: %w", &mysql.MySQLError{Number: 1146, Message: "gone"}),
	}
	for _, err := range cases {
		require.ErrorIs(t, storeErr(err), domain.ErrStoreUnavailable, "input: %v", err)
	}

	// Anything else passes through unchanged.
	plain := errors.New("disk I/O error")
	require.Same(t, plain, storeErr(plain))
	require.NotErrorIs(t, storeErr(plain), domain.ErrStoreUnavailable)
}
