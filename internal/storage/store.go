package storage

import (
	"fmt"

	"peoplemover/internal/domain"
)

// Supported store drivers. SQLite is the default; the input and output
// sides are configured independently and may use different backends.
const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

const (
	inputTable  = "input_people"
	outputTable = "output_people"
)

// OpenSource opens the input-side person store for the given driver and DSN.
func OpenSource(driver, dsn string) (domain.SourceStore, error) {
	switch driver {
	case DriverSQLite, DriverMySQL, DriverPostgres:
		db, err := openSQL(driver, dsn)
		if err != nil {
			return nil, err
		}
		return &SQLSourceStore{db: db}, nil
	case DriverMongo:
		db, err := openMongo(dsn)
		if err != nil {
			return nil, err
		}
		return &MongoSourceStore{db: db}, nil
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", driver)
	}
}

// OpenDestination opens the output-side person store for the given driver and DSN.
func OpenDestination(driver, dsn string) (domain.DestinationStore, error) {
	switch driver {
	case DriverSQLite, DriverMySQL, DriverPostgres:
		db, err := openSQL(driver, dsn)
		if err != nil {
			return nil, err
		}
		return &SQLDestinationStore{db: db}, nil
	case DriverMongo:
		db, err := openMongo(dsn)
		if err != nil {
			return nil, err
		}
		return &MongoDestinationStore{db: db}, nil
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", driver)
	}
}
