package dialect

import (
	"errors"
	"fmt"
)

// ErrUnsupportedDialect is returned for driver names we have no Dialect
// implementation for. Callers must treat it as fatal: quietly falling back
// to another dialect's quoting rules would generate DDL that fails at
// execution time.
var ErrUnsupportedDialect = errors.New("unsupported dialect")

// GetDialect returns the appropriate Dialect implementation based on driver name.
func GetDialect(driver string) (Dialect, error) {
	switch driver {
	case "mysql", "mariadb":
		return &MysqlDialect{}, nil
	case "postgres":
		return &PostgresDialect{}, nil
	case "sqlserver", "mssql":
		return &MSSQLDialect{}, nil
	case "oracle":
		return &OracleDialect{}, nil
	case "sqlite", "sqlite3":
		return &SQLiteDialect{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDialect, driver)
	}
}

// Ensure interface implementation
var _ Dialect = (*MysqlDialect)(nil)
var _ Dialect = (*PostgresDialect)(nil)
var _ Dialect = (*MSSQLDialect)(nil)
var _ Dialect = (*OracleDialect)(nil)
var _ Dialect = (*SQLiteDialect)(nil)
