package dataset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/microsoft/go-mssqldb"
	_ "modernc.org/sqlite"
)

var (
	ErrUnsupportedDriver = errors.New("unsupported sql driver")
	ErrInvalidTable      = errors.New("invalid table name")
)

// Drivers lists the database/sql driver names accepted by LoadSQL.
var Drivers = []string{"postgres", "pgx", "sqlite", "mysql", "sqlserver"}

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// ValidateSQL checks driver and table before any connection is opened.
func ValidateSQL(driver, table string) error {
	supported := false
	for _, d := range Drivers {
		if d == driver {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
	if !tableName.MatchString(table) {
		return fmt.Errorf("%w: %q", ErrInvalidTable, table)
	}
	return nil
}

// LoadSQL reads every row of table and normalizes it exactly like a CSV
// source. Column order follows the table definition.
func LoadSQL(ctx context.Context, driver, dsn, table string) (*Dataset, error) {
	if err := ValidateSQL(driver, table); err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: open: %w", driver, err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("%s: ping: %w", driver, err)
	}

	// table is validated against tableName above.
	rs, err := db.QueryContext(ctx, "SELECT * FROM "+table)
	if err != nil {
		return nil, fmt.Errorf("%s: query %s: %w", driver, table, err)
	}
	defer rs.Close()

	headers, err := rs.Columns()
	if err != nil {
		return nil, fmt.Errorf("%s: columns: %w", driver, err)
	}

	var rows [][]Value
	cells := make([]any, len(headers))
	ptrs := make([]any, len(headers))
	for i := range cells {
		ptrs[i] = &cells[i]
	}
	for rs.Next() {
		if err := rs.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("%s: scan row %d: %w", driver, len(rows)+1, err)
		}
		row := make([]Value, len(headers))
		for i, c := range cells {
			row[i] = fromSQL(c)
		}
		rows = append(rows, row)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("%s: iterate: %w", driver, err)
	}

	return New(headers, rows), nil
}

func fromSQL(c any) Value {
	switch v := c.(type) {
	case nil:
		return Null()
	case int64:
		return Int(v)
	case int32:
		return Int(int64(v))
	case int:
		return Int(int64(v))
	case bool:
		return Bool(v)
	case float64:
		return String(strconv.FormatFloat(v, 'f', -1, 64))
	case []byte:
		if len(v) == 0 {
			return Null()
		}
		return String(string(v))
	case string:
		if v == "" {
			return Null()
		}
		return String(v)
	case time.Time:
		return String(v.Format(time.RFC3339))
	}
	return String(fmt.Sprint(c))
}
