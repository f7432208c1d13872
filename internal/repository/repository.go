package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// DBTX is an interface abstracting *sqlx.DB and *sqlx.Tx for repository use.
type DBTX interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// oraUniqueViolation is raised when an INSERT or MERGE hits a unique constraint.
const oraUniqueViolation = "ORA-00001"

// isUniqueViolation recognizes unique constraint errors from both Oracle drivers.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), oraUniqueViolation)
}

// affected reports whether res touched at least one row.
func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// paginate appends Oracle row limiting to a query ordered by the caller.
// The offset and fetch size bind as the next two positional parameters.
func paginate(query string, argCount int) string {
	return fmt.Sprintf("%s OFFSET :%d ROWS FETCH NEXT :%d ROWS ONLY", query, argCount+1, argCount+2)
}
