package errors

import (
	"context"
	goerrors "errors"
	"reflect"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Classify returns a normalized error class suitable for tagging metrics/logs.
// Postgres errors are grouped by SQLSTATE class; other errors are named after
// the innermost concrete type.
func Classify(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case goerrors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case goerrors.Is(err, context.Canceled):
		return "canceled"
	}

	var pgErr *pgconn.PgError
	if goerrors.As(err, &pgErr) {
		return classifyPg(pgErr.Code)
	}

	// Unwrap to the innermost error for better signal.
	for {
		unwrapped := goerrors.Unwrap(err)
		if unwrapped == nil {
			break
		}
		err = unwrapped
	}

	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}

	name := strings.ToLower(strings.ReplaceAll(t.String(), "*", ""))
	name = strings.ReplaceAll(name, ".", "_")
	if name == "" {
		return "unknown"
	}
	return name
}

func classifyPg(code string) string {
	switch code {
	case pgerrcode.UniqueViolation, pgerrcode.ForeignKeyViolation,
		pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
		return "pg_integrity_violation"
	case pgerrcode.QueryCanceled:
		return "pg_query_canceled"
	case pgerrcode.UndefinedTable, pgerrcode.UndefinedColumn:
		return "pg_undefined_object"
	case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
		return "pg_transaction_rollback"
	case pgerrcode.TooManyConnections, pgerrcode.AdminShutdown:
		return "pg_unavailable"
	}
	// SQLSTATE class 08 covers every connection exception.
	if strings.HasPrefix(code, "08") {
		return "pg_connection_exception"
	}
	return "pg_" + strings.ToLower(code)
}
