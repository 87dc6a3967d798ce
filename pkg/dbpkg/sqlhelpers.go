// Package dbpkg provides helpers for db initialization and query execution.
package dbpkg

import (
	"context"
	"database/sql"
)

// Setup opens a database connection and verifies it with a ping.
func Setup(driver, source string) (*sql.DB, error) {
	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, err
	}

	if err = db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

// SQLInterface is the query surface shared by *sql.DB and *sql.Tx.
// Repositories take it so the same code runs against a connection
// pool in production and a rolled-back transaction in tests.
type SQLInterface interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}
