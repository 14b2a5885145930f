package repository

import "database/sql"

// ExtHandle is the subset of sqlx.DB and sqlx.Tx the repositories need, so
// any repository can be re-bound to a transaction for multi-record
// operations.
type ExtHandle interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Get(dest interface{}, query string, args ...interface{}) error
	Select(dest interface{}, query string, args ...interface{}) error
	QueryRow(query string, args ...interface{}) *sql.Row
}
