// Package database centralises sqlx connection helpers for the
// control-plane database that keeps release history.  The driver is
// go-sql-driver/mysql, which also covers MariaDB.
//
// Both helpers Ping before returning so commands fail fast when the
// DSN is wrong, instead of surfacing the problem on the first query.
package database

import (
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// Open returns a *sqlx.DB sized for a short-lived CLI process: a couple
// of connections are plenty for release bookkeeping.
func Open(dsn string) (*sqlx.DB, error) {
	return OpenWithOptions(dsn, 5, 2)
}

// OpenWithOptions lets the service mode run a slightly larger pool.
func OpenWithOptions(dsn string, maxOpen, maxIdle int) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}
