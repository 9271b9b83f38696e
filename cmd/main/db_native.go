//go:build !cgo_sqlite

package main

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

const sqliteDriver = "sqlite"

// openDB opens the database with the pure Go driver. The mattn style
// _journal_mode and _busy_timeout parameters are translated to pragmas.
func openDB(dataSource string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriver, nativeDSN(dataSource))
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not reach database: %w", err)
	}
	return db, nil
}

func nativeDSN(dataSource string) string {
	path, query, found := strings.Cut(dataSource, "?")
	if !found {
		return dataSource
	}
	var params []string
	for _, param := range strings.Split(query, "&") {
		key, value, _ := strings.Cut(param, "=")
		switch key {
		case "_journal_mode":
			params = append(params, "_pragma=journal_mode("+value+")")
		case "_busy_timeout":
			params = append(params, "_pragma=busy_timeout("+value+")")
		default:
			params = append(params, param)
		}
	}
	return path + "?" + strings.Join(params, "&")
}
