package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.
//
// parseTime=true maps DATETIME columns to time.Time and loc=UTC keeps
// every timestamp the server hands back in UTC. Reservation intervals
// themselves are stored as epoch-millisecond BIGINTs, so the session
// timezone only affects audit columns (created_at, updated_at).
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := url.QueryEscape(user)
	if pass != "" {
		auth += ":" + url.QueryEscape(pass)
	}
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Booking writes hold a row lock on the space while the conflict
	// check runs, so keep the pool wide enough that readers are not
	// starved behind a burst of creates.
	db.SetMaxOpenConns(40)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}
