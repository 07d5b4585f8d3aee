// Package data manages the SQL connection for account persistence.
//
// The driver is configurable: sqlite3 for development, postgres (pgx) or
// mysql in deployment.
package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ncobase/shopauth/logging/logger"
)

type Data struct {
	db     *sql.DB
	driver string
}

func New(driver, source string) (*Data, error) {
	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	logger.Infof(ctx, "database connected, driver %s", driver)
	return &Data{db: db, driver: driver}, nil
}

func (d *Data) DB() *sql.DB {
	return d.db
}

func (d *Data) Driver() string {
	return d.driver
}

func (d *Data) Close() error {
	return d.db.Close()
}
