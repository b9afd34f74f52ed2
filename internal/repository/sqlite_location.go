package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/moneyplan/internal/db"
)

// SQLiteLocationRepo implements LocationRepo.
type SQLiteLocationRepo struct {
	db db.DBTX
}

func NewSQLiteLocationRepo(conn db.DBTX) *SQLiteLocationRepo {
	return &SQLiteLocationRepo{db: conn}
}

func (r *SQLiteLocationRepo) Get(ctx context.Context, route string) (string, error) {
	var location string
	err := r.db.QueryRowContext(ctx, `SELECT url FROM locations WHERE route = ?`, route).Scan(&location)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("location %s: %w", route, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("loading location: %w", err)
	}
	return location, nil
}

func (r *SQLiteLocationRepo) Put(ctx context.Context, route, location string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO locations (route, url, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(route) DO UPDATE SET url = excluded.url, updated_at = excluded.updated_at`,
		route, location, nowText())
	if err != nil {
		return fmt.Errorf("saving location: %w", err)
	}
	return nil
}
