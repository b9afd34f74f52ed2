package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/moneyplan/internal/db"
	"github.com/alexanderramin/moneyplan/internal/session"
)

// SQLiteSessionRepo implements session.Store. The sessions table holds at
// most one row.
type SQLiteSessionRepo struct {
	db  db.DBTX
	uow db.UnitOfWork
}

func NewSQLiteSessionRepo(conn db.DBTX, uow db.UnitOfWork) *SQLiteSessionRepo {
	return &SQLiteSessionRepo{db: conn, uow: uow}
}

func (r *SQLiteSessionRepo) Load(ctx context.Context) (*session.Credential, error) {
	row := r.db.QueryRowContext(ctx, `SELECT token, user_id, user_email, user_name, expires_at, created_at
		FROM sessions WHERE id = 1`)

	var (
		c         session.Credential
		expiresAt sql.NullString
		createdAt string
	)
	err := row.Scan(&c.Token, &c.User.ID, &c.User.Email, &c.User.Name, &expiresAt, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	c.ExpiresAt = scanTime(expiresAt)
	if t := scanTime(sql.NullString{String: createdAt, Valid: true}); t != nil {
		c.CreatedAt = *t
	}
	return &c, nil
}

func (r *SQLiteSessionRepo) Save(ctx context.Context, c *session.Credential) error {
	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO sessions (id, token, user_id, user_email, user_name, expires_at, created_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			token = excluded.token,
			user_id = excluded.user_id,
			user_email = excluded.user_email,
			user_name = excluded.user_name,
			expires_at = excluded.expires_at,
			created_at = excluded.created_at`,
		c.Token,
		c.User.ID,
		c.User.Email,
		c.User.Name,
		timeArg(c.ExpiresAt),
		timeArg(&createdAt),
	)
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Clear removes the credential and every remembered location in one
// transaction, so the next user starts from a clean slate.
func (r *SQLiteSessionRepo) Clear(ctx context.Context) error {
	return r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
			return fmt.Errorf("deleting session: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM locations`); err != nil {
			return fmt.Errorf("deleting locations: %w", err)
		}
		return nil
	})
}
