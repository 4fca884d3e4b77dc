package rental

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SQLiteAccountRepository implements AccountRepository on the shared
// SQLite database.
type SQLiteAccountRepository struct {
	db *sql.DB
}

func NewSQLiteAccountRepository(db *sql.DB) *SQLiteAccountRepository {
	return &SQLiteAccountRepository{db: db}
}

func (r *SQLiteAccountRepository) Create(ctx context.Context, username, passwordHash string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts(username, password_hash, created_at) VALUES(?,?,?)`,
		username, passwordHash, time.Now().UTC())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("account %q: %w", username, ErrUsernameTaken)
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *SQLiteAccountRepository) Get(ctx context.Context, username string) (*Account, error) {
	var a Account
	err := r.db.QueryRowContext(ctx,
		`SELECT username, password_hash, created_at FROM accounts WHERE username=?`, username).
		Scan(&a.Username, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %q: %w", username, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select account: %w", err)
	}
	return &a, nil
}

// SaveSession keeps at most one session row (id=1); signing in while
// another user is signed in replaces the session.
func (r *SQLiteAccountRepository) SaveSession(ctx context.Context, username string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO session(id, username, signed_in) VALUES(1, ?, 1)
            ON CONFLICT(id) DO UPDATE SET username=excluded.username, signed_in=1`, username)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *SQLiteAccountRepository) ClearSession(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM session WHERE id=1`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (r *SQLiteAccountRepository) CurrentSession(ctx context.Context) (*Session, error) {
	var s Session
	err := r.db.QueryRowContext(ctx,
		`SELECT username, signed_in FROM session WHERE id=1`).
		Scan(&s.Username, &s.SignedIn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select session: %w", err)
	}
	if !s.SignedIn {
		return nil, nil
	}
	return &s, nil
}
