package rental

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SQLiteNotificationRepository implements NotificationRepository.
type SQLiteNotificationRepository struct {
	db *sql.DB
}

func NewSQLiteNotificationRepository(db *sql.DB) *SQLiteNotificationRepository {
	return &SQLiteNotificationRepository{db: db}
}

func (r *SQLiteNotificationRepository) Append(ctx context.Context, username, message string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications(username, message, created_at) VALUES(?,?,?)`,
		username, message, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// List returns insertion order; the autoincrement id is the ordering key.
func (r *SQLiteNotificationRepository) List(ctx context.Context, username string) ([]Notification, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, username, message, created_at FROM notifications WHERE username=? ORDER BY id`, username)
	if err != nil {
		return nil, fmt.Errorf("select notifications: %w", err)
	}
	defer rows.Close()

	var result []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.Username, &n.Message, &n.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

var _ NotificationRepository = (*SQLiteNotificationRepository)(nil)
var _ RentalRepository = (*SQLiteRentalRepository)(nil)
var _ InventoryRepository = (*SQLiteInventoryRepository)(nil)
var _ AccountRepository = (*SQLiteAccountRepository)(nil)
