package rental

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLiteInventoryRepository implements InventoryRepository.
type SQLiteInventoryRepository struct {
	db *sql.DB
}

func NewSQLiteInventoryRepository(db *sql.DB) *SQLiteInventoryRepository {
	return &SQLiteInventoryRepository{db: db}
}

func (r *SQLiteInventoryRepository) GetStock(ctx context.Context, carID string) (int, error) {
	var stock int
	err := r.db.QueryRowContext(ctx,
		`SELECT stock FROM car_stocks WHERE car_id=?`, carID).Scan(&stock)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("stock for car %s: %w", carID, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("select stock: %w", err)
	}
	return stock, nil
}

func (r *SQLiteInventoryRepository) SetStock(ctx context.Context, carID string, stock int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO car_stocks(car_id, stock) VALUES(?,?)
            ON CONFLICT(car_id) DO UPDATE SET stock=excluded.stock`, carID, stock)
	if err != nil {
		return fmt.Errorf("set stock: %w", err)
	}
	return nil
}

// Reserve decrements in a single guarded statement so two interleaved
// reserves can never both observe stock=1; the stock > 0 predicate and the
// CHECK constraint keep the count from ever going below zero.
func (r *SQLiteInventoryRepository) Reserve(ctx context.Context, carID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE car_stocks SET stock = stock - 1 WHERE car_id=? AND stock > 0`, carID)
	if err != nil {
		return fmt.Errorf("reserve stock: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reserve stock rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("car %s: %w", carID, ErrOutOfStock)
	}
	return nil
}
