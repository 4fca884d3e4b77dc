package rental

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// dateLayout is how rental dates are persisted and shown. Durations are
// whole calendar days; time-of-day is never stored.
const dateLayout = "2006-01-02"

// SQLiteRentalRepository implements RentalRepository.
type SQLiteRentalRepository struct {
	db *sql.DB
}

func NewSQLiteRentalRepository(db *sql.DB) *SQLiteRentalRepository {
	return &SQLiteRentalRepository{db: db}
}

func (r *SQLiteRentalRepository) Create(ctx context.Context, rec *Rental) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO rentals(id, username, car_id, car_name, daily_price, date_from, date_to, total_price, status, created_at)
            VALUES(?,?,?,?,?,?,?,?,?,?)`,
		rec.ID, rec.Username, rec.CarID, rec.CarName, rec.DailyPrice,
		rec.DateFrom.Format(dateLayout), rec.DateTo.Format(dateLayout),
		rec.TotalPrice, string(rec.Status), rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert rental: %w", err)
	}
	return nil
}

func (r *SQLiteRentalRepository) GetByID(ctx context.Context, id string) (*Rental, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, username, car_id, car_name, daily_price, date_from, date_to, total_price, status, created_at
            FROM rentals WHERE id=?`, id)
	rec, err := scanRental(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("rental %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select rental: %w", err)
	}
	return rec, nil
}

// ListByUser preserves insertion order (rowid) so the list reads
// chronologically even when several rentals share a created_at second.
func (r *SQLiteRentalRepository) ListByUser(ctx context.Context, username string) ([]Rental, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, username, car_id, car_name, daily_price, date_from, date_to, total_price, status, created_at
            FROM rentals WHERE username=? ORDER BY rowid`, username)
	if err != nil {
		return nil, fmt.Errorf("select rentals: %w", err)
	}
	defer rows.Close()

	var result []Rental
	for rows.Next() {
		rec, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRentalRepository) UpdateStatus(ctx context.Context, id string, from, to RentalStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE rentals SET status=? WHERE id=? AND status=?`, string(to), id, string(from))
	if err != nil {
		return fmt.Errorf("update rental status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update status rows affected: %w", err)
	}
	if affected == 0 {
		// Either the record is missing or it is not in the expected
		// status; distinguish for the caller.
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM rentals WHERE id=?)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("check rental exists: %w", err)
		}
		if !exists {
			return fmt.Errorf("rental %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("rental %s is not %s: %w", id, from, ErrInvalidTransition)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRental(row rowScanner) (*Rental, error) {
	var (
		rec      Rental
		from, to string
		status   string
	)
	if err := row.Scan(&rec.ID, &rec.Username, &rec.CarID, &rec.CarName, &rec.DailyPrice,
		&from, &to, &rec.TotalPrice, &status, &rec.CreatedAt); err != nil {
		return nil, err
	}
	dateFrom, err := time.Parse(dateLayout, from)
	if err != nil {
		return nil, fmt.Errorf("parse date_from: %w", err)
	}
	dateTo, err := time.Parse(dateLayout, to)
	if err != nil {
		return nil, fmt.Errorf("parse date_to: %w", err)
	}
	rec.DateFrom = dateFrom
	rec.DateTo = dateTo
	rec.Status = RentalStatus(status)
	return &rec, nil
}
