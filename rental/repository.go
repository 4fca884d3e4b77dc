package rental

import "context"

// The four ledger components are logically independent: none call each
// other. The Manager sequences them the way the storefront screens did.

// AccountRepository stores registered credentials and the device session.
type AccountRepository interface {
	// Create inserts a new account. Returns ErrUsernameTaken if the
	// username already exists.
	Create(ctx context.Context, username, passwordHash string) error

	// Get returns the account for username, or ErrNotFound.
	Get(ctx context.Context, username string) (*Account, error)

	// SaveSession records username as the signed-in user, replacing any
	// previous session. The session survives restarts.
	SaveSession(ctx context.Context, username string) error

	// ClearSession signs out whoever is signed in. Never fails on an
	// already-empty session.
	ClearSession(ctx context.Context) error

	// CurrentSession returns the persisted session, or nil if no user is
	// signed in.
	CurrentSession(ctx context.Context) (*Session, error)
}

// InventoryRepository holds per-car stock counts.
type InventoryRepository interface {
	// GetStock returns the persisted stock for carID, or ErrNotFound if
	// the car has never been seeded.
	GetStock(ctx context.Context, carID string) (int, error)

	// SetStock upserts the stock count for carID.
	SetStock(ctx context.Context, carID string, stock int) error

	// Reserve atomically decrements stock by one. Returns ErrOutOfStock
	// when the current stock is zero; stock never goes below zero.
	Reserve(ctx context.Context, carID string) error
}

// RentalRepository persists rental records per user in insertion order.
type RentalRepository interface {
	Create(ctx context.Context, r *Rental) error

	// GetByID returns a rental record, or ErrNotFound.
	GetByID(ctx context.Context, id string) (*Rental, error)

	// ListByUser returns the user's rentals in chronological order.
	ListByUser(ctx context.Context, username string) ([]Rental, error)

	// UpdateStatus advances a record from one status to the next. Returns
	// ErrInvalidTransition if the record is not currently in from.
	UpdateStatus(ctx context.Context, id string, from, to RentalStatus) error
}

// NotificationRepository appends and lists per-user event messages.
type NotificationRepository interface {
	Append(ctx context.Context, username, message string) error

	// List returns the user's notifications in insertion order; callers
	// reverse for most-recent-first display.
	List(ctx context.Context, username string) ([]Notification, error)
}
