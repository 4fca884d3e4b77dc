package rental

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"bengo-rentals/logging"
)

// Manager is a thin façade over the four ledger repositories, keeping CLI
// code simple. It is the only place where components are sequenced: the
// repositories never call each other.
type Manager struct {
	database      *Database
	accounts      AccountRepository
	inventory     InventoryRepository
	rentals       RentalRepository
	notifications NotificationRepository
	catalog       []Car
	log           logging.Logger

	// test seams
	now       func() time.Time
	seedStock func() int
}

// NewManager opens (or creates) the SQLite database at dbPath, wires the
// SQLite repositories, and seeds stock for any catalog car that has no
// persisted count yet.
func NewManager(ctx context.Context, dbPath string, log logging.Logger) (*Manager, error) {
	database, err := NewDatabase(dbPath)
	if err != nil {
		return nil, err
	}

	db := database.DB()
	m := &Manager{
		database:      database,
		accounts:      NewSQLiteAccountRepository(db),
		inventory:     NewSQLiteInventoryRepository(db),
		rentals:       NewSQLiteRentalRepository(db),
		notifications: NewSQLiteNotificationRepository(db),
		catalog:       Catalog(),
		log:           log,
		now:           time.Now,
		seedStock:     randomSeedStock,
	}

	if err := m.seedMissingStocks(ctx); err != nil {
		database.Close()
		return nil, err
	}
	return m, nil
}

// Close closes the underlying database.
func (m *Manager) Close() error { return m.database.Close() }

// Cars returns the static catalog.
func (m *Manager) Cars() []Car { return m.catalog }

func randomSeedStock() int {
	return minSeedStock + rand.IntN(maxSeedStock-minSeedStock+1)
}

func (m *Manager) seedMissingStocks(ctx context.Context) error {
	for _, car := range m.catalog {
		_, err := m.inventory.GetStock(ctx, car.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}
		if err := m.inventory.SetStock(ctx, car.ID, m.seedStock()); err != nil {
			return err
		}
	}
	return nil
}

// ------------------ Accounts & session ------------------

const minPasswordLen = 8

// Register creates a new account. Usernames are unique; registering a
// taken username fails instead of overwriting the previous account.
func (m *Manager) Register(ctx context.Context, username, password, repeat string) error {
	if username == "" || password == "" || repeat == "" {
		return validationErr("registration", "please fill all fields")
	}
	if len(password) < minPasswordLen {
		return validationErr("password", fmt.Sprintf("must be at least %d characters", minPasswordLen))
	}
	if password != repeat {
		return validationErr("password", "passwords do not match")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := m.accounts.Create(ctx, username, string(hash)); err != nil {
		return err
	}
	m.log.Info(ctx, "account registered", "username", username)
	return nil
}

// SignIn verifies credentials and persists the session so it survives
// restarts until an explicit sign-out.
func (m *Manager) SignIn(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return validationErr("sign in", "please enter username and password")
	}
	if len(password) < minPasswordLen {
		return validationErr("password", fmt.Sprintf("must be at least %d characters", minPasswordLen))
	}

	account, err := m.accounts.Get(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}

	if err := m.accounts.SaveSession(ctx, username); err != nil {
		return err
	}
	m.log.Info(ctx, "signed in", "username", username)
	return nil
}

// SignOut clears the session unconditionally.
func (m *Manager) SignOut(ctx context.Context) error {
	if err := m.accounts.ClearSession(ctx); err != nil {
		return err
	}
	m.log.Info(ctx, "signed out")
	return nil
}

// CurrentUser returns the signed-in username, or "" if nobody is.
func (m *Manager) CurrentUser(ctx context.Context) (string, error) {
	session, err := m.accounts.CurrentSession(ctx)
	if err != nil {
		return "", err
	}
	if session == nil {
		return "", nil
	}
	return session.Username, nil
}

func (m *Manager) requireUser(ctx context.Context) (string, error) {
	username, err := m.CurrentUser(ctx)
	if err != nil {
		return "", err
	}
	if username == "" {
		return "", ErrNotSignedIn
	}
	return username, nil
}

// ------------------ Inventory ------------------

// Stock returns the current stock count for a catalog car.
func (m *Manager) Stock(ctx context.Context, carID string) (int, error) {
	if _, err := CarByID(carID); err != nil {
		return 0, err
	}
	return m.inventory.GetStock(ctx, carID)
}

// ResetAllStocks re-rolls every car's stock with a fresh value in the seed
// range, discarding prior counts.
func (m *Manager) ResetAllStocks(ctx context.Context) error {
	for _, car := range m.catalog {
		if err := m.inventory.SetStock(ctx, car.ID, m.seedStock()); err != nil {
			return err
		}
	}
	m.log.Info(ctx, "inventory reset")
	return nil
}

// ------------------ Rentals ------------------

// today truncates the clock to a calendar day; billing ignores time-of-day.
func (m *Manager) today() time.Time {
	y, mo, d := m.now().Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

// rentalDays counts whole calendar days between two dates. The minimum
// billable duration is always one day.
func rentalDays(from, to time.Time) int64 {
	days := int64(to.Sub(from).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return days
}

// CreateRental books a car for the signed-in user, from today until
// dateTo, with status ProcessingPayment. Stock is not committed here;
// it is reserved when the rental is paid.
func (m *Manager) CreateRental(ctx context.Context, carID string, dateTo time.Time) (*Rental, error) {
	username, err := m.requireUser(ctx)
	if err != nil {
		return nil, err
	}
	car, err := CarByID(carID)
	if err != nil {
		return nil, err
	}

	from := m.today()
	y, mo, d := dateTo.Date()
	to := time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
	if to.Before(from) {
		return nil, validationErr("return date", "must be today or later")
	}

	rec := &Rental{
		ID:         uuid.NewString(),
		Username:   username,
		CarID:      car.ID,
		CarName:    car.Name,
		DailyPrice: car.DailyPrice,
		DateFrom:   from,
		DateTo:     to,
		TotalPrice: car.DailyPrice * rentalDays(from, to),
		Status:     StatusProcessingPayment,
		CreatedAt:  m.now().UTC(),
	}
	if err := m.rentals.Create(ctx, rec); err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Rental requested: %s, %s to %s. Awaiting payment.",
		car.Name, from.Format(dateLayout), to.Format(dateLayout))
	if err := m.notifications.Append(ctx, username, message); err != nil {
		return nil, err
	}

	m.log.Info(ctx, "rental created", "rental_id", rec.ID, "car", car.Name, "total", rec.TotalPrice)
	return rec, nil
}

// MarkPaid advances a rental from ProcessingPayment to Paid. The stock
// decrement is committed here, at payment time, not at booking time. If
// the car sold out in between, the record stays ProcessingPayment and the
// caller is told.
func (m *Manager) MarkPaid(ctx context.Context, rentalID string) error {
	rec, err := m.rentals.GetByID(ctx, rentalID)
	if err != nil {
		return err
	}
	if rec.Status != StatusProcessingPayment {
		return fmt.Errorf("rental %s is %s: %w", rentalID, rec.Status, ErrInvalidTransition)
	}

	if err := m.inventory.Reserve(ctx, rec.CarID); err != nil {
		if errors.Is(err, ErrOutOfStock) {
			m.log.Warn(ctx, "payment rejected, out of stock", "rental_id", rentalID, "car", rec.CarName)
		}
		return err
	}
	if err := m.rentals.UpdateStatus(ctx, rentalID, StatusProcessingPayment, StatusPaid); err != nil {
		return err
	}

	message := fmt.Sprintf("Payment confirmed for %s. Total %s.", rec.CarName, FormatPrice(rec.TotalPrice))
	if err := m.notifications.Append(ctx, rec.Username, message); err != nil {
		return err
	}

	m.log.Info(ctx, "rental paid", "rental_id", rentalID, "car", rec.CarName)
	return nil
}

// MarkReturned advances a rental from Paid to Returned. Returning a car
// does not restore stock; only ResetAllStocks replenishes inventory.
func (m *Manager) MarkReturned(ctx context.Context, rentalID string) error {
	rec, err := m.rentals.GetByID(ctx, rentalID)
	if err != nil {
		return err
	}
	if rec.Status != StatusPaid {
		return fmt.Errorf("rental %s is %s: %w", rentalID, rec.Status, ErrInvalidTransition)
	}
	if err := m.rentals.UpdateStatus(ctx, rentalID, StatusPaid, StatusReturned); err != nil {
		return err
	}

	message := fmt.Sprintf("%s returned. Thank you for renting with BenGo!", rec.CarName)
	if err := m.notifications.Append(ctx, rec.Username, message); err != nil {
		return err
	}

	m.log.Info(ctx, "rental returned", "rental_id", rentalID, "car", rec.CarName)
	return nil
}

// Rentals lists the signed-in user's rentals in chronological order.
func (m *Manager) Rentals(ctx context.Context) ([]Rental, error) {
	username, err := m.requireUser(ctx)
	if err != nil {
		return nil, err
	}
	return m.rentals.ListByUser(ctx, username)
}

// ------------------ Notifications ------------------

// Notifications lists the signed-in user's notifications in insertion
// order. The CLI reverses them for most-recent-first display.
func (m *Manager) Notifications(ctx context.Context) ([]Notification, error) {
	username, err := m.requireUser(ctx)
	if err != nil {
		return nil, err
	}
	return m.notifications.List(ctx, username)
}
