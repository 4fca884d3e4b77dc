package rental

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bengo-rentals/logging"
)

const testPassword = "wheels4ever"

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	dir := t.TempDir()
	return openTestManager(t, filepath.Join(dir, "bengo.db"))
}

func openTestManager(t *testing.T, path string) *Manager {
	t.Helper()
	m, err := NewManager(context.Background(), path, logging.NewDiscard())
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func signUpAndIn(t *testing.T, m *Manager, username string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, m.Register(ctx, username, testPassword, testPassword))
	require.NoError(t, m.SignIn(ctx, username, testPassword))
}

func TestRegisterValidation(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	tests := []struct {
		name                       string
		username, password, repeat string
	}{
		{"empty username", "", testPassword, testPassword},
		{"empty password", "alice", "", ""},
		{"short password", "alice", "short", "short"},
		{"mismatched repeat", "alice", testPassword, "something else"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.Register(ctx, tt.username, tt.password, tt.repeat)
			assert.True(t, IsValidation(err), "want validation error, got %v", err)
		})
	}
}

func TestRegisterThenSignIn(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Register(ctx, "alice", testPassword, testPassword))

	// wrong password
	err := m.SignIn(ctx, "alice", "not-the-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// unknown user looks identical to a bad password
	err = m.SignIn(ctx, "mallory", testPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, m.SignIn(ctx, "alice", testPassword))
	username, err := m.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
}

func TestRegisterTakenUsername(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Register(ctx, "alice", testPassword, testPassword))
	err := m.Register(ctx, "alice", "anotherPassword1", "anotherPassword1")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestSessionSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bengo.db")

	m1 := openTestManager(t, path)
	signUpAndIn(t, m1, "alice")
	require.NoError(t, m1.Close())

	m2 := openTestManager(t, path)
	username, err := m2.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
}

func TestSignOut(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	signUpAndIn(t, m, "alice")

	require.NoError(t, m.SignOut(ctx))
	username, err := m.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Empty(t, username)

	// signing out twice is fine
	require.NoError(t, m.SignOut(ctx))
}

func TestStocksAreSeededInRange(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	for _, car := range m.Cars() {
		stock, err := m.Stock(ctx, car.ID)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, stock, minSeedStock, "car %s", car.Name)
		assert.LessOrEqual(t, stock, maxSeedStock, "car %s", car.Name)
	}

	_, err := m.Stock(ctx, "99")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResetAllStocksDiscardsPriorCounts(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.inventory.SetStock(ctx, "1", 0))
	require.NoError(t, m.ResetAllStocks(ctx))

	for _, car := range m.Cars() {
		stock, err := m.Stock(ctx, car.ID)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, stock, minSeedStock)
		assert.LessOrEqual(t, stock, maxSeedStock)
	}
}

func TestCreateRentalRequiresSignIn(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	_, err := m.CreateRental(ctx, "1", time.Now().AddDate(0, 0, 2))
	assert.ErrorIs(t, err, ErrNotSignedIn)

	_, err = m.Rentals(ctx)
	assert.ErrorIs(t, err, ErrNotSignedIn)

	_, err = m.Notifications(ctx)
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestCreateRentalAppendsProcessingRecord(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	signUpAndIn(t, m, "alice")

	rec, err := m.CreateRental(ctx, "2", time.Now().AddDate(0, 0, 5))
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "Honda Civic", rec.CarName)
	assert.Equal(t, StatusProcessingPayment, rec.Status)

	list, err := m.Rentals(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, list)
	last := list[len(list)-1]
	assert.Equal(t, rec.ID, last.ID)
	assert.Equal(t, StatusProcessingPayment, last.Status)
}

func TestCreateRentalUnknownCar(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	signUpAndIn(t, m, "alice")

	_, err := m.CreateRental(ctx, "99", time.Now().AddDate(0, 0, 1))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateRentalRejectsPastReturnDate(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	signUpAndIn(t, m, "alice")

	_, err := m.CreateRental(ctx, "1", time.Now().AddDate(0, 0, -1))
	assert.True(t, IsValidation(err), "want validation error, got %v", err)
}

func TestBilling(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	signUpAndIn(t, m, "alice")

	today := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
	m.now = func() time.Time { return today }

	// Toyota Vios at 2500/day for 3 whole days
	rec, err := m.CreateRental(ctx, "1", today.AddDate(0, 0, 3))
	require.NoError(t, err)
	assert.Equal(t, int64(7500), rec.TotalPrice)

	// same-day return still bills the one-day minimum
	rec, err = m.CreateRental(ctx, "1", today)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), rec.TotalPrice)

	// time-of-day never changes the whole-day duration
	rec, err = m.CreateRental(ctx, "1", today.AddDate(0, 0, 3).Add(9*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(7500), rec.TotalPrice)
}

func TestRentalLifecycle(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	signUpAndIn(t, m, "alice")

	rec, err := m.CreateRental(ctx, "1", time.Now().AddDate(0, 0, 2))
	require.NoError(t, err)

	before, err := m.Stock(ctx, "1")
	require.NoError(t, err)

	// no skipping: ProcessingPayment cannot go straight to Returned
	err = m.MarkReturned(ctx, rec.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, m.MarkPaid(ctx, rec.ID))
	after, err := m.Stock(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, before-1, after, "stock is committed at payment time")

	// paying twice is rejected
	err = m.MarkPaid(ctx, rec.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, m.MarkReturned(ctx, rec.ID))

	// returning does not restore stock
	restored, err := m.Stock(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, after, restored)

	// Returned is terminal
	err = m.MarkReturned(ctx, rec.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	list, err := m.Rentals(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusReturned, list[len(list)-1].Status)
}

func TestMarkPaidOutOfStock(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	signUpAndIn(t, m, "alice")

	rec, err := m.CreateRental(ctx, "3", time.Now().AddDate(0, 0, 1))
	require.NoError(t, err)

	// the car sells out between booking and payment
	require.NoError(t, m.inventory.SetStock(ctx, "3", 0))

	err = m.MarkPaid(ctx, rec.ID)
	assert.ErrorIs(t, err, ErrOutOfStock)

	// the record stays unpaid and can be retried after a restock
	got, err := m.rentals.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusProcessingPayment, got.Status)

	require.NoError(t, m.inventory.SetStock(ctx, "3", 1))
	require.NoError(t, m.MarkPaid(ctx, rec.ID))
}

func TestNotificationsFollowLifecycle(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	signUpAndIn(t, m, "alice")

	rec, err := m.CreateRental(ctx, "1", time.Now().AddDate(0, 0, 3))
	require.NoError(t, err)
	require.NoError(t, m.MarkPaid(ctx, rec.ID))
	require.NoError(t, m.MarkReturned(ctx, rec.ID))

	items, err := m.Notifications(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)

	// insertion order: booking, payment, return
	assert.Contains(t, items[0].Message, "Rental requested")
	assert.Contains(t, items[0].Message, "Toyota Vios")
	assert.Contains(t, items[1].Message, "Payment confirmed")
	assert.Contains(t, items[1].Message, "₱7,500")
	assert.Contains(t, items[2].Message, "returned")
}

func TestRentalsAreScopedPerUser(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	signUpAndIn(t, m, "alice")
	_, err := m.CreateRental(ctx, "1", time.Now().AddDate(0, 0, 1))
	require.NoError(t, err)

	require.NoError(t, m.SignOut(ctx))
	signUpAndIn(t, m, "bob")

	list, err := m.Rentals(ctx)
	require.NoError(t, err)
	assert.Empty(t, list, "bob must not see alice's rentals")

	items, err := m.Notifications(ctx)
	require.NoError(t, err)
	assert.Empty(t, items, "bob must not see alice's notifications")
}
