package rental

import "time"

// RentalStatus is the lifecycle stage of a rental record.
// Transitions only move forward: ProcessingPayment -> Paid -> Returned.
type RentalStatus string

const (
	StatusProcessingPayment RentalStatus = "ProcessingPayment"
	StatusPaid              RentalStatus = "Paid"
	StatusReturned          RentalStatus = "Returned"
)

// Car is an immutable catalog entry. Stock counts live in the inventory
// ledger, not on the car itself.
type Car struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	DailyPrice int64  `json:"daily_price"` // whole pesos per day
	ImageRef   string `json:"image_ref"`
}

// Account is a registered user.
type Account struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Don't serialize password hash
	CreatedAt    time.Time `json:"created_at"`
}

// Session records which user, if any, is currently signed in on this
// device. It persists across restarts until an explicit sign-out.
type Session struct {
	Username string `json:"username"`
	SignedIn bool   `json:"signed_in"`
}

// Rental is one rental record, exclusively owned by one username.
type Rental struct {
	ID         string       `json:"id"`
	Username   string       `json:"username"`
	CarID      string       `json:"car_id"`
	CarName    string       `json:"car_name"`
	DailyPrice int64        `json:"daily_price"`
	DateFrom   time.Time    `json:"date_from"`
	DateTo     time.Time    `json:"date_to"`
	TotalPrice int64        `json:"total_price"`
	Status     RentalStatus `json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
}

// Notification is one human-readable event message owned by a user.
// The store keeps insertion order; display reverses it.
type Notification struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
