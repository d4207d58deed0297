package repository

import (
	"errors"
	"time"
)

var ErrObjectNotFound = errors.New("not found")

const (
	RegistrationStatusPending = "pending"
	RegistrationStatusPaid    = "paid"
)

// Rate is a row of parking_rates. Price is kept in its decimal text form.
type Rate struct {
	ID            string    `db:"id"`
	DurationType  string    `db:"duration_type"`
	Price         string    `db:"price"`
	DurationHours int       `db:"duration_hours"`
	Description   string    `db:"description"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type Registration struct {
	ID              string    `db:"id"`
	LicensePlate    string    `db:"license_plate"`
	Email           *string   `db:"email"`
	DurationType    string    `db:"duration_type"`
	Amount          string    `db:"amount"`
	PaymentIntentID *string   `db:"payment_intent_id"`
	PaymentMethod   string    `db:"payment_method"`
	Status          string    `db:"status"`
	StartTime       time.Time `db:"start_time"`
	EndTime         time.Time `db:"end_time"`
	CreatedAt       time.Time `db:"created_at"`
	ReceiptSent     bool      `db:"receipt_sent"`
}

type Exemption struct {
	ID           string    `db:"id"`
	LicensePlate string    `db:"license_plate"`
	StaffName    string    `db:"staff_name"`
	StartDate    time.Time `db:"start_date"`
	EndDate      time.Time `db:"end_date"`
	IsActive     bool      `db:"is_active"`
	CreatedAt    time.Time `db:"created_at"`
}

type AdminUser struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}
