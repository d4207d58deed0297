package storage

import (
	"time"
)

const (
	StatusPending = "pending"
	StatusPaid    = "paid"

	DefaultPaymentMethod = "stripe"
)

const (
	VerdictStaff    = "staff"
	VerdictPaid     = "paid"
	VerdictExpired  = "expired"
	VerdictNotFound = "not_found"
)

type ParkingRate struct {
	ID            string    `json:"id"`
	DurationType  string    `json:"durationType"`
	Price         Money     `json:"price"`
	DurationHours int       `json:"durationHours"`
	Description   string    `json:"description"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// RateListing is the rate catalog as served. Degraded is set when the rates
// are built-in defaults because the row store could not be read.
type RateListing struct {
	Rates    []ParkingRate
	Degraded bool
}

type ParkingRegistration struct {
	ID              string    `json:"id"`
	LicensePlate    string    `json:"licensePlate"`
	Email           string    `json:"email,omitempty"`
	DurationType    string    `json:"durationType"`
	Amount          Money     `json:"amount"`
	PaymentIntentID string    `json:"paymentIntentId,omitempty"`
	PaymentMethod   string    `json:"paymentMethod"`
	Status          string    `json:"status"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	CreatedAt       time.Time `json:"createdAt"`
	ReceiptSent     bool      `json:"receiptSent"`
}

type NewRegistration struct {
	LicensePlate   string
	DurationType   string
	Email          string
	IdempotencyKey string
}

// DateRange bounds registration listings by start time. Both ends are inclusive
// and the range only applies when both are set.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

type StaffExemption struct {
	ID           string    `json:"id"`
	LicensePlate string    `json:"licensePlate"`
	StaffName    string    `json:"staffName"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

type ExemptionInput struct {
	LicensePlate string
	StaffName    string
	StartDate    time.Time
	EndDate      time.Time
	IsActive     *bool
}

type ExemptionPatch struct {
	LicensePlate *string
	StaffName    *string
	StartDate    *time.Time
	EndDate      *time.Time
	IsActive     *bool
}

type ParkingStatus struct {
	IsLegal       bool       `json:"isLegal"`
	Status        string     `json:"status"`
	Type          string     `json:"type"`
	ValidUntil    *time.Time `json:"validUntil,omitempty"`
	Amount        *Money     `json:"amount,omitempty"`
	PaymentMethod string     `json:"paymentMethod,omitempty"`
}
