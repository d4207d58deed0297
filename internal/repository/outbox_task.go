package repository

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusCreated    TaskStatus = "CREATED"
	TaskStatusProcessing TaskStatus = "PROCESSING"
	TaskStatusFailed     TaskStatus = "FAILED"
	TaskStatusDone       TaskStatus = "DONE"
)

type OutboxTask struct {
	ID          uuid.UUID       `db:"id"`
	Status      TaskStatus      `db:"status"`
	Payload     json.RawMessage `db:"payload"`
	Topic       string          `db:"topic"`
	Attempts    int             `db:"attempts"`
	LastError   *string         `db:"last_error"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
	CompletedAt *time.Time      `db:"completed_at"`
}

// RegistrationPaidPayload is published once a registration transitions to paid.
type RegistrationPaidPayload struct {
	RegistrationID  string    `json:"registration_id"`
	LicensePlate    string    `json:"license_plate"`
	Email           string    `json:"email,omitempty"`
	DurationType    string    `json:"duration_type"`
	Amount          string    `json:"amount"`
	PaymentIntentID string    `json:"payment_intent_id"`
	PaymentMethod   string    `json:"payment_method"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	PaidAt          time.Time `json:"paid_at"`
}
