package payment

import (
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusSucceeded             Status = "succeeded"
	StatusProcessing            Status = "processing"
	StatusRequiresPaymentMethod Status = "requires_payment_method"
	StatusCanceled              Status = "canceled"
)

// MetadataRegistrationID is the intent metadata key that ties an intent to a registration.
const MetadataRegistrationID = "registration_id"

type Intent struct {
	ID           string
	ClientSecret string
	Status       Status
	Amount       int64
	Currency     string
	Metadata     map[string]string
}

type CreateIntentParams struct {
	RegistrationID string
	Amount         decimal.Decimal
	Currency       string
	Email          string
}

// MinorUnits converts a 2dp amount into the processor's smallest currency unit.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
