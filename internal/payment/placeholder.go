package payment

import (
	"context"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
)

const placeholderPrefix = "pi_mock_"

// PlaceholderProcessor stands in for the card processor when no credentials
// are configured. Intents it issues are never real charges.
type PlaceholderProcessor struct {
	mu       sync.Mutex
	intents  map[string]Intent
	currency string
	logger   *zap.Logger
}

func NewPlaceholderProcessor(currency string, logger *zap.Logger) *PlaceholderProcessor {
	logger.Warn("payment processor not configured, using placeholder intents")
	return &PlaceholderProcessor{
		intents:  make(map[string]Intent),
		currency: currency,
		logger:   logger.With(zap.String("component", "placeholder_payments")),
	}
}

func (p *PlaceholderProcessor) CreateIntent(_ context.Context, in CreateIntentParams) (*Intent, error) {
	id := placeholderPrefix + randomToken(9)
	intent := Intent{
		ID:           id,
		ClientSecret: id + "_secret_" + randomToken(9),
		Status:       StatusRequiresPaymentMethod,
		Amount:       MinorUnits(in.Amount),
		Currency:     p.currency,
		Metadata:     map[string]string{MetadataRegistrationID: in.RegistrationID},
	}

	p.mu.Lock()
	p.intents[id] = intent
	p.mu.Unlock()

	p.logger.Debug("placeholder intent issued", zap.String("payment_intent_id", id))
	return &intent, nil
}

// GetIntent reports every intent as succeeded. Ids it did not issue carry no metadata.
func (p *PlaceholderProcessor) GetIntent(_ context.Context, intentID string) (*Intent, error) {
	p.mu.Lock()
	intent, ok := p.intents[intentID]
	p.mu.Unlock()

	if !ok {
		intent = Intent{ID: intentID, Currency: p.currency}
	}
	intent.Status = StatusSucceeded
	return &intent, nil
}

func IsPlaceholder(intentID string) bool {
	return strings.HasPrefix(intentID, placeholderPrefix)
}

func randomToken(n int) string {
	var b strings.Builder
	for b.Len() < n {
		b.WriteString(strconv.FormatUint(rand.Uint64(), 36))
	}
	return b.String()[:n]
}
