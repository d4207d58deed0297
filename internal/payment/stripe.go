package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"
)

type StripeProcessor struct {
	api      *client.API
	currency string
	timeout  time.Duration
	logger   *zap.Logger
}

func NewStripeProcessor(secretKey, currency string, timeout time.Duration, logger *zap.Logger) *StripeProcessor {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProcessor{
		api:      api,
		currency: currency,
		timeout:  timeout,
		logger:   logger.With(zap.String("component", "stripe")),
	}
}

func (p *StripeProcessor) CreateIntent(ctx context.Context, in CreateIntentParams) (*Intent, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	currency := in.Currency
	if currency == "" {
		currency = p.currency
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(MinorUnits(in.Amount)),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata(MetadataRegistrationID, in.RegistrationID)
	if in.Email != "" {
		params.ReceiptEmail = stripe.String(in.Email)
	}

	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		p.logger.Error("failed to create payment intent",
			zap.String("registration_id", in.RegistrationID), zap.Error(err))
		return nil, fmt.Errorf("failed to create stripe payment intent: %w", err)
	}

	p.logger.Info("payment intent created",
		zap.String("registration_id", in.RegistrationID), zap.String("payment_intent_id", pi.ID))
	return fromStripe(pi), nil
}

func (p *StripeProcessor) GetIntent(ctx context.Context, intentID string) (*Intent, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := p.api.PaymentIntents.Get(intentID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve stripe payment intent %s: %w", intentID, err)
	}
	return fromStripe(pi), nil
}

func fromStripe(pi *stripe.PaymentIntent) *Intent {
	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       Status(pi.Status),
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Metadata:     pi.Metadata,
	}
}
