package payment

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPlaceholderProcessor_CreateAndGet(t *testing.T) {
	p := NewPlaceholderProcessor("gbp", zap.NewNop())
	ctx := context.Background()

	intent, err := p.CreateIntent(ctx, CreateIntentParams{
		RegistrationID: "reg-1",
		Amount:         decimal.RequireFromString("4.00"),
	})
	require.NoError(t, err)

	assert.True(t, IsPlaceholder(intent.ID))
	assert.Len(t, intent.ID, len(placeholderPrefix)+9)
	assert.Contains(t, intent.ClientSecret, intent.ID)
	assert.Equal(t, int64(400), intent.Amount)
	assert.Equal(t, "gbp", intent.Currency)

	got, err := p.GetIntent(ctx, intent.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, got.Status)
	assert.Equal(t, "reg-1", got.Metadata[MetadataRegistrationID])
}

func TestPlaceholderProcessor_GetUnknownIntent(t *testing.T) {
	p := NewPlaceholderProcessor("gbp", zap.NewNop())

	got, err := p.GetIntent(context.Background(), "pi_from_client")
	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, got.Status)
	assert.Empty(t, got.Metadata[MetadataRegistrationID])
}

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		amount string
		want   int64
	}{
		{"2.50", 250},
		{"32.00", 3200},
		{"0.005", 1},
		{"0", 0},
	}
	for _, tc := range tests {
		t.Run(tc.amount, func(t *testing.T) {
			assert.Equal(t, tc.want, MinorUnits(decimal.RequireFromString(tc.amount)))
		})
	}
}
