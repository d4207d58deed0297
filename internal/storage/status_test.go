package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/parkqr/parking/internal/repository"
	mock_storage "github.com/parkqr/parking/internal/storage/mocks"
)

func TestCheckStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("paid registration is legal until its end", func(t *testing.T) {
		env := newTestEnv(t)

		reg, err := env.storage.CreateRegistration(ctx, NewRegistration{LicensePlate: "abc-123", DurationType: "2_hours"})
		require.NoError(t, err)
		_, err = env.storage.ConfirmPayment(ctx, reg.ID, "pi_1")
		require.NoError(t, err)

		env.setNow(fixedNow.Add(time.Hour))
		status, err := env.storage.CheckStatus(ctx, "ABC 123")
		require.NoError(t, err)
		assert.True(t, status.IsLegal)
		assert.Equal(t, VerdictPaid, status.Type)
		assert.Equal(t, "Valid paid parking", status.Status)
		assert.Equal(t, reg.EndTime, *status.ValidUntil)
		assert.Equal(t, "4.00", status.Amount.String())
		assert.Equal(t, DefaultPaymentMethod, status.PaymentMethod)

		env.setNow(fixedNow.Add(3 * time.Hour))
		status, err = env.storage.CheckStatus(ctx, "abc123")
		require.NoError(t, err)
		assert.False(t, status.IsLegal)
		assert.Equal(t, VerdictExpired, status.Type)
		assert.Equal(t, "Parking expired", status.Status)
	})

	t.Run("pending registration does not count", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.storage.CreateRegistration(ctx, NewRegistration{LicensePlate: "PEND1", DurationType: "1_hour"})
		require.NoError(t, err)

		status, err := env.storage.CheckStatus(ctx, "PEND1")
		require.NoError(t, err)
		assert.False(t, status.IsLegal)
		assert.Equal(t, VerdictNotFound, status.Type)
		assert.Equal(t, "No valid parking found", status.Status)
		assert.Nil(t, status.ValidUntil)
	})

	t.Run("staff exemption wins over expired registration", func(t *testing.T) {
		env := newTestEnv(t)

		reg, err := env.storage.CreateRegistration(ctx, NewRegistration{LicensePlate: "STAFF1", DurationType: "1_hour"})
		require.NoError(t, err)
		_, err = env.storage.ConfirmPayment(ctx, reg.ID, "pi_1")
		require.NoError(t, err)

		end := fixedNow.Add(30 * 24 * time.Hour)
		_, err = env.storage.CreateExemption(ctx, ExemptionInput{
			LicensePlate: "staff 1",
			StaffName:    "Sam Porter",
			StartDate:    fixedNow.Add(-24 * time.Hour),
			EndDate:      end,
		})
		require.NoError(t, err)

		env.setNow(fixedNow.Add(48 * time.Hour))
		status, err := env.storage.CheckStatus(ctx, "STAFF1")
		require.NoError(t, err)
		assert.True(t, status.IsLegal)
		assert.Equal(t, VerdictStaff, status.Type)
		assert.Equal(t, "Staff parking - valid exemption", status.Status)
		assert.Equal(t, end, *status.ValidUntil)
		assert.Nil(t, status.Amount)
	})

	t.Run("inactive exemption is ignored", func(t *testing.T) {
		env := newTestEnv(t)

		inactive := false
		_, err := env.storage.CreateExemption(ctx, ExemptionInput{
			LicensePlate: "STAFF2",
			StaffName:    "Alex",
			StartDate:    fixedNow.Add(-time.Hour),
			EndDate:      fixedNow.Add(time.Hour),
			IsActive:     &inactive,
		})
		require.NoError(t, err)

		status, err := env.storage.CheckStatus(ctx, "STAFF2")
		require.NoError(t, err)
		assert.Equal(t, VerdictNotFound, status.Type)
	})

	t.Run("plate without letters or digits is not found", func(t *testing.T) {
		env := newTestEnv(t)

		for _, plate := range []string{"", " - ", "---"} {
			status, err := env.storage.CheckStatus(ctx, plate)
			require.NoError(t, err, plate)
			assert.False(t, status.IsLegal)
			assert.Equal(t, VerdictNotFound, status.Type)
			assert.Equal(t, "No valid parking found", status.Status)
		}
	})
}

func TestCheckStatus_LatestEndTimeWins(t *testing.T) {
	ctx := context.Background()

	type paidRegistration struct {
		createdAt time.Time
		duration  string
	}

	tests := []struct {
		name       string
		paid       []paidRegistration
		asOf       time.Time
		wantType   string
		wantUntil  time.Time
		wantAmount string
	}{
		{
			name: "longer older registration outlasts a newer short one",
			paid: []paidRegistration{
				{createdAt: fixedNow, duration: "24_hours"},
				{createdAt: fixedNow.Add(time.Hour), duration: "1_hour"},
			},
			asOf:       fixedNow.Add(90 * time.Minute),
			wantType:   VerdictPaid,
			wantUntil:  fixedNow.Add(24 * time.Hour),
			wantAmount: "32.00",
		},
		{
			name: "renewal after expiry is legal",
			paid: []paidRegistration{
				{createdAt: fixedNow, duration: "1_hour"},
				{createdAt: fixedNow.Add(3 * time.Hour), duration: "2_hours"},
			},
			asOf:       fixedNow.Add(4 * time.Hour),
			wantType:   VerdictPaid,
			wantUntil:  fixedNow.Add(5 * time.Hour),
			wantAmount: "4.00",
		},
		{
			name: "all expired reports the last end",
			paid: []paidRegistration{
				{createdAt: fixedNow, duration: "4_hours"},
				{createdAt: fixedNow.Add(time.Hour), duration: "1_hour"},
			},
			asOf:       fixedNow.Add(6 * time.Hour),
			wantType:   VerdictExpired,
			wantUntil:  fixedNow.Add(4 * time.Hour),
			wantAmount: "8.00",
		},
		{
			name: "valid until the exact end is expired",
			paid: []paidRegistration{
				{createdAt: fixedNow, duration: "2_hours"},
			},
			asOf:       fixedNow.Add(2 * time.Hour),
			wantType:   VerdictExpired,
			wantUntil:  fixedNow.Add(2 * time.Hour),
			wantAmount: "4.00",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)

			for i, p := range tc.paid {
				env.setNow(p.createdAt)
				reg, err := env.storage.CreateRegistration(ctx, NewRegistration{LicensePlate: "LT 51 ABC", DurationType: p.duration})
				require.NoError(t, err)
				_, err = env.storage.ConfirmPayment(ctx, reg.ID, fmt.Sprintf("pi_%d", i))
				require.NoError(t, err)
			}

			env.setNow(tc.asOf)
			status, err := env.storage.CheckStatus(ctx, "lt51abc")
			require.NoError(t, err)
			assert.Equal(t, tc.wantType, status.Type)
			assert.Equal(t, tc.wantType == VerdictPaid, status.IsLegal)
			require.NotNil(t, status.ValidUntil)
			assert.Equal(t, tc.wantUntil, *status.ValidUntil)
			require.NotNil(t, status.Amount)
			assert.Equal(t, tc.wantAmount, status.Amount.String())
		})
	}
}

func TestCheckStatus_StaffOutranksValidPayment(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	reg, err := env.storage.CreateRegistration(ctx, NewRegistration{LicensePlate: "STAFF9", DurationType: "24_hours"})
	require.NoError(t, err)
	_, err = env.storage.ConfirmPayment(ctx, reg.ID, "pi_1")
	require.NoError(t, err)

	end := fixedNow.Add(2 * time.Hour)
	_, err = env.storage.CreateExemption(ctx, ExemptionInput{
		LicensePlate: "STAFF9",
		StaffName:    "Sam Porter",
		StartDate:    fixedNow.Add(-time.Hour),
		EndDate:      end,
	})
	require.NoError(t, err)

	env.setNow(fixedNow.Add(time.Hour))
	status, err := env.storage.CheckStatus(ctx, "STAFF9")
	require.NoError(t, err)
	assert.True(t, status.IsLegal)
	assert.Equal(t, VerdictStaff, status.Type)
	assert.Equal(t, end, *status.ValidUntil)
	assert.Nil(t, status.Amount)

	// Once the exemption ends the still-running payment takes over.
	env.setNow(end)
	status, err = env.storage.CheckStatus(ctx, "STAFF9")
	require.NoError(t, err)
	assert.Equal(t, VerdictPaid, status.Type)
	assert.Equal(t, reg.EndTime, *status.ValidUntil)
}

func TestCheckStatus_StoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registrations := mock_storage.NewMockRegistrationRepository(ctrl)
	exemptions := mock_storage.NewMockExemptionRepository(ctrl)

	exemptions.EXPECT().FindActive(gomock.Any(), "ABC123", gomock.Any()).Return(nil, repository.ErrObjectNotFound)
	registrations.EXPECT().LatestPaidByPlate(gomock.Any(), "ABC123").Return(nil, errors.New("connection reset"))

	s := NewParkingStorage(nil, registrations, exemptions, nil, nil, Options{})

	_, err := s.CheckStatus(context.Background(), "abc123")
	assert.ErrorIs(t, err, ErrBackingStore)
}

func TestResolveStatus_DefaultsPaymentMethod(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	paid := &repository.Registration{ID: "r", Amount: "8.00", EndTime: now.Add(time.Minute)}

	status, err := resolveStatus(nil, paid, now)
	require.NoError(t, err)
	assert.Equal(t, DefaultPaymentMethod, status.PaymentMethod)

	paid.EndTime = now
	status, err = resolveStatus(nil, paid, now)
	require.NoError(t, err)
	assert.Equal(t, VerdictExpired, status.Type)
}
