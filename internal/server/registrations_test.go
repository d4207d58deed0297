package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/parkqr/parking/internal/storage"
)

func pendingRegistration() *storage.ParkingRegistration {
	return &storage.ParkingRegistration{
		ID:            "reg-1",
		LicensePlate:  "ABC123",
		DurationType:  "2_hours",
		Amount:        storage.MustMoney("4"),
		PaymentMethod: storage.DefaultPaymentMethod,
		Status:        storage.StatusPending,
		StartTime:     testNow,
		EndTime:       testNow.Add(2 * time.Hour),
		CreatedAt:     testNow,
	}
}

const pendingRegistrationJSON = `{"id":"reg-1","licensePlate":"ABC123","durationType":"2_hours","amount":"4.00",` +
	`"paymentMethod":"stripe","status":"pending","startTime":"2025-03-10T12:00:00Z",` +
	`"endTime":"2025-03-10T14:00:00Z","createdAt":"2025-03-10T12:00:00Z","receiptSent":false}`

func TestHandleCreateRegistration(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		idempotencyKey string
		setupMocks     func(env *testEnv)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "created with idempotency key",
			body:           map[string]string{"licensePlate": "abc-123", "durationType": "2_hours"},
			idempotencyKey: " key-1 ",
			setupMocks: func(env *testEnv) {
				env.storage.EXPECT().
					CreateRegistration(gomock.Any(), storage.NewRegistration{
						LicensePlate:   "abc-123",
						DurationType:   "2_hours",
						IdempotencyKey: "key-1",
					}).
					Return(pendingRegistration(), nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   pendingRegistrationJSON,
		},
		{
			name:           "malformed body",
			body:           `{"licensePlate":`,
			setupMocks:     func(env *testEnv) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"message":"Invalid request body"}`,
		},
		{
			name: "unknown duration",
			body: map[string]string{"licensePlate": "ABC123", "durationType": "3_days"},
			setupMocks: func(env *testEnv) {
				env.storage.EXPECT().
					CreateRegistration(gomock.Any(), gomock.Any()).
					Return(nil, storage.ErrInvalidDuration)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"message":"validation error: invalid duration type"}`,
		},
		{
			name: "duplicate request in flight",
			body: map[string]string{"licensePlate": "ABC123", "durationType": "1_hour"},
			setupMocks: func(env *testEnv) {
				env.storage.EXPECT().
					CreateRegistration(gomock.Any(), gomock.Any()).
					Return(nil, storage.ErrConflict)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"message":"request with this idempotency key is still in progress"}`,
		},
		{
			name: "store timeout",
			body: map[string]string{"licensePlate": "ABC123", "durationType": "1_hour"},
			setupMocks: func(env *testEnv) {
				env.storage.EXPECT().
					CreateRegistration(gomock.Any(), gomock.Any()).
					Return(nil, storage.ErrBackingStoreTimeout)
			},
			expectedStatus: http.StatusGatewayTimeout,
			expectedBody:   `{"message":"Error creating registration"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t, Options{})
			tc.setupMocks(env)

			req := jsonRequest(t, http.MethodPost, "/api/parking-registration", tc.body)
			if tc.idempotencyKey != "" {
				req.Header.Set("Idempotency-Key", tc.idempotencyKey)
			}
			rr := httptest.NewRecorder()
			env.server.handleCreateRegistration(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func TestHandleCreatePaymentIntent(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMocks     func(env *testEnv)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "intent created",
			body: `{"amount": 4, "registrationId": "reg-1"}`,
			setupMocks: func(env *testEnv) {
				env.storage.EXPECT().
					CreatePaymentIntent(gomock.Any(), "reg-1", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, amount storage.Money) (string, error) {
						assert.Equal(t, "4.00", amount.String())
						return "pi_1_secret_2", nil
					})
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"clientSecret":"pi_1_secret_2"}`,
		},
		{
			name:           "missing registration id",
			body:           `{"amount": 4}`,
			setupMocks:     func(env *testEnv) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"message":"Missing amount or registrationId"}`,
		},
		{
			name:           "missing amount",
			body:           `{"registrationId": "reg-1"}`,
			setupMocks:     func(env *testEnv) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"message":"Missing amount or registrationId"}`,
		},
		{
			name: "amount mismatch",
			body: `{"amount": "9.99", "registrationId": "reg-1"}`,
			setupMocks: func(env *testEnv) {
				env.storage.EXPECT().
					CreatePaymentIntent(gomock.Any(), "reg-1", gomock.Any()).
					Return("", storage.ErrValidation)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"message":"validation error"}`,
		},
		{
			name: "already paid",
			body: `{"amount": "4.00", "registrationId": "reg-1"}`,
			setupMocks: func(env *testEnv) {
				env.storage.EXPECT().
					CreatePaymentIntent(gomock.Any(), "reg-1", gomock.Any()).
					Return("", storage.ErrAlreadyPaid)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"message":"registration already paid"}`,
		},
		{
			name: "processor unavailable",
			body: `{"amount": "4.00", "registrationId": "reg-1"}`,
			setupMocks: func(env *testEnv) {
				env.storage.EXPECT().
					CreatePaymentIntent(gomock.Any(), "reg-1", gomock.Any()).
					Return("", storage.ErrPaymentProcessor)
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `{"message":"Error creating payment intent"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t, Options{})
			tc.setupMocks(env)

			rr := httptest.NewRecorder()
			env.server.handleCreatePaymentIntent(rr, jsonRequest(t, http.MethodPost, "/api/create-payment-intent", tc.body))

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func TestHandleConfirmPayment(t *testing.T) {
	paid := pendingRegistration()
	paid.Status = storage.StatusPaid
	paid.PaymentIntentID = "pi_1"

	tests := []struct {
		name           string
		result         *storage.ParkingRegistration
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "paid",
			result:         paid,
			expectedStatus: http.StatusOK,
			expectedBody: `{"id":"reg-1","licensePlate":"ABC123","durationType":"2_hours","amount":"4.00",` +
				`"paymentIntentId":"pi_1","paymentMethod":"stripe","status":"paid","startTime":"2025-03-10T12:00:00Z",` +
				`"endTime":"2025-03-10T14:00:00Z","createdAt":"2025-03-10T12:00:00Z","receiptSent":false}`,
		},
		{
			name:           "intent not succeeded",
			err:            storage.ErrPaymentNotConfirmed,
			expectedStatus: http.StatusPaymentRequired,
			expectedBody:   `{"message":"payment not confirmed"}`,
		},
		{
			name:           "paid with another intent",
			err:            storage.ErrAlreadyPaid,
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"message":"registration already paid"}`,
		},
		{
			name:           "unknown registration",
			err:            storage.ErrNotFound,
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"message":"not found"}`,
		},
		{
			name:           "processor failure",
			err:            storage.ErrPaymentProcessor,
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `{"message":"Error confirming payment"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t, Options{})
			env.storage.EXPECT().ConfirmPayment(gomock.Any(), "reg-1", "pi_1").Return(tc.result, tc.err)

			body := map[string]string{"registrationId": "reg-1", "paymentIntentId": "pi_1"}
			rr := httptest.NewRecorder()
			env.server.handleConfirmPayment(rr, jsonRequest(t, http.MethodPost, "/api/confirm-payment", body))

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func TestHandleSearchRegistration(t *testing.T) {
	validUntil := testNow.Add(time.Hour)
	amount := storage.MustMoney("2.50")

	tests := []struct {
		name           string
		result         *storage.ParkingStatus
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "paid",
			result: &storage.ParkingStatus{
				IsLegal:       true,
				Status:        "Valid payment found",
				Type:          storage.VerdictPaid,
				ValidUntil:    &validUntil,
				Amount:        &amount,
				PaymentMethod: "stripe",
			},
			expectedStatus: http.StatusOK,
			expectedBody: `{"isLegal":true,"status":"Valid payment found","type":"paid",` +
				`"validUntil":"2025-03-10T13:00:00Z","amount":"2.50","paymentMethod":"stripe"}`,
		},
		{
			name:           "unknown plate",
			result:         &storage.ParkingStatus{Status: "No valid payment found", Type: storage.VerdictNotFound},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"isLegal":false,"status":"No valid payment found","type":"not_found"}`,
		},
		{
			name:           "store down",
			err:            errors.Join(storage.ErrBackingStore, errors.New("dial tcp")),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"message":"Error searching registration"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t, Options{})
			env.storage.EXPECT().CheckStatus(gomock.Any(), "AB 12").Return(tc.result, tc.err)

			rr := httptest.NewRecorder()
			env.server.handleSearchRegistration(rr, jsonRequest(t, http.MethodPost, "/api/search-registration", `{"licensePlate":"AB 12"}`))

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func TestHandleListRegistrations(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		checkRange     func(t *testing.T, r storage.DateRange)
		expectedStatus int
	}{
		{
			name:  "no range",
			query: "",
			checkRange: func(t *testing.T, r storage.DateRange) {
				assert.Nil(t, r.From)
				assert.Nil(t, r.To)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "start only is ignored",
			query: "?startDate=2025-03-01",
			checkRange: func(t *testing.T, r storage.DateRange) {
				assert.Nil(t, r.From)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "date-only end covers the whole day",
			query: "?startDate=2025-03-01&endDate=2025-03-10",
			checkRange: func(t *testing.T, r storage.DateRange) {
				assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), *r.From)
				assert.Equal(t, time.Date(2025, 3, 10, 23, 59, 59, 999999999, time.UTC), *r.To)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "garbage date",
			query:          "?startDate=yesterday&endDate=2025-03-10",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t, Options{})
			if tc.checkRange != nil {
				env.storage.EXPECT().
					ListRegistrations(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, r storage.DateRange) ([]storage.ParkingRegistration, error) {
						tc.checkRange(t, r)
						return []storage.ParkingRegistration{*pendingRegistration()}, nil
					})
			}

			rr := httptest.NewRecorder()
			env.server.handleListRegistrations(rr, httptest.NewRequest(http.MethodGet, "/api/parking-registrations"+tc.query, nil))

			assert.Equal(t, tc.expectedStatus, rr.Code)
			if tc.expectedStatus == http.StatusOK {
				assert.JSONEq(t, "["+pendingRegistrationJSON+"]", rr.Body.String())
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := parseDate("2025-03-10T08:30:00+02:00", true)
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 6, 30, 0, 0, time.UTC), got)

	got, err = parseDate("2025-03-10", false)
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), got)

	_, err = parseDate("10/03/2025", false)
	assert.Error(t, err)
}
