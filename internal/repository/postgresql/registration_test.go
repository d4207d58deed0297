package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_database "github.com/parkqr/parking/internal/db/mocks"
	"github.com/parkqr/parking/internal/repository"
	"github.com/parkqr/parking/internal/repository/postgresql"
)

func TestRegistrationRepo_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewRegistrationRepo(mockDB, postgresql.NewOutboxTaskRepo())

		start := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
		email := "driver@example.com"
		reg := &repository.Registration{
			ID:            "reg-123",
			LicensePlate:  "ABC123",
			Email:         &email,
			DurationType:  "2_hours",
			Amount:        "4.00",
			PaymentMethod: "stripe",
			Status:        repository.RegistrationStatusPending,
			StartTime:     start,
			EndTime:       start.Add(2 * time.Hour),
			CreatedAt:     start,
		}

		mockDB.EXPECT().Exec(
			gomock.Any(),
			gomock.Any(),
			gomock.Eq(reg.ID),
			gomock.Eq(reg.LicensePlate),
			gomock.Eq(reg.Email),
			gomock.Eq(reg.DurationType),
			gomock.Eq(reg.Amount),
			gomock.Eq(reg.PaymentMethod),
			gomock.Eq(reg.Status),
			gomock.Eq(reg.StartTime),
			gomock.Eq(reg.EndTime),
			gomock.Eq(reg.CreatedAt),
			gomock.Eq(false),
		).Return(nil, nil)

		assert.NoError(t, repo.Create(ctx, reg))
	})

	t.Run("database error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewRegistrationRepo(mockDB, postgresql.NewOutboxTaskRepo())

		expectedErr := errors.New("database error")
		mockDB.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
			gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, expectedErr)

		err := repo.Create(ctx, &repository.Registration{ID: "reg-123"})
		assert.ErrorIs(t, err, expectedErr)
	})
}

func TestRegistrationRepo_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewRegistrationRepo(mockDB, postgresql.NewOutboxTaskRepo())

		want := &repository.Registration{ID: "reg-123", LicensePlate: "ABC123", Amount: "4.00"}
		mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq("reg-123")).
			DoAndReturn(func(_ context.Context, dest *repository.Registration, _ string, _ string) error {
				*dest = *want
				return nil
			})

		got, err := repo.GetByID(ctx, "reg-123")
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewRegistrationRepo(mockDB, postgresql.NewOutboxTaskRepo())

		mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(pgx.ErrNoRows)

		got, err := repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, repository.ErrObjectNotFound)
		assert.Nil(t, got)
	})
}

func TestRegistrationRepo_MarkPaid(t *testing.T) {
	ctx := context.Background()

	t.Run("pending registration becomes paid with outbox task", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewRegistrationRepo(mockDB, postgresql.NewOutboxTaskRepo())

		event := &repository.OutboxTask{ID: uuid.New(), Topic: "parking.registration.paid", Payload: []byte(`{"registration_id":"reg-1"}`)}

		mockDB.EXPECT().BeginTx(gomock.Any()).Return(mockTx, nil)
		gomock.InOrder(
			mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(),
				gomock.Eq(repository.RegistrationStatusPaid),
				gomock.Eq("pi_123"),
				gomock.Eq("reg-1"),
				gomock.Eq(repository.RegistrationStatusPending),
			).Return(pgconn.CommandTag("UPDATE 1"), nil),
			mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(),
				gomock.Eq(event.ID),
				gomock.Eq(repository.TaskStatusCreated),
				gomock.Any(),
				gomock.Eq(event.Topic),
				gomock.Any(),
				gomock.Any(),
			).Return(pgconn.CommandTag("INSERT 0 1"), nil),
			mockTx.EXPECT().Commit(gomock.Any()).Return(nil),
		)
		mockTx.EXPECT().Rollback(gomock.Any()).Return(nil)

		updated, err := repo.MarkPaid(ctx, "reg-1", "pi_123", event)
		require.NoError(t, err)
		assert.True(t, updated)
	})

	t.Run("already paid registration is left untouched", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewRegistrationRepo(mockDB, postgresql.NewOutboxTaskRepo())

		mockDB.EXPECT().BeginTx(gomock.Any()).Return(mockTx, nil)
		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(pgconn.CommandTag("UPDATE 0"), nil)
		mockTx.EXPECT().Rollback(gomock.Any()).Return(nil)

		updated, err := repo.MarkPaid(ctx, "reg-1", "pi_123", &repository.OutboxTask{Topic: "t"})
		require.NoError(t, err)
		assert.False(t, updated)
	})

	t.Run("begin fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewRegistrationRepo(mockDB, postgresql.NewOutboxTaskRepo())

		expectedErr := errors.New("connection refused")
		mockDB.EXPECT().BeginTx(gomock.Any()).Return(nil, expectedErr)

		updated, err := repo.MarkPaid(ctx, "reg-1", "pi_123", nil)
		assert.ErrorIs(t, err, expectedErr)
		assert.False(t, updated)
	})
}

func TestRegistrationRepo_List(t *testing.T) {
	ctx := context.Background()

	t.Run("with range", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewRegistrationRepo(mockDB, postgresql.NewOutboxTaskRepo())

		from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		to := from.Add(24*time.Hour - time.Nanosecond)
		rows := []*repository.Registration{{ID: "b"}, {ID: "a"}}

		mockDB.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq(from), gomock.Eq(to)).
			DoAndReturn(func(_ context.Context, dest interface{}, query string, _ ...interface{}) error {
				assert.Contains(t, query, "start_time >= $1 AND start_time <= $2")
				assert.Contains(t, query, "ORDER BY start_time DESC")
				*dest.(*[]*repository.Registration) = rows
				return nil
			})

		got, err := repo.List(ctx, &from, &to)
		require.NoError(t, err)
		assert.Equal(t, rows, got)
	})

	t.Run("without range", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewRegistrationRepo(mockDB, postgresql.NewOutboxTaskRepo())

		mockDB.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ interface{}, query string, _ ...interface{}) error {
				assert.NotContains(t, query, "WHERE")
				return nil
			})

		got, err := repo.List(ctx, nil, nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestRegistrationRepo_LatestPaidByPlate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := mock_database.NewMockDB(ctrl)
	repo := postgresql.NewRegistrationRepo(mockDB, postgresql.NewOutboxTaskRepo())

	mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq("ABC123"), gomock.Eq(repository.RegistrationStatusPaid)).
		Return(pgx.ErrNoRows)

	_, err := repo.LatestPaidByPlate(context.Background(), "ABC123")
	assert.ErrorIs(t, err, repository.ErrObjectNotFound)
}

func TestRegistrationRepo_MarkReceiptSent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := mock_database.NewMockDB(ctrl)
	repo := postgresql.NewRegistrationRepo(mockDB, postgresql.NewOutboxTaskRepo())

	mockDB.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Eq("reg-1")).Return(pgconn.CommandTag("UPDATE 1"), nil)
	mockDB.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Eq("missing")).Return(pgconn.CommandTag("UPDATE 0"), nil)

	assert.NoError(t, repo.MarkReceiptSent(context.Background(), "reg-1"))
	assert.ErrorIs(t, repo.MarkReceiptSent(context.Background(), "missing"), repository.ErrObjectNotFound)
}
