package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_database "github.com/parkqr/parking/internal/db/mocks"
	"github.com/parkqr/parking/internal/repository"
	"github.com/parkqr/parking/internal/repository/postgresql"
)

func TestRateRepo_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := mock_database.NewMockDB(ctrl)
	repo := postgresql.NewRateRepo(mockDB)

	rows := []*repository.Rate{
		{ID: "r1", DurationType: "1_hour", Price: "2.50", DurationHours: 1},
		{ID: "r2", DurationType: "2_hours", Price: "4.00", DurationHours: 2},
	}
	mockDB.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, dest interface{}, query string, _ ...interface{}) error {
			assert.Contains(t, query, "price::text")
			assert.Contains(t, query, "ORDER BY duration_hours ASC")
			*dest.(*[]*repository.Rate) = rows
			return nil
		})

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestRateRepo_Seed(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts every rate in one transaction", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewRateRepo(mockDB)

		now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		rates := []*repository.Rate{
			{ID: "r1", DurationType: "1_hour", Price: "2.50", DurationHours: 1, Description: "1 Hour", UpdatedAt: now},
			{ID: "r2", DurationType: "2_hours", Price: "4.00", DurationHours: 2, Description: "2 Hours", UpdatedAt: now},
		}

		mockDB.EXPECT().BeginTx(gomock.Any()).Return(mockTx, nil)
		for _, r := range rates {
			mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(),
				gomock.Eq(r.ID), gomock.Eq(r.DurationType), gomock.Eq(r.Price),
				gomock.Eq(r.DurationHours), gomock.Eq(r.Description), gomock.Eq(r.UpdatedAt),
			).Return(pgconn.CommandTag("INSERT 0 1"), nil)
		}
		mockTx.EXPECT().Commit(gomock.Any()).Return(nil)
		mockTx.EXPECT().Rollback(gomock.Any()).Return(nil)

		assert.NoError(t, repo.Seed(ctx, rates))
	})

	t.Run("insert failure aborts", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewRateRepo(mockDB)

		expectedErr := errors.New("disk full")
		mockDB.EXPECT().BeginTx(gomock.Any()).Return(mockTx, nil)
		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, expectedErr)
		mockTx.EXPECT().Rollback(gomock.Any()).Return(nil)

		err := repo.Seed(ctx, []*repository.Rate{{ID: "r1", DurationType: "1_hour"}})
		assert.ErrorIs(t, err, expectedErr)
	})
}

func TestRateRepo_UpdatePrice(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("updated", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewRateRepo(mockDB)

		mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq("5.00"), gomock.Eq(now), gomock.Eq("r2")).
			DoAndReturn(func(_ context.Context, dest interface{}, _ string, _ ...interface{}) error {
				*dest.(*repository.Rate) = repository.Rate{ID: "r2", DurationType: "2_hours", Price: "5.00", DurationHours: 2, UpdatedAt: now}
				return nil
			})

		rate, err := repo.UpdatePrice(ctx, "r2", "5.00", now)
		require.NoError(t, err)
		assert.Equal(t, "5.00", rate.Price)
	})

	t.Run("unknown id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewRateRepo(mockDB)

		mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(pgx.ErrNoRows)

		_, err := repo.UpdatePrice(ctx, "missing", "5.00", now)
		assert.ErrorIs(t, err, repository.ErrObjectNotFound)
	})
}
