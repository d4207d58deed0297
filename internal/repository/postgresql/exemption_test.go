package postgresql_test

import (
	"context"
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

func TestExemptionRepo_FindActive(t *testing.T) {
	ctx := context.Background()
	asOf := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)

	t.Run("match", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewExemptionRepo(mockDB)

		want := repository.Exemption{ID: "ex-1", LicensePlate: "STAFF1", IsActive: true}
		mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq("STAFF1"), gomock.Eq(asOf)).
			DoAndReturn(func(_ context.Context, dest interface{}, query string, _ ...interface{}) error {
				assert.Contains(t, query, "ORDER BY end_date DESC")
				*dest.(*repository.Exemption) = want
				return nil
			})

		got, err := repo.FindActive(ctx, "STAFF1", asOf)
		require.NoError(t, err)
		assert.Equal(t, &want, got)
	})

	t.Run("no match", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewExemptionRepo(mockDB)

		mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(pgx.ErrNoRows)

		_, err := repo.FindActive(ctx, "NOBODY", asOf)
		assert.ErrorIs(t, err, repository.ErrObjectNotFound)
	})
}

func TestExemptionRepo_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		tag     pgconn.CommandTag
		wantErr error
	}{
		{name: "row affected", tag: pgconn.CommandTag("UPDATE 1")},
		{name: "row missing", tag: pgconn.CommandTag("UPDATE 0"), wantErr: repository.ErrObjectNotFound},
	}

	for _, tc := range tests {
		t.Run("update "+tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockDB := mock_database.NewMockDB(ctrl)
			repo := postgresql.NewExemptionRepo(mockDB)

			e := &repository.Exemption{ID: "ex-1", LicensePlate: "STAFF1", StaffName: "Sam"}
			mockDB.EXPECT().Exec(gomock.Any(), gomock.Any(),
				gomock.Eq(e.LicensePlate), gomock.Eq(e.StaffName), gomock.Any(), gomock.Any(), gomock.Eq(e.IsActive), gomock.Eq(e.ID),
			).Return(tc.tag, nil)

			err := repo.Update(ctx, e)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})

		t.Run("delete "+tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockDB := mock_database.NewMockDB(ctrl)
			repo := postgresql.NewExemptionRepo(mockDB)

			mockDB.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Eq("ex-1")).Return(tc.tag, nil)

			err := repo.Delete(ctx, "ex-1")
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
