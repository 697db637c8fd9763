package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"cp_journey/internal/common"
	"cp_journey/internal/domain/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestJourneyRepositoryGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPgJourneyRepository(db)

	record := model.NewJourneyRecord("u1")
	record.Handles.Codeforces = "someone"
	record.ManualSolves = 4
	data, err := json.Marshal(record)
	require.NoError(t, err)

	now := time.Now()
	mock.ExpectQuery(`SELECT data, created_at, updated_at FROM journeys WHERE user_id = \$1`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"data", "created_at", "updated_at"}).AddRow(data, now, now))

	got, err := repo.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, "u1", got.UserID)
	require.Equal(t, "someone", got.Handles.Codeforces)
	require.Equal(t, 4, got.ManualSolves)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestJourneyRepositoryGetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPgJourneyRepository(db)

	mock.ExpectQuery(`SELECT data, created_at, updated_at FROM journeys WHERE user_id = \$1`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"data", "created_at", "updated_at"}))

	_, err = repo.Get(context.Background(), "ghost")
	require.ErrorIs(t, err, common.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestJourneyRepositorySaveUpserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPgJourneyRepository(db)

	record := model.NewJourneyRecord("u1")
	record.Handles = model.PlatformHandles{CSES: "12345", Codeforces: "someone"}

	mock.ExpectExec(`(?s)INSERT INTO journeys.+ON CONFLICT \(user_id\) DO UPDATE`).
		WithArgs("u1", "12345", "someone", "", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(context.Background(), record))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestJourneyRepositoryListUserIDsWithHandles(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPgJourneyRepository(db)

	mock.ExpectQuery(`SELECT user_id FROM journeys`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("u1").AddRow("u2"))

	ids, err := repo.ListUserIDsWithHandles(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"u1", "u2"}, ids)
	require.NoError(t, mock.ExpectationsWereMet())
}
