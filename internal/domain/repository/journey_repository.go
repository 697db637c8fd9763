package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"cp_journey/internal/common"
	"cp_journey/internal/domain/model"
)

type JourneyRepository interface {
	Get(ctx context.Context, userID string) (*model.JourneyRecord, error)
	Save(ctx context.Context, record *model.JourneyRecord) error
	ListUserIDsWithHandles(ctx context.Context) ([]string, error)
}

type pgJourneyRepository struct {
	db *sql.DB
}

func NewPgJourneyRepository(db *sql.DB) JourneyRepository {
	return &pgJourneyRepository{db: db}
}

// The journey body lives in a jsonb column; the handle columns are
// duplicated out of it so the auto-sync scheduler can query them directly.

func (r *pgJourneyRepository) Get(ctx context.Context, userID string) (*model.JourneyRecord, error) {
	query := `SELECT data, created_at, updated_at FROM journeys WHERE user_id = $1`

	var data []byte
	record := &model.JourneyRecord{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&data, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgJourneyRepository.Get: %w", err)
	}

	if err := json.Unmarshal(data, record); err != nil {
		return nil, fmt.Errorf("pgJourneyRepository.Get: corrupt journey data for user %s: %w", userID, err)
	}
	record.UserID = userID
	return record, nil
}

func (r *pgJourneyRepository) Save(ctx context.Context, record *model.JourneyRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("pgJourneyRepository.Save: %w", err)
	}

	query := `INSERT INTO journeys (user_id, cses_handle, codeforces_handle, vjudge_handle, data, last_auto_sync)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (user_id) DO UPDATE SET
	            cses_handle = EXCLUDED.cses_handle,
	            codeforces_handle = EXCLUDED.codeforces_handle,
	            vjudge_handle = EXCLUDED.vjudge_handle,
	            data = EXCLUDED.data,
	            last_auto_sync = EXCLUDED.last_auto_sync,
	            updated_at = CURRENT_TIMESTAMP`
	_, err = r.db.ExecContext(ctx, query,
		record.UserID, record.Handles.CSES, record.Handles.Codeforces, record.Handles.VJudge,
		data, record.LastAutoSync,
	)
	if err != nil {
		return fmt.Errorf("pgJourneyRepository.Save: %w", err)
	}
	return nil
}

func (r *pgJourneyRepository) ListUserIDsWithHandles(ctx context.Context) ([]string, error) {
	query := `SELECT user_id FROM journeys
	          WHERE cses_handle <> '' OR codeforces_handle <> '' OR vjudge_handle <> ''
	          ORDER BY user_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgJourneyRepository.ListUserIDsWithHandles: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("pgJourneyRepository.ListUserIDsWithHandles: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
