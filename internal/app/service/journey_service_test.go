package service

import (
	"context"
	"testing"

	"cp_journey/internal/common"
	"cp_journey/internal/domain/model"

	"github.com/stretchr/testify/require"
)

type memJourneyRepo struct {
	records map[string]*model.JourneyRecord
}

func newMemJourneyRepo() *memJourneyRepo {
	return &memJourneyRepo{records: make(map[string]*model.JourneyRecord)}
}

func (r *memJourneyRepo) Get(_ context.Context, userID string) (*model.JourneyRecord, error) {
	record, ok := r.records[userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return record, nil
}

func (r *memJourneyRepo) Save(_ context.Context, record *model.JourneyRecord) error {
	r.records[record.UserID] = record
	return nil
}

func (r *memJourneyRepo) ListUserIDsWithHandles(_ context.Context) ([]string, error) {
	var ids []string
	for id, record := range r.records {
		if !record.Handles.Empty() {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func TestGetJourneyReturnsFreshRecordForNewUser(t *testing.T) {
	svc := NewJourneyService(newMemJourneyRepo())

	record, err := svc.GetJourney(context.Background(), "new-user")
	require.NoError(t, err)
	require.Equal(t, "new-user", record.UserID)
	require.Len(t, record.Topics, 6)
	require.Zero(t, record.ManualSolves)
}

func TestApplySnapshotMergesAndPersists(t *testing.T) {
	repo := newMemJourneyRepo()
	svc := NewJourneyService(repo)
	ctx := context.Background()

	_, err := svc.IncrementManualSolves(ctx, "u1", 3)
	require.NoError(t, err)

	topics := model.NewTopicProgressSet()
	topics[model.TopicIntro].AddSolvedProblem(model.SolvedProblem{ID: "1068", Name: "Weird Algorithm"})

	record, err := svc.ApplySnapshot(ctx, "u1", &model.JourneySnapshot{
		Topics:     topics,
		Codeforces: &model.CodeforcesResult{Success: true, ProblemsSolved: 5},
	}, false)
	require.NoError(t, err)

	require.Equal(t, 1, record.Topics[model.TopicIntro].Solved)
	require.Equal(t, 5, record.Codeforces.ProblemsSolved)
	require.Equal(t, 3, record.ManualSolves, "manual counter survives sync")
	require.True(t, record.LastAutoSync.IsZero(), "manual sync does not stamp LastAutoSync")

	// A later auto-sync stamps the timestamp.
	record, err = svc.ApplySnapshot(ctx, "u1", &model.JourneySnapshot{}, true)
	require.NoError(t, err)
	require.False(t, record.LastAutoSync.IsZero())
}

func TestApplySnapshotFailedPlatformKeepsOldData(t *testing.T) {
	repo := newMemJourneyRepo()
	svc := NewJourneyService(repo)
	ctx := context.Background()

	_, err := svc.ApplySnapshot(ctx, "u1", &model.JourneySnapshot{
		Codeforces: &model.CodeforcesResult{Success: true, ProblemsSolved: 5, Contests: 2},
	}, false)
	require.NoError(t, err)

	// Next sync: Codeforces failed, so the snapshot has no Codeforces section.
	record, err := svc.ApplySnapshot(ctx, "u1", &model.JourneySnapshot{
		VJudge: &model.VJudgeResult{Success: true, TotalSolved: 9},
	}, false)
	require.NoError(t, err)

	require.Equal(t, 5, record.Codeforces.ProblemsSolved, "failed sync must not zero previous data")
	require.Equal(t, 2, record.Codeforces.Contests)
	require.Equal(t, 9, record.VJudge.TotalSolved)
}

func TestResetProgressKeepsHandles(t *testing.T) {
	repo := newMemJourneyRepo()
	svc := NewJourneyService(repo)
	ctx := context.Background()

	handles := model.PlatformHandles{Codeforces: "someone", VJudge: "vj_user"}
	_, err := svc.UpdateHandles(ctx, "u1", UpdateHandlesRequest{Handles: handles})
	require.NoError(t, err)

	_, err = svc.ApplySnapshot(ctx, "u1", &model.JourneySnapshot{
		Codeforces: &model.CodeforcesResult{Success: true, ProblemsSolved: 5},
	}, false)
	require.NoError(t, err)

	record, err := svc.ResetProgress(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, handles, record.Handles)
	require.Zero(t, record.Codeforces.ProblemsSolved)
	require.Zero(t, record.ManualSolves)
	require.Equal(t, 0, record.Topics[model.TopicIntro].Solved)
}
