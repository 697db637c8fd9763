package service

import (
	"context"
	"sync"
	"time"

	"cp_journey/internal/common"
	"cp_journey/internal/domain/model"
)

// Per-platform sync clients. The concrete implementations live under
// internal/platform/judge; the interfaces keep the aggregator testable
// without touching the network.
type CSESProgressClient interface {
	FetchUserProgress(ctx context.Context, username string) *model.CSESResult
}

type CodeforcesClient interface {
	FetchProgress(ctx context.Context, handle string) *model.CodeforcesResult
}

type VJudgeClient interface {
	FetchProgress(ctx context.Context, username string) *model.VJudgeResult
}

// SyncService fans sync requests out to the judge platforms and aggregates
// whatever settles into a journey snapshot. It owns no storage and no
// timers; persistence belongs to JourneyService and scheduling to the
// auto-sync worker.
type SyncService struct {
	cses       CSESProgressClient
	codeforces CodeforcesClient
	vjudge     VJudgeClient
}

func NewSyncService(cses CSESProgressClient, codeforces CodeforcesClient, vjudge VJudgeClient) *SyncService {
	return &SyncService{cses: cses, codeforces: codeforces, vjudge: vjudge}
}

type SyncResults struct {
	CSES       *model.CSESResult       `json:"cses,omitempty"`
	Codeforces *model.CodeforcesResult `json:"codeforces,omitempty"`
	VJudge     *model.VJudgeResult     `json:"vjudge,omitempty"`
}

type SyncAllResponse struct {
	Success   bool        `json:"success"`
	Results   SyncResults `json:"results"`
	Timestamp time.Time   `json:"timestamp"`
}

func (s *SyncService) SyncCSES(ctx context.Context, username string) (*model.CSESResult, error) {
	if username == "" {
		return nil, common.Errorf("username is required: %w", common.ErrBadRequest)
	}
	return s.cses.FetchUserProgress(ctx, username), nil
}

func (s *SyncService) SyncCodeforces(ctx context.Context, handle string) (*model.CodeforcesResult, error) {
	if handle == "" {
		return nil, common.Errorf("username is required: %w", common.ErrBadRequest)
	}
	return s.codeforces.FetchProgress(ctx, handle), nil
}

func (s *SyncService) SyncVJudge(ctx context.Context, username string) (*model.VJudgeResult, error) {
	if username == "" {
		return nil, common.Errorf("username is required: %w", common.ErrBadRequest)
	}
	return s.vjudge.FetchProgress(ctx, username), nil
}

// SyncAll fetches every requested platform concurrently and waits for all of
// them to settle. One platform failing (its result carries success=false)
// neither aborts nor blocks the others; the call itself only errors when no
// username was given at all.
func (s *SyncService) SyncAll(ctx context.Context, usernames model.PlatformHandles) (*SyncAllResponse, error) {
	if usernames.Empty() {
		return nil, common.Errorf("at least one platform username is required: %w", common.ErrBadRequest)
	}

	var wg sync.WaitGroup
	var results SyncResults

	if usernames.CSES != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results.CSES = s.cses.FetchUserProgress(ctx, usernames.CSES)
		}()
	}
	if usernames.Codeforces != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results.Codeforces = s.codeforces.FetchProgress(ctx, usernames.Codeforces)
		}()
	}
	if usernames.VJudge != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results.VJudge = s.vjudge.FetchProgress(ctx, usernames.VJudge)
		}()
	}
	wg.Wait()

	return &SyncAllResponse{
		Success:   true,
		Results:   results,
		Timestamp: time.Now(),
	}, nil
}

// Aggregate folds per-platform results into a fresh snapshot. Platforms that
// failed or were absent contribute nothing, so overlaying the snapshot onto
// a journey record leaves their previous data intact. Re-aggregating the
// same inputs yields an identical snapshot.
func (s *SyncService) Aggregate(results SyncResults) *model.JourneySnapshot {
	snap := &model.JourneySnapshot{}

	if r := results.CSES; r != nil && r.Success {
		snap.CSES = r
		topics := model.NewTopicProgressSet()
		for key, problems := range r.ByTopic {
			bucket, ok := topics[key]
			if !ok {
				continue
			}
			for _, p := range problems {
				bucket.AddSolvedProblem(p)
			}
		}
		snap.Topics = topics
	}
	if r := results.Codeforces; r != nil && r.Success {
		snap.Codeforces = r
	}
	if r := results.VJudge; r != nil && r.Success {
		snap.VJudge = r
	}
	return snap
}
