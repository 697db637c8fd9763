package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cp_journey/internal/common"
	"cp_journey/internal/domain/model"
	"cp_journey/internal/domain/repository"
)

// JourneyService is the persistence side of a sync: it owns the durable
// journey record and merges snapshots into it.
type JourneyService struct {
	journeyRepo repository.JourneyRepository
}

func NewJourneyService(journeyRepo repository.JourneyRepository) *JourneyService {
	return &JourneyService{journeyRepo: journeyRepo}
}

// GetJourney returns the user's journey, or a fresh empty one if the user
// has never synced or saved anything.
func (s *JourneyService) GetJourney(ctx context.Context, userID string) (*model.JourneyRecord, error) {
	record, err := s.journeyRepo.Get(ctx, userID)
	if errors.Is(err, common.ErrNotFound) {
		return model.NewJourneyRecord(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load journey: %w", err)
	}
	return record, nil
}

type UpdateHandlesRequest struct {
	Handles model.PlatformHandles `json:"handles"`
}

func (s *JourneyService) UpdateHandles(ctx context.Context, userID string, req UpdateHandlesRequest) (*model.JourneyRecord, error) {
	record, err := s.GetJourney(ctx, userID)
	if err != nil {
		return nil, err
	}
	record.Handles = req.Handles
	if err := s.journeyRepo.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save journey: %w", err)
	}
	return record, nil
}

// IncrementManualSolves bumps the user-owned counter that platform sync
// never touches.
func (s *JourneyService) IncrementManualSolves(ctx context.Context, userID string, delta int) (*model.JourneyRecord, error) {
	if delta <= 0 {
		delta = 1
	}
	record, err := s.GetJourney(ctx, userID)
	if err != nil {
		return nil, err
	}
	record.ManualSolves += delta
	if err := s.journeyRepo.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save journey: %w", err)
	}
	return record, nil
}

// ResetProgress is the one sanctioned non-monotonic operation: it wipes all
// recorded progress, keeping only the linked handles.
func (s *JourneyService) ResetProgress(ctx context.Context, userID string) (*model.JourneyRecord, error) {
	record, err := s.GetJourney(ctx, userID)
	if err != nil {
		return nil, err
	}
	handles := record.Handles
	record = model.NewJourneyRecord(userID)
	record.Handles = handles
	if err := s.journeyRepo.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save journey: %w", err)
	}
	return record, nil
}

// ApplySnapshot merges an aggregated snapshot into the user's journey and
// persists the result. When auto is set, the merge also stamps
// LastAutoSync.
func (s *JourneyService) ApplySnapshot(ctx context.Context, userID string, snap *model.JourneySnapshot, auto bool) (*model.JourneyRecord, error) {
	record, err := s.GetJourney(ctx, userID)
	if err != nil {
		return nil, err
	}

	if auto {
		snap.LastAutoSync = time.Now()
	}
	record.Merge(snap)

	if err := s.journeyRepo.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save journey after sync: %w", err)
	}
	return record, nil
}
