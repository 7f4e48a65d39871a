package service

import (
	"context"
	"errors"
	"time"

	"github.com/spockey4711/trainingbuilder/internal/domain"
)

type CycleService struct {
	cycleRepo domain.CycleRepository
	now       func() time.Time
}

func NewCycleService(cycleRepo domain.CycleRepository) *CycleService {
	return &CycleService{
		cycleRepo: cycleRepo,
		now:       time.Now,
	}
}

// CreateCycle validates the cycle and its place in the macro > meso > micro hierarchy
func (s *CycleService) CreateCycle(ctx context.Context, userID string, cycle *domain.TrainingCycle) (*domain.TrainingCycle, error) {
	cycle.UserID = userID
	if err := cycle.Validate(); err != nil {
		return nil, err
	}

	if cycle.ParentCycleID != "" {
		parent, err := s.cycleRepo.GetByID(ctx, userID, cycle.ParentCycleID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidID) {
				return nil, domain.NewValidationError("parent_cycle_id", "parent cycle %s not found", cycle.ParentCycleID)
			}
			return nil, domain.StoreError("get parent cycle", err)
		}
		if err := cycle.ValidateParent(parent); err != nil {
			return nil, err
		}
	}

	if err := s.cycleRepo.Create(ctx, cycle); err != nil {
		return nil, domain.StoreError("create cycle", err)
	}
	return cycle, nil
}

// ListCycles returns cycles newest start first; an empty type lists all
func (s *CycleService) ListCycles(ctx context.Context, userID string, cycleType domain.CycleType) ([]*domain.TrainingCycle, error) {
	if cycleType != "" && !cycleType.IsValid() {
		return nil, domain.NewValidationError("type", "unknown cycle type %q", cycleType)
	}
	cycles, err := s.cycleRepo.List(ctx, userID, cycleType)
	if err != nil {
		return nil, domain.StoreError("list cycles", err)
	}
	return cycles, nil
}

func (s *CycleService) GetCycle(ctx context.Context, userID, id string) (*domain.TrainingCycle, error) {
	cycle, err := s.cycleRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, domain.StoreError("get cycle", err)
	}
	return cycle, nil
}

// GetActive returns the cycle of the type covering today, or nil
func (s *CycleService) GetActive(ctx context.Context, userID string, cycleType domain.CycleType) (*domain.TrainingCycle, error) {
	if !cycleType.IsValid() {
		return nil, domain.NewValidationError("type", "unknown cycle type %q", cycleType)
	}
	cycle, err := s.cycleRepo.GetActive(ctx, userID, cycleType, s.now())
	if err != nil {
		return nil, domain.StoreError("get active cycle", err)
	}
	return cycle, nil
}

// Tree returns all cycles nested by hierarchy
func (s *CycleService) Tree(ctx context.Context, userID string) ([]*domain.CycleNode, error) {
	cycles, err := s.cycleRepo.List(ctx, userID, "")
	if err != nil {
		return nil, domain.StoreError("list cycles", err)
	}
	return domain.BuildCycleTree(cycles), nil
}

func (s *CycleService) DeleteCycle(ctx context.Context, userID, id string) error {
	if err := s.cycleRepo.Delete(ctx, userID, id); err != nil {
		return domain.StoreError("delete cycle", err)
	}
	return nil
}
