package services

import (
	"context"
	"time"

	"github.com/mfranzen/cadence/internal/core/analytics"
	"github.com/mfranzen/cadence/internal/core/domain"
)

// StreakQueue decouples the service from the worker so tests can observe
// enqueued recomputations.
type StreakQueue interface {
	Enqueue(habitID string)
}

type HabitService struct {
	repo  domain.HabitRepository
	queue StreakQueue
}

func NewHabitService(repo domain.HabitRepository, queue StreakQueue) *HabitService {
	return &HabitService{
		repo:  repo,
		queue: queue,
	}
}

type CreateHabitInput struct {
	UserID      string
	Name        string
	Periodicity string
}

func (s *HabitService) Create(ctx context.Context, input CreateHabitInput) (*domain.Habit, error) {
	periodicity, err := domain.ParsePeriodicity(input.Periodicity)
	if err != nil {
		return nil, err
	}

	habit, err := domain.NewHabit(input.UserID, input.Name, periodicity)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, habit); err != nil {
		return nil, err
	}

	return habit, nil
}

func (s *HabitService) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	habits, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return analytics.ListAll(habits), nil
}

// ListByPeriodicity returns the user's habits filtered to one cadence,
// preserving the repository's ordering.
func (s *HabitService) ListByPeriodicity(ctx context.Context, userID, periodicity string) ([]*domain.Habit, error) {
	p, err := domain.ParsePeriodicity(periodicity)
	if err != nil {
		return nil, err
	}

	habits, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return analytics.FilterByPeriodicity(habits, p), nil
}

// CheckOff appends a completion to the habit's history and schedules a
// streak recomputation. A zero time means "now".
//
// The completion is written to storage exactly once, by AddCompletion.
// The entity returned to the caller is a clone carrying the new
// completion, so the habit handed out by GetByID is never mutated even
// when the repository returns a live reference.
func (s *HabitService) CheckOff(ctx context.Context, habitID, userID string, at time.Time) (*domain.Habit, error) {
	habit, err := s.repo.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrHabitNotFound
	}

	if at.IsZero() {
		at = time.Now().UTC()
	}

	updated := habit.Clone()
	if err := updated.CheckOff(at); err != nil {
		return nil, err
	}

	if err := s.repo.AddCompletion(ctx, habit.ID, at); err != nil {
		return nil, err
	}

	s.queue.Enqueue(habit.ID)

	return updated, nil
}

func (s *HabitService) Delete(ctx context.Context, id, userID string) error {
	habit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if habit.UserID != userID {
		return domain.ErrHabitNotFound
	}

	return s.repo.Delete(ctx, id)
}
