package services

import (
	"context"

	"github.com/mfranzen/cadence/internal/core/analytics"
	"github.com/mfranzen/cadence/internal/core/domain"
)

type StatsService struct {
	repo domain.HabitRepository
}

func NewStatsService(repo domain.HabitRepository) *StatsService {
	return &StatsService{repo: repo}
}

// HabitStreak is one row of the streak overview.
type HabitStreak struct {
	HabitID     string             `json:"habit_id"`
	Name        string             `json:"name"`
	Periodicity domain.Periodicity `json:"periodicity"`
	Longest     int                `json:"longest_streak"`
}

func (s *StatsService) LongestStreak(ctx context.Context, habitID, userID string) (int, error) {
	habit, err := s.repo.GetByID(ctx, habitID)
	if err != nil {
		return 0, err
	}
	if habit.UserID != userID {
		return 0, domain.ErrHabitNotFound
	}

	return analytics.LongestStreak(habit)
}

// BestStreak returns the habit holding the user's longest streak, or nil
// when the user has no habits or every streak is 0.
func (s *StatsService) BestStreak(ctx context.Context, userID string) (*analytics.BestResult, error) {
	habits, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return analytics.BestStreak(habits)
}

// StreakOverview computes the longest streak for every habit of the
// user, in repository order.
func (s *StatsService) StreakOverview(ctx context.Context, userID string) ([]HabitStreak, error) {
	habits, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	overview := make([]HabitStreak, 0, len(habits))
	for _, h := range analytics.ListAll(habits) {
		streak, err := analytics.LongestStreak(h)
		if err != nil {
			return nil, err
		}

		overview = append(overview, HabitStreak{
			HabitID:     h.ID,
			Name:        h.Name,
			Periodicity: h.Periodicity,
			Longest:     streak,
		})
	}

	return overview, nil
}
