package analytics

import "github.com/mfranzen/cadence/internal/core/domain"

// BestResult identifies the habit holding the longest streak across a
// collection, together with that streak's length.
type BestResult struct {
	HabitID   string `json:"habit_id"`
	HabitName string `json:"habit_name"`
	Length    int    `json:"length"`
}

// ListAll returns the habits in input order. The slice is copied so
// callers can reorder it without touching the original.
func ListAll(habits []*domain.Habit) []*domain.Habit {
	out := make([]*domain.Habit, len(habits))
	copy(out, habits)
	return out
}

// FilterByPeriodicity keeps habits whose periodicity equals p, preserving
// input order.
func FilterByPeriodicity(habits []*domain.Habit, p domain.Periodicity) []*domain.Habit {
	out := make([]*domain.Habit, 0, len(habits))
	for _, h := range habits {
		if h.Periodicity == p {
			out = append(out, h)
		}
	}
	return out
}

// LongestStreak computes the longest run of consecutive completed periods
// for a single habit. A habit with no completions has a streak of 0;
// multiple check-offs inside the same day or week collapse to a single
// completed bucket. Everything is recomputed from scratch on every call;
// there is no cache to invalidate.
func LongestStreak(h *domain.Habit) (int, error) {
	completions := h.CompletionTimes()
	if len(completions) == 0 {
		return 0, nil
	}

	completed := make(map[string]struct{}, len(completions))
	earliest, latest := completions[0], completions[0]

	for _, ts := range completions {
		key, err := PeriodKey(ts, h.Periodicity)
		if err != nil {
			return 0, err
		}
		completed[key] = struct{}{}

		if ts.Before(earliest) {
			earliest = ts
		}
		if ts.After(latest) {
			latest = ts
		}
	}

	expected, err := PeriodSequence(earliest, latest, h.Periodicity)
	if err != nil {
		return 0, err
	}

	longest, current := 0, 0
	for _, key := range expected {
		if _, ok := completed[key]; ok {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 0
		}
	}

	return longest, nil
}

// BestStreak ranks habits by longest streak and returns the winner, or
// nil when there is none. The winner is updated only on a strictly
// greater streak, so ties keep the earliest-seen habit. A habit whose
// streak is exactly 0 never wins, meaning a collection where every
// streak is 0 reports no result even though habits exist.
func BestStreak(habits []*domain.Habit) (*BestResult, error) {
	var best *BestResult
	bestLen := 0

	for _, h := range habits {
		streak, err := LongestStreak(h)
		if err != nil {
			return nil, err
		}

		if streak > bestLen {
			bestLen = streak
			best = &BestResult{
				HabitID:   h.ID,
				HabitName: h.Name,
				Length:    streak,
			}
		}
	}

	return best, nil
}
