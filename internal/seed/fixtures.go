// Package seed provides deterministic demo data: five predefined habits
// with four weeks of completion history each. The fixed dates make streak
// results stable, which is also what the streak tests rely on.
package seed

import (
	"fmt"
	"time"

	"github.com/mfranzen/cadence/internal/core/domain"
)

// FixtureStart anchors all fixture data at Monday 2024-01-01 so daily
// runs and ISO weeks line up.
var FixtureStart = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

const DemoUserID = "demo-user"

func dailyCompletions(start time.Time, days int, skip ...int) []time.Time {
	skipSet := make(map[int]bool, len(skip))
	for _, s := range skip {
		skipSet[s] = true
	}

	var out []time.Time
	for i := 0; i < days; i++ {
		if !skipSet[i] {
			out = append(out, start.AddDate(0, 0, i).Add(9*time.Hour))
		}
	}
	return out
}

func weeklyCompletions(start time.Time, weeks int, skip ...int) []time.Time {
	skipSet := make(map[int]bool, len(skip))
	for _, s := range skip {
		skipSet[s] = true
	}

	var out []time.Time
	for i := 0; i < weeks; i++ {
		if !skipSet[i] {
			out = append(out, start.AddDate(0, 0, 7*i).Add(10*time.Hour))
		}
	}
	return out
}

// Habits builds the five predefined demo habits:
//
//  1. daily, perfect 28-day run
//  2. daily, days 3, 10 and 18 missed
//  3. daily, days 14 through 20 missed (one whole week)
//  4. weekly, perfect 4-week run
//  5. weekly, week 2 missed
func Habits() ([]*domain.Habit, error) {
	defs := []struct {
		name        string
		periodicity domain.Periodicity
		completions []time.Time
	}{
		{"Morning run", domain.PeriodicityDaily, dailyCompletions(FixtureStart, 28)},
		{"Read 20 pages", domain.PeriodicityDaily, dailyCompletions(FixtureStart, 28, 3, 10, 18)},
		{"Meditate", domain.PeriodicityDaily, dailyCompletions(FixtureStart, 28, 14, 15, 16, 17, 18, 19, 20)},
		{"Weekly review", domain.PeriodicityWeekly, weeklyCompletions(FixtureStart, 4)},
		{"Call parents", domain.PeriodicityWeekly, weeklyCompletions(FixtureStart, 4, 2)},
	}

	habits := make([]*domain.Habit, 0, len(defs))
	for _, def := range defs {
		h, err := domain.NewHabit(DemoUserID, def.name, def.periodicity)
		if err != nil {
			return nil, fmt.Errorf("seed: building habit %q: %w", def.name, err)
		}

		for _, at := range def.completions {
			if err := h.CheckOff(at); err != nil {
				return nil, fmt.Errorf("seed: checking off %q: %w", def.name, err)
			}
		}

		h.CreatedAt = FixtureStart
		h.UpdatedAt = FixtureStart

		habits = append(habits, h)
	}

	return habits, nil
}
