package workers

import (
	"context"
	"log"

	"github.com/mfranzen/cadence/internal/core/analytics"
	"github.com/mfranzen/cadence/internal/core/domain"
)

type HabitRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Habit, error)
	UpdateLongestStreak(ctx context.Context, id string, longest int) error
}

type StreakJob struct {
	HabitID string
}

// StreakWorker recomputes a habit's longest streak in the background
// after each check-off and persists the denormalized value. It leans
// entirely on the pure analytics engine; no streak logic lives here.
type StreakWorker struct {
	repo HabitRepository
	jobs chan StreakJob
}

func NewStreakWorker(repo HabitRepository) *StreakWorker {
	return &StreakWorker{
		repo: repo,
		jobs: make(chan StreakJob, 100),
	}
}

func (w *StreakWorker) Start(ctx context.Context) {
	go func() {
		log.Println("Streak worker started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Println("Streak worker shutting down...")
				return
			}
		}
	}()
}

func (w *StreakWorker) Enqueue(habitID string) {
	select {
	case w.jobs <- StreakJob{HabitID: habitID}:
	default:
		log.Printf("Streak worker queue full, dropping job for habit %s", habitID)
	}
}

func (w *StreakWorker) processJob(ctx context.Context, job StreakJob) {
	habit, err := w.repo.GetByID(ctx, job.HabitID)
	if err != nil {
		log.Printf("Streak worker: fetching habit %s: %v", job.HabitID, err)
		return
	}

	longest, err := analytics.LongestStreak(habit)
	if err != nil {
		log.Printf("Streak worker: computing streak for %s: %v", job.HabitID, err)
		return
	}

	if habit.LongestStreak == longest {
		return
	}

	if err := w.repo.UpdateLongestStreak(ctx, habit.ID, longest); err != nil {
		log.Printf("Streak worker: persisting streak for %s: %v", habit.ID, err)
		return
	}

	log.Printf("Streak updated for %q: longest=%d", habit.Name, longest)
}
