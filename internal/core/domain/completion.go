package domain

import (
	"time"

	"github.com/google/uuid"
)

// Completion is a single check-off event attributed to one habit.
// Immutable once created; it only exists embedded in a habit's history.
type Completion struct {
	ID          string    `json:"id" db:"id"`
	HabitID     string    `json:"habit_id" db:"habit_id"`
	CompletedAt time.Time `json:"completed_at" db:"completed_at"`
}

func NewCompletion(habitID string, at time.Time) *Completion {
	return &Completion{
		ID:          uuid.New().String(),
		HabitID:     habitID,
		CompletedAt: at.UTC(),
	}
}
