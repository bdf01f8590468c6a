package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrHabitNotFound = errors.New("habit not found")
	ErrHabitConflict = errors.New("habit version conflict")
	ErrUnauthorized  = errors.New("operation not permitted for this user")
)

// HabitRepository is the storage port for habits and their completion
// histories. Reads return independent snapshots: habits handed out by
// GetByID and ListByUserID must not alias the stored state, so mutating
// a returned habit never changes what the repository holds. Writes go
// through the dedicated methods only.
type HabitRepository interface {
	// Create persists a new habit definition.
	Create(ctx context.Context, habit *Habit) error

	// GetByID retrieves a snapshot of a habit together with its full
	// completion history.
	GetByID(ctx context.Context, id string) (*Habit, error)

	// ListByUserID retrieves snapshots of all habits (with completions)
	// for a user, in creation order.
	ListByUserID(ctx context.Context, userID string) ([]*Habit, error)

	// AddCompletion appends a check-off to a habit's history.
	AddCompletion(ctx context.Context, habitID string, at time.Time) error

	// Delete permanently removes a habit and its completion history.
	Delete(ctx context.Context, id string) error

	// UpdateLongestStreak persists the denormalized longest streak
	// maintained by the streak worker.
	UpdateLongestStreak(ctx context.Context, id string, longest int) error
}
