package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrHabitNameEmpty     = errors.New("habit name cannot be empty")
	ErrHabitNameTooLong   = errors.New("habit name is too long (max 100 chars)")
	ErrHabitInvalidUserID = errors.New("invalid user id")
	ErrZeroCompletionTime = errors.New("completion time cannot be zero")
)

const MaxNameLen = 100

type Habit struct {
	ID          string      `json:"id" db:"id"`
	UserID      string      `json:"user_id" db:"user_id"`
	Name        string      `json:"name" db:"name"`
	Periodicity Periodicity `json:"periodicity" db:"periodicity"`

	// LongestStreak is a denormalized snapshot maintained by the streak
	// worker. The authoritative value is always recomputed from the
	// completion history.
	LongestStreak int `json:"longest_streak" db:"longest_streak"`

	Version   int       `json:"version" db:"version"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Completions []time.Time `json:"completions,omitempty" db:"-"`
}

func NewHabit(userID, name string, periodicity Periodicity) (*Habit, error) {
	if userID == "" {
		return nil, ErrHabitInvalidUserID
	}

	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrHabitNameEmpty
	}
	if len(trimmed) > MaxNameLen {
		return nil, ErrHabitNameTooLong
	}

	if !periodicity.Valid() {
		return nil, ErrInvalidPeriodicity
	}

	now := time.Now().UTC()

	return &Habit{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        trimmed,
		Periodicity: periodicity,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// CheckOff records a completion at the given time. The completion history
// is append-only: individual check-offs are never removed during a habit's
// active lifetime.
func (h *Habit) CheckOff(at time.Time) error {
	if at.IsZero() {
		return ErrZeroCompletionTime
	}

	h.Completions = append(h.Completions, at.UTC())
	h.UpdatedAt = time.Now().UTC()
	return nil
}

// CompletionTimes returns a copy of the completion timestamps so callers
// cannot mutate the habit's history through the returned slice.
func (h *Habit) CompletionTimes() []time.Time {
	out := make([]time.Time, len(h.Completions))
	copy(out, h.Completions)
	return out
}

func (h *Habit) HasCompletions() bool {
	return len(h.Completions) > 0
}

// Clone returns a deep copy, used by repositories that hand habits to
// callers which must observe a consistent snapshot.
func (h *Habit) Clone() *Habit {
	c := *h
	c.Completions = h.CompletionTimes()
	return &c
}
