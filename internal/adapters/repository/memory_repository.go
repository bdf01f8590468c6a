package repository

import (
	"context"
	"sync"
	"time"

	"github.com/mfranzen/cadence/internal/core/domain"
)

var _ domain.HabitRepository = (*InMemoryHabitRepository)(nil)

// InMemoryHabitRepository backs demo mode and tests. It hands out deep
// copies so every caller observes a consistent snapshot regardless of
// concurrent check-offs.
type InMemoryHabitRepository struct {
	mu    sync.RWMutex
	store map[string]*domain.Habit
	order []string
}

func NewInMemoryHabitRepository() *InMemoryHabitRepository {
	return &InMemoryHabitRepository{
		store: make(map[string]*domain.Habit),
	}
}

// Seed loads prebuilt habits, typically the demo fixtures.
func (r *InMemoryHabitRepository) Seed(habits []*domain.Habit) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, h := range habits {
		if _, exists := r.store[h.ID]; !exists {
			r.order = append(r.order, h.ID)
		}
		r.store[h.ID] = h.Clone()
	}
}

func (r *InMemoryHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[habit.ID]; !exists {
		r.order = append(r.order, habit.ID)
	}
	r.store[habit.ID] = habit.Clone()
	return nil
}

func (r *InMemoryHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habit, ok := r.store[id]
	if !ok {
		return nil, domain.ErrHabitNotFound
	}
	return habit.Clone(), nil
}

func (r *InMemoryHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var habits []*domain.Habit
	for _, id := range r.order {
		if h := r.store[id]; h.UserID == userID {
			habits = append(habits, h.Clone())
		}
	}
	return habits, nil
}

func (r *InMemoryHabitRepository) AddCompletion(ctx context.Context, habitID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	habit, ok := r.store[habitID]
	if !ok {
		return domain.ErrHabitNotFound
	}
	return habit.CheckOff(at)
}

func (r *InMemoryHabitRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrHabitNotFound
	}
	delete(r.store, id)

	for i, stored := range r.order {
		if stored == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *InMemoryHabitRepository) UpdateLongestStreak(ctx context.Context, id string, longest int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	habit, ok := r.store[id]
	if !ok {
		return domain.ErrHabitNotFound
	}

	habit.LongestStreak = longest
	habit.Version++
	habit.UpdatedAt = time.Now().UTC()
	return nil
}
