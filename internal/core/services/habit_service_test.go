package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mfranzen/cadence/internal/core/domain"
	"github.com/mfranzen/cadence/internal/core/services"
)

func TestHabitService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockHabitRepo)
		svc := services.NewHabitService(repo, &MockQueue{})

		repo.On("Create", ctx, mock.AnythingOfType("*domain.Habit")).Return(nil)

		habit, err := svc.Create(ctx, services.CreateHabitInput{
			UserID:      "u1",
			Name:        "Morning run",
			Periodicity: "daily",
		})

		require.NoError(t, err)
		assert.Equal(t, "Morning run", habit.Name)
		assert.Equal(t, domain.PeriodicityDaily, habit.Periodicity)
		repo.AssertExpectations(t)
	})

	t.Run("Fail: invalid periodicity never reaches the repository", func(t *testing.T) {
		repo := new(MockHabitRepo)
		svc := services.NewHabitService(repo, &MockQueue{})

		_, err := svc.Create(ctx, services.CreateHabitInput{
			UserID:      "u1",
			Name:        "Nap",
			Periodicity: "hourly",
		})

		assert.ErrorIs(t, err, domain.ErrInvalidPeriodicity)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Fail: repository error propagates", func(t *testing.T) {
		repo := new(MockHabitRepo)
		svc := services.NewHabitService(repo, &MockQueue{})

		dbErr := errors.New("db down")
		repo.On("Create", ctx, mock.AnythingOfType("*domain.Habit")).Return(dbErr)

		_, err := svc.Create(ctx, services.CreateHabitInput{
			UserID:      "u1",
			Name:        "Morning run",
			Periodicity: "weekly",
		})

		assert.ErrorIs(t, err, dbErr)
	})
}

func TestHabitService_Listing(t *testing.T) {
	ctx := context.Background()

	mustHabit := func(name string, p domain.Periodicity) *domain.Habit {
		h, err := domain.NewHabit("u1", name, p)
		require.NoError(t, err)
		return h
	}

	d1 := mustHabit("d1", domain.PeriodicityDaily)
	w1 := mustHabit("w1", domain.PeriodicityWeekly)
	d2 := mustHabit("d2", domain.PeriodicityDaily)
	all := []*domain.Habit{d1, w1, d2}

	t.Run("ListByUserID returns everything in order", func(t *testing.T) {
		repo := new(MockHabitRepo)
		svc := services.NewHabitService(repo, &MockQueue{})

		repo.On("ListByUserID", ctx, "u1").Return(all, nil)

		got, err := svc.ListByUserID(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, all, got)
	})

	t.Run("ListByPeriodicity filters and preserves order", func(t *testing.T) {
		repo := new(MockHabitRepo)
		svc := services.NewHabitService(repo, &MockQueue{})

		repo.On("ListByUserID", ctx, "u1").Return(all, nil)

		got, err := svc.ListByPeriodicity(ctx, "u1", "daily")
		require.NoError(t, err)
		assert.Equal(t, []*domain.Habit{d1, d2}, got)
	})

	t.Run("ListByPeriodicity rejects unknown cadences", func(t *testing.T) {
		repo := new(MockHabitRepo)
		svc := services.NewHabitService(repo, &MockQueue{})

		_, err := svc.ListByPeriodicity(ctx, "u1", "fortnightly")
		assert.ErrorIs(t, err, domain.ErrInvalidPeriodicity)
		repo.AssertNotCalled(t, "ListByUserID", mock.Anything, mock.Anything)
	})
}

func TestHabitService_CheckOff(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)

	t.Run("Success enqueues a streak recomputation", func(t *testing.T) {
		habit, err := domain.NewHabit("u1", "Run", domain.PeriodicityDaily)
		require.NoError(t, err)

		repo := new(MockHabitRepo)
		queue := &MockQueue{}
		svc := services.NewHabitService(repo, queue)

		repo.On("GetByID", ctx, habit.ID).Return(habit, nil)
		repo.On("AddCompletion", ctx, habit.ID, at).Return(nil)

		got, err := svc.CheckOff(ctx, habit.ID, "u1", at)
		require.NoError(t, err)

		assert.True(t, got.HasCompletions())
		assert.Equal(t, []string{habit.ID}, queue.enqueued)
		repo.AssertExpectations(t)
	})

	t.Run("Fail: foreign habit looks like not found", func(t *testing.T) {
		habit, err := domain.NewHabit("someone-else", "Run", domain.PeriodicityDaily)
		require.NoError(t, err)

		repo := new(MockHabitRepo)
		queue := &MockQueue{}
		svc := services.NewHabitService(repo, queue)

		repo.On("GetByID", ctx, habit.ID).Return(habit, nil)

		_, err = svc.CheckOff(ctx, habit.ID, "u1", at)
		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
		assert.Empty(t, queue.enqueued)
	})

	t.Run("Fail: persistence error skips the queue", func(t *testing.T) {
		habit, err := domain.NewHabit("u1", "Run", domain.PeriodicityDaily)
		require.NoError(t, err)

		repo := new(MockHabitRepo)
		queue := &MockQueue{}
		svc := services.NewHabitService(repo, queue)

		dbErr := errors.New("insert failed")
		repo.On("GetByID", ctx, habit.ID).Return(habit, nil)
		repo.On("AddCompletion", ctx, habit.ID, at).Return(dbErr)

		_, err = svc.CheckOff(ctx, habit.ID, "u1", at)
		assert.ErrorIs(t, err, dbErr)
		assert.Empty(t, queue.enqueued)
	})
}

// aliasingRepo returns its stored habits without cloning, deliberately
// breaking the snapshot contract. CheckOff must still persist exactly
// one completion per call and leave the stored entity untouched in
// process.
type aliasingRepo struct {
	habits map[string]*domain.Habit
}

func (r *aliasingRepo) Create(ctx context.Context, h *domain.Habit) error {
	r.habits[h.ID] = h
	return nil
}

func (r *aliasingRepo) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	h, ok := r.habits[id]
	if !ok {
		return nil, domain.ErrHabitNotFound
	}
	return h, nil
}

func (r *aliasingRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	var out []*domain.Habit
	for _, h := range r.habits {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *aliasingRepo) AddCompletion(ctx context.Context, habitID string, at time.Time) error {
	h, ok := r.habits[habitID]
	if !ok {
		return domain.ErrHabitNotFound
	}
	return h.CheckOff(at)
}

func (r *aliasingRepo) Delete(ctx context.Context, id string) error {
	delete(r.habits, id)
	return nil
}

func (r *aliasingRepo) UpdateLongestStreak(ctx context.Context, id string, longest int) error {
	h, ok := r.habits[id]
	if !ok {
		return domain.ErrHabitNotFound
	}
	h.LongestStreak = longest
	return nil
}

func TestHabitService_CheckOff_SingleAppend(t *testing.T) {
	ctx := context.Background()

	habit, err := domain.NewHabit("u1", "Run", domain.PeriodicityDaily)
	require.NoError(t, err)

	repo := &aliasingRepo{habits: map[string]*domain.Habit{habit.ID: habit}}
	svc := services.NewHabitService(repo, &MockQueue{})

	first := time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)
	got, err := svc.CheckOff(ctx, habit.ID, "u1", first)
	require.NoError(t, err)

	assert.Len(t, repo.habits[habit.ID].Completions, 1)
	assert.Len(t, got.Completions, 1)

	second := first.AddDate(0, 0, 1)
	got, err = svc.CheckOff(ctx, habit.ID, "u1", second)
	require.NoError(t, err)

	assert.Len(t, repo.habits[habit.ID].Completions, 2)
	assert.Len(t, got.Completions, 2)
}

func TestHabitService_Delete(t *testing.T) {
	ctx := context.Background()

	habit, err := domain.NewHabit("u1", "Run", domain.PeriodicityDaily)
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		repo := new(MockHabitRepo)
		svc := services.NewHabitService(repo, &MockQueue{})

		repo.On("GetByID", ctx, habit.ID).Return(habit, nil)
		repo.On("Delete", ctx, habit.ID).Return(nil)

		require.NoError(t, svc.Delete(ctx, habit.ID, "u1"))
		repo.AssertExpectations(t)
	})

	t.Run("Fail: wrong owner", func(t *testing.T) {
		repo := new(MockHabitRepo)
		svc := services.NewHabitService(repo, &MockQueue{})

		repo.On("GetByID", ctx, habit.ID).Return(habit, nil)

		err := svc.Delete(ctx, habit.ID, "intruder")
		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
