package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/mfranzen/cadence/internal/core/domain"
)

type MockHabitRepo struct {
	mock.Mock
}

func (m *MockHabitRepo) Create(ctx context.Context, habit *domain.Habit) error {
	args := m.Called(ctx, habit)
	return args.Error(0)
}

func (m *MockHabitRepo) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	args := m.Called(ctx, id)
	if h, ok := args.Get(0).(*domain.Habit); ok {
		return h, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockHabitRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	args := m.Called(ctx, userID)
	if habits, ok := args.Get(0).([]*domain.Habit); ok {
		return habits, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockHabitRepo) AddCompletion(ctx context.Context, habitID string, at time.Time) error {
	args := m.Called(ctx, habitID, at)
	return args.Error(0)
}

func (m *MockHabitRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockHabitRepo) UpdateLongestStreak(ctx context.Context, id string, longest int) error {
	args := m.Called(ctx, id, longest)
	return args.Error(0)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*domain.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*domain.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockQueue struct {
	enqueued []string
}

func (q *MockQueue) Enqueue(habitID string) {
	q.enqueued = append(q.enqueued, habitID)
}
