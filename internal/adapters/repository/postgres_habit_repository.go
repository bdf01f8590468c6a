package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mfranzen/cadence/internal/core/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var _ domain.HabitRepository = (*PostgresHabitRepository)(nil)

type PostgresHabitRepository struct {
	db *sqlx.DB
}

func NewPostgresHabitRepository(db *sqlx.DB) *PostgresHabitRepository {
	return &PostgresHabitRepository{db: db}
}

type completionRow struct {
	HabitID     string    `db:"habit_id"`
	CompletedAt time.Time `db:"completed_at"`
}

func (r *PostgresHabitRepository) Create(ctx context.Context, h *domain.Habit) error {
	query := `
        INSERT INTO habits (
            id, user_id, name, periodicity, longest_streak,
            version, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, 1, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		h.ID, h.UserID, h.Name, h.Periodicity, h.LongestStreak,
		h.CreatedAt, h.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert habit: %w", err)
	}

	h.Version = 1
	return nil
}

func (r *PostgresHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	query := `
        SELECT id, user_id, name, periodicity, longest_streak,
               version, created_at, updated_at
        FROM habits
        WHERE id = $1`

	var h domain.Habit
	if err := r.db.GetContext(ctx, &h, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrHabitNotFound
		}
		return nil, fmt.Errorf("habit query error: %w", err)
	}

	if err := r.loadCompletions(ctx, []*domain.Habit{&h}); err != nil {
		return nil, err
	}

	return &h, nil
}

func (r *PostgresHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	query := `
        SELECT id, user_id, name, periodicity, longest_streak,
               version, created_at, updated_at
        FROM habits
        WHERE user_id = $1
        ORDER BY created_at ASC, id ASC`

	var habits []*domain.Habit
	if err := r.db.SelectContext(ctx, &habits, query, userID); err != nil {
		return nil, fmt.Errorf("habit list query error: %w", err)
	}

	if err := r.loadCompletions(ctx, habits); err != nil {
		return nil, err
	}

	return habits, nil
}

// loadCompletions fetches the full histories for a batch of habits with a
// single IN query and attaches them in chronological order.
func (r *PostgresHabitRepository) loadCompletions(ctx context.Context, habits []*domain.Habit) error {
	if len(habits) == 0 {
		return nil
	}

	ids := make([]string, 0, len(habits))
	for _, h := range habits {
		ids = append(ids, h.ID)
	}

	query, args, err := sqlx.In(`
        SELECT habit_id, completed_at
        FROM habit_completions
        WHERE habit_id IN (?)
        ORDER BY completed_at ASC`, ids)
	if err != nil {
		return fmt.Errorf("building completions query: %w", err)
	}

	var rows []completionRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("completions query error: %w", err)
	}

	byHabit := make(map[string][]time.Time, len(habits))
	for _, row := range rows {
		byHabit[row.HabitID] = append(byHabit[row.HabitID], row.CompletedAt.UTC())
	}

	for _, h := range habits {
		h.Completions = byHabit[h.ID]
	}

	return nil
}

func (r *PostgresHabitRepository) AddCompletion(ctx context.Context, habitID string, at time.Time) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE habits SET updated_at = NOW() WHERE id = $1`, habitID)
	if err != nil {
		return fmt.Errorf("touch habit failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrHabitNotFound
	}

	completion := domain.NewCompletion(habitID, at)

	_, err = tx.ExecContext(ctx, `
        INSERT INTO habit_completions (id, habit_id, completed_at)
        VALUES ($1, $2, $3)`,
		completion.ID, completion.HabitID, completion.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert completion failed: %w", err)
	}

	return tx.Commit()
}

func (r *PostgresHabitRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM habit_completions WHERE habit_id = $1`, id); err != nil {
		return fmt.Errorf("delete completions failed: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM habits WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete habit failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrHabitNotFound
	}

	return tx.Commit()
}

func (r *PostgresHabitRepository) UpdateLongestStreak(ctx context.Context, id string, longest int) error {
	query := `
        UPDATE habits
        SET longest_streak = $1, version = version + 1, updated_at = NOW()
        WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, longest, id)
	if err != nil {
		return fmt.Errorf("update streak failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrHabitNotFound
	}

	return nil
}
