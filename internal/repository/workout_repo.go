package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/AnshRaj112/fittrack-backend/internal/models"
)

// WorkoutRepository defines data operations on templates and assignments.
type WorkoutRepository interface {
	ListTemplates(ctx context.Context) ([]models.WorkoutTemplate, error)
	GetTemplate(ctx context.Context, id uuid.UUID) (*models.WorkoutTemplate, error)
	ListActiveAssignments(ctx context.Context, userID uuid.UUID) ([]models.WorkoutAssignment, error)
	ActivateAssignment(ctx context.Context, a *models.WorkoutAssignment) error
}

type workoutRepo struct {
	db *sql.DB
}

func NewWorkoutRepository(db *sql.DB) WorkoutRepository {
	return &workoutRepo{db: db}
}

func (r *workoutRepo) ListTemplates(ctx context.Context) ([]models.WorkoutTemplate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, goal, description, weekly_plan
		FROM workout_templates
		ORDER BY goal, name`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var out []models.WorkoutTemplate
	for rows.Next() {
		var t models.WorkoutTemplate
		if err := rows.Scan(&t.ID, &t.Name, &t.Goal, &t.Description, &t.WeeklyPlan); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *workoutRepo) GetTemplate(ctx context.Context, id uuid.UUID) (*models.WorkoutTemplate, error) {
	var t models.WorkoutTemplate
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, goal, description, weekly_plan
		FROM workout_templates WHERE id = $1`, id,
	).Scan(&t.ID, &t.Name, &t.Goal, &t.Description, &t.WeeklyPlan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	return &t, nil
}

func (r *workoutRepo) ListActiveAssignments(ctx context.Context, userID uuid.UUID) ([]models.WorkoutAssignment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT uw.id, uw.user_id, uw.template_id, wt.name, uw.custom_plan, uw.is_active, uw.created_at
		FROM user_workouts uw
		JOIN workout_templates wt ON wt.id = uw.template_id
		WHERE uw.user_id = $1 AND uw.is_active
		ORDER BY uw.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var out []models.WorkoutAssignment
	for rows.Next() {
		var (
			a      models.WorkoutAssignment
			custom []byte
		)
		if err := rows.Scan(&a.ID, &a.UserID, &a.TemplateID, &a.TemplateName, &custom, &a.IsActive, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		if custom != nil {
			var plan models.WeeklyPlan
			if err := json.Unmarshal(custom, &plan); err != nil {
				return nil, fmt.Errorf("decode custom plan: %w", err)
			}
			a.CustomPlan = &plan
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ActivateAssignment deactivates every active assignment of the user and
// inserts a as the new active one, atomically. The user row is locked first
// so concurrent selections for the same user serialize.
func (r *workoutRepo) ActivateAssignment(ctx context.Context, a *models.WorkoutAssignment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.IsActive = true

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		var locked uuid.UUID
		err := tx.QueryRowContext(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, a.UserID).Scan(&locked)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("lock user: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE user_workouts SET is_active = FALSE WHERE user_id = $1 AND is_active`, a.UserID,
		); err != nil {
			return fmt.Errorf("deactivate assignments: %w", err)
		}

		if err := tx.QueryRowContext(ctx, `
			INSERT INTO user_workouts (id, user_id, template_id, custom_plan, is_active)
			VALUES ($1, $2, $3, $4, TRUE)
			RETURNING created_at`,
			a.ID, a.UserID, a.TemplateID, a.CustomPlan,
		).Scan(&a.CreatedAt); err != nil {
			return fmt.Errorf("insert assignment: %w", err)
		}
		return nil
	})
}
