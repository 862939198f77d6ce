package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/AnshRaj112/fittrack-backend/internal/models"
	"github.com/AnshRaj112/fittrack-backend/internal/repository"
	"github.com/AnshRaj112/fittrack-backend/pkg/apierrors"
)

type SelectTemplateInput struct {
	TemplateID string             `json:"template_id" validate:"required,uuid"`
	CustomPlan *models.WeeklyPlan `json:"custom_plan" validate:"-"`
}

type WorkoutService struct {
	workouts repository.WorkoutRepository
}

func NewWorkoutService(workouts repository.WorkoutRepository) *WorkoutService {
	return &WorkoutService{workouts: workouts}
}

func (s *WorkoutService) Templates(ctx context.Context) ([]models.WorkoutTemplate, error) {
	return s.workouts.ListTemplates(ctx)
}

func (s *WorkoutService) ActiveAssignments(ctx context.Context, userID uuid.UUID) ([]models.WorkoutAssignment, error) {
	return s.workouts.ListActiveAssignments(ctx, userID)
}

// SelectTemplate makes the template the user's only active workout.
func (s *WorkoutService) SelectTemplate(ctx context.Context, userID uuid.UUID, in SelectTemplateInput) (*models.WorkoutAssignment, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if in.CustomPlan != nil {
		if err := ValidatePlan(*in.CustomPlan); err != nil {
			return nil, err
		}
	}

	templateID := uuid.MustParse(in.TemplateID)
	if _, err := s.workouts.GetTemplate(ctx, templateID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierrors.NewNotFoundError("Workout template")
		}
		return nil, err
	}

	a := &models.WorkoutAssignment{
		UserID:     userID,
		TemplateID: templateID,
		CustomPlan: in.CustomPlan,
	}
	if err := s.workouts.ActivateAssignment(ctx, a); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierrors.ErrUnauthenticated
		}
		return nil, err
	}
	return a, nil
}

// ValidatePlan checks a weekly plan document against its schema.
func ValidatePlan(plan models.WeeklyPlan) error {
	if err := validateStruct(plan); err != nil {
		return err
	}
	for i, d := range plan.Days {
		if d.Rest && len(d.Exercises) > 0 {
			field := fmt.Sprintf("days[%d].exercises", i)
			return apierrors.NewValidationError(field, models.ErrRestDayWithExercises.Error())
		}
	}
	return nil
}
