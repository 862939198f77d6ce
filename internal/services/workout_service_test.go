package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/fittrack-backend/internal/models"
	"github.com/AnshRaj112/fittrack-backend/internal/repository"
	"github.com/AnshRaj112/fittrack-backend/pkg/apierrors"
)

func TestSelectTemplate_Success(t *testing.T) {
	repo := new(MockWorkoutRepository)
	svc := NewWorkoutService(repo)
	ctx := context.Background()
	userID, templateID := uuid.New(), uuid.New()
	plan := &models.WeeklyPlan{Days: []models.PlanDay{
		{Day: "monday", Exercises: []models.Exercise{{Name: "Squat", Sets: 5, Reps: 5}}},
		{Day: "sunday", Rest: true},
	}}

	repo.On("GetTemplate", ctx, templateID).Return(&models.WorkoutTemplate{ID: templateID}, nil)
	repo.On("ActivateAssignment", ctx, mock.MatchedBy(func(a *models.WorkoutAssignment) bool {
		return a.UserID == userID && a.TemplateID == templateID && a.CustomPlan == plan
	})).Return(nil)

	a, err := svc.SelectTemplate(ctx, userID, SelectTemplateInput{TemplateID: templateID.String(), CustomPlan: plan})
	require.NoError(t, err)
	assert.True(t, a.IsActive)
	repo.AssertExpectations(t)
}

func TestSelectTemplate_UnknownTemplate(t *testing.T) {
	repo := new(MockWorkoutRepository)
	svc := NewWorkoutService(repo)
	ctx := context.Background()
	templateID := uuid.New()

	repo.On("GetTemplate", ctx, templateID).Return(nil, repository.ErrNotFound)

	_, err := svc.SelectTemplate(ctx, uuid.New(), SelectTemplateInput{TemplateID: templateID.String()})
	assert.ErrorIs(t, err, apierrors.ErrNotFound)
	repo.AssertNotCalled(t, "ActivateAssignment", mock.Anything, mock.Anything)
}

func TestSelectTemplate_InvalidInput(t *testing.T) {
	repo := new(MockWorkoutRepository)
	svc := NewWorkoutService(repo)
	ctx := context.Background()

	cases := map[string]SelectTemplateInput{
		"missing id": {},
		"bad id":     {TemplateID: "42"},
		"duplicate day": {TemplateID: uuid.NewString(), CustomPlan: &models.WeeklyPlan{Days: []models.PlanDay{
			{Day: "monday"}, {Day: "monday"},
		}}},
		"unknown day":  {TemplateID: uuid.NewString(), CustomPlan: &models.WeeklyPlan{Days: []models.PlanDay{{Day: "funday"}}}},
		"empty plan":   {TemplateID: uuid.NewString(), CustomPlan: &models.WeeklyPlan{}},
		"rest with work": {TemplateID: uuid.NewString(), CustomPlan: &models.WeeklyPlan{Days: []models.PlanDay{
			{Day: "friday", Rest: true, Exercises: []models.Exercise{{Name: "Run"}}},
		}}},
		"too many sets": {TemplateID: uuid.NewString(), CustomPlan: &models.WeeklyPlan{Days: []models.PlanDay{
			{Day: "friday", Exercises: []models.Exercise{{Name: "Row", Sets: 99}}},
		}}},
	}
	for name, in := range cases {
		_, err := svc.SelectTemplate(ctx, uuid.New(), in)
		assert.ErrorIs(t, err, apierrors.ErrValidation, name)
	}
	repo.AssertNotCalled(t, "GetTemplate", mock.Anything, mock.Anything)
}
