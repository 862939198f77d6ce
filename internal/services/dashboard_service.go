package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/AnshRaj112/fittrack-backend/internal/models"
	"github.com/AnshRaj112/fittrack-backend/internal/repository"
	"github.com/AnshRaj112/fittrack-backend/pkg/apierrors"
)

const dashboardRecentProgress = 5

type Dashboard struct {
	User           *models.User
	RecentProgress []models.ProgressLog
	TodayCalories  float64
	BMI            float64
	BMICategory    string
	ActiveWorkout  *models.WorkoutAssignment
}

type DashboardService struct {
	users     repository.UserRepository
	progress  *ProgressService
	nutrition *NutritionService
	workouts  *WorkoutService
}

func NewDashboardService(users repository.UserRepository, progress *ProgressService, nutrition *NutritionService, workouts *WorkoutService) *DashboardService {
	return &DashboardService{users: users, progress: progress, nutrition: nutrition, workouts: workouts}
}

// Load aggregates the dashboard. It performs no writes.
func (s *DashboardService) Load(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apierrors.ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}

	recent, err := s.progress.Recent(ctx, userID, dashboardRecentProgress)
	if err != nil {
		return nil, err
	}

	entries, err := s.nutrition.TodayEntries(ctx, userID)
	if err != nil {
		return nil, err
	}

	active, err := s.workouts.ActiveAssignments(ctx, userID)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		User:           user,
		RecentProgress: recent,
		TodayCalories:  Summarize(entries).TotalCalories,
	}
	if len(active) > 0 {
		d.ActiveWorkout = &active[0]
	}
	d.BMI, d.BMICategory = BMI(user.CurrentWeight, user.HeightCM)
	return d, nil
}

// BMI returns the body mass index rounded to one decimal and its category.
func BMI(weightKg, heightCM float64) (float64, string) {
	if weightKg <= 0 || heightCM <= 0 {
		return 0, ""
	}
	m := heightCM / 100
	bmi := weightKg / (m * m)
	switch {
	case bmi < 18.5:
		return round(bmi, 1), "Underweight"
	case bmi < 25:
		return round(bmi, 1), "Normal"
	case bmi < 30:
		return round(bmi, 1), "Overweight"
	default:
		return round(bmi, 1), "Obese"
	}
}

// Profile returns the signed-in user's record.
func (s *DashboardService) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apierrors.ErrUnauthenticated
	}
	return user, err
}
