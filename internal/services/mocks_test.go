package services

import (
	"context"
	"mime/multipart"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"

	"github.com/AnshRaj112/fittrack-backend/internal/models"
	"github.com/AnshRaj112/fittrack-backend/internal/predictor"
	"github.com/AnshRaj112/fittrack-backend/internal/repository"
)

var (
	_ repository.UserRepository      = (*MockUserRepository)(nil)
	_ repository.WorkoutRepository   = (*MockWorkoutRepository)(nil)
	_ repository.FoodRepository      = (*MockFoodRepository)(nil)
	_ repository.NutritionRepository = (*MockNutritionRepository)(nil)
	_ repository.ProgressRepository  = (*MockProgressRepository)(nil)
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func fixedClock(day string) Clock {
	now, err := time.ParseInLocation("2006-01-02 15:04", day+" 23:30", time.UTC)
	if err != nil {
		panic(err)
	}
	return Clock{Location: time.UTC, Now: func() time.Time { return now }}
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil && user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ExistsUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

type MockWorkoutRepository struct{ mock.Mock }

func (m *MockWorkoutRepository) ListTemplates(ctx context.Context) ([]models.WorkoutTemplate, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.WorkoutTemplate), args.Error(1)
}

func (m *MockWorkoutRepository) GetTemplate(ctx context.Context, id uuid.UUID) (*models.WorkoutTemplate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkoutTemplate), args.Error(1)
}

func (m *MockWorkoutRepository) ListActiveAssignments(ctx context.Context, userID uuid.UUID) ([]models.WorkoutAssignment, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.WorkoutAssignment), args.Error(1)
}

func (m *MockWorkoutRepository) ActivateAssignment(ctx context.Context, a *models.WorkoutAssignment) error {
	args := m.Called(ctx, a)
	if args.Error(0) == nil {
		a.ID = uuid.New()
		a.IsActive = true
	}
	return args.Error(0)
}

type MockFoodRepository struct{ mock.Mock }

func (m *MockFoodRepository) List(ctx context.Context) ([]models.FoodItem, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.FoodItem), args.Error(1)
}

func (m *MockFoodRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.FoodItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FoodItem), args.Error(1)
}

type MockNutritionRepository struct{ mock.Mock }

func (m *MockNutritionRepository) Create(ctx context.Context, log *models.NutritionLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *MockNutritionRepository) ListForDay(ctx context.Context, userID uuid.UUID, day time.Time) ([]models.NutritionEntry, error) {
	args := m.Called(ctx, userID, day)
	return args.Get(0).([]models.NutritionEntry), args.Error(1)
}

type MockProgressRepository struct{ mock.Mock }

func (m *MockProgressRepository) CreateAndUpdateWeight(ctx context.Context, log *models.ProgressLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *MockProgressRepository) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]models.ProgressLog, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]models.ProgressLog), args.Error(1)
}

func (m *MockProgressRepository) ListAscending(ctx context.Context, userID uuid.UUID) ([]models.ProgressLog, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.ProgressLog), args.Error(1)
}

func (m *MockProgressRepository) ListDescending(ctx context.Context, userID uuid.UUID) ([]models.ProgressLog, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.ProgressLog), args.Error(1)
}

func (m *MockProgressRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.ProgressLog, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProgressLog), args.Error(1)
}

func (m *MockProgressRepository) SetPhotoURL(ctx context.Context, userID, id uuid.UUID, url string) error {
	return m.Called(ctx, userID, id, url).Error(0)
}

// modelFunc adapts a function to predictor.Model.
type modelFunc func(ctx context.Context, f predictor.Features) (float64, error)

func (fn modelFunc) Predict(ctx context.Context, f predictor.Features) (float64, error) {
	return fn(ctx, f)
}

type uploaderFunc func(ctx context.Context, file multipart.File, folder string) (string, error)

func (fn uploaderFunc) UploadFile(ctx context.Context, file multipart.File, folder string) (string, error) {
	return fn(ctx, file, folder)
}

// chanHistory captures recorded predictions.
type chanHistory struct {
	recorded chan *models.PredictionRecord
}

func (h *chanHistory) Record(_ context.Context, rec *models.PredictionRecord) error {
	h.recorded <- rec
	return nil
}

func (h *chanHistory) Recent(context.Context, string, int) ([]models.PredictionRecord, error) {
	return nil, nil
}
