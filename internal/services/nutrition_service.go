package services

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/AnshRaj112/fittrack-backend/internal/models"
	"github.com/AnshRaj112/fittrack-backend/internal/repository"
	"github.com/AnshRaj112/fittrack-backend/pkg/apierrors"
)

type LogFoodInput struct {
	FoodID        string   `json:"food_id" validate:"required,uuid"`
	QuantityGrams *float64 `json:"quantity_grams" validate:"required,gt=0,lte=5000"`
	MealType      string   `json:"meal_type" validate:"omitempty,oneof=breakfast lunch dinner snack other"`
}

// summaryGenerationTTL keeps the per-day generation alive for longer than any
// summary cached on that day.
const summaryGenerationTTL = 48 * time.Hour

// cachedSummary is a summary tagged with the generation it was computed under.
type cachedSummary struct {
	Generation int64                   `json:"generation"`
	Summary    models.NutritionSummary `json:"summary"`
}

type NutritionService struct {
	foods    repository.FoodRepository
	logs     repository.NutritionRepository
	cache    *CacheService
	cacheTTL time.Duration
	clock    Clock
}

func NewNutritionService(foods repository.FoodRepository, logs repository.NutritionRepository, cache *CacheService, cacheTTL time.Duration, clock Clock) *NutritionService {
	return &NutritionService{foods: foods, logs: logs, cache: cache, cacheTTL: cacheTTL, clock: clock}
}

func (s *NutritionService) Foods(ctx context.Context) ([]models.FoodItem, error) {
	return s.foods.List(ctx)
}

// LogFood records a food eaten today. Meal type defaults to "other".
func (s *NutritionService) LogFood(ctx context.Context, userID uuid.UUID, in LogFoodInput) (*models.NutritionLog, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	foodID := uuid.MustParse(in.FoodID)
	if _, err := s.foods.GetByID(ctx, foodID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierrors.NewNotFoundError("Food item")
		}
		return nil, err
	}

	meal := models.MealType(in.MealType)
	if meal == "" {
		meal = models.MealOther
	}

	log := &models.NutritionLog{
		UserID:        userID,
		FoodID:        foodID,
		QuantityGrams: *in.QuantityGrams,
		Date:          s.clock.Today(),
		MealType:      meal,
	}
	if err := s.logs.Create(ctx, log); err != nil {
		return nil, err
	}

	if err := s.cache.Bump(ctx, summaryGenerationKey(userID, log.Date), s.cacheTTL+summaryGenerationTTL); err != nil {
		slog.Warn("failed to bump nutrition summary generation", slog.String("error", err.Error()))
	}
	if err := s.cache.Delete(ctx, summaryKey(userID, log.Date)); err != nil {
		slog.Warn("failed to invalidate nutrition summary", slog.String("error", err.Error()))
	}
	return log, nil
}

// TodayEntries lists today's logs with their foods.
func (s *NutritionService) TodayEntries(ctx context.Context, userID uuid.UUID) ([]models.NutritionEntry, error) {
	return s.logs.ListForDay(ctx, userID, s.clock.Today())
}

// SummaryForToday totals today's intake, each value rounded to one decimal.
// Cached summaries are only served while their generation matches the one
// LogFood bumps, so a summary computed before a concurrent log is never reused.
func (s *NutritionService) SummaryForToday(ctx context.Context, userID uuid.UUID) (models.NutritionSummary, error) {
	today := s.clock.Today()
	key := summaryKey(userID, today)

	gen, err := s.cache.Generation(ctx, summaryGenerationKey(userID, today))
	cacheable := err == nil
	if err != nil {
		slog.Warn("nutrition summary generation read failed", slog.String("error", err.Error()))
	}

	if cacheable {
		var cached cachedSummary
		if hit, err := s.cache.Get(ctx, key, &cached); err != nil {
			slog.Warn("nutrition summary cache read failed", slog.String("error", err.Error()))
		} else if hit && cached.Generation == gen {
			return cached.Summary, nil
		}
	}

	entries, err := s.logs.ListForDay(ctx, userID, today)
	if err != nil {
		return models.NutritionSummary{}, err
	}
	summary := Summarize(entries)

	if cacheable {
		if err := s.cache.Set(ctx, key, cachedSummary{Generation: gen, Summary: summary}, s.cacheTTL); err != nil {
			slog.Warn("nutrition summary cache write failed", slog.String("error", err.Error()))
		}
	}
	return summary, nil
}

// Summarize sums per-entry nutrients and rounds each total to one decimal.
func Summarize(entries []models.NutritionEntry) models.NutritionSummary {
	var cal, protein, carbs, fat float64
	for _, e := range entries {
		cal += e.Calories()
		protein += e.Protein()
		carbs += e.Carbs()
		fat += e.Fat()
	}
	return models.NutritionSummary{
		TotalCalories: round(cal, 1),
		TotalProtein:  round(protein, 1),
		TotalCarbs:    round(carbs, 1),
		TotalFat:      round(fat, 1),
	}
}

func summaryKey(userID uuid.UUID, day time.Time) string {
	return CacheKey("nutrition_summary", userID.String(), day.Format(repository.DateLayout))
}

func summaryGenerationKey(userID uuid.UUID, day time.Time) string {
	return CacheKey("nutrition_summary_gen", userID.String(), day.Format(repository.DateLayout))
}

func round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
