package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AnshRaj112/fittrack-backend/internal/models"
)

type NutritionRepository interface {
	Create(ctx context.Context, log *models.NutritionLog) error
	ListForDay(ctx context.Context, userID uuid.UUID, day time.Time) ([]models.NutritionEntry, error)
}

type nutritionRepo struct {
	db *sql.DB
}

func NewNutritionRepository(db *sql.DB) NutritionRepository {
	return &nutritionRepo{db: db}
}

func (r *nutritionRepo) Create(ctx context.Context, log *models.NutritionLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO nutrition_logs (id, user_id, food_id, quantity_grams, log_date, meal_type)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		log.ID, log.UserID, log.FoodID, log.QuantityGrams, log.Date.Format(DateLayout), string(log.MealType),
	)
	if err != nil {
		return fmt.Errorf("insert nutrition log: %w", err)
	}
	return nil
}

// ListForDay returns the user's logs for one calendar day joined with their foods.
func (r *nutritionRepo) ListForDay(ctx context.Context, userID uuid.UUID, day time.Time) ([]models.NutritionEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT n.id, n.user_id, n.food_id, n.quantity_grams, n.log_date, n.meal_type,
		       f.id, f.name, f.calories_per_100g, f.protein_per_100g, f.carbs_per_100g, f.fat_per_100g
		FROM nutrition_logs n
		JOIN food_items f ON f.id = n.food_id
		WHERE n.user_id = $1 AND n.log_date = $2
		ORDER BY n.created_at`,
		userID, day.Format(DateLayout))
	if err != nil {
		return nil, fmt.Errorf("list nutrition logs: %w", err)
	}
	defer rows.Close()

	var out []models.NutritionEntry
	for rows.Next() {
		var e models.NutritionEntry
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.FoodID, &e.QuantityGrams, &e.Date, &e.MealType,
			&e.Food.ID, &e.Food.Name, &e.Food.CaloriesPer100g, &e.Food.ProteinPer100g, &e.Food.CarbsPer100g, &e.Food.FatPer100g,
		); err != nil {
			return nil, fmt.Errorf("scan nutrition log: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
