package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/AnshRaj112/fittrack-backend/internal/models"
)

type FoodRepository interface {
	List(ctx context.Context) ([]models.FoodItem, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.FoodItem, error)
}

type foodRepo struct {
	db *sql.DB
}

func NewFoodRepository(db *sql.DB) FoodRepository {
	return &foodRepo{db: db}
}

func (r *foodRepo) List(ctx context.Context) ([]models.FoodItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, calories_per_100g, protein_per_100g, carbs_per_100g, fat_per_100g
		FROM food_items ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list foods: %w", err)
	}
	defer rows.Close()

	var out []models.FoodItem
	for rows.Next() {
		var f models.FoodItem
		if err := rows.Scan(&f.ID, &f.Name, &f.CaloriesPer100g, &f.ProteinPer100g, &f.CarbsPer100g, &f.FatPer100g); err != nil {
			return nil, fmt.Errorf("scan food: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *foodRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.FoodItem, error) {
	var f models.FoodItem
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, calories_per_100g, protein_per_100g, carbs_per_100g, fat_per_100g
		FROM food_items WHERE id = $1`, id,
	).Scan(&f.ID, &f.Name, &f.CaloriesPer100g, &f.ProteinPer100g, &f.CarbsPer100g, &f.FatPer100g)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get food: %w", err)
	}
	return &f, nil
}
