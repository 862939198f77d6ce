package models

import (
	"time"

	"github.com/google/uuid"
)

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
	MealOther     MealType = "other"
)

var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack, MealOther}

func (m MealType) Valid() bool {
	for _, t := range MealTypes {
		if m == t {
			return true
		}
	}
	return false
}

type FoodItem struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	CaloriesPer100g float64   `json:"calories_per_100g"`
	ProteinPer100g  float64   `json:"protein_per_100g"`
	CarbsPer100g    float64   `json:"carbs_per_100g"`
	FatPer100g      float64   `json:"fat_per_100g"`
}

type NutritionLog struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	FoodID        uuid.UUID `json:"food_id"`
	QuantityGrams float64   `json:"quantity_grams"`
	Date          time.Time `json:"date"`
	MealType      MealType  `json:"meal_type"`
}

// NutritionEntry is a log joined with its food item.
type NutritionEntry struct {
	NutritionLog
	Food FoodItem `json:"food"`
}

// factor scales per-100g values to the logged quantity.
func (e NutritionEntry) factor() float64 { return e.QuantityGrams / 100 }

func (e NutritionEntry) Calories() float64 { return e.factor() * e.Food.CaloriesPer100g }
func (e NutritionEntry) Protein() float64  { return e.factor() * e.Food.ProteinPer100g }
func (e NutritionEntry) Carbs() float64    { return e.factor() * e.Food.CarbsPer100g }
func (e NutritionEntry) Fat() float64      { return e.factor() * e.Food.FatPer100g }

type NutritionSummary struct {
	TotalCalories float64 `json:"total_calories"`
	TotalProtein  float64 `json:"total_protein"`
	TotalCarbs    float64 `json:"total_carbs"`
	TotalFat      float64 `json:"total_fat"`
}
