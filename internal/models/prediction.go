package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PredictionResult struct {
	PredictedWeight float64 `json:"predicted_weight"`
	WeightChange    float64 `json:"weight_change"`
}

// PredictionRecord is a stored prediction in the prediction_history collection.
type PredictionRecord struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID               string             `bson:"user_id" json:"-"`
	CurrentWeight        float64            `bson:"current_weight" json:"current_weight"`
	DailyCalories        float64            `bson:"daily_calories" json:"daily_calories"`
	WeeklyWorkoutMinutes float64            `bson:"weekly_workout_minutes" json:"weekly_workout_minutes"`
	WeeksAhead           int                `bson:"weeks_ahead" json:"weeks_ahead"`
	PredictedWeight      float64            `bson:"predicted_weight" json:"predicted_weight"`
	WeightChange         float64            `bson:"weight_change" json:"weight_change"`
	CreatedAt            time.Time          `bson:"created_at" json:"created_at"`
}
