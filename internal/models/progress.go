package models

import (
	"time"

	"github.com/google/uuid"
)

type ProgressLog struct {
	ID                uuid.UUID `json:"id"`
	UserID            uuid.UUID `json:"user_id"`
	Weight            float64   `json:"weight"`
	BodyFatPercentage *float64  `json:"body_fat_percentage"`
	Notes             string    `json:"notes"`
	PhotoURL          string    `json:"photo_url,omitempty"`
	Date              time.Time `json:"date"`
	CreatedAt         time.Time `json:"created_at"`
}

// ProgressSeries feeds the progress chart. BodyFat only holds non-null
// readings, so its length can differ from Dates and Weights.
type ProgressSeries struct {
	Dates   []string  `json:"dates"`
	Weights []float64 `json:"weights"`
	BodyFat []float64 `json:"body_fat"`
}
