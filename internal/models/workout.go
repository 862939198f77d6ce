package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Goal string

const (
	GoalStrength     Goal = "strength"
	GoalFatLoss      Goal = "fat_loss"
	GoalEndurance    Goal = "endurance"
	GoalMuscleGrowth Goal = "muscle_growth"
)

func (g Goal) Valid() bool {
	switch g {
	case GoalStrength, GoalFatLoss, GoalEndurance, GoalMuscleGrowth:
		return true
	}
	return false
}

// Label is the human-readable goal name used by the pages.
func (g Goal) Label() string {
	switch g {
	case GoalStrength:
		return "Strength"
	case GoalFatLoss:
		return "Fat loss"
	case GoalEndurance:
		return "Endurance"
	case GoalMuscleGrowth:
		return "Muscle growth"
	}
	return string(g)
}

// WeeklyPlan is the structured document stored in weekly_plan and custom_plan.
type WeeklyPlan struct {
	Days []PlanDay `json:"days" validate:"required,min=1,max=7,unique=Day,dive"`
}

type PlanDay struct {
	Day       string     `json:"day" validate:"required,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	Focus     string     `json:"focus,omitempty" validate:"max=100"`
	Rest      bool       `json:"rest,omitempty"`
	Exercises []Exercise `json:"exercises,omitempty" validate:"max=30,dive"`
}

type Exercise struct {
	Name            string `json:"name" validate:"required,max=100"`
	Sets            int    `json:"sets,omitempty" validate:"min=0,max=20"`
	Reps            int    `json:"reps,omitempty" validate:"min=0,max=100"`
	DurationMinutes int    `json:"duration_minutes,omitempty" validate:"min=0,max=600"`
}

// Value stores the plan as JSONB. It returns a string because lib/pq sends
// []byte parameters as bytea.
func (p WeeklyPlan) Value() (driver.Value, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan reads a JSONB column.
func (p *WeeklyPlan) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	case nil:
		*p = WeeklyPlan{}
		return nil
	}
	return fmt.Errorf("weekly plan: unsupported scan type %T", src)
}

var ErrRestDayWithExercises = errors.New("rest days cannot list exercises")

type WorkoutTemplate struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Goal        Goal       `json:"goal"`
	Description string     `json:"description"`
	WeeklyPlan  WeeklyPlan `json:"weekly_plan"`
}

// WorkoutAssignment links a user to a template. CustomPlan is nil when the
// user kept the template's plan.
type WorkoutAssignment struct {
	ID           uuid.UUID   `json:"id"`
	UserID       uuid.UUID   `json:"user_id"`
	TemplateID   uuid.UUID   `json:"template_id"`
	TemplateName string      `json:"template_name,omitempty"`
	CustomPlan   *WeeklyPlan `json:"custom_plan,omitempty"`
	IsActive     bool        `json:"is_active"`
	CreatedAt    time.Time   `json:"created_at"`
}
