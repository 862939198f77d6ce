package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID            uuid.UUID `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"` // never serialized
	Name          string    `json:"name"`
	Age           int       `json:"age"`
	Gender        string    `json:"gender"`
	HeightCM      float64   `json:"height"`
	CurrentWeight float64   `json:"current_weight"`
	FitnessGoal   string    `json:"fitness_goal"`
	CreatedAt     time.Time `json:"created_at"`
}

// SessionUser is the identity bound to a session.
type SessionUser struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
}
