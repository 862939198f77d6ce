package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/google/uuid"

	"github.com/AnshRaj112/fittrack-backend/internal/models"
	"github.com/AnshRaj112/fittrack-backend/internal/repository"
	"github.com/AnshRaj112/fittrack-backend/pkg/apierrors"
	"github.com/AnshRaj112/fittrack-backend/pkg/utils"
)

type RegisterInput struct {
	Username      string  `json:"username" validate:"required"`
	Email         string  `json:"email" validate:"required,email,max=120"`
	Password      string  `json:"password" validate:"required"`
	Name          string  `json:"name" validate:"required,max=100"`
	Age           int     `json:"age" validate:"required,min=1,max=120"`
	Gender        string  `json:"gender" validate:"required,max=10"`
	Height        float64 `json:"height" validate:"required,gt=0,lte=300"`
	CurrentWeight float64 `json:"current_weight" validate:"required,gt=0,lte=500"`
	FitnessGoal   string  `json:"fitness_goal" validate:"required,max=50"`

	// FieldErrors carries values the transport could not parse. They are
	// reported after the duplicate checks, together with tag validation.
	FieldErrors map[string]string `json:"-" validate:"-"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

var (
	ErrUsernameTaken      = apierrors.NewConflictError("Username already exists")
	ErrEmailTaken         = apierrors.NewConflictError("Email already exists")
	ErrInvalidCredentials = apierrors.ErrAuth.WithMessage("Invalid username or password")
)

type AuthService struct {
	users    repository.UserRepository
	sessions *SessionStore
}

func NewAuthService(users repository.UserRepository, sessions *SessionStore) *AuthService {
	return &AuthService{users: users, sessions: sessions}
}

// Register creates the account and opens a session for it. A taken username
// or email is reported before any other problem with the input.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	username := utils.NormalizeUsername(in.Username)
	email := utils.NormalizeEmail(in.Email)

	if username != "" {
		taken, err := s.users.ExistsUsername(ctx, username)
		if err != nil {
			return nil, "", err
		}
		if taken {
			return nil, "", ErrUsernameTaken
		}
	}
	if email != "" {
		taken, err := s.users.ExistsEmail(ctx, email)
		if err != nil {
			return nil, "", err
		}
		if taken {
			return nil, "", ErrEmailTaken
		}
	}

	if len(in.FieldErrors) > 0 {
		return nil, "", apierrors.NewValidationErrors(slices.Sorted(maps.Keys(in.FieldErrors)), in.FieldErrors)
	}
	if err := validateStruct(in); err != nil {
		return nil, "", err
	}
	if err := utils.ValidateUsername(in.Username); err != nil {
		return nil, "", apierrors.NewValidationError("username", err.Error())
	}
	if err := utils.ValidatePassword(in.Password); err != nil {
		return nil, "", apierrors.NewValidationError("password", err.Error())
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:      username,
		Email:         email,
		PasswordHash:  hash,
		Name:          in.Name,
		Age:           in.Age,
		Gender:        in.Gender,
		HeightCM:      in.Height,
		CurrentWeight: in.CurrentWeight,
		FitnessGoal:   in.FitnessGoal,
	}
	switch err := s.users.Create(ctx, user); {
	case errors.Is(err, repository.ErrDuplicateUsername):
		return nil, "", ErrUsernameTaken
	case errors.Is(err, repository.ErrDuplicateEmail):
		return nil, "", ErrEmailTaken
	case err != nil:
		return nil, "", err
	}

	token, err := s.sessions.Create(ctx, models.SessionUser{UserID: user.ID, Username: user.Username})
	if err != nil {
		return nil, "", err
	}
	slog.Info("user registered", slog.String("user_id", user.ID.String()))
	return user, token, nil
}

// Login verifies credentials and opens a session. Unknown usernames and
// wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.User, string, error) {
	if in.Username == "" || in.Password == "" {
		return nil, "", ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, utils.NormalizeUsername(in.Username))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}

	ok, err := utils.VerifyPassword(in.Password, user.PasswordHash)
	if err != nil {
		slog.Warn("stored password hash unreadable", slog.String("user_id", user.ID.String()))
		return nil, "", ErrInvalidCredentials
	}
	if !ok {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.sessions.Create(ctx, models.SessionUser{UserID: user.ID, Username: user.Username})
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Logout drops the session. It never fails for unknown tokens.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Invalidate(ctx, token)
}

// Authenticate resolves a session token to its identity.
func (s *AuthService) Authenticate(ctx context.Context, token string) (models.SessionUser, bool, error) {
	return s.sessions.Get(ctx, token)
}

// Refresh slides the session expiry forward.
func (s *AuthService) Refresh(ctx context.Context, token string, userID uuid.UUID) error {
	return s.sessions.Refresh(ctx, token, userID)
}
