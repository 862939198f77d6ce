// Package handlers serves the FitTrack pages and JSON API.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/AnshRaj112/fittrack-backend/internal/middleware"
	"github.com/AnshRaj112/fittrack-backend/internal/models"
	"github.com/AnshRaj112/fittrack-backend/internal/services"
	"github.com/AnshRaj112/fittrack-backend/pkg/apierrors"
	"github.com/AnshRaj112/fittrack-backend/pkg/response"
)

const maxJSONBody = 1 << 20

type Authenticator interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, string, error)
	Login(ctx context.Context, in services.LoginInput) (*models.User, string, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (models.SessionUser, bool, error)
}

type DashboardLoader interface {
	Load(ctx context.Context, userID uuid.UUID) (*services.Dashboard, error)
	Profile(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

type WorkoutPlanner interface {
	Templates(ctx context.Context) ([]models.WorkoutTemplate, error)
	ActiveAssignments(ctx context.Context, userID uuid.UUID) ([]models.WorkoutAssignment, error)
	SelectTemplate(ctx context.Context, userID uuid.UUID, in services.SelectTemplateInput) (*models.WorkoutAssignment, error)
}

type NutritionTracker interface {
	Foods(ctx context.Context) ([]models.FoodItem, error)
	LogFood(ctx context.Context, userID uuid.UUID, in services.LogFoodInput) (*models.NutritionLog, error)
	TodayEntries(ctx context.Context, userID uuid.UUID) ([]models.NutritionEntry, error)
	SummaryForToday(ctx context.Context, userID uuid.UUID) (models.NutritionSummary, error)
}

type ProgressTracker interface {
	LogProgress(ctx context.Context, userID uuid.UUID, in services.LogProgressInput) (*models.ProgressLog, error)
	History(ctx context.Context, userID uuid.UUID) ([]models.ProgressLog, error)
	Series(ctx context.Context, userID uuid.UUID) (models.ProgressSeries, error)
	AttachPhoto(ctx context.Context, userID, progressID uuid.UUID, file multipart.File) (string, error)
}

type WeightPredictor interface {
	Available() bool
	Predict(ctx context.Context, userID uuid.UUID, raw map[string]any) (*models.PredictionResult, error)
	History(ctx context.Context, userID uuid.UUID, limit int) ([]models.PredictionRecord, error)
}

// CookieConfig describes the session cookie written on login and register.
type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

type Handler struct {
	auth       Authenticator
	dashboard  DashboardLoader
	workouts   WorkoutPlanner
	nutrition  NutritionTracker
	progress   ProgressTracker
	prediction WeightPredictor

	flashes sessions.Store
	cookie  CookieConfig
}

type Deps struct {
	Auth       Authenticator
	Dashboard  DashboardLoader
	Workouts   WorkoutPlanner
	Nutrition  NutritionTracker
	Progress   ProgressTracker
	Prediction WeightPredictor
	Flashes    sessions.Store
	Cookie     CookieConfig
}

func New(d Deps) *Handler {
	return &Handler{
		auth:       d.Auth,
		dashboard:  d.Dashboard,
		workouts:   d.Workouts,
		nutrition:  d.Nutrition,
		progress:   d.Progress,
		prediction: d.Prediction,
		flashes:    d.Flashes,
		cookie:     d.Cookie,
	}
}

// NewFlashStore returns the signed cookie store used for one-shot form messages.
func NewFlashStore(secret string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// sessionUser is only valid behind middleware.RequireAuth.
func sessionUser(r *http.Request) models.SessionUser {
	user, _ := middleware.UserFromContext(r.Context())
	return user
}

func isJSONRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apierrors.ErrBadRequest.WithMessage("Invalid request body")
	}
	return nil
}

// writeError maps err onto the JSON error envelope and logs server faults.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := apierrors.AsAPIError(err)
	if apiErr.StatusCode >= http.StatusInternalServerError {
		slog.Error("request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
	response.Error(w, err)
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookie.TTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) sessionToken(r *http.Request) string {
	if c, err := r.Cookie(h.cookie.Name); err == nil {
		return c.Value
	}
	return ""
}

const flashSession = "fittrack_flash"

func (h *Handler) addFlash(w http.ResponseWriter, r *http.Request, msg string) {
	sess, _ := h.flashes.Get(r, flashSession)
	sess.AddFlash(msg)
	if err := sess.Save(r, w); err != nil {
		slog.Warn("failed to save flash", slog.String("error", err.Error()))
	}
}

// popFlashes returns and clears pending flash messages.
func (h *Handler) popFlashes(w http.ResponseWriter, r *http.Request) []string {
	sess, err := h.flashes.Get(r, flashSession)
	if err != nil {
		return nil
	}
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := sess.Save(r, w); err != nil {
		slog.Warn("failed to clear flash", slog.String("error", err.Error()))
	}
	msgs := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			msgs = append(msgs, s)
		}
	}
	return msgs
}
