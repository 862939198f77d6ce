package handlers

import (
	"errors"
	"net/http"

	"github.com/AnshRaj112/fittrack-backend/internal/models"
	"github.com/AnshRaj112/fittrack-backend/pkg/apierrors"
)

// pageFailed sends users whose account vanished back to login and renders a
// 500 for everything else.
func (h *Handler) pageFailed(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, apierrors.ErrUnauthenticated) {
		h.clearSessionCookie(w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	h.renderError(w, r, err)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.dashboard.Load(r.Context(), sessionUser(r).UserID)
	if err != nil {
		h.pageFailed(w, r, err)
		return
	}
	h.render(w, r, "dashboard.html", "Dashboard", d)
}

type plannerPage struct {
	Templates []models.WorkoutTemplate
	Active    []models.WorkoutAssignment
}

func (h *Handler) WorkoutPlanner(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	templates, err := h.workouts.Templates(ctx)
	if err != nil {
		h.pageFailed(w, r, err)
		return
	}
	active, err := h.workouts.ActiveAssignments(ctx, sessionUser(r).UserID)
	if err != nil {
		h.pageFailed(w, r, err)
		return
	}
	h.render(w, r, "workout_planner.html", "Workout planner", plannerPage{Templates: templates, Active: active})
}

type nutritionPage struct {
	Foods   []models.FoodItem
	Entries []models.NutritionEntry
}

func (h *Handler) NutritionTracker(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	foods, err := h.nutrition.Foods(ctx)
	if err != nil {
		h.pageFailed(w, r, err)
		return
	}
	entries, err := h.nutrition.TodayEntries(ctx, sessionUser(r).UserID)
	if err != nil {
		h.pageFailed(w, r, err)
		return
	}
	h.render(w, r, "nutrition_tracker.html", "Nutrition tracker", nutritionPage{Foods: foods, Entries: entries})
}

func (h *Handler) ProgressTracker(w http.ResponseWriter, r *http.Request) {
	logs, err := h.progress.History(r.Context(), sessionUser(r).UserID)
	if err != nil {
		h.pageFailed(w, r, err)
		return
	}
	h.render(w, r, "progress_tracker.html", "Progress tracker", logs)
}

type predictionPage struct {
	User      *models.User
	Available bool
}

// PredictionTool prefills the form with the user's current weight.
func (h *Handler) PredictionTool(w http.ResponseWriter, r *http.Request) {
	user, err := h.dashboard.Profile(r.Context(), sessionUser(r).UserID)
	if err != nil {
		h.pageFailed(w, r, err)
		return
	}
	h.render(w, r, "prediction_tool.html", "Weight prediction", predictionPage{
		User:      user,
		Available: h.prediction.Available(),
	})
}
