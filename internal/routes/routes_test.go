package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/AnshRaj112/fittrack-backend/internal/handlers"
	"github.com/AnshRaj112/fittrack-backend/internal/models"
)

type noSessions struct{}

func (noSessions) Authenticate(context.Context, string) (models.SessionUser, bool, error) {
	return models.SessionUser{}, false, nil
}

func (noSessions) Refresh(context.Context, string, uuid.UUID) error { return nil }

func newRouter() chi.Router {
	r := chi.NewRouter()
	h := handlers.New(handlers.Deps{
		Flashes: handlers.NewFlashStore("routes-test-secret-routes-test-s", false),
		Cookie:  handlers.CookieConfig{Name: "fittrack_session"},
	})
	SetupRoutes(r, h, Options{Sessions: noSessions{}, SessionCookie: "fittrack_session"})
	return r
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	r := newRouter()

	apiRoutes := []struct{ method, path string }{
		{http.MethodGet, "/api/progress/data"},
		{http.MethodGet, "/api/nutrition/summary"},
		{http.MethodPost, "/api/workout/select-template"},
		{http.MethodPost, "/api/nutrition/log"},
		{http.MethodPost, "/api/progress/log"},
		{http.MethodPost, "/api/predict-weight"},
		{http.MethodGet, "/api/predictions/history"},
		{http.MethodPost, "/api/progress/" + uuid.NewString() + "/photo"},
	}
	for _, rt := range apiRoutes {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(rt.method, rt.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, rt.path)
	}

	for _, page := range []string{"/dashboard", "/workout-planner", "/nutrition-tracker", "/progress-tracker", "/prediction-tool"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, page, nil))
		assert.Equal(t, http.StatusSeeOther, rec.Code, page)
		assert.Equal(t, "/login", rec.Header().Get("Location"), page)
	}
}

func TestPublicRoutes(t *testing.T) {
	r := newRouter()
	for _, path := range []string{"/health", "/ready", "/metrics", "/login", "/register"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
