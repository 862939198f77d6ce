package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/AnshRaj112/fittrack-backend/internal/middleware"
	"github.com/AnshRaj112/fittrack-backend/internal/services"
	"github.com/AnshRaj112/fittrack-backend/pkg/apierrors"
	"github.com/AnshRaj112/fittrack-backend/pkg/response"
)

const dashboardPath = "/dashboard"

// Index sends signed-in users to the dashboard and shows the landing page otherwise.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	if _, ok, err := h.auth.Authenticate(r.Context(), h.sessionToken(r)); err == nil && ok {
		http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
		return
	}
	h.render(w, r, "index.html", "FitTrack", nil)
}

func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "register.html", "Create account", nil)
}

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login.html", "Sign in", nil)
}

// Register accepts a JSON body or a form post.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	in, err := h.registerInput(w, r)
	if err != nil {
		h.authFailed(w, r, "/register", err)
		return
	}

	_, token, err := h.auth.Register(r.Context(), in)
	middleware.RecordAuthEvent("register", err == nil)
	if err != nil {
		h.authFailed(w, r, "/register", err)
		return
	}
	h.setSessionCookie(w, token)
	h.authSucceeded(w, r)
}

// Login accepts a JSON body or a form post.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if isJSONRequest(r) {
		if err := decodeJSON(w, r, &in); err != nil {
			h.authFailed(w, r, "/login", err)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			h.authFailed(w, r, "/login", apierrors.ErrBadRequest)
			return
		}
		in = services.LoginInput{
			Username: r.PostFormValue("username"),
			Password: r.PostFormValue("password"),
		}
	}

	_, token, err := h.auth.Login(r.Context(), in)
	middleware.RecordAuthEvent("login", err == nil)
	if err != nil {
		h.authFailed(w, r, "/login", err)
		return
	}
	h.setSessionCookie(w, token)
	h.authSucceeded(w, r)
}

// Logout always succeeds and lands on the landing page.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), h.sessionToken(r)); err != nil {
		slog.Warn("logout failed", slog.String("error", err.Error()))
	}
	middleware.RecordAuthEvent("logout", true)
	h.clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) authSucceeded(w http.ResponseWriter, r *http.Request) {
	if isJSONRequest(r) {
		response.Success(w, http.StatusOK, map[string]any{"redirect": dashboardPath})
		return
	}
	http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
}

// authFailed answers JSON clients with the error envelope and form posts
// with a flash message and a redirect back to the form.
func (h *Handler) authFailed(w http.ResponseWriter, r *http.Request, formPath string, err error) {
	if isJSONRequest(r) {
		writeError(w, r, err)
		return
	}
	apiErr := apierrors.AsAPIError(err)
	if apiErr.StatusCode >= http.StatusInternalServerError {
		writeError(w, r, err)
		return
	}
	h.addFlash(w, r, apiErr.Message)
	http.Redirect(w, r, formPath, http.StatusSeeOther)
}

// registerInput reads the registration fields. Values that fail to parse are
// handed to the service as field errors so duplicate checks still run first.
func (h *Handler) registerInput(w http.ResponseWriter, r *http.Request) (services.RegisterInput, error) {
	var in services.RegisterInput
	if isJSONRequest(r) {
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
		err := json.NewDecoder(r.Body).Decode(&in)
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &typeErr) && typeErr.Field != "":
			in.FieldErrors = map[string]string{typeErr.Field: typeErr.Field + " has the wrong type"}
		case err != nil:
			return in, apierrors.ErrBadRequest.WithMessage("Invalid request body")
		}
		return in, nil
	}
	if err := r.ParseForm(); err != nil {
		return in, apierrors.ErrBadRequest
	}

	in = services.RegisterInput{
		Username:    strings.TrimSpace(r.PostFormValue("username")),
		Email:       strings.TrimSpace(r.PostFormValue("email")),
		Password:    r.PostFormValue("password"),
		Name:        strings.TrimSpace(r.PostFormValue("name")),
		Gender:      r.PostFormValue("gender"),
		FitnessGoal: r.PostFormValue("fitness_goal"),
	}

	fieldErrs := map[string]string{}
	var err error
	if in.Age, err = strconv.Atoi(strings.TrimSpace(r.PostFormValue("age"))); err != nil {
		fieldErrs["age"] = "Age must be a whole number"
	}
	if in.Height, err = parseFormFloat(r, "height"); err != nil {
		fieldErrs["height"] = "Height must be a number"
	}
	if in.CurrentWeight, err = parseFormFloat(r, "current_weight"); err != nil {
		fieldErrs["current_weight"] = "Current weight must be a number"
	}
	if len(fieldErrs) > 0 {
		in.FieldErrors = fieldErrs
	}
	return in, nil
}

func parseFormFloat(r *http.Request, key string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(r.PostFormValue(key)), 64)
}
