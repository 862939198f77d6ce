package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/AnshRaj112/fittrack-backend/internal/middleware"
	"github.com/AnshRaj112/fittrack-backend/internal/services"
	"github.com/AnshRaj112/fittrack-backend/pkg/apierrors"
	"github.com/AnshRaj112/fittrack-backend/pkg/response"
)

const (
	maxPhotoSize        = 10 << 20
	defaultHistoryLimit = 20
)

// ListTemplates handles GET /api/workout/templates.
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.workouts.Templates(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Success(w, http.StatusOK, map[string]any{"templates": templates})
}

// SelectTemplate handles POST /api/workout/select-template.
func (h *Handler) SelectTemplate(w http.ResponseWriter, r *http.Request) {
	var in services.SelectTemplateInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	a, err := h.workouts.SelectTemplate(r.Context(), sessionUser(r).UserID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.RecordWorkoutSelection()
	response.Success(w, http.StatusOK, map[string]any{"assignment": a})
}

// ListFoods handles GET /api/foods.
func (h *Handler) ListFoods(w http.ResponseWriter, r *http.Request) {
	foods, err := h.nutrition.Foods(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Success(w, http.StatusOK, map[string]any{"foods": foods})
}

// LogFood handles POST /api/nutrition/log.
func (h *Handler) LogFood(w http.ResponseWriter, r *http.Request) {
	var in services.LogFoodInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	log, err := h.nutrition.LogFood(r.Context(), sessionUser(r).UserID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.RecordEntryLogged("food")
	response.Success(w, http.StatusOK, map[string]any{"log": log})
}

// NutritionSummary handles GET /api/nutrition/summary.
func (h *Handler) NutritionSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.nutrition.SummaryForToday(r.Context(), sessionUser(r).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, summary)
}

// LogProgress handles POST /api/progress/log.
func (h *Handler) LogProgress(w http.ResponseWriter, r *http.Request) {
	var in services.LogProgressInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	log, err := h.progress.LogProgress(r.Context(), sessionUser(r).UserID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.RecordEntryLogged("progress")
	response.Success(w, http.StatusOK, map[string]any{"progress": log})
}

// ProgressData handles GET /api/progress/data.
func (h *Handler) ProgressData(w http.ResponseWriter, r *http.Request) {
	series, err := h.progress.Series(r.Context(), sessionUser(r).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, series)
}

// UploadProgressPhoto handles POST /api/progress/{id}/photo with a
// multipart "photo" field.
func (h *Handler) UploadProgressPhoto(w http.ResponseWriter, r *http.Request) {
	progressID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.NotFound(w, "Progress entry")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoSize+1024)
	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		response.BadRequest(w, "Photo must be a multipart upload under 10MB")
		return
	}
	file, _, err := r.FormFile("photo")
	if err != nil {
		response.BadRequest(w, "No photo provided")
		return
	}
	defer file.Close()

	url, err := h.progress.AttachPhoto(r.Context(), sessionUser(r).UserID, progressID, file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Success(w, http.StatusOK, map[string]any{"photo_url": url})
}

// PredictWeight handles POST /api/predict-weight. Field values may be
// numbers or numeric strings.
func (h *Handler) PredictWeight(w http.ResponseWriter, r *http.Request) {
	if !h.prediction.Available() {
		middleware.RecordPrediction("unavailable")
		writeError(w, r, services.ErrModelUnavailable)
		return
	}
	if !isJSONRequest(r) {
		middleware.RecordPrediction("invalid")
		response.BadRequest(w, "Request must be JSON")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil || raw == nil {
		middleware.RecordPrediction("invalid")
		response.BadRequest(w, "Request must be a JSON object")
		return
	}

	result, err := h.prediction.Predict(r.Context(), sessionUser(r).UserID, raw)
	if err != nil {
		middleware.RecordPrediction(predictionOutcome(err))
		writeError(w, r, err)
		return
	}
	middleware.RecordPrediction("ok")
	response.OK(w, result)
}

func predictionOutcome(err error) string {
	switch apierrors.AsAPIError(err).StatusCode {
	case http.StatusBadRequest:
		return "invalid"
	case http.StatusServiceUnavailable:
		return "unavailable"
	}
	return "error"
}

// PredictionHistory handles GET /api/predictions/history?limit=N.
func (h *Handler) PredictionHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			response.BadRequest(w, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	records, err := h.prediction.History(r.Context(), sessionUser(r).UserID, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Success(w, http.StatusOK, map[string]any{"predictions": records})
}
