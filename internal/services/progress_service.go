package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/google/uuid"

	"github.com/AnshRaj112/fittrack-backend/internal/models"
	"github.com/AnshRaj112/fittrack-backend/internal/repository"
	"github.com/AnshRaj112/fittrack-backend/pkg/apierrors"
)

type LogProgressInput struct {
	Weight            *float64 `json:"weight" validate:"required,gt=0,lte=500"`
	BodyFatPercentage *float64 `json:"body_fat_percentage" validate:"omitempty,gte=1,lte=70"`
	Notes             string   `json:"notes" validate:"max=1000"`
}

// PhotoUploader stores an image and returns its public URL.
type PhotoUploader interface {
	UploadFile(ctx context.Context, file multipart.File, folder string) (string, error)
}

type ProgressService struct {
	progress repository.ProgressRepository
	photos   PhotoUploader // nil when uploads are not configured
	clock    Clock
}

func NewProgressService(progress repository.ProgressRepository, photos PhotoUploader, clock Clock) *ProgressService {
	return &ProgressService{progress: progress, photos: photos, clock: clock}
}

// LogProgress records today's weigh-in and updates the user's current weight
// in the same transaction.
func (s *ProgressService) LogProgress(ctx context.Context, userID uuid.UUID, in LogProgressInput) (*models.ProgressLog, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	log := &models.ProgressLog{
		UserID:            userID,
		Weight:            *in.Weight,
		BodyFatPercentage: in.BodyFatPercentage,
		Notes:             in.Notes,
		Date:              s.clock.Today(),
	}
	if err := s.progress.CreateAndUpdateWeight(ctx, log); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierrors.ErrUnauthenticated
		}
		return nil, err
	}
	return log, nil
}

func (s *ProgressService) Recent(ctx context.Context, userID uuid.UUID, n int) ([]models.ProgressLog, error) {
	return s.progress.ListRecent(ctx, userID, n)
}

// History returns every log, newest first.
func (s *ProgressService) History(ctx context.Context, userID uuid.UUID) ([]models.ProgressLog, error) {
	return s.progress.ListDescending(ctx, userID)
}

// Series builds chart arrays in ascending date order.
func (s *ProgressService) Series(ctx context.Context, userID uuid.UUID) (models.ProgressSeries, error) {
	logs, err := s.progress.ListAscending(ctx, userID)
	if err != nil {
		return models.ProgressSeries{}, err
	}
	return BuildSeries(logs), nil
}

// BuildSeries expects logs in ascending date order. BodyFat skips entries
// without a reading, so it is not index-aligned with Dates.
func BuildSeries(logs []models.ProgressLog) models.ProgressSeries {
	series := models.ProgressSeries{
		Dates:   make([]string, 0, len(logs)),
		Weights: make([]float64, 0, len(logs)),
		BodyFat: []float64{},
	}
	for _, l := range logs {
		series.Dates = append(series.Dates, l.Date.Format(repository.DateLayout))
		series.Weights = append(series.Weights, l.Weight)
		if l.BodyFatPercentage != nil {
			series.BodyFat = append(series.BodyFat, *l.BodyFatPercentage)
		}
	}
	return series
}

// AttachPhoto uploads a progress photo for one of the user's own logs.
func (s *ProgressService) AttachPhoto(ctx context.Context, userID, progressID uuid.UUID, file multipart.File) (string, error) {
	if s.photos == nil {
		return "", apierrors.ErrServiceUnavailable.WithMessage("Photo uploads are not available")
	}
	if _, err := s.progress.GetByID(ctx, userID, progressID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", apierrors.NewNotFoundError("Progress entry")
		}
		return "", err
	}

	url, err := s.photos.UploadFile(ctx, file, fmt.Sprintf("fittrack/progress/%s", userID))
	if err != nil {
		return "", err
	}
	if err := s.progress.SetPhotoURL(ctx, userID, progressID, url); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", apierrors.NewNotFoundError("Progress entry")
		}
		return "", err
	}
	return url, nil
}
