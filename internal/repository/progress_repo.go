package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/AnshRaj112/fittrack-backend/internal/models"
)

type ProgressRepository interface {
	// CreateAndUpdateWeight inserts the log and sets users.current_weight in one transaction.
	CreateAndUpdateWeight(ctx context.Context, log *models.ProgressLog) error
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]models.ProgressLog, error)
	ListAscending(ctx context.Context, userID uuid.UUID) ([]models.ProgressLog, error)
	ListDescending(ctx context.Context, userID uuid.UUID) ([]models.ProgressLog, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.ProgressLog, error)
	SetPhotoURL(ctx context.Context, userID, id uuid.UUID, url string) error
}

type progressRepo struct {
	db *sql.DB
}

func NewProgressRepository(db *sql.DB) ProgressRepository {
	return &progressRepo{db: db}
}

const progressColumns = `id, user_id, weight, body_fat_percentage, notes, COALESCE(photo_url, ''), log_date, created_at`

func (r *progressRepo) CreateAndUpdateWeight(ctx context.Context, log *models.ProgressLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO progress_logs (id, user_id, weight, body_fat_percentage, notes, log_date)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING created_at`,
			log.ID, log.UserID, log.Weight, log.BodyFatPercentage, log.Notes, log.Date.Format(DateLayout),
		).Scan(&log.CreatedAt); err != nil {
			return fmt.Errorf("insert progress log: %w", err)
		}

		res, err := tx.ExecContext(ctx, `UPDATE users SET current_weight = $1 WHERE id = $2`, log.Weight, log.UserID)
		if err != nil {
			return fmt.Errorf("update current weight: %w", err)
		}
		return expectOneRow(res)
	})
}

func (r *progressRepo) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]models.ProgressLog, error) {
	return r.list(ctx, `SELECT `+progressColumns+` FROM progress_logs
		WHERE user_id = $1 ORDER BY log_date DESC, created_at DESC LIMIT $2`, userID, limit)
}

func (r *progressRepo) ListAscending(ctx context.Context, userID uuid.UUID) ([]models.ProgressLog, error) {
	return r.list(ctx, `SELECT `+progressColumns+` FROM progress_logs
		WHERE user_id = $1 ORDER BY log_date ASC, created_at ASC`, userID)
}

func (r *progressRepo) ListDescending(ctx context.Context, userID uuid.UUID) ([]models.ProgressLog, error) {
	return r.list(ctx, `SELECT `+progressColumns+` FROM progress_logs
		WHERE user_id = $1 ORDER BY log_date DESC, created_at DESC`, userID)
}

func (r *progressRepo) list(ctx context.Context, query string, args ...any) ([]models.ProgressLog, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list progress logs: %w", err)
	}
	defer rows.Close()

	var out []models.ProgressLog
	for rows.Next() {
		var p models.ProgressLog
		if err := rows.Scan(&p.ID, &p.UserID, &p.Weight, &p.BodyFatPercentage, &p.Notes, &p.PhotoURL, &p.Date, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan progress log: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *progressRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.ProgressLog, error) {
	var p models.ProgressLog
	err := r.db.QueryRowContext(ctx, `SELECT `+progressColumns+` FROM progress_logs WHERE id = $1 AND user_id = $2`, id, userID).
		Scan(&p.ID, &p.UserID, &p.Weight, &p.BodyFatPercentage, &p.Notes, &p.PhotoURL, &p.Date, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get progress log: %w", err)
	}
	return &p, nil
}

func (r *progressRepo) SetPhotoURL(ctx context.Context, userID, id uuid.UUID, url string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE progress_logs SET photo_url = $1 WHERE id = $2 AND user_id = $3`, url, id, userID)
	if err != nil {
		return fmt.Errorf("set photo url: %w", err)
	}
	return expectOneRow(res)
}
