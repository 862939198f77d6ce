package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/fittrack-backend/internal/models"
)

const predictionHistoryCollection = "prediction_history"

// PredictionHistory stores past predictions per user.
type PredictionHistory interface {
	Record(ctx context.Context, rec *models.PredictionRecord) error
	Recent(ctx context.Context, userID string, limit int) ([]models.PredictionRecord, error)
}

// NoopHistory is used when MongoDB is not configured.
type NoopHistory struct{}

func (NoopHistory) Record(context.Context, *models.PredictionRecord) error { return nil }

func (NoopHistory) Recent(context.Context, string, int) ([]models.PredictionRecord, error) {
	return []models.PredictionRecord{}, nil
}

type MongoHistory struct {
	col *mongo.Collection
}

func NewMongoHistory(db *mongo.Database) *MongoHistory {
	return &MongoHistory{col: db.Collection(predictionHistoryCollection)}
}

// EnsureIndexes creates the (user_id, created_at) index used by Recent.
func (h *MongoHistory) EnsureIndexes(ctx context.Context) error {
	_, err := h.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "created_at", Value: -1},
		},
		Options: options.Index().SetName("idx_user_created"),
	})
	return err
}

func (h *MongoHistory) Record(ctx context.Context, rec *models.PredictionRecord) error {
	_, err := h.col.InsertOne(ctx, rec)
	return err
}

func (h *MongoHistory) Recent(ctx context.Context, userID string, limit int) ([]models.PredictionRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := h.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.PredictionRecord{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
