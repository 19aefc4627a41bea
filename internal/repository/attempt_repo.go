package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"quizbot/internal/model"
)

// AttemptRepo is the audit log of answer attempts and give-ups. Writes are
// best-effort from the engine's point of view: a failed insert is logged and
// never affects the quiz transition.
type AttemptRepo interface {
	Create(ctx context.Context, attempt *model.AttemptRecord) error
	CountByUser(ctx context.Context, channel model.Channel, userID string) (int64, error)
	Stats(ctx context.Context) (*model.AttemptStats, error)
}

type attemptRepo struct {
	collection *mongo.Collection
}

// NewAttemptRepo creates a Mongo-backed attempt log.
func NewAttemptRepo(client *mongo.Client) AttemptRepo {
	db := client.Database("quizbot")
	return &attemptRepo{
		collection: db.Collection("attempts"),
	}
}

func (r *attemptRepo) Create(ctx context.Context, attempt *model.AttemptRecord) error {
	if attempt.ID == "" {
		attempt.ID = uuid.New().String()
	}
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, attempt)
	return err
}

func (r *attemptRepo) CountByUser(ctx context.Context, channel model.Channel, userID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"channel": channel, "userId": userID})
}

func (r *attemptRepo) Stats(ctx context.Context) (*model.AttemptStats, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	correct, err := r.collection.CountDocuments(ctx, bson.M{"outcome": model.OutcomeCorrect})
	if err != nil {
		return nil, err
	}
	gaveUp, err := r.collection.CountDocuments(ctx, bson.M{"outcome": model.OutcomeGaveUp})
	if err != nil {
		return nil, err
	}

	return &model.AttemptStats{
		Total:   total,
		Correct: correct,
		GaveUp:  gaveUp,
	}, nil
}
