package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/alec12026-hash/rockyfit-sub000/internal/domain"
	"github.com/alec12026-hash/rockyfit-sub000/internal/repository"
)

const healthCollectionName = "health_samples"

type mongoHealthRepository struct {
	collection *mongo.Collection
}

// NewMongoHealthRepository creates a new HealthSample repository.
func NewMongoHealthRepository(db *mongo.Database) repository.HealthRepository {
	return &mongoHealthRepository{
		collection: db.Collection(healthCollectionName),
	}
}

// UpsertByDate writes the sample with a single upserting FindOneAndUpdate keyed on
// (userId, date). The unique index makes concurrent first writes for the same day collapse
// into one document. Measurements not present in the new sample are cleared, so the stored
// document always matches the latest check-in.
func (r *mongoHealthRepository) UpsertByDate(ctx context.Context, sample *domain.HealthSample) (*domain.HealthSample, error) {
	if sample.UserID == primitive.NilObjectID || sample.Date == "" {
		return nil, errors.New("health sample requires userId and date")
	}

	now := time.Now().UTC()
	filter := bson.M{"userId": sample.UserID, "date": sample.Date}
	update := bson.M{
		"$set": bson.M{
			"weight":          sample.Weight,
			"sleepHours":      sample.SleepHours,
			"sleepQuality":    sample.SleepQuality,
			"restingHr":       sample.RestingHR,
			"hrv":             sample.HRV,
			"steps":           sample.Steps,
			"energy":          sample.Energy,
			"soreness":        sample.Soreness,
			"stress":          sample.Stress,
			"mood":            sample.Mood,
			"waterOz":         sample.WaterOz,
			"nutritionRating": sample.NutritionRating,
			"activeCalories":  sample.ActiveCalories,
			"notes":           sample.Notes,
			"readinessScore":  sample.ReadinessScore,
			"readinessZone":   sample.ReadinessZone,
			"updatedAt":       now,
		},
		"$setOnInsert": bson.M{
			"createdAt": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored domain.HealthSample
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Lost the insert race for this day; the document exists now, so retry as an update.
			if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored); err != nil {
				return nil, err
			}
			return &stored, nil
		}
		return nil, err
	}
	return &stored, nil
}

// GetLatest returns the sample with the most recent date.
func (r *mongoHealthRepository) GetLatest(ctx context.Context, userID primitive.ObjectID) (*domain.HealthSample, error) {
	var sample domain.HealthSample
	opts := options.FindOne().SetSort(bson.D{{Key: "date", Value: -1}})
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}, opts).Decode(&sample)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &sample, nil
}

// ListRecent returns up to limit samples, newest date first.
func (r *mongoHealthRepository) ListRecent(ctx context.Context, userID primitive.ObjectID, limit int) ([]domain.HealthSample, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	samples := []domain.HealthSample{}
	if err = cursor.All(ctx, &samples); err != nil {
		return nil, err
	}
	return samples, nil
}

// EnsureHealthIndexes creates the unique (userId, date) index the upsert relies on.
func EnsureHealthIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("create indexes for %s: %w", collection.Name(), err)
	}
	return nil
}
