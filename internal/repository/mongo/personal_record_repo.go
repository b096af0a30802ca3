package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/alec12026-hash/rockyfit-sub000/internal/domain"
	"github.com/alec12026-hash/rockyfit-sub000/internal/repository"
)

const personalRecordCollectionName = "personal_records"

type mongoPersonalRecordRepository struct {
	collection *mongo.Collection
}

// NewMongoPersonalRecordRepository creates a new PersonalRecord repository.
func NewMongoPersonalRecordRepository(db *mongo.Database) repository.PersonalRecordRepository {
	return &mongoPersonalRecordRepository{
		collection: db.Collection(personalRecordCollectionName),
	}
}

// Create appends a record. Records are never updated or deleted.
func (r *mongoPersonalRecordRepository) Create(ctx context.Context, record *domain.PersonalRecord) (primitive.ObjectID, error) {
	if record.UserID == primitive.NilObjectID || record.ExerciseName == "" {
		return primitive.NilObjectID, errors.New("personal record requires userId and exerciseName")
	}
	record.ID = primitive.NewObjectID()

	result, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted personal record ID")
	}
	return insertedID, nil
}

// GetMax returns the highest-valued record for the exercise. Concurrent writers may leave
// non-max duplicates behind, which this read ignores.
func (r *mongoPersonalRecordRepository) GetMax(ctx context.Context, userID primitive.ObjectID, exerciseName string, recordType domain.RecordType) (*domain.PersonalRecord, error) {
	filter := bson.M{
		"userId":       userID,
		"exerciseName": exerciseName,
		"recordType":   recordType,
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "value", Value: -1}})

	var record domain.PersonalRecord
	if err := r.collection.FindOne(ctx, filter, opts).Decode(&record); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// ListRecent returns up to limit records, most recently achieved first.
func (r *mongoPersonalRecordRepository) ListRecent(ctx context.Context, userID primitive.ObjectID, limit int) ([]domain.PersonalRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "achievedAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []domain.PersonalRecord{}
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// EnsurePersonalRecordIndexes creates the lookup indexes for max and recency reads.
func EnsurePersonalRecordIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "exerciseName", Value: 1},
				{Key: "recordType", Value: 1},
				{Key: "value", Value: -1},
			},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "achievedAt", Value: -1}},
			Options: options.Index(),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("create indexes for %s: %w", collection.Name(), err)
	}
	return nil
}
