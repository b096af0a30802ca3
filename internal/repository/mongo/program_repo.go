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

const programCollectionName = "programs"

// mongoProgramRepository implements repository.ProgramRepository
type mongoProgramRepository struct {
	client       *mongo.Client
	collection   *mongo.Collection
	transactions bool
}

// NewMongoProgramRepository creates a new Program repository. With transactions enabled
// (requires a replica set) the activation swap runs in a multi-document transaction;
// otherwise it runs as two writes and the partial unique index on active programs rejects
// a second active program.
func NewMongoProgramRepository(db *mongo.Database, transactions bool) repository.ProgramRepository {
	return &mongoProgramRepository{
		client:       db.Client(),
		collection:   db.Collection(programCollectionName),
		transactions: transactions,
	}
}

// CreateActive deactivates the user's programs and inserts the new one as active.
func (r *mongoProgramRepository) CreateActive(ctx context.Context, program *domain.Program) (primitive.ObjectID, error) {
	if program.UserID == primitive.NilObjectID || program.Name == "" {
		return primitive.NilObjectID, errors.New("program requires userId and name")
	}
	program.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	program.CreatedAt = now
	program.UpdatedAt = now
	program.IsActive = true

	if !r.transactions {
		if err := r.swapActive(ctx, program); err != nil {
			return primitive.NilObjectID, err
		}
		return program.ID, nil
	}

	session, err := r.client.StartSession()
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, r.swapActive(sc, program)
	})
	if err != nil {
		return primitive.NilObjectID, err
	}
	return program.ID, nil
}

func (r *mongoProgramRepository) swapActive(ctx context.Context, program *domain.Program) error {
	filter := bson.M{"userId": program.UserID, "isActive": true}
	update := bson.M{"$set": bson.M{"isActive": false, "updatedAt": program.CreatedAt}}
	if _, err := r.collection.UpdateMany(ctx, filter, update); err != nil {
		return fmt.Errorf("deactivate programs: %w", err)
	}

	if _, err := r.collection.InsertOne(ctx, program); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert active program: %w", repository.ErrDuplicate)
		}
		return fmt.Errorf("insert active program: %w", err)
	}
	return nil
}

// GetActive returns the user's active program or ErrNotFound.
func (r *mongoProgramRepository) GetActive(ctx context.Context, userID primitive.ObjectID) (*domain.Program, error) {
	var program domain.Program
	err := r.collection.FindOne(ctx, bson.M{"userId": userID, "isActive": true}).Decode(&program)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &program, nil
}

// Update persists in-place mutations. Identity, owner and activation are not touched here;
// activation only changes through CreateActive.
func (r *mongoProgramRepository) Update(ctx context.Context, program *domain.Program) error {
	if program.ID == primitive.NilObjectID {
		return errors.New("program ID is required for update")
	}

	filter := bson.M{"_id": program.ID, "userId": program.UserID}
	updateDoc := bson.M{
		"$set": bson.M{
			"days":          program.Days,
			"recoveryNotes": program.RecoveryNotes,
			"lastDeloadAt":  program.LastDeloadAt,
			"updatedAt":     time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListActive returns every active program across users.
func (r *mongoProgramRepository) ListActive(ctx context.Context) ([]domain.Program, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"isActive": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	programs := []domain.Program{}
	if err = cursor.All(ctx, &programs); err != nil {
		return nil, err
	}
	return programs, nil
}

// EnsureProgramIndexes creates necessary indexes. The partial unique index allows any
// number of inactive programs but at most one active program per user.
func EnsureProgramIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().
				SetName("one_active_program_per_user").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"isActive": true}),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("create indexes for %s: %w", collection.Name(), err)
	}
	return nil
}
