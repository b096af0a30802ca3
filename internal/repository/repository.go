package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alec12026-hash/rockyfit-sub000/internal/domain"
)

var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDuplicate    = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, profile *domain.Profile) error
}

// HealthRepository stores daily check-ins, one per user per date.
type HealthRepository interface {
	// UpsertByDate inserts the sample or overwrites the existing one for (userId, date)
	// in a single atomic write, and returns the stored document.
	UpsertByDate(ctx context.Context, sample *domain.HealthSample) (*domain.HealthSample, error)
	GetLatest(ctx context.Context, userID primitive.ObjectID) (*domain.HealthSample, error)
	// ListRecent returns up to limit samples, newest date first.
	ListRecent(ctx context.Context, userID primitive.ObjectID, limit int) ([]domain.HealthSample, error)
}

// WorkoutRepository stores completed sessions with their sets embedded.
type WorkoutRepository interface {
	Create(ctx context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error)
	GetByID(ctx context.Context, userID, id primitive.ObjectID) (*domain.WorkoutSession, error)
	GetLatest(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutSession, error)
	// ListSince returns sessions completed at or after since, newest first.
	ListSince(ctx context.Context, userID primitive.ObjectID, since time.Time) ([]domain.WorkoutSession, error)
	// UpdateSets replaces the sets and volume of an existing session.
	UpdateSets(ctx context.Context, session *domain.WorkoutSession) error
}

// PersonalRecordRepository is an append-only record history. Readers take the max.
type PersonalRecordRepository interface {
	Create(ctx context.Context, record *domain.PersonalRecord) (primitive.ObjectID, error)
	// GetMax returns the highest record for (user, exercise, type) or ErrNotFound.
	GetMax(ctx context.Context, userID primitive.ObjectID, exerciseName string, recordType domain.RecordType) (*domain.PersonalRecord, error)
	// ListRecent returns up to limit records, most recently achieved first.
	ListRecent(ctx context.Context, userID primitive.ObjectID, limit int) ([]domain.PersonalRecord, error)
}

// ProgramRepository stores programs. At most one program per user is active.
type ProgramRepository interface {
	// CreateActive inserts the program as the user's only active program, deactivating
	// every other program of that user in the same unit of work.
	CreateActive(ctx context.Context, program *domain.Program) (primitive.ObjectID, error)
	GetActive(ctx context.Context, userID primitive.ObjectID) (*domain.Program, error)
	// Update persists in-place mutations (days, notes, deload stamp) of an existing program.
	Update(ctx context.Context, program *domain.Program) error
	ListActive(ctx context.Context) ([]domain.Program, error)
}
