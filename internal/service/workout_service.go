package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alec12026-hash/rockyfit-sub000/internal/domain"
	"github.com/alec12026-hash/rockyfit-sub000/internal/metrics"
	"github.com/alec12026-hash/rockyfit-sub000/internal/repository"
)

var (
	ErrSessionNotFound = errors.New("workout session not found")
	ErrSetNotFound     = errors.New("set not found in this session")
)

const (
	defaultWorkoutDays = 30
	maxWorkoutDays     = 365
	recordListLimit    = 50
)

// FinishedSet is one set as submitted by the client.
type FinishedSet struct {
	ExerciseName string
	Weight       float64
	Reps         int
	RPE          *float64
}

// FinishWorkoutInput is a completed session as submitted by the client.
type FinishWorkoutInput struct {
	ProgramDayName string
	Week           int
	Day            int
	CompletedAt    *time.Time
	Rating         *int
	Notes          string
	Sets           []FinishedSet
}

// SetCorrection carries the editable fields of a logged set; nil leaves a field unchanged.
type SetCorrection struct {
	Weight *float64
	Reps   *int
	RPE    *float64
}

// FinishWorkoutResult is the stored session plus any personal records it set.
type FinishWorkoutResult struct {
	Session *domain.WorkoutSession  `json:"session"`
	Records []domain.PersonalRecord `json:"records"`
}

type WorkoutService interface {
	Finish(ctx context.Context, userID primitive.ObjectID, input FinishWorkoutInput) (*FinishWorkoutResult, error)
	ListRecent(ctx context.Context, userID primitive.ObjectID, days int) ([]domain.WorkoutSession, error)
	CorrectSet(ctx context.Context, userID, sessionID, setID primitive.ObjectID, correction SetCorrection) (*domain.WorkoutSession, error)
	ListRecords(ctx context.Context, userID primitive.ObjectID) ([]domain.PersonalRecord, error)
}

type workoutService struct {
	workoutRepo repository.WorkoutRepository
	recordRepo  repository.PersonalRecordRepository
	healthRepo  repository.HealthRepository
	programRepo repository.ProgramRepository
	coaching    CoachingInvalidator
	metrics     *metrics.Manager
	now         func() time.Time
}

func NewWorkoutService(
	workoutRepo repository.WorkoutRepository,
	recordRepo repository.PersonalRecordRepository,
	healthRepo repository.HealthRepository,
	programRepo repository.ProgramRepository,
	invalidator CoachingInvalidator,
	metricsManager *metrics.Manager,
) WorkoutService {
	return &workoutService{
		workoutRepo: workoutRepo,
		recordRepo:  recordRepo,
		healthRepo:  healthRepo,
		programRepo: programRepo,
		coaching:    invalidatorOrNoop(invalidator),
		metrics:     metricsManager,
		now:         time.Now,
	}
}

// Finish stores the session with all of its sets in one write, then appends a personal record
// for every exercise whose best estimated 1RM strictly beats the stored max.
func (s *workoutService) Finish(ctx context.Context, userID primitive.ObjectID, input FinishWorkoutInput) (*FinishWorkoutResult, error) {
	if err := validateFinishedSets(input.Sets); err != nil {
		return nil, err
	}
	if input.Rating != nil && (*input.Rating < 1 || *input.Rating > 5) {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}

	now := s.now()
	completedAt := now
	if input.CompletedAt != nil {
		completedAt = *input.CompletedAt
	}

	session := &domain.WorkoutSession{
		UserID:         userID,
		ProgramDayName: input.ProgramDayName,
		Week:           input.Week,
		Day:            input.Day,
		CompletedAt:    completedAt,
		Rating:         input.Rating,
		Notes:          strings.TrimSpace(input.Notes),
		Sets:           make([]domain.SetEntry, 0, len(input.Sets)),
	}
	perExercise := make(map[string]int)
	for _, in := range input.Sets {
		name := strings.TrimSpace(in.ExerciseName)
		session.Sets = append(session.Sets, domain.SetEntry{
			ExerciseName: name,
			SetIndex:     perExercise[name],
			Weight:       in.Weight,
			Reps:         in.Reps,
			RPE:          in.RPE,
		})
		perExercise[name]++
	}
	session.Volume = domain.ComputeVolume(session.Sets)

	if active, err := s.programRepo.GetActive(ctx, userID); err == nil {
		session.ProgramID = &active.ID
	} else if !errors.Is(err, repository.ErrNotFound) {
		log.WithField("user", userID.Hex()).Warnf("workout not linked to a program: %s", err)
	}

	if sample, err := s.healthRepo.GetLatest(ctx, userID); err == nil && sample.Date == completedAt.UTC().Format(domain.DateLayout) {
		session.Readiness = &domain.ReadinessSnapshot{Score: sample.ReadinessScore, Zone: sample.ReadinessZone}
	}

	candidates, err := s.detectRecords(ctx, userID, session.Sets)
	if err != nil {
		return nil, err
	}
	for _, c := range candidates {
		session.Sets[c.setPos].IsPR = true
	}

	sessionID, err := s.workoutRepo.Create(ctx, session)
	if err != nil {
		log.WithField("user", userID.Hex()).Errorf("failed to save workout session: %s", err)
		return nil, err
	}
	session.ID = sessionID

	records := make([]domain.PersonalRecord, 0, len(candidates))
	for _, c := range candidates {
		pr := domain.PersonalRecord{
			UserID:       userID,
			ExerciseName: session.Sets[c.setPos].ExerciseName,
			RecordType:   domain.RecordEstimatedOneRepMax,
			Value:        c.value,
			SessionID:    sessionID,
			AchievedAt:   completedAt,
		}
		id, err := s.recordRepo.Create(ctx, &pr)
		if err != nil {
			// The session is already stored; a missed record only costs a history entry.
			log.WithField("user", userID.Hex()).Errorf("failed to store personal record for %q: %s", pr.ExerciseName, err)
			continue
		}
		pr.ID = id
		records = append(records, pr)
		s.metrics.CounterPersonalRecords.Inc()
	}

	s.coaching.Invalidate(userID)
	return &FinishWorkoutResult{Session: session, Records: records}, nil
}

type recordCandidate struct {
	setPos int
	value  float64
}

// detectRecords picks the best set per exercise and keeps it when it beats the stored max.
// Exercises are visited in first-appearance order.
func (s *workoutService) detectRecords(ctx context.Context, userID primitive.ObjectID, sets []domain.SetEntry) ([]recordCandidate, error) {
	best := make(map[string]recordCandidate)
	var order []string
	for i, set := range sets {
		e1rm := domain.EstimateOneRepMax(set.Weight, set.Reps)
		if e1rm <= 0 {
			continue
		}
		cur, seen := best[set.ExerciseName]
		if !seen {
			order = append(order, set.ExerciseName)
		}
		if !seen || e1rm > cur.value {
			best[set.ExerciseName] = recordCandidate{setPos: i, value: e1rm}
		}
	}

	var out []recordCandidate
	for _, name := range order {
		c := best[name]
		current, err := s.recordRepo.GetMax(ctx, userID, name, domain.RecordEstimatedOneRepMax)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("personal record lookup for %q: %w", name, err)
		}
		if current != nil && c.value <= current.Value {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func validateFinishedSets(sets []FinishedSet) error {
	if len(sets) == 0 {
		return fmt.Errorf("%w: a workout needs at least one set", ErrValidation)
	}
	for i, set := range sets {
		if strings.TrimSpace(set.ExerciseName) == "" {
			return fmt.Errorf("%w: set %d has no exercise name", ErrValidation, i)
		}
		if err := validateSetValues(set.Weight, set.Reps, set.RPE); err != nil {
			return err
		}
	}
	return nil
}

func validateSetValues(weight float64, reps int, rpe *float64) error {
	if weight < 0 {
		return fmt.Errorf("%w: weight cannot be negative", ErrValidation)
	}
	if reps < 1 {
		return fmt.Errorf("%w: reps must be at least 1", ErrValidation)
	}
	if rpe != nil && (*rpe < 1 || *rpe > 10) {
		return fmt.Errorf("%w: rpe must be between 1 and 10", ErrValidation)
	}
	return nil
}

func (s *workoutService) ListRecent(ctx context.Context, userID primitive.ObjectID, days int) ([]domain.WorkoutSession, error) {
	if days <= 0 || days > maxWorkoutDays {
		days = defaultWorkoutDays
	}
	sessions, err := s.workoutRepo.ListSince(ctx, userID, s.now().AddDate(0, 0, -days))
	if err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = []domain.WorkoutSession{}
	}
	return sessions, nil
}

// CorrectSet edits weight, reps or RPE of one set and recomputes the session volume. Personal
// records already written are left as they are.
func (s *workoutService) CorrectSet(ctx context.Context, userID, sessionID, setID primitive.ObjectID, correction SetCorrection) (*domain.WorkoutSession, error) {
	session, err := s.workoutRepo.GetByID(ctx, userID, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	idx := -1
	for i := range session.Sets {
		if session.Sets[i].ID == setID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrSetNotFound
	}

	set := session.Sets[idx]
	if correction.Weight != nil {
		set.Weight = *correction.Weight
	}
	if correction.Reps != nil {
		set.Reps = *correction.Reps
	}
	if correction.RPE != nil {
		set.RPE = correction.RPE
	}
	if err := validateSetValues(set.Weight, set.Reps, set.RPE); err != nil {
		return nil, err
	}

	session.Sets[idx] = set
	session.Volume = domain.ComputeVolume(session.Sets)
	session.UpdatedAt = s.now()

	if err := s.workoutRepo.UpdateSets(ctx, session); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	s.coaching.Invalidate(userID)
	return session, nil
}

func (s *workoutService) ListRecords(ctx context.Context, userID primitive.ObjectID) ([]domain.PersonalRecord, error) {
	records, err := s.recordRepo.ListRecent(ctx, userID, recordListLimit)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []domain.PersonalRecord{}
	}
	return records, nil
}
