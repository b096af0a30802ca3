package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alec12026-hash/rockyfit-sub000/internal/coaching"
	"github.com/alec12026-hash/rockyfit-sub000/internal/domain"
	"github.com/alec12026-hash/rockyfit-sub000/internal/metrics"
	"github.com/alec12026-hash/rockyfit-sub000/internal/repository"
)

// ErrValidation wraps every input rejection raised by the services.
var ErrValidation = errors.New("invalid input")

const (
	defaultSampleDays = 7
	maxSampleDays     = 90
)

// CheckInResult is the stored sample plus the readiness derived from it.
type CheckInResult struct {
	Sample    *domain.HealthSample `json:"sample"`
	Readiness coaching.Readiness   `json:"readiness"`
}

type HealthService interface {
	// CheckIn stores the sample for its date (today when empty), overwriting any earlier
	// check-in for the same date. Readiness is always recomputed from the submitted signals.
	CheckIn(ctx context.Context, userID primitive.ObjectID, sample domain.HealthSample) (*CheckInResult, error)
	ListRecent(ctx context.Context, userID primitive.ObjectID, days int) ([]domain.HealthSample, error)
}

type healthService struct {
	healthRepo repository.HealthRepository
	coaching   CoachingInvalidator
	metrics    *metrics.Manager
	now        func() time.Time
}

func NewHealthService(healthRepo repository.HealthRepository, invalidator CoachingInvalidator, metricsManager *metrics.Manager) HealthService {
	return &healthService{
		healthRepo: healthRepo,
		coaching:   invalidatorOrNoop(invalidator),
		metrics:    metricsManager,
		now:        time.Now,
	}
}

func (s *healthService) CheckIn(ctx context.Context, userID primitive.ObjectID, sample domain.HealthSample) (*CheckInResult, error) {
	if sample.Date == "" {
		sample.Date = s.now().UTC().Format(domain.DateLayout)
	}
	if _, err := time.Parse(domain.DateLayout, sample.Date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}

	readiness := coaching.CalculateReadiness(coaching.ReadinessInputFromSample(&sample))

	sample.ID = primitive.NilObjectID
	sample.UserID = userID
	sample.ReadinessScore = readiness.Score
	sample.ReadinessZone = readiness.Zone

	stored, err := s.healthRepo.UpsertByDate(ctx, &sample)
	if err != nil {
		log.WithField("user", userID.Hex()).Errorf("failed to store health sample for %s: %s", sample.Date, err)
		return nil, err
	}

	s.coaching.Invalidate(userID)
	s.metrics.CounterReadinessZones.WithLabelValues(string(readiness.Zone)).Inc()

	return &CheckInResult{Sample: stored, Readiness: readiness}, nil
}

// ListRecent returns up to days samples, newest first. Out of range values use the default.
func (s *healthService) ListRecent(ctx context.Context, userID primitive.ObjectID, days int) ([]domain.HealthSample, error) {
	if days <= 0 || days > maxSampleDays {
		days = defaultSampleDays
	}
	samples, err := s.healthRepo.ListRecent(ctx, userID, days)
	if err != nil {
		return nil, err
	}
	if samples == nil {
		samples = []domain.HealthSample{}
	}
	return samples, nil
}
