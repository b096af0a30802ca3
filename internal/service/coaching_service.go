package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alec12026-hash/rockyfit-sub000/internal/cache"
	"github.com/alec12026-hash/rockyfit-sub000/internal/coaching"
	"github.com/alec12026-hash/rockyfit-sub000/internal/metrics"
	"github.com/alec12026-hash/rockyfit-sub000/internal/repository"
)

const (
	coachingWindow   = 7 * 24 * time.Hour
	coachingPRLimit  = 10
	coachingCacheKey = "coach::%s"
)

// CoachingResponse is the advisor output plus the 7-day summary numbers shown next to it.
type CoachingResponse struct {
	coaching.CoachingAdvice
	RecentWorkouts int     `json:"recentWorkouts"`
	WeeklyVolume   float64 `json:"weeklyVolume"`
	RecentPRs      int     `json:"recentPRs"`
}

// CoachingInvalidator drops cached coaching for a user after any write that feeds the advisor.
type CoachingInvalidator interface {
	Invalidate(userID primitive.ObjectID)
}

type CoachingService interface {
	CoachingInvalidator
	// GetCoaching never fails: any error while assembling the context yields the fallback advice.
	GetCoaching(ctx context.Context, userID primitive.ObjectID) CoachingResponse
}

type coachingService struct {
	healthRepo  repository.HealthRepository
	workoutRepo repository.WorkoutRepository
	recordRepo  repository.PersonalRecordRepository
	programRepo repository.ProgramRepository
	cache       *cache.JSONCache
	cacheTTL    time.Duration
	metrics     *metrics.Manager
	now         func() time.Time
}

// NewCoachingService creates a new coaching service. A nil cache disables response caching.
func NewCoachingService(
	healthRepo repository.HealthRepository,
	workoutRepo repository.WorkoutRepository,
	recordRepo repository.PersonalRecordRepository,
	programRepo repository.ProgramRepository,
	responseCache *cache.JSONCache,
	cacheTTL time.Duration,
	metricsManager *metrics.Manager,
) CoachingService {
	return &coachingService{
		healthRepo:  healthRepo,
		workoutRepo: workoutRepo,
		recordRepo:  recordRepo,
		programRepo: programRepo,
		cache:       responseCache,
		cacheTTL:    cacheTTL,
		metrics:     metricsManager,
		now:         time.Now,
	}
}

func (s *coachingService) GetCoaching(ctx context.Context, userID primitive.ObjectID) CoachingResponse {
	key := fmt.Sprintf(coachingCacheKey, userID.Hex())
	if s.cache != nil {
		var cached CoachingResponse
		if s.cache.Get(key, &cached) {
			s.metrics.CounterCoachingCacheHits.Inc()
			return cached
		}
	}

	cctx, err := s.buildContext(ctx, userID)
	if err != nil {
		log.WithField("user", userID.Hex()).Warnf("coaching context unavailable, using fallback: %s", err)
		s.metrics.CounterCoachingFallbacks.Inc()
		return CoachingResponse{CoachingAdvice: coaching.FallbackAdvice()}
	}

	resp := CoachingResponse{
		CoachingAdvice: coaching.Advise(cctx),
		RecentWorkouts: len(cctx.RecentSessions),
		WeeklyVolume:   coaching.WeeklyVolume(cctx.RecentSessions),
		RecentPRs:      coaching.CountRecentPRs(cctx.RecentPRs, cctx.Now),
	}

	if s.cache != nil && s.cacheTTL > 0 {
		if err := s.cache.Set(key, resp, s.cacheTTL); err != nil {
			log.Debugf("coaching response for %s not cached: %s", userID.Hex(), err)
		}
	}
	return resp
}

func (s *coachingService) Invalidate(userID primitive.ObjectID) {
	if s.cache == nil {
		return
	}
	s.cache.Del(fmt.Sprintf(coachingCacheKey, userID.Hex()))
}

func (s *coachingService) buildContext(ctx context.Context, userID primitive.ObjectID) (coaching.CoachingContext, error) {
	now := s.now()
	cctx := coaching.CoachingContext{Now: now, ProgramWeek: 1}

	sample, err := s.healthRepo.GetLatest(ctx, userID)
	switch {
	case err == nil:
		cctx.LatestSample = sample
	case !errors.Is(err, repository.ErrNotFound):
		return cctx, fmt.Errorf("latest health sample: %w", err)
	}

	sessions, err := s.workoutRepo.ListSince(ctx, userID, now.Add(-coachingWindow))
	if err != nil {
		return cctx, fmt.Errorf("recent sessions: %w", err)
	}
	cctx.RecentSessions = sessions

	active, err := s.programRepo.GetActive(ctx, userID)
	switch {
	case err == nil:
		cctx.ProgramWeek = active.CurrentWeek(now)
	case !errors.Is(err, repository.ErrNotFound):
		return cctx, fmt.Errorf("active program: %w", err)
	}

	records, err := s.recordRepo.ListRecent(ctx, userID, coachingPRLimit)
	if err != nil {
		return cctx, fmt.Errorf("recent records: %w", err)
	}
	cctx.RecentPRs = records

	return cctx, nil
}

// noopInvalidator is used when no coaching cache is wired.
type noopInvalidator struct{}

func (noopInvalidator) Invalidate(primitive.ObjectID) {}

func invalidatorOrNoop(inv CoachingInvalidator) CoachingInvalidator {
	if inv == nil {
		return noopInvalidator{}
	}
	return inv
}
