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
	"github.com/alec12026-hash/rockyfit-sub000/internal/repository"
)

type ScheduleService interface {
	// Evaluate runs the schedule advisor over the last three days of check-ins and the latest
	// completed session.
	Evaluate(ctx context.Context, userID primitive.ObjectID) (coaching.ScheduleAdvice, error)
	// GetSchedule is Evaluate for request handlers: errors degrade to the no-data advice.
	GetSchedule(ctx context.Context, userID primitive.ObjectID) coaching.ScheduleAdvice
}

type scheduleService struct {
	healthRepo  repository.HealthRepository
	workoutRepo repository.WorkoutRepository
	now         func() time.Time
}

func NewScheduleService(healthRepo repository.HealthRepository, workoutRepo repository.WorkoutRepository) ScheduleService {
	return &scheduleService{
		healthRepo:  healthRepo,
		workoutRepo: workoutRepo,
		now:         time.Now,
	}
}

func (s *scheduleService) Evaluate(ctx context.Context, userID primitive.ObjectID) (coaching.ScheduleAdvice, error) {
	samples, err := s.healthRepo.ListRecent(ctx, userID, coaching.ScheduleWindowDays)
	if err != nil {
		return coaching.ScheduleAdvice{}, fmt.Errorf("recent health samples: %w", err)
	}

	// Only check-ins dated within the window count; an old streak of red days says nothing
	// about today.
	oldest := s.now().UTC().AddDate(0, 0, -(coaching.ScheduleWindowDays - 1)).Format(domain.DateLayout)
	recent := make([]domain.HealthSample, 0, len(samples))
	for _, sample := range samples {
		if sample.Date >= oldest {
			recent = append(recent, sample)
		}
	}

	in := coaching.ScheduleInput{Recent: coaching.ReadinessFromSamples(recent)}

	last, err := s.workoutRepo.GetLatest(ctx, userID)
	switch {
	case err == nil:
		in.LastPosition = &coaching.ProgramPosition{Week: last.Week, Day: last.Day}
	case !errors.Is(err, repository.ErrNotFound):
		return coaching.ScheduleAdvice{}, fmt.Errorf("latest session: %w", err)
	}

	return coaching.AdviseSchedule(in), nil
}

func (s *scheduleService) GetSchedule(ctx context.Context, userID primitive.ObjectID) coaching.ScheduleAdvice {
	advice, err := s.Evaluate(ctx, userID)
	if err != nil {
		log.WithField("user", userID.Hex()).Warnf("schedule unavailable, using no-data advice: %s", err)
		return coaching.AdviseSchedule(coaching.ScheduleInput{})
	}
	return advice
}
