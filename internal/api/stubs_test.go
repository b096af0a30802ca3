package api

import (
	"context"
	"errors"

	"github.com/go-redis/redis_rate/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alec12026-hash/rockyfit-sub000/internal/coaching"
	"github.com/alec12026-hash/rockyfit-sub000/internal/domain"
	"github.com/alec12026-hash/rockyfit-sub000/internal/service"
)

var errNotStubbed = errors.New("not stubbed")

type stubAuthService struct {
	tokens map[string]primitive.ObjectID
}

func (s *stubAuthService) Register(_ context.Context, name, email, _ string) (*domain.User, error) {
	if email == "taken@example.com" {
		return nil, service.ErrUserAlreadyExists
	}
	return &domain.User{ID: primitive.NewObjectID(), Name: name, Email: email}, nil
}

func (s *stubAuthService) Login(context.Context, string, string) (string, *domain.User, error) {
	return "", nil, service.ErrAuthenticationFailed
}

func (s *stubAuthService) ValidateToken(token string) (primitive.ObjectID, error) {
	if id, ok := s.tokens[token]; ok {
		return id, nil
	}
	return primitive.NilObjectID, service.ErrInvalidToken
}

type stubProfileService struct {
	onboard func(userID primitive.ObjectID, p domain.Profile) (*service.OnboardingResult, error)
}

func (s *stubProfileService) GetMe(_ context.Context, userID primitive.ObjectID) (*domain.User, error) {
	return &domain.User{ID: userID, Name: "Rocky"}, nil
}

func (s *stubProfileService) Onboard(_ context.Context, userID primitive.ObjectID, p domain.Profile) (*service.OnboardingResult, error) {
	if s.onboard == nil {
		return nil, errNotStubbed
	}
	return s.onboard(userID, p)
}

type stubHealthService struct {
	lastSample *domain.HealthSample
	lastDays   int
}

func (s *stubHealthService) CheckIn(_ context.Context, userID primitive.ObjectID, sample domain.HealthSample) (*service.CheckInResult, error) {
	s.lastSample = &sample
	readiness := coaching.CalculateReadiness(coaching.ReadinessInputFromSample(&sample))
	sample.UserID = userID
	sample.ReadinessScore = readiness.Score
	sample.ReadinessZone = readiness.Zone
	return &service.CheckInResult{Sample: &sample, Readiness: readiness}, nil
}

func (s *stubHealthService) ListRecent(_ context.Context, _ primitive.ObjectID, days int) ([]domain.HealthSample, error) {
	s.lastDays = days
	return []domain.HealthSample{}, nil
}

type stubWorkoutService struct {
	lastInput      *service.FinishWorkoutInput
	correctErr     error
	lastCorrection *service.SetCorrection
}

func (s *stubWorkoutService) Finish(_ context.Context, userID primitive.ObjectID, input service.FinishWorkoutInput) (*service.FinishWorkoutResult, error) {
	s.lastInput = &input
	return &service.FinishWorkoutResult{
		Session: &domain.WorkoutSession{ID: primitive.NewObjectID(), UserID: userID},
		Records: []domain.PersonalRecord{},
	}, nil
}

func (s *stubWorkoutService) ListRecent(context.Context, primitive.ObjectID, int) ([]domain.WorkoutSession, error) {
	return []domain.WorkoutSession{}, nil
}

func (s *stubWorkoutService) CorrectSet(_ context.Context, userID, sessionID, _ primitive.ObjectID, correction service.SetCorrection) (*domain.WorkoutSession, error) {
	s.lastCorrection = &correction
	if s.correctErr != nil {
		return nil, s.correctErr
	}
	return &domain.WorkoutSession{ID: sessionID, UserID: userID}, nil
}

func (s *stubWorkoutService) ListRecords(context.Context, primitive.ObjectID) ([]domain.PersonalRecord, error) {
	return nil, nil
}

type stubCoachingService struct{}

func (stubCoachingService) Invalidate(primitive.ObjectID) {}

func (stubCoachingService) GetCoaching(context.Context, primitive.ObjectID) service.CoachingResponse {
	return service.CoachingResponse{CoachingAdvice: coaching.FallbackAdvice()}
}

type stubScheduleService struct{}

func (stubScheduleService) Evaluate(context.Context, primitive.ObjectID) (coaching.ScheduleAdvice, error) {
	return coaching.AdviseSchedule(coaching.ScheduleInput{}), nil
}

func (s stubScheduleService) GetSchedule(ctx context.Context, userID primitive.ObjectID) coaching.ScheduleAdvice {
	advice, _ := s.Evaluate(ctx, userID)
	return advice
}

type stubProgramService struct {
	active     *domain.Program
	adjustMsg  *string
	exportErr  error
	regenerate int
}

func (s *stubProgramService) GetActive(context.Context, primitive.ObjectID) (*domain.Program, error) {
	if s.active == nil {
		return nil, service.ErrNoActiveProgram
	}
	return s.active, nil
}

func (s *stubProgramService) GenerateAndActivate(context.Context, primitive.ObjectID, domain.Profile) (*domain.Program, error) {
	return nil, errNotStubbed
}

func (s *stubProgramService) Regenerate(_ context.Context, userID primitive.ObjectID) (*domain.Program, error) {
	s.regenerate++
	return &domain.Program{ID: primitive.NewObjectID(), UserID: userID, Name: "Fresh"}, nil
}

func (s *stubProgramService) Adjust(context.Context, primitive.ObjectID, string) (*string, error) {
	return s.adjustMsg, nil
}

func (s *stubProgramService) Deload(context.Context, *domain.Program) error {
	return errNotStubbed
}

func (s *stubProgramService) Export(context.Context, primitive.ObjectID) (*service.ExportResult, error) {
	if s.exportErr != nil {
		return nil, s.exportErr
	}
	return &service.ExportResult{ObjectKey: "programs/x.json", DownloadURL: "https://storage.test/programs/x.json"}, nil
}

// testRequestRateLimiter allows Limits[key] requests per key.
type testRequestRateLimiter struct {
	Limits map[string]int
	Keys   []string
}

func (l *testRequestRateLimiter) Allow(_ context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error) {
	l.Keys = append(l.Keys, key)
	res := &redis_rate.Result{Limit: limit}

	foundLimit, ok := l.Limits[key]
	if !ok || foundLimit == 0 {
		return res, nil
	}

	res.Allowed = l.Limits[key]
	l.Limits[key]--
	return res, nil
}
