package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"

	"github.com/alec12026-hash/rockyfit-sub000/internal/domain"
	"github.com/alec12026-hash/rockyfit-sub000/internal/metrics"
	"github.com/alec12026-hash/rockyfit-sub000/internal/program"
)

var programNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

type programFixture struct {
	svc       *programService
	programs  *fakeProgramRepo
	users     *fakeUserRepo
	storage   *fakeStorage
	generator *MockGenerator
	spy       *spyInvalidator
	metrics   *metrics.Manager
}

func newProgramFixture(t *testing.T) *programFixture {
	ctrl := gomock.NewController(t)
	f := &programFixture{
		programs:  &fakeProgramRepo{},
		users:     newFakeUserRepo(),
		storage:   &fakeStorage{},
		generator: NewMockGenerator(ctrl),
		spy:       &spyInvalidator{},
		metrics:   metrics.NewTestManager(),
	}
	f.svc = NewProgramService(f.programs, f.users, f.generator, f.storage, 10*time.Minute, f.spy, f.metrics).(*programService)
	f.svc.now = fixedClock(programNow)
	return f
}

func aiProgram(name string) *domain.Program {
	return &domain.Program{
		Name:          name,
		DurationWeeks: 8,
		DaysPerWeek:   1,
		Source:        domain.SourceAI,
		Days: []domain.ProgramDay{{
			Name:      "Day 1",
			Exercises: []domain.ProgramExercise{{Name: "Squat", Sets: 4, RepRange: "5", Rest: "3 min"}},
		}},
	}
}

var onboardedProfile = domain.Profile{
	Experience:  domain.ExperienceIntermediate,
	Goal:        domain.GoalStrength,
	DaysPerWeek: 4,
	OnboardedAt: &programNow,
}

func TestProgramService_GenerateAndActivate(t *testing.T) {
	f := newProgramFixture(t)
	userID := primitive.NewObjectID()

	f.generator.EXPECT().Generate(gomock.Any(), onboardedProfile, "").Return(aiProgram("AI Strength Block"), nil)

	p, err := f.svc.GenerateAndActivate(context.Background(), userID, onboardedProfile)
	require.NoError(t, err)
	assert.Equal(t, "AI Strength Block", p.Name)
	assert.Equal(t, userID, p.UserID)
	assert.True(t, p.IsActive)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CounterProgramGenerations.WithLabelValues("ai")))
	assert.Equal(t, 1, f.spy.count(userID))
}

func TestProgramService_GenerateFallsBack(t *testing.T) {
	f := newProgramFixture(t)
	userID := primitive.NewObjectID()

	f.generator.EXPECT().Generate(gomock.Any(), gomock.Any(), "").Return(nil, errors.New("timeout"))

	p, err := f.svc.GenerateAndActivate(context.Background(), userID, onboardedProfile)
	require.NoError(t, err)
	assert.Equal(t, domain.SourceFallback, p.Source)
	assert.Len(t, p.Days, 4)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CounterProgramGenerations.WithLabelValues("fallback")))
}

func TestProgramService_NilGeneratorUsesFallback(t *testing.T) {
	programs := &fakeProgramRepo{}
	svc := NewProgramService(programs, newFakeUserRepo(), nil, nil, 0, nil, metrics.NewTestManager())

	p, err := svc.GenerateAndActivate(context.Background(), primitive.NewObjectID(), domain.Profile{})
	require.NoError(t, err)
	assert.Equal(t, domain.SourceFallback, p.Source)

	_, err = svc.Export(context.Background(), p.UserID)
	assert.ErrorIs(t, err, ErrExportUnavailable)
}

func TestProgramService_SingleActiveProgram(t *testing.T) {
	f := newProgramFixture(t)
	userID := primitive.NewObjectID()
	f.generator.EXPECT().Generate(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("down")).Times(3)

	for i := 0; i < 3; i++ {
		_, err := f.svc.GenerateAndActivate(context.Background(), userID, onboardedProfile)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, f.programs.activeCount(userID))
}

func TestProgramService_Regenerate(t *testing.T) {
	f := newProgramFixture(t)
	ctx := context.Background()

	fresh := f.users.add(domain.User{Name: "New"})
	_, err := f.svc.Regenerate(ctx, fresh)
	assert.ErrorIs(t, err, ErrNotOnboarded)

	profile := onboardedProfile
	userID := f.users.add(domain.User{Name: "Rocky", Profile: &profile})
	f.generator.EXPECT().Generate(gomock.Any(), profile, "").Return(aiProgram("Regenerated"), nil)

	p, err := f.svc.Regenerate(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Regenerated", p.Name)
}

func TestProgramService_AdjustNoMatch(t *testing.T) {
	f := newProgramFixture(t)

	msg, err := f.svc.Adjust(context.Background(), primitive.NewObjectID(), "great session today, felt strong")
	require.NoError(t, err)
	assert.Nil(t, msg)
}

func TestProgramService_AdjustDeload(t *testing.T) {
	f := newProgramFixture(t)
	userID := primitive.NewObjectID()
	ctx := context.Background()

	msg, err := f.svc.Adjust(ctx, userID, "I'm exhausted")
	require.NoError(t, err)
	assert.Nil(t, msg, "deload without an active program is a no-op")

	_, err = f.programs.CreateActive(ctx, &domain.Program{UserID: userID, Name: "Block", Days: aiProgram("x").Days})
	require.NoError(t, err)

	msg, err = f.svc.Adjust(ctx, userID, "I'm exhausted")
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, program.DeloadConfirmation, *msg)

	active, err := f.programs.GetActive(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 3, active.Days[0].Exercises[0].Sets)
	assert.Contains(t, active.RecoveryNotes, program.DeloadNote)
	require.NotNil(t, active.LastDeloadAt)
	assert.Equal(t, programNow, *active.LastDeloadAt)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CounterProgramAdjustments.WithLabelValues("deload")))
}

func TestProgramService_AdjustSplitChange(t *testing.T) {
	f := newProgramFixture(t)
	ctx := context.Background()
	profile := onboardedProfile
	userID := f.users.add(domain.User{Name: "Rocky", Profile: &profile})
	_, err := f.programs.CreateActive(ctx, &domain.Program{UserID: userID, Name: "Old", Days: aiProgram("x").Days})
	require.NoError(t, err)

	f.generator.EXPECT().Generate(gomock.Any(), profile, "Upper / Lower").Return(aiProgram("Upper Lower Block"), nil)

	// Both intents match; the split change wins and the deload is skipped.
	msg, err := f.svc.Adjust(ctx, userID, "I'm tired, can we switch to upper lower?")
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Contains(t, *msg, "Upper / Lower")

	active, err := f.programs.GetActive(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Upper Lower Block", active.Name)
	assert.Nil(t, active.LastDeloadAt)
	assert.Equal(t, 4, active.Days[0].Exercises[0].Sets)
	assert.Equal(t, 1, f.programs.activeCount(userID))
}

func TestProgramService_AdjustSplitChangeFailureMutatesNothing(t *testing.T) {
	f := newProgramFixture(t)
	ctx := context.Background()
	userID := primitive.NewObjectID()
	_, err := f.programs.CreateActive(ctx, &domain.Program{UserID: userID, Name: "Old", Days: aiProgram("x").Days})
	require.NoError(t, err)

	f.generator.EXPECT().Generate(gomock.Any(), domain.Profile{}, "Push / Pull / Legs").Return(nil, errors.New("rate limited"))

	msg, err := f.svc.Adjust(ctx, userID, "I'm sore, give me a PPL split")
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, SplitChangeFailedMessage, *msg)

	active, err := f.programs.GetActive(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Old", active.Name)
	assert.Equal(t, 4, active.Days[0].Exercises[0].Sets)
	assert.Nil(t, active.LastDeloadAt)
	assert.Len(t, f.programs.programs, 1)
}

func TestProgramService_DeloadPersistFailure(t *testing.T) {
	f := newProgramFixture(t)
	f.programs.updateErr = errors.New("write failed")
	p := aiProgram("Block")
	p.ID = primitive.NewObjectID()

	err := f.svc.Deload(context.Background(), p)
	assert.EqualError(t, err, "write failed")
	assert.Zero(t, testutil.ToFloat64(f.metrics.CounterProgramAdjustments.WithLabelValues("deload")))
}

func TestProgramService_Export(t *testing.T) {
	f := newProgramFixture(t)
	ctx := context.Background()
	userID := primitive.NewObjectID()

	_, err := f.svc.Export(ctx, userID)
	assert.ErrorIs(t, err, ErrNoActiveProgram)

	programID, err := f.programs.CreateActive(ctx, &domain.Program{UserID: userID, Name: "Block", Days: aiProgram("x").Days})
	require.NoError(t, err)

	res, err := f.svc.Export(ctx, userID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.ObjectKey, "programs/"+userID.Hex()+"/"+programID.Hex()+"-"), res.ObjectKey)
	assert.True(t, strings.HasSuffix(res.ObjectKey, ".json"))
	assert.Equal(t, "https://storage.test/"+res.ObjectKey+"?expires=10m0s", res.DownloadURL)
	assert.Equal(t, programNow.Add(10*time.Minute), res.ExpiresAt)

	var archived domain.Program
	require.NoError(t, json.Unmarshal(f.storage.objects[res.ObjectKey], &archived))
	assert.Equal(t, "Block", archived.Name)

	f.storage.putErr = errors.New("bucket missing")
	_, err = f.svc.Export(ctx, userID)
	assert.ErrorIs(t, err, ErrExportFailed)
}
