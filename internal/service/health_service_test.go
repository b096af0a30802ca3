package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alec12026-hash/rockyfit-sub000/internal/domain"
	"github.com/alec12026-hash/rockyfit-sub000/internal/metrics"
)

var checkInNow = time.Date(2025, 3, 14, 7, 30, 0, 0, time.UTC)

func newTestHealthService(repo *fakeHealthRepo, inv CoachingInvalidator, m *metrics.Manager) *healthService {
	svc := NewHealthService(repo, inv, m).(*healthService)
	svc.now = fixedClock(checkInNow)
	return svc
}

func TestHealthService_CheckIn(t *testing.T) {
	repo := &fakeHealthRepo{}
	spy := &spyInvalidator{}
	m := metrics.NewTestManager()
	svc := newTestHealthService(repo, spy, m)
	userID := primitive.NewObjectID()

	res, err := svc.CheckIn(context.Background(), userID, domain.HealthSample{
		SleepHours:     floatPtr(7.5),
		HRV:            floatPtr(60),
		RestingHR:      intPtr(58),
		Steps:          intPtr(9000),
		ReadinessScore: 5, // ignored
		ReadinessZone:  domain.ZoneRed,
	})
	require.NoError(t, err)

	// 50 + 12 + 8 + 5 + 8
	assert.Equal(t, 83, res.Readiness.Score)
	assert.Equal(t, domain.ZoneGreen, res.Readiness.Zone)
	assert.NotEmpty(t, res.Readiness.Recommendation)
	assert.Equal(t, "2025-03-14", res.Sample.Date)
	assert.Equal(t, userID, res.Sample.UserID)
	assert.Equal(t, 83, res.Sample.ReadinessScore)
	assert.Equal(t, domain.ZoneGreen, res.Sample.ReadinessZone)

	assert.Equal(t, 1, spy.count(userID))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterReadinessZones.WithLabelValues("green")))
}

func TestHealthService_CheckInSameDateOverwrites(t *testing.T) {
	repo := &fakeHealthRepo{}
	svc := newTestHealthService(repo, nil, metrics.NewTestManager())
	userID := primitive.NewObjectID()
	ctx := context.Background()

	first, err := svc.CheckIn(ctx, userID, domain.HealthSample{Date: "2025-03-13", SleepHours: floatPtr(5)})
	require.NoError(t, err)
	assert.Equal(t, domain.ZoneRed, first.Readiness.Zone)

	second, err := svc.CheckIn(ctx, userID, domain.HealthSample{Date: "2025-03-13", SleepHours: floatPtr(8.5), HRV: floatPtr(75)})
	require.NoError(t, err)
	assert.Equal(t, first.Sample.ID, second.Sample.ID)
	assert.Equal(t, 82, second.Readiness.Score)

	samples, err := svc.ListRecent(ctx, userID, 7)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, 82, samples[0].ReadinessScore)
}

func TestHealthService_CheckInEmptyIsBaseline(t *testing.T) {
	svc := newTestHealthService(&fakeHealthRepo{}, nil, metrics.NewTestManager())

	res, err := svc.CheckIn(context.Background(), primitive.NewObjectID(), domain.HealthSample{Notes: "just checking in"})
	require.NoError(t, err)
	assert.Equal(t, 50, res.Readiness.Score)
	assert.Equal(t, domain.ZoneYellow, res.Readiness.Zone)
}

func TestHealthService_CheckInErrors(t *testing.T) {
	spy := &spyInvalidator{}
	userID := primitive.NewObjectID()

	svc := newTestHealthService(&fakeHealthRepo{}, spy, metrics.NewTestManager())
	_, err := svc.CheckIn(context.Background(), userID, domain.HealthSample{Date: "14/03/2025"})
	assert.ErrorIs(t, err, ErrValidation)

	failing := newTestHealthService(&fakeHealthRepo{err: errors.New("write conflict")}, spy, metrics.NewTestManager())
	_, err = failing.CheckIn(context.Background(), userID, domain.HealthSample{SleepHours: floatPtr(8)})
	assert.EqualError(t, err, "write conflict")

	assert.Zero(t, spy.count(userID))
}

func TestHealthService_ListRecent(t *testing.T) {
	repo := &fakeHealthRepo{}
	svc := newTestHealthService(repo, nil, metrics.NewTestManager())
	userID := primitive.NewObjectID()
	ctx := context.Background()

	empty, err := svc.ListRecent(ctx, userID, 7)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, date := range []string{"2025-03-10", "2025-03-12", "2025-03-11"} {
		_, err := svc.CheckIn(ctx, userID, domain.HealthSample{Date: date})
		require.NoError(t, err)
	}

	samples, err := svc.ListRecent(ctx, userID, 2)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, "2025-03-12", samples[0].Date)
	assert.Equal(t, "2025-03-11", samples[1].Date)

	all, err := svc.ListRecent(ctx, userID, -1)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
