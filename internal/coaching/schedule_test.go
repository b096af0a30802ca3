package coaching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alec12026-hash/rockyfit-sub000/internal/domain"
)

func days(scores ...int) []DailyReadiness {
	out := make([]DailyReadiness, 0, len(scores))
	for _, s := range scores {
		out = append(out, DailyReadiness{Score: s, Zone: ZoneForScore(s)})
	}
	return out
}

func TestAdviseSchedule(t *testing.T) {
	testCases := []struct {
		name             string
		recent           []DailyReadiness
		expected         ScheduleRecommendation
		expectedCanTrain bool
	}{
		{name: "TwoRedIsRest", recent: days(40, 30, 60), expected: ScheduleRest},
		{name: "OneRedIsActiveRecovery", recent: days(40, 80, 80), expected: ScheduleActiveRecovery},
		{name: "TwoYellowIsReduce", recent: days(60, 70, 90), expected: ScheduleReduce},
		{name: "HighAverageIsPush", recent: days(80, 80, 80), expected: SchedulePush, expectedCanTrain: true},
		{name: "SingleGreenDayIsPush", recent: days(76), expected: SchedulePush, expectedCanTrain: true},
		{name: "NoDataIsUnknown", recent: nil, expected: ScheduleUnknown},
		{name: "TwoYellowOfTwoIsReduce", recent: days(70, 74), expected: ScheduleReduce},
		{name: "OneYellowTwoGreenBelowPushIsTrain", recent: days(60, 75, 76), expected: ScheduleTrain, expectedCanTrain: true},
		{name: "OnlyFirstThreeDaysCount", recent: days(80, 80, 80, 20, 20), expected: SchedulePush, expectedCanTrain: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			advice := AdviseSchedule(ScheduleInput{Recent: tc.recent})
			assert.Equal(t, tc.expected, advice.Recommendation)
			assert.Equal(t, tc.expectedCanTrain, advice.CanTrain)
		})
	}
}

func TestAdviseSchedule_RedRedYellow(t *testing.T) {
	advice := AdviseSchedule(ScheduleInput{Recent: []DailyReadiness{
		{Score: 40, Zone: domain.ZoneRed},
		{Score: 45, Zone: domain.ZoneRed},
		{Score: 60, Zone: domain.ZoneYellow},
	}})

	assert.Equal(t, ScheduleRest, advice.Recommendation)
	assert.False(t, advice.CanTrain)
	assert.Equal(t, []domain.Zone{domain.ZoneRed, domain.ZoneRed, domain.ZoneYellow}, advice.RecentZones)
	require.NotNil(t, advice.AvgScore)
	assert.InDelta(t, 48.33, *advice.AvgScore, 0.01)
	assert.NotEmpty(t, advice.Message)
	assert.NotEmpty(t, advice.Adjustment)
}

func TestAdviseSchedule_NoData(t *testing.T) {
	advice := AdviseSchedule(ScheduleInput{})
	assert.Nil(t, advice.AvgScore)
	assert.Nil(t, advice.NextWorkout)
	assert.Empty(t, advice.RecentZones)
}

func TestAdviseSchedule_TrainHasNoMessage(t *testing.T) {
	advice := AdviseSchedule(ScheduleInput{Recent: days(60, 75, 76)})
	assert.Equal(t, ScheduleTrain, advice.Recommendation)
	assert.Empty(t, advice.Message)
	assert.Empty(t, advice.Adjustment)
}

func TestNextPosition(t *testing.T) {
	assert.Nil(t, NextPosition(nil))
	assert.Equal(t, &ProgramPosition{Week: 2, Day: 4}, NextPosition(&ProgramPosition{Week: 2, Day: 3}))
	assert.Equal(t, &ProgramPosition{Week: 3, Day: 0}, NextPosition(&ProgramPosition{Week: 2, Day: 6}))
	assert.Equal(t, &ProgramPosition{Week: 1, Day: 1}, NextPosition(&ProgramPosition{Week: 1, Day: 0}))

	advice := AdviseSchedule(ScheduleInput{Recent: days(80), LastPosition: &ProgramPosition{Week: 1, Day: 6}})
	assert.Equal(t, &ProgramPosition{Week: 2, Day: 0}, advice.NextWorkout)
}

func TestReadinessFromSamples(t *testing.T) {
	rows := ReadinessFromSamples([]domain.HealthSample{
		{Date: "2025-03-14", ReadinessScore: 80, ReadinessZone: domain.ZoneGreen},
		{Date: "2025-03-13", ReadinessScore: 50, ReadinessZone: domain.ZoneRed},
	})
	require.Len(t, rows, 2)
	assert.Equal(t, DailyReadiness{Date: "2025-03-14", Score: 80, Zone: domain.ZoneGreen}, rows[0])
}
