package coaching

import (
	"github.com/alec12026-hash/rockyfit-sub000/internal/domain"
)

// ScheduleRecommendation is the train/reduce/rest verdict for today.
type ScheduleRecommendation string

const (
	ScheduleRest           ScheduleRecommendation = "rest"
	ScheduleActiveRecovery ScheduleRecommendation = "active_recovery"
	ScheduleReduce         ScheduleRecommendation = "reduce"
	SchedulePush           ScheduleRecommendation = "push"
	ScheduleTrain          ScheduleRecommendation = "train"
	ScheduleUnknown        ScheduleRecommendation = "unknown"
)

// ScheduleWindowDays is how many recent days of readiness the schedule looks at.
const ScheduleWindowDays = 3

// lastCycleDay is the highest day index before the pointer rolls to the next week.
const lastCycleDay = 6

// ProgramPosition points at a (week, day) slot in the active program.
type ProgramPosition struct {
	Week int `json:"week"`
	Day  int `json:"day"`
}

// DailyReadiness is one day's persisted readiness.
type DailyReadiness struct {
	Date  string      `json:"date"`
	Score int         `json:"score"`
	Zone  domain.Zone `json:"zone"`
}

// ScheduleInput is the most recent readiness (newest first, at most three days are used)
// and the last completed program position, if any.
type ScheduleInput struct {
	Recent       []DailyReadiness
	LastPosition *ProgramPosition
}

// ScheduleAdvice is the schedule advisor output.
type ScheduleAdvice struct {
	Recommendation ScheduleRecommendation `json:"recommendation"`
	Message        string                 `json:"message"`
	Adjustment     string                 `json:"adjustment"`
	AvgScore       *float64               `json:"avgScore"`
	RecentZones    []domain.Zone          `json:"recentZones"`
	NextWorkout    *ProgramPosition       `json:"nextWorkout"`
	CanTrain       bool                   `json:"canTrain"`
}

// ReadinessFromSamples converts stored samples into schedule input rows.
func ReadinessFromSamples(samples []domain.HealthSample) []DailyReadiness {
	out := make([]DailyReadiness, 0, len(samples))
	for _, s := range samples {
		out = append(out, DailyReadiness{Date: s.Date, Score: s.ReadinessScore, Zone: s.ReadinessZone})
	}
	return out
}

// AdviseSchedule applies the schedule rules top to bottom; the first match wins.
func AdviseSchedule(in ScheduleInput) ScheduleAdvice {
	recent := in.Recent
	if len(recent) > ScheduleWindowDays {
		recent = recent[:ScheduleWindowDays]
	}

	zones := make([]domain.Zone, 0, len(recent))
	var reds, yellows, scoreSum int
	for _, r := range recent {
		zones = append(zones, r.Zone)
		scoreSum += r.Score
		switch r.Zone {
		case domain.ZoneRed:
			reds++
		case domain.ZoneYellow:
			yellows++
		}
	}

	advice := ScheduleAdvice{
		RecentZones: zones,
		NextWorkout: NextPosition(in.LastPosition),
	}
	if len(recent) > 0 {
		avg := float64(scoreSum) / float64(len(recent))
		advice.AvgScore = &avg
	}

	switch {
	case reds >= 2:
		advice.Recommendation = ScheduleRest
		advice.Message = "Readiness has been in the red on most of the last few days. Your body needs a break."
		advice.Adjustment = "Take a full day off: walk, stretch, sleep."
	case reds == 1:
		advice.Recommendation = ScheduleActiveRecovery
		advice.Message = "You had a red readiness day recently. Keep moving, but keep it light."
		advice.Adjustment = "Reduce volume to about 60% and skip heavy compounds."
	case yellows >= 2:
		advice.Recommendation = ScheduleReduce
		advice.Message = "Readiness has been middling. Train, but pull back a little."
		advice.Adjustment = "Cut working weight 5-10% and drop 1-2 sets per exercise."
	case advice.AvgScore != nil && *advice.AvgScore >= greenThreshold:
		advice.Recommendation = SchedulePush
		advice.Message = "Readiness has been strong. Today is a good day to push."
		advice.Adjustment = "Go for top sets and attempt a rep or load PR."
	case len(recent) == 0:
		advice.Recommendation = ScheduleUnknown
		advice.Message = "No readiness data yet. Log a morning check-in to get schedule guidance."
	default:
		advice.Recommendation = ScheduleTrain
	}

	advice.CanTrain = advice.Recommendation == SchedulePush || advice.Recommendation == ScheduleTrain
	return advice
}

// NextPosition advances the program pointer by one day, rolling into the next week after
// day 6. Nil in, nil out.
func NextPosition(last *ProgramPosition) *ProgramPosition {
	if last == nil {
		return nil
	}
	if last.Day >= lastCycleDay {
		return &ProgramPosition{Week: last.Week + 1, Day: 0}
	}
	return &ProgramPosition{Week: last.Week, Day: last.Day + 1}
}
