// Package coaching holds the readiness and coaching rules. Everything in this package is a
// pure function of its inputs: no I/O, no clock reads, no randomness.
package coaching

import (
	"math"

	"github.com/alec12026-hash/rockyfit-sub000/internal/domain"
)

const (
	baselineReadiness = 50

	greenThreshold  = 75
	yellowThreshold = 55
)

var zoneRecommendations = map[domain.Zone]string{
	domain.ZoneGreen:  "Readiness is high. Push your top sets today.",
	domain.ZoneYellow: "Keep load stable and cap effort at RPE 8-9.",
	domain.ZoneRed:    "Reduce load 5-10% and cut 1-2 sets today.",
}

// ReadinessInput carries the physiological signals. Nil means the signal was not recorded.
type ReadinessInput struct {
	SleepHours *float64
	RestingHR  *int
	HRV        *float64
	Steps      *int
}

func (in ReadinessInput) empty() bool {
	return in.SleepHours == nil && in.RestingHR == nil && in.HRV == nil && in.Steps == nil
}

// Readiness is the calculator output.
type Readiness struct {
	Score          int         `json:"score"`
	Zone           domain.Zone `json:"zone"`
	Recommendation string      `json:"recommendation"`
}

// ReadinessInputFromSample extracts the scored signals from a health sample.
func ReadinessInputFromSample(sample *domain.HealthSample) ReadinessInput {
	if sample == nil {
		return ReadinessInput{}
	}
	return ReadinessInput{
		SleepHours: sample.SleepHours,
		RestingHR:  sample.RestingHR,
		HRV:        sample.HRV,
		Steps:      sample.Steps,
	}
}

// CalculateReadiness converts raw signals into a bounded score and zone.
// Missing signals contribute zero. With no signals at all the result is the neutral baseline,
// which sits in the yellow zone.
func CalculateReadiness(in ReadinessInput) Readiness {
	if in.empty() {
		return Readiness{
			Score:          baselineReadiness,
			Zone:           domain.ZoneYellow,
			Recommendation: zoneRecommendations[domain.ZoneYellow],
		}
	}

	total := float64(baselineReadiness)
	total += sleepAdjustment(in.SleepHours)
	total += hrvAdjustment(in.HRV)
	total += restingHRAdjustment(in.RestingHR)
	total += stepsAdjustment(in.Steps)

	total = math.Max(0, math.Min(100, total))
	score := int(math.Round(total))
	zone := ZoneForScore(score)

	return Readiness{
		Score:          score,
		Zone:           zone,
		Recommendation: zoneRecommendations[zone],
	}
}

// ZoneForScore applies the fixed 75/55 thresholds.
func ZoneForScore(score int) domain.Zone {
	switch {
	case score >= greenThreshold:
		return domain.ZoneGreen
	case score >= yellowThreshold:
		return domain.ZoneYellow
	default:
		return domain.ZoneRed
	}
}

// RecommendationForZone returns the fixed guidance line for a zone.
func RecommendationForZone(zone domain.Zone) string {
	return zoneRecommendations[zone]
}

func sleepAdjustment(hours *float64) float64 {
	if hours == nil {
		return 0
	}
	switch h := *hours; {
	case h >= 8:
		return 20
	case h >= 7:
		return 12
	case h >= 6:
		return 5
	default:
		return -8
	}
}

func hrvAdjustment(hrv *float64) float64 {
	if hrv == nil {
		return 0
	}
	switch v := *hrv; {
	case v >= 70:
		return 12
	case v >= 55:
		return 8
	case v >= 45:
		return 3
	default:
		return -6
	}
}

// 56-61 and 63-71 bpm are neutral.
func restingHRAdjustment(rhr *int) float64 {
	if rhr == nil {
		return 0
	}
	switch v := *rhr; {
	case v <= 55:
		return 10
	case v <= 62:
		return 5
	case v >= 72:
		return -8
	default:
		return 0
	}
}

func stepsAdjustment(steps *int) float64 {
	if steps == nil {
		return 0
	}
	switch v := *steps; {
	case v >= 7000 && v <= 13000:
		return 8
	case v > 18000:
		return -4
	default:
		return 0
	}
}
