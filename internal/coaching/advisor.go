package coaching

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alec12026-hash/rockyfit-sub000/internal/domain"
)

// Intensity is the suggested effort level for the next session.
type Intensity string

const (
	IntensityReduced  Intensity = "reduced"
	IntensityModerate Intensity = "moderate"
	IntensityNormal   Intensity = "normal"
	IntensityPush     Intensity = "push"
)

const (
	// Green days at or above this score are suggested as push days.
	pushScoreThreshold = 90

	highVolumeThreshold = 50000.0
	lowWaterOz          = 60.0
	recentWindow        = 7 * 24 * time.Hour
	maxNamedPRs         = 3
)

// CoachingContext is assembled once per coaching request. Now is part of the context so the
// advice is a pure function of it.
type CoachingContext struct {
	LatestSample   *domain.HealthSample
	RecentSessions []domain.WorkoutSession // last 7 days, any order
	ProgramWeek    int
	RecentPRs      []domain.PersonalRecord // last 10, any order
	Now            time.Time
}

// CoachingAdvice is the advisor output.
type CoachingAdvice struct {
	CoachMessage       string    `json:"coachMessage"`
	SuggestedIntensity Intensity `json:"suggestedIntensity"`
	SuggestedChanges   []string  `json:"suggestedChanges"`
}

type zoneSeed struct {
	headline  string
	intensity Intensity
	changes   []string
}

var zoneSeeds = map[domain.Zone]zoneSeed{
	domain.ZoneRed: {
		headline:  "Readiness is %d/100, you're in the red zone. Today is about recovery, not records.",
		intensity: IntensityReduced,
		changes: []string{
			"Reduce working weights by 5-10%",
			"Drop 1-2 sets from each exercise",
			"Swap heavy compounds for mobility or light cardio if anything feels off",
		},
	},
	domain.ZoneYellow: {
		headline:  "Readiness is %d/100, you're in the yellow zone. Train, but keep it controlled.",
		intensity: IntensityModerate,
		changes: []string{
			"Keep loads at last session's numbers",
			"Cap effort at RPE 8-9, leave 1-2 reps in the tank",
			"Skip optional accessory work if fatigue builds",
		},
	},
	domain.ZoneGreen: {
		headline:  "Readiness is %d/100, you're in the green zone. You're primed to perform.",
		intensity: IntensityNormal,
		changes: []string{
			"Attack your top sets and chase a rep or load PR",
			"Add a back-off set to your main lift if it moves well",
			"Take full rest between heavy compound sets",
		},
	},
}

// Advise builds the coaching message from the context. Sections are appended in a fixed
// order and joined with blank lines, so identical contexts produce identical output.
func Advise(ctx CoachingContext) CoachingAdvice {
	sample := ctx.LatestSample

	var sections []string
	readiness := CalculateReadiness(ReadinessInputFromSample(sample))
	score, zone := readiness.Score, readiness.Zone
	if sample != nil && sample.ReadinessZone != "" {
		score, zone = sample.ReadinessScore, sample.ReadinessZone
	}
	if sample == nil {
		sections = append(sections, "No check-in logged yet, so readiness is assumed to be at baseline.")
	}

	seed := zoneSeeds[zone]
	intensity := seed.intensity
	if zone == domain.ZoneGreen && score >= pushScoreThreshold {
		intensity = IntensityPush
	}
	changes := append([]string(nil), seed.changes...)
	sections = append(sections, fmt.Sprintf(seed.headline, score))

	if sample != nil {
		if sample.SleepHours != nil {
			if *sample.SleepHours < 6 {
				sections = append(sections, fmt.Sprintf("You only slept %.1f hours. Expect lifts to feel heavier than usual and be conservative with load.", *sample.SleepHours))
			} else if *sample.SleepHours >= 8 {
				sections = append(sections, fmt.Sprintf("%.1f hours of sleep, you're well recovered.", *sample.SleepHours))
			}
		}

		if sample.HRV != nil {
			if *sample.HRV < 45 {
				sections = append(sections, fmt.Sprintf("HRV is %.0f ms, which points to a suppressed autonomic system. Favor technique work over grinding reps.", *sample.HRV))
			} else if *sample.HRV >= 70 {
				sections = append(sections, fmt.Sprintf("HRV is %.0f ms, your nervous system is dialed in.", *sample.HRV))
			}
		}

		if sample.Energy != nil && *sample.Energy <= 2 {
			sections = append(sections, "Energy is low today. A solid warm-up will tell you whether to push or hold back.")
			if intensity == IntensityNormal {
				intensity = IntensityModerate
			}
		}

		if sample.Soreness != nil && *sample.Soreness >= 4 {
			sections = append(sections, "Soreness is high. Give the worked muscles extra warm-up sets before loading them.")
			changes = append(changes, "Foam roll and stretch sore areas for 10 minutes before training")
		}

		if sample.Stress != nil && *sample.Stress >= 4 {
			sections = append(sections, "Stress is elevated. Training helps, but a long session adds to the load.")
			changes = append(changes, "Keep the session under 60 minutes")
		}

		if sample.Mood != nil && *sample.Mood >= 4 {
			sections = append(sections, "Mood is high, ride that momentum into a great session.")
		}

		if sample.NutritionRating != nil && *sample.NutritionRating <= 2 {
			sections = append(sections, "Nutrition has been off. Recovery starts in the kitchen.")
			changes = append(changes, "Hit 1g/lb bodyweight of protein today")
		}

		if sample.WaterOz != nil && *sample.WaterOz < lowWaterOz {
			sections = append(sections, fmt.Sprintf("Only %.0f oz of water so far. Drink up before and during the session.", *sample.WaterOz))
		}

		if note := strings.TrimSpace(sample.Notes); note != "" {
			sections = append(sections, fmt.Sprintf("You noted: %q", note))
		}
	}

	if last, ok := mostRecentSession(ctx.RecentSessions); ok {
		days := int(ctx.Now.Sub(last.CompletedAt).Hours() / 24)
		if days >= 2 {
			sections = append(sections, fmt.Sprintf("It's been %d days since your last workout. Let's get back at it.", days))
		}
	}

	if names := recentPRExercises(ctx.RecentPRs, ctx.Now); len(names) > 0 {
		sections = append(sections, fmt.Sprintf("New personal records this week on %s. Great work!", strings.Join(names, ", ")))
	}

	if WeeklyVolume(ctx.RecentSessions) > highVolumeThreshold {
		sections = append(sections, "Training volume this week is high. Prioritize sleep and food so recovery keeps up.")
	}

	return CoachingAdvice{
		CoachMessage:       strings.Join(sections, "\n\n"),
		SuggestedIntensity: intensity,
		SuggestedChanges:   changes,
	}
}

// FallbackAdvice is returned when the coaching context cannot be assembled.
func FallbackAdvice() CoachingAdvice {
	return CoachingAdvice{
		CoachMessage:       "Welcome! Log your first workout and a morning check-in, and your coaching will adapt from there.",
		SuggestedIntensity: IntensityNormal,
		SuggestedChanges:   []string{"Log your first workout to unlock personalized coaching"},
	}
}

// WeeklyVolume sums the volume of the given sessions.
func WeeklyVolume(sessions []domain.WorkoutSession) float64 {
	var total float64
	for _, s := range sessions {
		total += s.Volume
	}
	return total
}

// CountRecentPRs counts records achieved within the trailing 7 days.
func CountRecentPRs(records []domain.PersonalRecord, now time.Time) int {
	count := 0
	for _, pr := range records {
		if isRecent(pr.AchievedAt, now) {
			count++
		}
	}
	return count
}

func mostRecentSession(sessions []domain.WorkoutSession) (domain.WorkoutSession, bool) {
	if len(sessions) == 0 {
		return domain.WorkoutSession{}, false
	}
	latest := sessions[0]
	for _, s := range sessions[1:] {
		if s.CompletedAt.After(latest.CompletedAt) {
			latest = s
		}
	}
	return latest, true
}

// recentPRExercises returns up to three distinct exercise names, newest first.
func recentPRExercises(records []domain.PersonalRecord, now time.Time) []string {
	recent := make([]domain.PersonalRecord, 0, len(records))
	for _, pr := range records {
		if isRecent(pr.AchievedAt, now) {
			recent = append(recent, pr)
		}
	}
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].AchievedAt.After(recent[j].AchievedAt)
	})

	seen := make(map[string]bool)
	var names []string
	for _, pr := range recent {
		if seen[pr.ExerciseName] {
			continue
		}
		seen[pr.ExerciseName] = true
		names = append(names, pr.ExerciseName)
		if len(names) == maxNamedPRs {
			break
		}
	}
	return names
}

func isRecent(t, now time.Time) bool {
	return !t.After(now) && now.Sub(t) <= recentWindow
}
