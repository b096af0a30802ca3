package program

import (
	"strings"

	"github.com/alec12026-hash/rockyfit-sub000/internal/domain"
)

const (
	defaultDaysPerWeek = 3
	maxDaysPerWeek     = 7
)

type experienceTemplate struct {
	name          string
	durationWeeks int
	progression   string
}

var experienceTemplates = map[domain.ExperienceLevel]experienceTemplate{
	domain.ExperienceBeginner: {
		name:          "Foundations Strength Builder",
		durationWeeks: 8,
		progression:   "Linear progression: add 2.5-5 lb to each lift when you hit the top of the rep range on every set.",
	},
	domain.ExperienceIntermediate: {
		name:          "Progressive Performance Block",
		durationWeeks: 10,
		progression:   "Double progression: build reps across the range, then add load. Deload every fourth week.",
	},
	domain.ExperienceAdvanced: {
		name:          "Advanced Periodized Program",
		durationWeeks: 12,
		progression:   "Block periodization: accumulation, intensification and realization phases with a deload between blocks.",
	},
}

type dayTemplate struct {
	name         string
	muscleGroups []string
	exercises    []string
}

// dayTemplates are cycled in order for each training day.
var dayTemplates = []dayTemplate{
	{
		name:         "Push",
		muscleGroups: []string{"chest", "shoulders", "triceps"},
		exercises:    []string{"Barbell Bench Press", "Overhead Press", "Incline Dumbbell Press", "Lateral Raise", "Triceps Pushdown"},
	},
	{
		name:         "Pull",
		muscleGroups: []string{"back", "biceps", "rear delts"},
		exercises:    []string{"Barbell Row", "Pull-Up", "Seated Cable Row", "Face Pull", "Dumbbell Curl"},
	},
	{
		name:         "Legs",
		muscleGroups: []string{"quads", "hamstrings", "glutes", "calves"},
		exercises:    []string{"Back Squat", "Romanian Deadlift", "Leg Press", "Walking Lunge", "Standing Calf Raise"},
	},
	{
		name:         "Upper",
		muscleGroups: []string{"chest", "back", "shoulders", "arms"},
		exercises:    []string{"Dumbbell Bench Press", "Lat Pulldown", "Seated Dumbbell Press", "Chest-Supported Row", "Hammer Curl"},
	},
	{
		name:         "Lower",
		muscleGroups: []string{"quads", "hamstrings", "glutes"},
		exercises:    []string{"Deadlift", "Front Squat", "Bulgarian Split Squat", "Leg Curl", "Hip Thrust"},
	},
	{
		name:         "Full Body",
		muscleGroups: []string{"full body"},
		exercises:    []string{"Goblet Squat", "Push-Up", "Dumbbell Row", "Kettlebell Swing", "Plank"},
	},
}

const (
	poorSleepNotes  = "Sleep is your biggest lever right now. Aim for 7-9 hours, keep a consistent bedtime, and skip caffeine after noon. On nights under 6 hours, drop a set from each exercise the next day."
	highStressNotes = "Stress adds to your recovery debt. Keep sessions under an hour, prioritize a walk or mobility on rest days, and take an extra rest day when life gets heavy."
	generalNotes    = "Take at least one full rest day per week, eat enough protein (about 0.7-1 g per lb), and log a morning check-in so your coaching can adapt."
)

// BuildFallback constructs a complete program from the profile alone. It has no failure path.
func BuildFallback(profile domain.Profile) *domain.Program {
	tmpl, ok := experienceTemplates[profile.Experience]
	if !ok {
		tmpl = experienceTemplates[domain.ExperienceBeginner]
	}

	days := profile.DaysPerWeek
	if days < 1 {
		days = defaultDaysPerWeek
	}
	if days > maxDaysPerWeek {
		days = maxDaysPerWeek
	}

	sets := 4
	if profile.Experience == domain.ExperienceBeginner || !ok {
		sets = 3
	}
	reps, rest := "8-12", "90 sec"
	if profile.Goal == domain.GoalStrength {
		reps, rest = "5", "3 min"
	}

	programDays := make([]domain.ProgramDay, 0, days)
	for i := 0; i < days; i++ {
		dt := dayTemplates[i%len(dayTemplates)]
		exercises := make([]domain.ProgramExercise, 0, len(dt.exercises))
		for _, name := range dt.exercises {
			exercises = append(exercises, domain.ProgramExercise{
				Name:      name,
				Sets:      sets,
				RepRange:  reps,
				Rest:      rest,
				Rationale: "Staple " + strings.ToLower(dt.name) + " movement",
			})
		}
		programDays = append(programDays, domain.ProgramDay{
			Name:         dt.name,
			MuscleGroups: append([]string(nil), dt.muscleGroups...),
			Exercises:    exercises,
		})
	}

	var focus []string
	if f := strings.TrimSpace(profile.Focus); f != "" {
		focus = []string{f}
	}

	goal := string(profile.Goal)
	if goal == "" {
		goal = string(domain.GoalGeneral)
	}

	return &domain.Program{
		Name:              tmpl.name,
		DurationWeeks:     tmpl.durationWeeks,
		DaysPerWeek:       days,
		Goal:              goal,
		Focus:             focus,
		ProgressionScheme: tmpl.progression,
		RecoveryNotes:     recoveryNotes(profile),
		Days:              programDays,
		Source:            domain.SourceFallback,
	}
}

func recoveryNotes(profile domain.Profile) string {
	switch {
	case profile.SleepQuality == "poor":
		return poorSleepNotes
	case profile.StressLevel == "high":
		return highStressNotes
	default:
		return generalNotes
	}
}
