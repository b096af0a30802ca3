package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgramSource records who authored a program.
type ProgramSource string

const (
	SourceAI       ProgramSource = "ai"
	SourceFallback ProgramSource = "fallback"
)

// ProgramExercise is one prescribed exercise within a program day.
type ProgramExercise struct {
	Name      string `bson:"name" json:"name"`
	Sets      int    `bson:"sets" json:"sets"`
	RepRange  string `bson:"repRange" json:"repRange"` // e.g. "5" or "8-12"
	Rest      string `bson:"rest" json:"rest"`         // e.g. "90 sec"
	Rationale string `bson:"rationale,omitempty" json:"rationale,omitempty"`
}

// ProgramDay is one training day of the weekly template.
type ProgramDay struct {
	Name         string            `bson:"name" json:"name"`
	MuscleGroups []string          `bson:"muscleGroups" json:"muscleGroups"`
	Exercises    []ProgramExercise `bson:"exercises" json:"exercises"`
}

// Program is a user's personalized multi-week plan. Exactly one program per user is active.
type Program struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID            primitive.ObjectID `bson:"userId" json:"userId"`
	Name              string             `bson:"name" json:"name"`
	DurationWeeks     int                `bson:"durationWeeks" json:"durationWeeks"`
	DaysPerWeek       int                `bson:"daysPerWeek" json:"daysPerWeek"`
	Goal              string             `bson:"goal,omitempty" json:"goal,omitempty"`
	Focus             []string           `bson:"focus,omitempty" json:"focus,omitempty"`
	ProgressionScheme string             `bson:"progressionScheme,omitempty" json:"progressionScheme,omitempty"`
	RecoveryNotes     string             `bson:"recoveryNotes,omitempty" json:"recoveryNotes,omitempty"`
	Days              []ProgramDay       `bson:"days" json:"days"`
	Source            ProgramSource      `bson:"source" json:"source"`
	IsActive          bool               `bson:"isActive" json:"isActive"`
	LastDeloadAt      *time.Time         `bson:"lastDeloadAt,omitempty" json:"lastDeloadAt,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CurrentWeek returns the 1-indexed program week for the given time, capped at the
// program duration.
func (p *Program) CurrentWeek(now time.Time) int {
	if p == nil || p.CreatedAt.IsZero() {
		return 1
	}
	week := int(now.Sub(p.CreatedAt).Hours()/(24*7)) + 1
	if week < 1 {
		week = 1
	}
	if p.DurationWeeks > 0 && week > p.DurationWeeks {
		week = p.DurationWeeks
	}
	return week
}
