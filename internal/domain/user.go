package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExperienceLevel describes how long the user has been training.
type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
)

// Goal is the primary training goal picked during onboarding.
type Goal string

const (
	GoalStrength    Goal = "strength"
	GoalHypertrophy Goal = "hypertrophy"
	GoalGeneral     Goal = "general"
	GoalFatLoss     Goal = "fat_loss"
)

// Profile holds the onboarding answers used to build a program.
type Profile struct {
	Experience   ExperienceLevel `bson:"experience" json:"experience"`
	Goal         Goal            `bson:"goal" json:"goal"`
	DaysPerWeek  int             `bson:"daysPerWeek" json:"daysPerWeek"` // 1-7
	Focus        string          `bson:"focus,omitempty" json:"focus,omitempty"` // e.g. "glutes", "upper body"
	SleepQuality string          `bson:"sleepQuality,omitempty" json:"sleepQuality,omitempty"` // poor, fair, good
	StressLevel  string          `bson:"stressLevel,omitempty" json:"stressLevel,omitempty"` // low, moderate, high
	OnboardedAt  *time.Time      `bson:"onboardedAt,omitempty" json:"onboardedAt,omitempty"`
}

// User represents an athlete using the app.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`

	// Nil until the user finishes onboarding.
	Profile *Profile `bson:"profile,omitempty" json:"profile,omitempty"`
}

// IsOnboarded reports whether the user has submitted an onboarding profile.
func (u *User) IsOnboarded() bool {
	return u.Profile != nil && u.Profile.OnboardedAt != nil
}
