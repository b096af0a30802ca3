package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateLayout is the calendar-date format used as the health sample key.
const DateLayout = "2006-01-02"

// Zone is the coarse readiness bucket derived from the readiness score.
type Zone string

const (
	ZoneGreen  Zone = "green"
	ZoneYellow Zone = "yellow"
	ZoneRed    Zone = "red"
)

// HealthSample is a user's daily check-in. There is at most one per user per date;
// a second check-in for the same date overwrites the first.
type HealthSample struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"userId" json:"userId"`
	Date   string             `bson:"date" json:"date"` // YYYY-MM-DD

	Weight          *float64 `bson:"weight,omitempty" json:"weight,omitempty"`
	SleepHours      *float64 `bson:"sleepHours,omitempty" json:"sleepHours,omitempty"`
	SleepQuality    *int     `bson:"sleepQuality,omitempty" json:"sleepQuality,omitempty"` // 1-5
	RestingHR       *int     `bson:"restingHr,omitempty" json:"restingHr,omitempty"`
	HRV             *float64 `bson:"hrv,omitempty" json:"hrv,omitempty"` // ms
	Steps           *int     `bson:"steps,omitempty" json:"steps,omitempty"`
	Energy          *int     `bson:"energy,omitempty" json:"energy,omitempty"`     // 1-5
	Soreness        *int     `bson:"soreness,omitempty" json:"soreness,omitempty"` // 1-5
	Stress          *int     `bson:"stress,omitempty" json:"stress,omitempty"`     // 1-5
	Mood            *int     `bson:"mood,omitempty" json:"mood,omitempty"`         // 1-5
	WaterOz         *float64 `bson:"waterOz,omitempty" json:"waterOz,omitempty"`
	NutritionRating *int     `bson:"nutritionRating,omitempty" json:"nutritionRating,omitempty"` // 1-5
	ActiveCalories  *int     `bson:"activeCalories,omitempty" json:"activeCalories,omitempty"`
	Notes           string   `bson:"notes,omitempty" json:"notes,omitempty"`

	// Derived on every write, never accepted from the client.
	ReadinessScore int  `bson:"readinessScore" json:"readinessScore"`
	ReadinessZone  Zone `bson:"readinessZone" json:"readinessZone"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
