package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReadinessSnapshot captures readiness at the time a session was logged.
type ReadinessSnapshot struct {
	Score int  `bson:"score" json:"score"`
	Zone  Zone `bson:"zone" json:"zone"`
}

// SetEntry is one logged set. Only Weight, Reps and RPE may be corrected after the fact.
type SetEntry struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	ExerciseName string             `bson:"exerciseName" json:"exerciseName"`
	SetIndex     int                `bson:"setIndex" json:"setIndex"`
	Weight       float64            `bson:"weight" json:"weight"`
	Reps         int                `bson:"reps" json:"reps"`
	RPE          *float64           `bson:"rpe,omitempty" json:"rpe,omitempty"`
	IsPR         bool               `bson:"isPr" json:"isPr"`
}

// WorkoutSession is one completed workout. Sets are embedded so the session and its
// sets are written in a single document insert.
type WorkoutSession struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID  `bson:"userId" json:"userId"`
	ProgramID      *primitive.ObjectID `bson:"programId,omitempty" json:"programId,omitempty"`
	ProgramDayName string              `bson:"programDayName,omitempty" json:"programDayName,omitempty"`
	Week           int                 `bson:"week" json:"week"`
	Day            int                 `bson:"day" json:"day"` // 0-indexed within the week
	CompletedAt    time.Time           `bson:"completedAt" json:"completedAt"`
	Volume         float64             `bson:"volume" json:"volume"` // sum of weight x reps
	Rating         *int                `bson:"rating,omitempty" json:"rating,omitempty"`
	Notes          string              `bson:"notes,omitempty" json:"notes,omitempty"`
	Readiness      *ReadinessSnapshot  `bson:"readiness,omitempty" json:"readiness,omitempty"`
	Sets           []SetEntry          `bson:"sets" json:"sets"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// ComputeVolume sums weight x reps across all sets.
func ComputeVolume(sets []SetEntry) float64 {
	var volume float64
	for _, s := range sets {
		volume += s.Weight * float64(s.Reps)
	}
	return volume
}
