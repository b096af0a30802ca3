package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecordType identifies what a personal record measures.
type RecordType string

// RecordEstimatedOneRepMax is currently the only tracked record type.
const RecordEstimatedOneRepMax RecordType = "e1rm"

// PersonalRecord is an append-only history entry. A new entry is only written when it
// strictly beats the current max for (user, exercise); readers always take the max.
type PersonalRecord struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	ExerciseName string             `bson:"exerciseName" json:"exerciseName"`
	RecordType   RecordType         `bson:"recordType" json:"recordType"`
	Value        float64            `bson:"value" json:"value"`
	SessionID    primitive.ObjectID `bson:"sessionId" json:"sessionId"`
	AchievedAt   time.Time          `bson:"achievedAt" json:"achievedAt"`
}

// EstimateOneRepMax uses the Epley formula. A single rep is the weight itself.
func EstimateOneRepMax(weight float64, reps int) float64 {
	if weight <= 0 || reps <= 0 {
		return 0
	}
	if reps == 1 {
		return weight
	}
	return weight * (1 + float64(reps)/30)
}
