package models

import "time"

// DateLayout is the calendar-day format used by the diary.
const DateLayout = "2006-01-02"

// Workout is a single diary entry owned by exactly one user.
type Workout struct {
	ID          string    `json:"id" bson:"_id"`
	UserID      string    `json:"userId" bson:"userId"` // Owner back-reference
	Category    string    `json:"category" bson:"category"`
	WorkoutName string    `json:"workoutName" bson:"workoutName"`
	Sets        int       `json:"sets" bson:"sets"`
	Reps        int       `json:"reps" bson:"reps"`
	Weight      float64   `json:"weight" bson:"weight"` // kg
	Date        time.Time `json:"date" bson:"date"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}

// Day returns the UTC calendar day of the workout as YYYY-MM-DD.
func (w Workout) Day() string {
	return w.Date.UTC().Format(DateLayout)
}

// OwnedWorkout pairs a workout with its owner's email for trainer listings.
type OwnedWorkout struct {
	Workout
	OwnerEmail string `json:"ownerEmail"`
}
