package models

import "encoding/json"

// WorkoutCategory is static catalog data: a muscle group and its exercises.
type WorkoutCategory struct {
	Category    string   `json:"category" bson:"category"`
	Description string   `json:"description,omitempty" bson:"description,omitempty"`
	Exercises   []string `json:"exercises" bson:"exercises"`

	// JSON string field for SQL storage
	ExercisesJSON string `json:"-" bson:"-"`
}

// PrepareForSave marshals Exercises into ExercisesJSON for SQL storage.
func (c *WorkoutCategory) PrepareForSave() {
	exercisesBytes, _ := json.Marshal(c.Exercises)
	c.ExercisesJSON = string(exercisesBytes)
}

// PrepareForAPI unmarshals ExercisesJSON back into Exercises.
func (c *WorkoutCategory) PrepareForAPI() {
	if c.ExercisesJSON != "" {
		json.Unmarshal([]byte(c.ExercisesJSON), &c.Exercises)
	}
	if c.Exercises == nil {
		c.Exercises = []string{}
	}
}
