package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWorkoutDayIsUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	w := Workout{Date: time.Date(2024, 3, 2, 5, 0, 0, 0, loc)}
	assert.Equal(t, "2024-03-01", w.Day())
}

func TestUserHasRole(t *testing.T) {
	assert.True(t, User{}.HasRole(RoleMember))
	assert.False(t, User{}.HasRole(RoleTrainer))
	assert.True(t, User{Role: RoleTrainer}.HasRole(RoleTrainer))
	assert.False(t, User{Role: RoleTrainer}.HasRole(RoleMember))
}

func TestUserFullName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", User{FirstName: "Ada", LastName: "Lovelace"}.FullName())
	assert.Equal(t, "Ada", User{FirstName: "Ada"}.FullName())
}

func TestCategoryExercisesRoundTrip(t *testing.T) {
	c := WorkoutCategory{Category: "Chest", Exercises: []string{"Bench Press", "Chest Fly"}}
	c.PrepareForSave()
	assert.Equal(t, `["Bench Press","Chest Fly"]`, c.ExercisesJSON)

	loaded := WorkoutCategory{Category: "Chest", ExercisesJSON: c.ExercisesJSON}
	loaded.PrepareForAPI()
	assert.Equal(t, c.Exercises, loaded.Exercises)

	empty := WorkoutCategory{}
	empty.PrepareForAPI()
	assert.NotNil(t, empty.Exercises)
}
