package models

import "time"

// Roles a user may hold. The empty role is a regular member.
const (
	RoleMember  = "member"
	RoleTrainer = "trainer"
)

// User represents a registered account and the ordered list of diary
// workouts it owns.
type User struct {
	ID           string    `json:"id" bson:"_id"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password"` // Never expose this to the client
	FirstName    string    `json:"firstname" bson:"firstname"`
	LastName     string    `json:"lastname" bson:"lastname"`
	Role         string    `json:"role,omitempty" bson:"role,omitempty"`
	WorkoutIDs   []string  `json:"workouts" bson:"workouts"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// FullName joins first and last name for display.
func (u User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// HasRole reports whether the user holds role. An empty role counts as member.
func (u User) HasRole(role string) bool {
	if u.Role == "" {
		return role == RoleMember
	}
	return u.Role == role
}
