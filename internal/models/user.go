package models

import "github.com/julianstephens/neurogrowth/internal/constants"

// User is an authenticated student or admin account
type User struct {
	ID         int            `json:"id"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Role       constants.Role `json:"role"`
	CareerGoal string         `json:"career_goal,omitempty"`
	TargetGPA  *float64       `json:"target_gpa,omitempty"`
}

// IsAdmin reports whether the user should be routed to the admin views
func (u User) IsAdmin() bool {
	return u.Role == constants.RoleAdmin
}

// FirstName returns the first word of the user's name
func (u User) FirstName() string {
	for i, r := range u.Name {
		if r == ' ' {
			return u.Name[:i]
		}
	}
	return u.Name
}
