// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a stored account. Password and RefreshToken never leave the
// server: both are excluded from JSON.
type User struct {
	ID           string    `json:"_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullName"`
	Avatar       string    `json:"avatar"`
	CoverImage   string    `json:"coverImage"`
	Password     string    `json:"-"`
	RefreshToken string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Sanitized returns a copy of u without secrets.
func (u User) Sanitized() User {
	u.Password = ""
	u.RefreshToken = ""
	return u
}
