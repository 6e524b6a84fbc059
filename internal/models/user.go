// Package models contains data structures for the application's domain models.
package models

// User represents an account in the OpenWall application. IDs are opaque
// strings; CreatedAt is milliseconds since epoch.
type User struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	Bio           string `json:"bio,omitempty"`
	Location      string `json:"location,omitempty"`
	Website       string `json:"website,omitempty"`
	AvatarDataURL string `json:"avatar_data_url,omitempty"`
	CreatedAt     int64  `json:"created_at"`
}

// ProfileUpdate carries the fields a profile edit may change. Nil pointers
// mean "leave untouched"; empty strings clear optional fields.
type ProfileUpdate struct {
	Name          *string
	Username      *string
	Bio           *string
	Location      *string
	Website       *string
	AvatarDataURL *string
}
