// Package models contains data structures for the application's domain models.
package models

// Comment represents a comment owned by exactly one post. Author display
// fields are denormalized the same way they are on Post.
type Comment struct {
	ID             string `json:"id"`
	PostID         string `json:"post_id"`
	UserID         string `json:"user_id"`
	AuthorName     string `json:"name"`
	AuthorUsername string `json:"username"`
	AvatarDataURL  string `json:"avatar_data_url,omitempty"`
	Body           string `json:"body"`
	ImageDataURL   string `json:"image_data_url,omitempty"`
	CreatedAt      int64  `json:"created_at"`
}
