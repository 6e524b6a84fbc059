// Package models contains data structures for the application's domain models.
package models

import (
	"regexp"
	"strings"
)

// Post visibility values. Only presentation distinguishes them; the engine
// carries the field through unchanged.
const (
	VisibilityPublic  = "Public"
	VisibilityFriends = "Friends"
)

// Post represents a post on the wall. AuthorName and AuthorUsername are
// denormalized copies of the author's display fields taken at creation time;
// a profile edit fans the new values out over the post collection.
type Post struct {
	ID               string   `json:"id"`
	UserID           string   `json:"user_id"`
	AuthorName       string   `json:"name"`
	AuthorUsername   string   `json:"username"`
	Body             string   `json:"body"`
	CreatedAt        int64    `json:"created_at"`
	Visibility       string   `json:"visibility"`
	Likes            int      `json:"likes"`
	Tags             []string `json:"tags"`
	ImageDataURL     string   `json:"image_data_url,omitempty"`
	SharedFromPostID string   `json:"shared_from_post_id,omitempty"`
	SharedFromUserID string   `json:"shared_from_user_id,omitempty"`
}

var tagPattern = regexp.MustCompile(`#(\w+)`)

// ExtractTags scans body text for #word tokens and returns them case-folded,
// deduplicated, in order of first appearance.
func ExtractTags(body string) []string {
	if body == "" {
		return nil
	}
	var tags []string
	seen := make(map[string]bool)
	for _, m := range tagPattern.FindAllStringSubmatch(body, -1) {
		tag := strings.ToLower(m[1])
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return tags
}

// HasTag reports whether the post carries the given tag, case-insensitively.
func (p *Post) HasTag(tag string) bool {
	tag = strings.ToLower(tag)
	for _, t := range p.Tags {
		if strings.ToLower(t) == tag {
			return true
		}
	}
	return false
}
