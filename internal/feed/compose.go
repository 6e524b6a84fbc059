// Package feed derives read views from the cached collections. Everything
// here is a pure function over its inputs; no filter state lives in the
// package. Views are recomputed from scratch on every call, so cost grows
// with the post collection (times tags per post for the aggregates). That
// is fine at cache scale but not meant for server-side fan-in.
package feed

import (
	"sort"
	"strings"

	"openwall/internal/models"
)

// Mode selects which accounts' posts compose the feed.
type Mode string

const (
	// ModeAll shows every cached post.
	ModeAll Mode = "all"
	// ModeFollowing shows posts from followed accounts plus the viewer's
	// own posts.
	ModeFollowing Mode = "following"
)

// Filter carries every parameter the composition depends on. Callers pass
// the whole thing explicitly; the pipeline reads no ambient state.
type Filter struct {
	Topic     string
	Query     string
	Mode      Mode
	ViewerID  string
	Following map[string]bool
}

// Compose builds the feed: newest first, then topic, mode, and query
// filters in that order. Filters only ever drop posts, never reorder them.
// Posts created in the same millisecond tie-break on id, so the order is
// stable across recompositions.
func Compose(posts []models.Post, f Filter) []models.Post {
	out := make([]models.Post, len(posts))
	copy(out, posts)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})

	if f.Topic != "" {
		out = filterPosts(out, func(p models.Post) bool {
			return p.HasTag(f.Topic)
		})
	}

	// An anonymous viewer always sees the full feed.
	if f.Mode == ModeFollowing && f.ViewerID != "" {
		out = filterPosts(out, func(p models.Post) bool {
			if p.UserID == f.ViewerID {
				return true
			}
			return f.Following[p.UserID]
		})
	}

	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		out = filterPosts(out, func(p models.Post) bool {
			if strings.Contains(strings.ToLower(p.Body), q) {
				return true
			}
			for _, tag := range p.Tags {
				if strings.Contains(strings.ToLower(tag), q) {
					return true
				}
			}
			return false
		})
	}

	return out
}

func filterPosts(posts []models.Post, keep func(models.Post) bool) []models.Post {
	out := posts[:0]
	for _, p := range posts {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
