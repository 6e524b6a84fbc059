package feed

import (
	"sort"
	"strings"

	"openwall/internal/models"
)

// Number of entries the trending and suggestion views surface.
const (
	TopTopicsLimit      = 6
	SuggestedUsersLimit = 3
)

// TopicStat aggregates one hashtag over the post collection.
type TopicStat struct {
	Topic      string
	TotalLikes int
	PostCount  int
}

// UserStat aggregates one author over the post collection.
type UserStat struct {
	UserID     string
	Name       string
	Username   string
	AvatarURL  string
	TotalLikes int
	PostCount  int
}

// TopicStats scans every post once and returns per-tag aggregates ordered by
// total likes, then post count, both descending. Ties beyond that break on
// the tag itself so the order is deterministic.
func TopicStats(posts []models.Post) []TopicStat {
	byTag := make(map[string]*TopicStat)
	for _, p := range posts {
		for _, raw := range p.Tags {
			tag := strings.ToLower(raw)
			s, ok := byTag[tag]
			if !ok {
				s = &TopicStat{Topic: tag}
				byTag[tag] = s
			}
			s.PostCount++
			s.TotalLikes += p.Likes
		}
	}

	out := make([]TopicStat, 0, len(byTag))
	for _, s := range byTag {
		out = append(out, *s)
	}
	sortAggregates(out, func(s TopicStat) (int, int, string) {
		return s.TotalLikes, s.PostCount, s.Topic
	})
	return out
}

// TopTopics returns the highest-ranked topics, at most TopTopicsLimit.
func TopTopics(posts []models.Post) []TopicStat {
	stats := TopicStats(posts)
	if len(stats) > TopTopicsLimit {
		stats = stats[:TopTopicsLimit]
	}
	return stats
}

// UserLikeStats aggregates received likes per author, joined against the
// user collection for display fields. Authors missing from the user
// collection still rank, under placeholder display fields.
func UserLikeStats(posts []models.Post, users []models.User) []UserStat {
	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	byAuthor := make(map[string]*UserStat)
	for _, p := range posts {
		if p.UserID == "" {
			continue
		}
		s, ok := byAuthor[p.UserID]
		if !ok {
			s = &UserStat{UserID: p.UserID, Name: "Unknown", Username: "user"}
			if u, found := byID[p.UserID]; found {
				s.Name = u.Name
				s.Username = u.Username
				s.AvatarURL = u.AvatarDataURL
			}
			byAuthor[p.UserID] = s
		}
		s.PostCount++
		s.TotalLikes += p.Likes
	}

	out := make([]UserStat, 0, len(byAuthor))
	for _, s := range byAuthor {
		out = append(out, *s)
	}
	sortAggregates(out, func(s UserStat) (int, int, string) {
		return s.TotalLikes, s.PostCount, s.UserID
	})
	return out
}

// SuggestedUsers returns the top-ranked authors excluding the viewer, at
// most SuggestedUsersLimit. An empty viewer id excludes nobody.
func SuggestedUsers(posts []models.Post, users []models.User, viewerID string) []UserStat {
	stats := UserLikeStats(posts, users)
	out := stats[:0]
	for _, s := range stats {
		if viewerID != "" && s.UserID == viewerID {
			continue
		}
		out = append(out, s)
		if len(out) == SuggestedUsersLimit {
			break
		}
	}
	return out
}

// UserStats totals one author's posts and received likes.
func UserStats(posts []models.Post, userID string) (postCount, totalLikes int) {
	for _, p := range posts {
		if p.UserID == userID {
			postCount++
			totalLikes += p.Likes
		}
	}
	return postCount, totalLikes
}

// UserTopics aggregates hashtags over a single author's posts, ranked the
// same way as the global topic view.
func UserTopics(posts []models.Post, userID string) []TopicStat {
	own := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if p.UserID == userID {
			own = append(own, p)
		}
	}
	return TopicStats(own)
}

func sortAggregates[T any](items []T, key func(T) (likes, count int, tiebreak string)) {
	sort.SliceStable(items, func(i, j int) bool {
		li, ci, ti := key(items[i])
		lj, cj, tj := key(items[j])
		if li != lj {
			return li > lj
		}
		if ci != cj {
			return ci > cj
		}
		return ti < tj
	})
}
