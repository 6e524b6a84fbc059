// Package seed provides demo and test data for the engine. The demo fixtures
// live only in the local cache; Seed writes them to the remote store for
// development environments that want shared data.
package seed

import (
	"context"
	"fmt"
	"log"
	"time"

	"openwall/internal/localstore"
	"openwall/internal/models"
	"openwall/internal/remote"
)

// Options configuration for the seeder
type Options struct {
	ShouldClean bool
	// Now overrides the reference time; zero means time.Now.
	Now time.Time
}

// DemoUsers returns the three placeholder accounts shown before any real
// account exists.
func DemoUsers() []models.User {
	return []models.User{
		{ID: "1", Name: "Michael", Username: "michael", Email: "michael@example.com"},
		{ID: "2", Name: "Alex Smith", Username: "alex", Email: "alex@example.com"},
		{ID: "3", Name: "Jordan", Username: "jordan", Email: "jordan@example.com"},
	}
}

// DemoPosts returns the placeholder posts, timestamped relative to now so the
// feed always looks recent.
func DemoPosts(now time.Time) []models.Post {
	ms := now.UnixMilli()
	return []models.Post{
		{
			ID:             fmt.Sprintf("%d", ms-3),
			UserID:         "1",
			AuthorName:     "Michael",
			AuthorUsername: "michael",
			Body:           "First test of the new OpenWall feed ✅  Soon this page will show real posts from real accounts, always sorted with the latest at the top. #projects",
			CreatedAt:      ms - 2*60*1000,
			Visibility:     models.VisibilityPublic,
			Likes:          1,
			Tags:           []string{"projects"},
		},
		{
			ID:             fmt.Sprintf("%d", ms-2),
			UserID:         "2",
			AuthorName:     "Alex Smith",
			AuthorUsername: "alex",
			Body:           "Imagine using this feed like a micro-blog: quick updates, photos, or longer reflections. You can follow people you care about and keep everything in one simple stream. #dailyupdate",
			CreatedAt:      ms - 10*60*1000,
			Visibility:     models.VisibilityPublic,
			Likes:          0,
			Tags:           []string{"dailyupdate"},
		},
		{
			ID:             fmt.Sprintf("%d", ms-1),
			UserID:         "3",
			AuthorName:     "Jordan",
			AuthorUsername: "jordan",
			Body:           "Next steps: accounts, likes, comments, and the ability to filter your wall by people and tags. For now this layout shows how everything will look when wired to your backend. #randomthoughts",
			CreatedAt:      ms - 32*60*1000,
			Visibility:     models.VisibilityFriends,
			Likes:          0,
			Tags:           []string{"randomthoughts"},
		},
	}
}

// ApplyDemo fills a local store with the placeholder users and posts. It does
// not touch the remote store; demo data stays local until a real account
// writes something.
func ApplyDemo(ctx context.Context, store *localstore.Store, now time.Time) {
	store.ReplaceUsers(ctx, DemoUsers())
	store.ReplacePosts(ctx, DemoPosts(now))
}

// Seed writes the demo users and posts into the remote store so every client
// syncing against it sees the same data. Intended for development databases.
func Seed(ctx context.Context, rs *remote.Store, opts Options) error {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	if opts.ShouldClean {
		if err := clean(ctx, rs); err != nil {
			return fmt.Errorf("cleaning remote store: %w", err)
		}
	}

	users := DemoUsers()
	for _, u := range users {
		if err := rs.Users.Put(ctx, remote.UserRecordFromModel(u)); err != nil {
			return fmt.Errorf("seeding user %s: %w", u.ID, err)
		}
	}

	posts := DemoPosts(now)
	for _, p := range posts {
		if err := rs.Posts.Put(ctx, remote.PostRecordFromModel(p)); err != nil {
			return fmt.Errorf("seeding post %s: %w", p.ID, err)
		}
	}

	log.Printf("Seeded %d users and %d posts", len(users), len(posts))
	return nil
}

func clean(ctx context.Context, rs *remote.Store) error {
	posts, err := rs.Posts.ListAll(ctx)
	if err != nil {
		return err
	}
	for _, p := range posts {
		if err := rs.Posts.Delete(ctx, p.ID); err != nil {
			return err
		}
	}
	users, err := rs.Users.ListAll(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if err := rs.Users.Delete(ctx, u.ID); err != nil {
			return err
		}
	}
	return nil
}
