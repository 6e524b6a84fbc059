package seed

import (
	"context"
	"testing"
	"time"

	"openwall/internal/localstore"
	"openwall/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoPosts(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	posts := DemoPosts(now)
	require.Len(t, posts, 3)

	assert.Equal(t, "1699999999997", posts[0].ID)
	assert.Equal(t, now.UnixMilli()-2*60*1000, posts[0].CreatedAt)
	assert.Equal(t, 1, posts[0].Likes)
	assert.Equal(t, []string{"projects"}, posts[0].Tags)

	assert.Equal(t, models.VisibilityFriends, posts[2].Visibility)
	assert.Equal(t, "jordan", posts[2].AuthorUsername)

	// tags embedded in the body must match the precomputed tag list
	for _, p := range posts {
		assert.Equal(t, p.Tags, models.ExtractTags(p.Body))
	}
}

func TestDemoUsers(t *testing.T) {
	users := DemoUsers()
	require.Len(t, users, 3)
	assert.Equal(t, "michael@example.com", users[0].Email)
	assert.Equal(t, "Alex Smith", users[1].Name)
}

func TestApplyDemo(t *testing.T) {
	ctx := context.Background()
	store := localstore.NewStore(nil)

	ApplyDemo(ctx, store, time.Now())

	assert.Len(t, store.Users(), 3)
	assert.Len(t, store.Posts(), 3)
	user, ok := store.UserByID("2")
	require.True(t, ok)
	assert.Equal(t, "alex", user.Username)
}

func TestFactoryIsReproducible(t *testing.T) {
	a := NewFactory(42)
	b := NewFactory(42)

	ua := a.BuildUser()
	ub := b.BuildUser()
	assert.Equal(t, ua.Name, ub.Name)
	assert.Equal(t, ua.Email, ub.Email)
}

func TestFactoryBuildPost(t *testing.T) {
	f := NewFactory(7)
	author := f.BuildUser()
	post := f.BuildPost(author)

	assert.Equal(t, author.ID, post.UserID)
	assert.Equal(t, author.Name, post.AuthorName)
	assert.NotEmpty(t, post.Tags)
	assert.Equal(t, post.Tags, models.ExtractTags(post.Body))
}
