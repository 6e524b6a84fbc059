package localstore

import (
	"context"
	"sync"
	"testing"

	"openwall/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	s := NewStore(nil)
	s.ReplaceUsers(ctx, []models.User{
		{ID: "u1", Name: "Alice", Username: "alice"},
		{ID: "u2", Name: "Bob", Username: "bob"},
	})
	s.ReplacePosts(ctx, []models.Post{
		{ID: "p1", UserID: "u1", Body: "first", CreatedAt: 100, Likes: 0},
		{ID: "p2", UserID: "u2", Body: "second", CreatedAt: 200, Likes: 3},
	})
	return s
}

func TestToggleLikeRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t)

	liked, likes, ok := s.ToggleLike(ctx, "u2", "p1")
	require.True(t, ok)
	assert.True(t, liked)
	assert.Equal(t, 1, likes)
	assert.True(t, s.HasUserLikedPost("u2", "p1"))

	liked, likes, ok = s.ToggleLike(ctx, "u2", "p1")
	require.True(t, ok)
	assert.False(t, liked)
	assert.Equal(t, 0, likes)
	assert.False(t, s.HasUserLikedPost("u2", "p1"))
}

func TestToggleLikeUnknownPost(t *testing.T) {
	s := seedStore(t)

	_, _, ok := s.ToggleLike(context.Background(), "u1", "missing")
	assert.False(t, ok)
	assert.Empty(t, s.LikedPostIDs("u1"))
}

func TestToggleLikeClampsAtZero(t *testing.T) {
	ctx := context.Background()
	s := NewStore(nil)
	// remote count already zero even though this user's set says liked
	s.ReplacePosts(ctx, []models.Post{{ID: "p1", UserID: "u1", Likes: 0}})
	s.ReplaceLikes(ctx, map[string][]string{"u9": {"p1"}})

	_, likes, ok := s.ToggleLike(ctx, "u9", "p1")
	require.True(t, ok)
	assert.Equal(t, 0, likes)
}

func TestToggleLikeConcurrentPairsBalance(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t)

	// every goroutine toggles twice, so counts and sets must end unchanged
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.ToggleLike(ctx, "u2", "p1")
			s.ToggleLike(ctx, "u2", "p1")
		}()
	}
	wg.Wait()

	p, ok := s.PostByID("p1")
	require.True(t, ok)
	assert.Equal(t, 0, p.Likes)
	assert.False(t, s.HasUserLikedPost("u2", "p1"))
}

func TestToggleFollow(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t)

	assert.True(t, s.ToggleFollow(ctx, "u1", "u2"))
	assert.True(t, s.IsFollowing("u1", "u2"))
	assert.Equal(t, []string{"u2"}, s.FollowingIDs("u1"))
	assert.Equal(t, []string{"u1"}, s.FollowerIDs("u2"))

	assert.False(t, s.ToggleFollow(ctx, "u1", "u2"))
	assert.False(t, s.IsFollowing("u1", "u2"))
}

func TestToggleFollowSelfIsNoOp(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t)

	assert.False(t, s.ToggleFollow(ctx, "u1", "u1"))
	assert.Empty(t, s.FollowingIDs("u1"))
}

func TestFollowingSet(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t)
	s.ToggleFollow(ctx, "u1", "u2")

	set := s.FollowingSet("u1")
	assert.True(t, set["u2"])
	assert.False(t, set["u1"])
}

func TestDeletePostCascade(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t)
	s.AppendComment(ctx, models.Comment{ID: "c1", PostID: "p1", CreatedAt: 1})
	s.AppendComment(ctx, models.Comment{ID: "c2", PostID: "p1", CreatedAt: 2})
	s.AppendComment(ctx, models.Comment{ID: "c3", PostID: "p2", CreatedAt: 3})
	s.ToggleLike(ctx, "u2", "p1")
	s.ToggleLike(ctx, "u2", "p2")

	removed, ok := s.DeletePostCascade(ctx, "p1")
	require.True(t, ok)
	assert.Len(t, removed, 2)

	_, ok = s.PostByID("p1")
	assert.False(t, ok)
	assert.Empty(t, s.CommentsForPost("p1"))
	assert.Len(t, s.CommentsForPost("p2"), 1)

	// like purge touches only the deleted post
	assert.False(t, s.HasUserLikedPost("u2", "p1"))
	assert.True(t, s.HasUserLikedPost("u2", "p2"))
}

func TestDeletePostCascadeMissing(t *testing.T) {
	s := seedStore(t)

	_, ok := s.DeletePostCascade(context.Background(), "nope")
	assert.False(t, ok)
	assert.Len(t, s.Posts(), 2)
}

func TestCommentsSortedOldestFirst(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t)
	s.AppendComment(ctx, models.Comment{ID: "c2", PostID: "p1", CreatedAt: 200})
	s.AppendComment(ctx, models.Comment{ID: "c1", PostID: "p1", CreatedAt: 100})

	comments := s.CommentsForPost("p1")
	require.Len(t, comments, 2)
	assert.Equal(t, "c1", comments[0].ID)
	assert.Equal(t, "c2", comments[1].ID)
}

func TestRemoveComment(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t)
	s.AppendComment(ctx, models.Comment{ID: "c1", PostID: "p1"})

	assert.True(t, s.RemoveComment(ctx, "p1", "c1"))
	assert.False(t, s.RemoveComment(ctx, "p1", "c1"))
	assert.Empty(t, s.CommentsForPost("p1"))
}

func TestUpdateUserProfileMergeAndFanOut(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t)
	s.SetCurrentUser(ctx, models.User{ID: "u1", Name: "Alice", Username: "alice"})

	name := "Alicia"
	username := ""
	bio := ""
	loc := "Berlin"
	user, ok := s.UpdateUserProfile(ctx, "u1", models.ProfileUpdate{
		Name:     &name,
		Username: &username,
		Bio:      &bio,
		Location: &loc,
	})
	require.True(t, ok)

	assert.Equal(t, "Alicia", user.Name)
	assert.Equal(t, "alice", user.Username) // blank keeps previous
	assert.Empty(t, user.Bio)
	assert.Equal(t, "Berlin", user.Location)

	// session user follows
	current, ok := s.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "Alicia", current.Name)

	// denormalized author fields updated only on this author's posts
	p1, _ := s.PostByID("p1")
	assert.Equal(t, "Alicia", p1.AuthorName)
	p2, _ := s.PostByID("p2")
	assert.Equal(t, "", p2.AuthorName)
}

func TestUpdateUserProfileUnknownUser(t *testing.T) {
	s := seedStore(t)

	_, ok := s.UpdateUserProfile(context.Background(), "ghost", models.ProfileUpdate{})
	assert.False(t, ok)
}

func TestSessionUser(t *testing.T) {
	ctx := context.Background()
	s := NewStore(nil)

	_, ok := s.CurrentUser()
	assert.False(t, ok)

	s.SetCurrentUser(ctx, models.User{ID: "u1"})
	current, ok := s.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "u1", current.ID)

	s.ClearCurrentUser(ctx)
	_, ok = s.CurrentUser()
	assert.False(t, ok)
}

func TestPostsReturnsCopy(t *testing.T) {
	s := seedStore(t)

	posts := s.Posts()
	posts[0].Body = "mutated"

	fresh := s.Posts()
	assert.NotEqual(t, "mutated", fresh[0].Body)
}

func TestReplaceLikesDeduplicates(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t)

	s.ReplaceLikes(ctx, map[string][]string{"u1": {"p1", "p1", "p2"}})
	assert.Equal(t, []string{"p1", "p2"}, s.LikedPostIDs("u1"))
}

func TestRestoreFromPersister(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	p, err := NewFilePersister(dir + "/snapshot.json")
	require.NoError(t, err)

	first := NewStore(p)
	first.ReplaceUsers(ctx, []models.User{{ID: "u1", Name: "Alice"}})
	first.ReplacePosts(ctx, []models.Post{{ID: "p1", UserID: "u1", Body: "saved"}})
	first.ToggleLike(ctx, "u1", "p1")

	second := NewStore(p)
	second.Restore(ctx)

	u, ok := second.UserByID("u1")
	require.True(t, ok)
	assert.Equal(t, "Alice", u.Name)
	post, ok := second.PostByID("p1")
	require.True(t, ok)
	assert.Equal(t, 1, post.Likes)
	assert.True(t, second.HasUserLikedPost("u1", "p1"))
}

func TestRestoreWithoutPersisterStartsEmpty(t *testing.T) {
	s := NewStore(nil)
	s.Restore(context.Background())
	assert.Empty(t, s.Posts())
}
