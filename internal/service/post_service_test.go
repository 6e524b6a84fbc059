package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"openwall/internal/localstore"
	"openwall/internal/models"
	"openwall/internal/remote"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store  *localstore.Store
	remote *remote.Store
	writer *RemoteWriter
	posts  *PostService
}

func newPostFixture(t *testing.T) *fixture {
	t.Helper()
	store := localstore.NewStore(nil)
	rs := remote.NewMemoryStore()
	writer := NewRemoteWriter(16)
	t.Cleanup(writer.Close)

	clock := time.UnixMilli(1_700_000_000_000)
	ids := models.NewIDGenerator(func() time.Time { return clock })

	store.ReplaceUsers(context.Background(), []models.User{
		{ID: "u1", Name: "Alice", Username: "alice"},
		{ID: "u2", Name: "Bob", Username: "bob"},
	})

	return &fixture{
		store:  store,
		remote: rs,
		writer: writer,
		posts:  NewPostService(store, rs, writer, ids),
	}
}

func TestCreatePost(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture(t)

	post, err := f.posts.CreatePost(ctx, CreatePostInput{
		AuthorID: "u1",
		Body:     "Hello wall! #intro #Intro #golang",
	})
	require.NoError(t, err)

	assert.Equal(t, "u1", post.UserID)
	assert.Equal(t, "Alice", post.AuthorName)
	assert.Equal(t, "alice", post.AuthorUsername)
	assert.Equal(t, models.VisibilityPublic, post.Visibility)
	assert.Equal(t, []string{"intro", "golang"}, post.Tags)
	assert.Zero(t, post.Likes)

	// locally visible before the remote write lands
	cached, ok := f.store.PostByID(post.ID)
	require.True(t, ok)
	assert.Equal(t, post.Body, cached.Body)

	f.writer.Flush()
	rec, err := f.remote.Posts.Get(ctx, post.ID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, post.Body, rec.Body)
}

func TestCreatePostRequiresBodyOrImage(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture(t)

	_, err := f.posts.CreatePost(ctx, CreatePostInput{AuthorID: "u1", Body: "   "})
	assert.True(t, models.IsValidation(err))

	// an image alone is enough
	post, err := f.posts.CreatePost(ctx, CreatePostInput{
		AuthorID:     "u1",
		ImageDataURL: "data:image/jpeg;base64,AAAA",
	})
	require.NoError(t, err)
	assert.Empty(t, post.Body)
	assert.Empty(t, post.Tags)
}

func TestCreatePostUnknownAuthor(t *testing.T) {
	f := newPostFixture(t)

	_, err := f.posts.CreatePost(context.Background(), CreatePostInput{
		AuthorID: "ghost", Body: "hi",
	})
	assert.True(t, models.IsNotFound(err))
}

func TestCreatePostIDsAreMonotonic(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture(t)

	a, err := f.posts.CreatePost(ctx, CreatePostInput{AuthorID: "u1", Body: "one"})
	require.NoError(t, err)
	b, err := f.posts.CreatePost(ctx, CreatePostInput{AuthorID: "u1", Body: "two"})
	require.NoError(t, err)

	assert.Less(t, a.ID, b.ID)
	assert.Less(t, a.CreatedAt, b.CreatedAt)
}

func TestDeletePostOnlyAuthor(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture(t)

	post, err := f.posts.CreatePost(ctx, CreatePostInput{AuthorID: "u1", Body: "mine"})
	require.NoError(t, err)

	err = f.posts.DeletePost(ctx, DeletePostInput{UserID: "u2", PostID: post.ID})
	assert.True(t, models.IsPermission(err))

	_, ok := f.store.PostByID(post.ID)
	assert.True(t, ok)
}

func TestDeletePostCascades(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture(t)

	post, err := f.posts.CreatePost(ctx, CreatePostInput{AuthorID: "u1", Body: "doomed"})
	require.NoError(t, err)

	f.store.AppendComment(ctx, models.Comment{ID: "c1", PostID: post.ID, UserID: "u2", Body: "rip"})
	require.NoError(t, f.remote.Comments.Put(ctx, remote.CommentRecord{ID: "c1", PostID: post.ID}))

	_, _, ok := f.store.ToggleLike(ctx, "u2", post.ID)
	require.True(t, ok)

	require.NoError(t, f.posts.DeletePost(ctx, DeletePostInput{UserID: "u1", PostID: post.ID}))

	_, ok = f.store.PostByID(post.ID)
	assert.False(t, ok)
	assert.Empty(t, f.store.CommentsForPost(post.ID))
	assert.False(t, f.store.HasUserLikedPost("u2", post.ID))

	f.writer.Flush()
	rec, err := f.remote.Posts.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Nil(t, rec)
	crec, err := f.remote.Comments.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, crec)
}

func TestToggleLike(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture(t)

	post, err := f.posts.CreatePost(ctx, CreatePostInput{AuthorID: "u1", Body: "like me"})
	require.NoError(t, err)

	res, err := f.posts.ToggleLike(ctx, "u2", post.ID)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, 1, res.Likes)

	res, err = f.posts.ToggleLike(ctx, "u2", post.ID)
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.Equal(t, 0, res.Likes)

	f.writer.Flush()
	rec, err := f.remote.Posts.Get(ctx, post.ID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 0, rec.Likes)
}

func TestToggleLikeUnknownPost(t *testing.T) {
	f := newPostFixture(t)

	_, err := f.posts.ToggleLike(context.Background(), "u1", "nope")
	assert.True(t, models.IsNotFound(err))
}

func TestSharePostWithComment(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture(t)

	original, err := f.posts.CreatePost(ctx, CreatePostInput{
		AuthorID:     "u1",
		Body:         "original thoughts #deep",
		ImageDataURL: "data:image/jpeg;base64,AAAA",
	})
	require.NoError(t, err)

	shared, err := f.posts.SharePost(ctx, SharePostInput{
		UserID:  "u2",
		PostID:  original.ID,
		Comment: "  worth reading  ",
	})
	require.NoError(t, err)

	assert.Equal(t, "worth reading\n\n🔁 Shared from @alice:\noriginal thoughts #deep", shared.Body)
	assert.Equal(t, "u2", shared.UserID)
	assert.Equal(t, models.VisibilityPublic, shared.Visibility)
	assert.Equal(t, original.ID, shared.SharedFromPostID)
	assert.Equal(t, "u1", shared.SharedFromUserID)
	assert.Equal(t, original.ImageDataURL, shared.ImageDataURL)
	assert.Contains(t, shared.Tags, "deep")
}

func TestSharePostWithoutComment(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture(t)

	original, err := f.posts.CreatePost(ctx, CreatePostInput{AuthorID: "u1", Body: "plain"})
	require.NoError(t, err)

	shared, err := f.posts.SharePost(ctx, SharePostInput{UserID: "u2", PostID: original.ID})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(shared.Body, "🔁 Shared from @alice:\n"))
}

func TestSharePostUnknownOriginal(t *testing.T) {
	f := newPostFixture(t)

	_, err := f.posts.SharePost(context.Background(), SharePostInput{UserID: "u1", PostID: "gone"})
	assert.True(t, models.IsNotFound(err))
}
