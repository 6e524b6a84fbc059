package service

import (
	"context"
	"testing"
	"time"

	"openwall/internal/localstore"
	"openwall/internal/models"
	"openwall/internal/remote"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCommentFixture(t *testing.T) (*localstore.Store, *remote.Store, *RemoteWriter, *CommentService) {
	t.Helper()
	store := localstore.NewStore(nil)
	rs := remote.NewMemoryStore()
	writer := NewRemoteWriter(16)
	t.Cleanup(writer.Close)

	clock := time.UnixMilli(1_700_000_000_000)
	ids := models.NewIDGenerator(func() time.Time { return clock })

	ctx := context.Background()
	store.ReplaceUsers(ctx, []models.User{
		{ID: "author", Name: "Post Author", Username: "author"},
		{ID: "reader", Name: "Reader", Username: "reader"},
		{ID: "bystander", Name: "Bystander", Username: "bystander"},
	})
	store.ReplacePosts(ctx, []models.Post{
		{ID: "p1", UserID: "author", Body: "commented on", CreatedAt: 1},
	})

	return store, rs, writer, NewCommentService(store, rs, writer, ids)
}

func TestAddComment(t *testing.T) {
	ctx := context.Background()
	store, rs, writer, svc := newCommentFixture(t)

	comment, err := svc.AddComment(ctx, AddCommentInput{
		UserID: "reader", PostID: "p1", Body: "nice post",
	})
	require.NoError(t, err)

	assert.Equal(t, "p1", comment.PostID)
	assert.Equal(t, "Reader", comment.AuthorName)

	comments := store.CommentsForPost("p1")
	require.Len(t, comments, 1)
	assert.Equal(t, "nice post", comments[0].Body)

	writer.Flush()
	rec, err := rs.Comments.Get(ctx, comment.ID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "nice post", rec.Body)
}

func TestAddCommentValidation(t *testing.T) {
	ctx := context.Background()
	_, _, _, svc := newCommentFixture(t)

	_, err := svc.AddComment(ctx, AddCommentInput{UserID: "reader", PostID: "p1", Body: "  "})
	assert.True(t, models.IsValidation(err))

	_, err = svc.AddComment(ctx, AddCommentInput{UserID: "reader", PostID: "missing", Body: "hi"})
	assert.True(t, models.IsNotFound(err))

	_, err = svc.AddComment(ctx, AddCommentInput{UserID: "ghost", PostID: "p1", Body: "hi"})
	assert.True(t, models.IsNotFound(err))
}

func TestCommentsOrderedOldestFirst(t *testing.T) {
	ctx := context.Background()
	store, _, _, svc := newCommentFixture(t)

	first, err := svc.AddComment(ctx, AddCommentInput{UserID: "reader", PostID: "p1", Body: "first"})
	require.NoError(t, err)
	second, err := svc.AddComment(ctx, AddCommentInput{UserID: "reader", PostID: "p1", Body: "second"})
	require.NoError(t, err)
	require.Less(t, first.CreatedAt, second.CreatedAt)

	comments := store.CommentsForPost("p1")
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Body)
	assert.Equal(t, "second", comments[1].Body)
}

func TestDeleteCommentByCommentAuthor(t *testing.T) {
	ctx := context.Background()
	store, rs, writer, svc := newCommentFixture(t)

	comment, err := svc.AddComment(ctx, AddCommentInput{UserID: "reader", PostID: "p1", Body: "mine"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteComment(ctx, DeleteCommentInput{
		UserID: "reader", PostID: "p1", CommentID: comment.ID,
	}))
	assert.Empty(t, store.CommentsForPost("p1"))

	writer.Flush()
	rec, err := rs.Comments.Get(ctx, comment.ID)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestDeleteCommentByPostAuthor(t *testing.T) {
	ctx := context.Background()
	store, _, _, svc := newCommentFixture(t)

	comment, err := svc.AddComment(ctx, AddCommentInput{UserID: "reader", PostID: "p1", Body: "on my post"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteComment(ctx, DeleteCommentInput{
		UserID: "author", PostID: "p1", CommentID: comment.ID,
	}))
	assert.Empty(t, store.CommentsForPost("p1"))
}

func TestDeleteCommentForbiddenForBystander(t *testing.T) {
	ctx := context.Background()
	store, _, _, svc := newCommentFixture(t)

	comment, err := svc.AddComment(ctx, AddCommentInput{UserID: "reader", PostID: "p1", Body: "stay"})
	require.NoError(t, err)

	err = svc.DeleteComment(ctx, DeleteCommentInput{
		UserID: "bystander", PostID: "p1", CommentID: comment.ID,
	})
	assert.True(t, models.IsPermission(err))
	assert.Len(t, store.CommentsForPost("p1"), 1)
}
