package service

import (
	"context"
	"strings"
	"sync"

	"openwall/internal/localstore"
	"openwall/internal/models"
	"openwall/internal/observability"
	"openwall/internal/remote"
)

type PostService struct {
	store  *localstore.Store
	remote *remote.Store
	writer *RemoteWriter
	ids    *models.IDGenerator
	log    *observability.MutationLogger
}

type CreatePostInput struct {
	AuthorID     string
	Body         string
	ImageDataURL string
	Visibility   string
}

type DeletePostInput struct {
	UserID string
	PostID string
}

type SharePostInput struct {
	UserID  string
	PostID  string
	Comment string
}

// ToggleLikeResult reports the post's state after an atomic like toggle.
type ToggleLikeResult struct {
	Liked bool
	Likes int
}

func NewPostService(store *localstore.Store, rs *remote.Store, writer *RemoteWriter, ids *models.IDGenerator) *PostService {
	return &PostService{
		store:  store,
		remote: rs,
		writer: writer,
		ids:    ids,
		log:    observability.NewMutationLogger(),
	}
}

// CreatePost appends a new post to the cache and queues the remote write.
// Either body text or an image must be present.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	span, ctx := observability.TraceMutation(ctx, "create_post")
	defer span.End()

	body := strings.TrimSpace(in.Body)
	if body == "" && in.ImageDataURL == "" {
		err := models.NewValidationError("Post needs text or an image")
		s.reject(ctx, "create_post", err)
		return nil, err
	}

	author, ok := s.store.UserByID(in.AuthorID)
	if !ok {
		err := models.NewNotFoundError("User", in.AuthorID)
		s.reject(ctx, "create_post", err)
		return nil, err
	}

	visibility := in.Visibility
	if visibility == "" {
		visibility = models.VisibilityPublic
	}

	id, createdAt := s.ids.Next()
	post := models.Post{
		ID:             id,
		UserID:         author.ID,
		AuthorName:     author.Name,
		AuthorUsername: author.Username,
		Body:           body,
		CreatedAt:      createdAt,
		Visibility:     visibility,
		Likes:          0,
		Tags:           models.ExtractTags(body),
		ImageDataURL:   in.ImageDataURL,
	}

	s.store.AppendPost(ctx, post)
	s.applied(ctx, "create_post", map[string]interface{}{"post_id": post.ID, "user_id": author.ID})

	rec := remote.PostRecordFromModel(post)
	s.writer.Enqueue(ctx, "posts", "put", func(ctx context.Context) error {
		return s.remote.Posts.Put(ctx, rec)
	})

	return &post, nil
}

// DeletePost removes the post and everything hanging off it. Only the author
// may delete. The cascade is atomic locally; the remote post delete and the
// per-comment deletes run as independent best-effort writes.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	span, ctx := observability.TraceMutation(ctx, "delete_post")
	defer span.End()

	post, ok := s.store.PostByID(in.PostID)
	if !ok {
		err := models.NewNotFoundError("Post", in.PostID)
		s.reject(ctx, "delete_post", err)
		return err
	}
	if post.UserID != in.UserID {
		err := models.NewPermissionError("Only the author can delete this post")
		s.reject(ctx, "delete_post", err)
		return err
	}

	removedComments, ok := s.store.DeletePostCascade(ctx, in.PostID)
	if !ok {
		err := models.NewNotFoundError("Post", in.PostID)
		s.reject(ctx, "delete_post", err)
		return err
	}
	s.applied(ctx, "delete_post", map[string]interface{}{
		"post_id": in.PostID, "comments_removed": len(removedComments),
	})

	s.writer.Enqueue(ctx, "posts", "delete", func(ctx context.Context) error {
		return s.remote.Posts.Delete(ctx, in.PostID)
	})

	commentIDs := make([]string, 0, len(removedComments))
	for _, c := range removedComments {
		commentIDs = append(commentIDs, c.ID)
	}
	if len(commentIDs) > 0 {
		s.writer.Enqueue(ctx, "comments", "delete_cascade", func(ctx context.Context) error {
			return s.deleteCommentsConcurrently(ctx, commentIDs)
		})
	}

	return nil
}

// deleteCommentsConcurrently issues independent deletes and returns the
// first failure, if any. One failed delete does not stop the others.
func (s *PostService) deleteCommentsConcurrently(ctx context.Context, ids []string) error {
	var wg sync.WaitGroup
	errs := make(chan error, len(ids))
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if err := s.remote.Comments.Delete(ctx, id); err != nil {
				errs <- err
			}
		}(id)
	}
	wg.Wait()
	close(errs)
	return <-errs
}

// ToggleLike flips the user's membership in the post's liked set and adjusts
// the count, in one atomic cache operation. The remote store only carries
// the count; the per-user liked set is a local concern.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID string) (*ToggleLikeResult, error) {
	span, ctx := observability.TraceMutation(ctx, "toggle_like")
	defer span.End()

	liked, likes, ok := s.store.ToggleLike(ctx, userID, postID)
	if !ok {
		err := models.NewNotFoundError("Post", postID)
		s.reject(ctx, "toggle_like", err)
		return nil, err
	}
	s.applied(ctx, "toggle_like", map[string]interface{}{
		"post_id": postID, "user_id": userID, "liked": liked, "likes": likes,
	})

	s.writer.Enqueue(ctx, "posts", "update_likes", func(ctx context.Context) error {
		return s.remote.Posts.UpdateLikes(ctx, postID, likes)
	})

	return &ToggleLikeResult{Liked: liked, Likes: likes}, nil
}

// SharePost republishes an existing post under the sharer's account. The new
// body quotes the original with a handle attribution; an optional comment
// goes on top. Shares are always public and carry the original's image.
func (s *PostService) SharePost(ctx context.Context, in SharePostInput) (*models.Post, error) {
	span, ctx := observability.TraceMutation(ctx, "share_post")
	defer span.End()

	original, ok := s.store.PostByID(in.PostID)
	if !ok {
		err := models.NewNotFoundError("Post", in.PostID)
		s.reject(ctx, "share_post", err)
		return nil, err
	}
	sharer, ok := s.store.UserByID(in.UserID)
	if !ok {
		err := models.NewNotFoundError("User", in.UserID)
		s.reject(ctx, "share_post", err)
		return nil, err
	}

	handle := original.AuthorUsername
	if handle == "" {
		handle = "user"
	}
	body := "🔁 Shared from @" + handle + ":\n" + original.Body
	if comment := strings.TrimSpace(in.Comment); comment != "" {
		body = comment + "\n\n" + body
	}

	id, createdAt := s.ids.Next()
	post := models.Post{
		ID:               id,
		UserID:           sharer.ID,
		AuthorName:       sharer.Name,
		AuthorUsername:   sharer.Username,
		Body:             body,
		CreatedAt:        createdAt,
		Visibility:       models.VisibilityPublic,
		Likes:            0,
		Tags:             models.ExtractTags(body),
		ImageDataURL:     original.ImageDataURL,
		SharedFromPostID: original.ID,
		SharedFromUserID: original.UserID,
	}

	s.store.AppendPost(ctx, post)
	s.applied(ctx, "share_post", map[string]interface{}{
		"post_id": post.ID, "shared_from": original.ID, "user_id": sharer.ID,
	})

	rec := remote.PostRecordFromModel(post)
	s.writer.Enqueue(ctx, "posts", "put", func(ctx context.Context) error {
		return s.remote.Posts.Put(ctx, rec)
	})

	return &post, nil
}

func (s *PostService) applied(ctx context.Context, kind string, fields map[string]interface{}) {
	s.log.LogApplied(ctx, kind, fields)
	observability.MutationsApplied.WithLabelValues(kind).Inc()
}

func (s *PostService) reject(ctx context.Context, kind string, err error) {
	s.log.LogRejected(ctx, kind, err)
	observability.MutationsRejected.WithLabelValues(kind).Inc()
}
