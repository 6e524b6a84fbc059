package service

import (
	"context"
	"strings"

	"openwall/internal/localstore"
	"openwall/internal/models"
	"openwall/internal/observability"
	"openwall/internal/remote"
)

type CommentService struct {
	store  *localstore.Store
	remote *remote.Store
	writer *RemoteWriter
	ids    *models.IDGenerator
	log    *observability.MutationLogger
}

type AddCommentInput struct {
	UserID       string
	PostID       string
	Body         string
	ImageDataURL string
}

type DeleteCommentInput struct {
	UserID    string
	PostID    string
	CommentID string
}

func NewCommentService(store *localstore.Store, rs *remote.Store, writer *RemoteWriter, ids *models.IDGenerator) *CommentService {
	return &CommentService{
		store:  store,
		remote: rs,
		writer: writer,
		ids:    ids,
		log:    observability.NewMutationLogger(),
	}
}

// AddComment attaches a comment to a post. Like posts, a comment needs text
// or an image.
func (s *CommentService) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	span, ctx := observability.TraceMutation(ctx, "add_comment")
	defer span.End()

	body := strings.TrimSpace(in.Body)
	if body == "" && in.ImageDataURL == "" {
		err := models.NewValidationError("Comment needs text or an image")
		s.reject(ctx, "add_comment", err)
		return nil, err
	}
	if _, ok := s.store.PostByID(in.PostID); !ok {
		err := models.NewNotFoundError("Post", in.PostID)
		s.reject(ctx, "add_comment", err)
		return nil, err
	}
	author, ok := s.store.UserByID(in.UserID)
	if !ok {
		err := models.NewNotFoundError("User", in.UserID)
		s.reject(ctx, "add_comment", err)
		return nil, err
	}

	id, createdAt := s.ids.Next()
	comment := models.Comment{
		ID:             id,
		PostID:         in.PostID,
		UserID:         author.ID,
		AuthorName:     author.Name,
		AuthorUsername: author.Username,
		AvatarDataURL:  author.AvatarDataURL,
		Body:           body,
		ImageDataURL:   in.ImageDataURL,
		CreatedAt:      createdAt,
	}

	s.store.AppendComment(ctx, comment)
	s.applied(ctx, "add_comment", map[string]interface{}{
		"comment_id": comment.ID, "post_id": in.PostID, "user_id": author.ID,
	})

	rec := remote.CommentRecordFromModel(comment)
	s.writer.Enqueue(ctx, "comments", "put", func(ctx context.Context) error {
		return s.remote.Comments.Put(ctx, rec)
	})

	return &comment, nil
}

// DeleteComment removes a comment. The comment's author and the post's
// author may both delete it.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	span, ctx := observability.TraceMutation(ctx, "delete_comment")
	defer span.End()

	comment, ok := s.store.CommentByID(in.PostID, in.CommentID)
	if !ok {
		err := models.NewNotFoundError("Comment", in.CommentID)
		s.reject(ctx, "delete_comment", err)
		return err
	}

	allowed := comment.UserID == in.UserID
	if !allowed {
		if post, ok := s.store.PostByID(in.PostID); ok && post.UserID == in.UserID {
			allowed = true
		}
	}
	if !allowed {
		err := models.NewPermissionError("Only the comment author or the post author can delete this comment")
		s.reject(ctx, "delete_comment", err)
		return err
	}

	if !s.store.RemoveComment(ctx, in.PostID, in.CommentID) {
		err := models.NewNotFoundError("Comment", in.CommentID)
		s.reject(ctx, "delete_comment", err)
		return err
	}
	s.applied(ctx, "delete_comment", map[string]interface{}{
		"comment_id": in.CommentID, "post_id": in.PostID,
	})

	s.writer.Enqueue(ctx, "comments", "delete", func(ctx context.Context) error {
		return s.remote.Comments.Delete(ctx, in.CommentID)
	})

	return nil
}

func (s *CommentService) applied(ctx context.Context, kind string, fields map[string]interface{}) {
	s.log.LogApplied(ctx, kind, fields)
	observability.MutationsApplied.WithLabelValues(kind).Inc()
}

func (s *CommentService) reject(ctx context.Context, kind string, err error) {
	s.log.LogRejected(ctx, kind, err)
	observability.MutationsRejected.WithLabelValues(kind).Inc()
}
