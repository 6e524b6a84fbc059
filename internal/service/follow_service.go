package service

import (
	"context"
	"time"

	"openwall/internal/localstore"
	"openwall/internal/models"
	"openwall/internal/observability"
	"openwall/internal/remote"
)

// FollowService manages the follow relation. Toggling is an atomic
// read-modify-write on the cache, so two rapid toggles can never desync the
// local set from the remote edge documents.
type FollowService struct {
	store  *localstore.Store
	remote *remote.Store
	writer *RemoteWriter
	now    func() time.Time
	log    *observability.MutationLogger
}

func NewFollowService(store *localstore.Store, rs *remote.Store, writer *RemoteWriter) *FollowService {
	return &FollowService{
		store:  store,
		remote: rs,
		writer: writer,
		now:    time.Now,
		log:    observability.NewMutationLogger(),
	}
}

// ToggleFollow flips follower->target membership and returns the new state.
// Self-follows are a silent no-op. The remote edge document uses the
// composite follower_target id, so the follow and unfollow of one pair
// always address the same document.
func (s *FollowService) ToggleFollow(ctx context.Context, followerID, targetID string) (bool, error) {
	span, ctx := observability.TraceMutation(ctx, "toggle_follow")
	defer span.End()

	if followerID == "" || targetID == "" {
		err := models.NewValidationError("Follower and target are required")
		s.reject(ctx, err)
		return false, err
	}
	// A self-follow is a silent no-op: the relation is unchanged and no
	// remote write happens.
	if followerID == targetID {
		return false, nil
	}
	if _, ok := s.store.UserByID(targetID); !ok {
		err := models.NewNotFoundError("User", targetID)
		s.reject(ctx, err)
		return false, err
	}

	nowFollowing := s.store.ToggleFollow(ctx, followerID, targetID)
	s.log.LogApplied(ctx, "toggle_follow", map[string]interface{}{
		"follower_id": followerID, "target_id": targetID, "following": nowFollowing,
	})
	observability.MutationsApplied.WithLabelValues("toggle_follow").Inc()

	edge := models.FollowEdge{
		FollowerID: followerID,
		TargetID:   targetID,
		CreatedAt:  s.now().UnixMilli(),
	}
	if nowFollowing {
		rec := remote.FollowRecordFromEdge(edge)
		s.writer.Enqueue(ctx, "follows", "put", func(ctx context.Context) error {
			return s.remote.Follows.Put(ctx, rec)
		})
	} else {
		s.writer.Enqueue(ctx, "follows", "delete", func(ctx context.Context) error {
			return s.remote.Follows.Delete(ctx, edge.EdgeID())
		})
	}

	return nowFollowing, nil
}

// Following returns the ids the user follows, and IsFollowing answers a
// single membership question. Both are cache reads.
func (s *FollowService) Following(userID string) []string {
	return s.store.FollowingIDs(userID)
}

func (s *FollowService) IsFollowing(followerID, targetID string) bool {
	return s.store.IsFollowing(followerID, targetID)
}

func (s *FollowService) reject(ctx context.Context, err error) {
	s.log.LogRejected(ctx, "toggle_follow", err)
	observability.MutationsRejected.WithLabelValues("toggle_follow").Inc()
}
