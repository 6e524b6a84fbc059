// Package syncer reconciles the local cache against the remote store.
// Reconciliation is wholesale: each pass replaces an entire local collection
// with the remote result. Per-record merging is deliberately absent; the
// remote snapshot wins.
package syncer

import (
	"context"
	"time"

	"openwall/internal/localstore"
	"openwall/internal/models"
	"openwall/internal/observability"
	"openwall/internal/remote"
	"openwall/internal/seed"
)

// Syncer pulls remote collections into the local store. Passes are safe to
// run concurrently with mutations; the store serializes access internally.
type Syncer struct {
	local  *localstore.Store
	remote *remote.Store
	now    func() time.Time

	usersLog    *observability.SyncLogger
	postsLog    *observability.SyncLogger
	commentsLog *observability.SyncLogger
	followsLog  *observability.SyncLogger
}

// New creates a Syncer over the given stores.
func New(local *localstore.Store, rs *remote.Store) *Syncer {
	return &Syncer{
		local:       local,
		remote:      rs,
		now:         time.Now,
		usersLog:    observability.NewSyncLogger("users"),
		postsLog:    observability.NewSyncLogger("posts"),
		commentsLog: observability.NewSyncLogger("comments"),
		followsLog:  observability.NewSyncLogger("follows"),
	}
}

// SyncAll runs one reconciliation pass over every collection. A failed fetch
// keeps the affected local collection as-is and never aborts the other
// collections.
func (s *Syncer) SyncAll(ctx context.Context) {
	ctx = observability.WithCorrelationID(ctx, observability.GenerateCorrelationID())
	s.SyncUsers(ctx)
	s.SyncPosts(ctx)
	s.SyncComments(ctx)
	s.SyncFollows(ctx)
}

// SyncUsers replaces the local user collection with the remote one. An empty
// remote collection means the app has no real accounts yet, so the demo
// users are placed in the cache instead. Demo data is never written back to
// the remote store.
func (s *Syncer) SyncUsers(ctx context.Context) {
	span, ctx := observability.TraceSyncPass(ctx, "users")
	defer span.End()

	records, err := s.remote.Users.ListAll(ctx)
	if err != nil {
		s.usersLog.LogFetchError(ctx, err)
		observability.SyncPasses.WithLabelValues("users", "failed").Inc()
		span.SetError(err)
		return
	}

	if len(records) == 0 {
		users := seed.DemoUsers()
		s.local.ReplaceUsers(ctx, users)
		s.usersLog.LogSeeded(ctx, len(users))
		observability.SyncPasses.WithLabelValues("users", "seeded").Inc()
		return
	}

	users := make([]models.User, 0, len(records))
	for _, r := range records {
		users = append(users, r.ToModel())
	}
	s.local.ReplaceUsers(ctx, users)
	s.usersLog.LogReplaced(ctx, len(users))
	observability.SyncPasses.WithLabelValues("users", "replaced").Inc()
}

// SyncPosts replaces the local post collection, fetched newest-first so the
// cache starts out in feed order. Empty remote gets the demo posts, local
// only.
func (s *Syncer) SyncPosts(ctx context.Context) {
	span, ctx := observability.TraceSyncPass(ctx, "posts")
	defer span.End()

	records, err := s.remote.Posts.ListOrderedByCreatedAtDesc(ctx)
	if err != nil {
		s.postsLog.LogFetchError(ctx, err)
		observability.SyncPasses.WithLabelValues("posts", "failed").Inc()
		span.SetError(err)
		return
	}

	if len(records) == 0 {
		posts := seed.DemoPosts(s.now())
		s.local.ReplacePosts(ctx, posts)
		s.postsLog.LogSeeded(ctx, len(posts))
		observability.SyncPasses.WithLabelValues("posts", "seeded").Inc()
		return
	}

	posts := make([]models.Post, 0, len(records))
	for _, r := range records {
		posts = append(posts, r.ToModel())
	}
	s.local.ReplacePosts(ctx, posts)
	s.postsLog.LogReplaced(ctx, len(posts))
	observability.SyncPasses.WithLabelValues("posts", "replaced").Inc()
}

// SyncComments rebuilds the post-id keyed comment map in one linear scan.
func (s *Syncer) SyncComments(ctx context.Context) {
	span, ctx := observability.TraceSyncPass(ctx, "comments")
	defer span.End()

	records, err := s.remote.Comments.ListAll(ctx)
	if err != nil {
		s.commentsLog.LogFetchError(ctx, err)
		observability.SyncPasses.WithLabelValues("comments", "failed").Inc()
		span.SetError(err)
		return
	}

	byPost := make(map[string][]models.Comment)
	for _, r := range records {
		byPost[r.PostID] = append(byPost[r.PostID], r.ToModel())
	}
	s.local.ReplaceComments(ctx, byPost)
	s.commentsLog.LogReplaced(ctx, len(records))
	observability.SyncPasses.WithLabelValues("comments", "replaced").Inc()
}

// SyncFollows rebuilds the follower-keyed adjacency map. Duplicate edges in
// the remote store collapse to one membership.
func (s *Syncer) SyncFollows(ctx context.Context) {
	span, ctx := observability.TraceSyncPass(ctx, "follows")
	defer span.End()

	records, err := s.remote.Follows.ListAll(ctx)
	if err != nil {
		s.followsLog.LogFetchError(ctx, err)
		observability.SyncPasses.WithLabelValues("follows", "failed").Inc()
		span.SetError(err)
		return
	}

	byFollower := make(map[string][]string)
	for _, r := range records {
		edge := r.ToEdge()
		targets := byFollower[edge.FollowerID]
		found := false
		for _, t := range targets {
			if t == edge.TargetID {
				found = true
				break
			}
		}
		if !found {
			byFollower[edge.FollowerID] = append(targets, edge.TargetID)
		}
	}
	s.local.ReplaceFollows(ctx, byFollower)
	s.followsLog.LogReplaced(ctx, len(records))
	observability.SyncPasses.WithLabelValues("follows", "replaced").Inc()
}
