// Package localstore implements the client-resident mirror of all
// collections. It is the only mutable state in the engine: optimistic
// mutations update it synchronously, the reconciler replaces its collections
// wholesale, and all reads for rendering come out of it.
package localstore

import (
	"context"
	"sort"
	"sync"

	"openwall/internal/models"
	"openwall/internal/observability"
)

// Snapshot is the persisted layout of the local cache: four keyed
// collections, the likes-by-user set, and the current session user.
type Snapshot struct {
	Users             map[string]models.User      `json:"users"`
	Posts             []models.Post               `json:"posts"`
	CommentsByPost    map[string][]models.Comment `json:"comments_by_post"`
	FollowsByFollower map[string][]string         `json:"follows_by_follower"`
	LikesByUser       map[string][]string         `json:"likes_by_user"`
	CurrentUser       *models.User                `json:"current_user,omitempty"`
}

func emptySnapshot() Snapshot {
	return Snapshot{
		Users:             make(map[string]models.User),
		CommentsByPost:    make(map[string][]models.Comment),
		FollowsByFollower: make(map[string][]string),
		LikesByUser:       make(map[string][]string),
	}
}

// normalize replaces nil maps with empty ones so a partially written or
// legacy snapshot reads as empty collections instead of panicking.
func (s *Snapshot) normalize() {
	if s.Users == nil {
		s.Users = make(map[string]models.User)
	}
	if s.CommentsByPost == nil {
		s.CommentsByPost = make(map[string][]models.Comment)
	}
	if s.FollowsByFollower == nil {
		s.FollowsByFollower = make(map[string][]string)
	}
	if s.LikesByUser == nil {
		s.LikesByUser = make(map[string][]string)
	}
}

// Persister saves and restores cache snapshots across sessions.
type Persister interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot) error
}

// Store is the Local Cache Store. A single RWMutex guards all collections;
// toggle operations are atomic read-modify-writes under that lock, so two
// overlapping toggles can never observe the same stale membership.
type Store struct {
	mu        sync.RWMutex
	data      Snapshot
	persister Persister
}

// NewStore returns an empty store. persister may be nil for a purely
// in-memory store (tests, throwaway sessions).
func NewStore(persister Persister) *Store {
	return &Store{
		data:      emptySnapshot(),
		persister: persister,
	}
}

// Restore loads the persisted snapshot, if any. A missing or unreadable
// snapshot leaves the store empty rather than failing.
func (s *Store) Restore(ctx context.Context) {
	if s.persister == nil {
		return
	}
	snap, err := s.persister.Load(ctx)
	if err != nil {
		observability.GlobalLogger.WarnContext(ctx, "cache snapshot restore failed, starting empty",
			"error", err.Error())
		return
	}
	if snap == nil {
		return
	}
	snap.normalize()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = *snap
}

// persist writes the current snapshot best-effort. Callers must hold mu.
func (s *Store) persist(ctx context.Context) {
	if s.persister == nil {
		return
	}
	snap := cloneSnapshot(&s.data)
	if err := s.persister.Save(ctx, snap); err != nil {
		observability.LogSnapshotError(ctx, err)
		observability.SnapshotPersistFailures.Inc()
	}
}

// ---- Users ----

// Users returns all cached users in unspecified order.
func (s *Store) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, 0, len(s.data.Users))
	for _, u := range s.data.Users {
		users = append(users, u)
	}
	return users
}

// UserByID looks up a cached user.
func (s *Store) UserByID(id string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.data.Users[id]
	return u, ok
}

// ReplaceUsers swaps the entire user collection for the given list.
func (s *Store) ReplaceUsers(ctx context.Context, users []models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.Users = make(map[string]models.User, len(users))
	for _, u := range users {
		s.data.Users[u.ID] = u
	}
	s.persist(ctx)
}

// PutUser inserts or replaces one user record.
func (s *Store) PutUser(ctx context.Context, user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.Users[user.ID] = user
	s.persist(ctx)
}

// UpdateUserProfile merges the given fields into the user record, updates
// the session user if it is the same account, and fans the new display name
// and username out over every cached post authored by the user. Returns the
// merged record, or false when the user is not cached.
func (s *Store) UpdateUserProfile(ctx context.Context, userID string, update models.ProfileUpdate) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.data.Users[userID]
	if !ok {
		return models.User{}, false
	}

	if update.Name != nil && *update.Name != "" {
		user.Name = *update.Name
	}
	if update.Username != nil && *update.Username != "" {
		user.Username = *update.Username
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	if update.Location != nil {
		user.Location = *update.Location
	}
	if update.Website != nil {
		user.Website = *update.Website
	}
	if update.AvatarDataURL != nil && *update.AvatarDataURL != "" {
		user.AvatarDataURL = *update.AvatarDataURL
	}

	s.data.Users[userID] = user

	if s.data.CurrentUser != nil && s.data.CurrentUser.ID == userID {
		current := user
		s.data.CurrentUser = &current
	}

	// Denormalized author fields on posts stay in step with the profile.
	for i := range s.data.Posts {
		if s.data.Posts[i].UserID == userID {
			s.data.Posts[i].AuthorName = user.Name
			s.data.Posts[i].AuthorUsername = user.Username
		}
	}

	s.persist(ctx)
	return user, true
}

// ---- Session user ----

// CurrentUser returns the logged-in user, if any.
func (s *Store) CurrentUser() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.data.CurrentUser == nil {
		return models.User{}, false
	}
	return *s.data.CurrentUser, true
}

// SetCurrentUser stores the session user singleton.
func (s *Store) SetCurrentUser(ctx context.Context, user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := user
	s.data.CurrentUser = &u
	s.persist(ctx)
}

// ClearCurrentUser removes the session user singleton.
func (s *Store) ClearCurrentUser(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.CurrentUser = nil
	s.persist(ctx)
}

// ---- Posts ----

// Posts returns a copy of the cached post collection.
func (s *Store) Posts() []models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return clonePosts(s.data.Posts)
}

// PostByID looks up a cached post.
func (s *Store) PostByID(id string) (models.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.data.Posts {
		if p.ID == id {
			return p, true
		}
	}
	return models.Post{}, false
}

// ReplacePosts swaps the entire post collection for the given list.
func (s *Store) ReplacePosts(ctx context.Context, posts []models.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.Posts = clonePosts(posts)
	s.persist(ctx)
}

// AppendPost adds one post to the collection.
func (s *Store) AppendPost(ctx context.Context, post models.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.Posts = append(s.data.Posts, post)
	s.persist(ctx)
}

// DeletePostCascade removes the post, all its comments, and purges the post
// id from every user's liked-post set, atomically. It returns the removed
// comments so the caller can issue their remote deletes, and false when the
// post was not cached.
func (s *Store) DeletePostCascade(ctx context.Context, postID string) ([]models.Comment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, p := range s.data.Posts {
		if p.ID == postID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, false
	}

	s.data.Posts = append(s.data.Posts[:idx], s.data.Posts[idx+1:]...)

	removed := s.data.CommentsByPost[postID]
	delete(s.data.CommentsByPost, postID)

	for userID, liked := range s.data.LikesByUser {
		s.data.LikesByUser[userID] = removeString(liked, postID)
	}

	s.persist(ctx)
	return append([]models.Comment(nil), removed...), true
}

// ---- Comments ----

// CommentsForPost returns the post's comments ordered oldest first.
func (s *Store) CommentsForPost(postID string) []models.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comments := append([]models.Comment(nil), s.data.CommentsByPost[postID]...)
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt < comments[j].CreatedAt
	})
	return comments
}

// ReplaceComments swaps the whole derived comments map.
func (s *Store) ReplaceComments(ctx context.Context, byPost map[string][]models.Comment) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.CommentsByPost = make(map[string][]models.Comment, len(byPost))
	for postID, comments := range byPost {
		s.data.CommentsByPost[postID] = append([]models.Comment(nil), comments...)
	}
	s.persist(ctx)
}

// AppendComment adds one comment to its post's list.
func (s *Store) AppendComment(ctx context.Context, comment models.Comment) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.CommentsByPost[comment.PostID] = append(s.data.CommentsByPost[comment.PostID], comment)
	s.persist(ctx)
}

// RemoveComment deletes one comment from its post's list. Returns false
// when the comment was not cached.
func (s *Store) RemoveComment(ctx context.Context, postID, commentID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.data.CommentsByPost[postID]
	for i, c := range list {
		if c.ID == commentID {
			s.data.CommentsByPost[postID] = append(list[:i], list[i+1:]...)
			s.persist(ctx)
			return true
		}
	}
	return false
}

// CommentByID looks up a comment within a post's list.
func (s *Store) CommentByID(postID, commentID string) (models.Comment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.data.CommentsByPost[postID] {
		if c.ID == commentID {
			return c, true
		}
	}
	return models.Comment{}, false
}

// ---- Follows ----

// FollowingIDs returns the ids the user follows.
func (s *Store) FollowingIDs(userID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]string(nil), s.data.FollowsByFollower[userID]...)
}

// FollowingSet returns the ids the user follows as a set.
func (s *Store) FollowingSet(userID string) map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := make(map[string]bool, len(s.data.FollowsByFollower[userID]))
	for _, id := range s.data.FollowsByFollower[userID] {
		set[id] = true
	}
	return set
}

// FollowerIDs returns the ids of users following the target. Derived by a
// scan over the whole relation; only counts need this.
func (s *Store) FollowerIDs(targetID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var followers []string
	for followerID, following := range s.data.FollowsByFollower {
		if containsString(following, targetID) {
			followers = append(followers, followerID)
		}
	}
	return followers
}

// IsFollowing reports membership of (followerID, targetID) in the relation.
func (s *Store) IsFollowing(followerID, targetID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return containsString(s.data.FollowsByFollower[followerID], targetID)
}

// ReplaceFollows swaps the whole derived follow map.
func (s *Store) ReplaceFollows(ctx context.Context, byFollower map[string][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.FollowsByFollower = make(map[string][]string, len(byFollower))
	for followerID, targets := range byFollower {
		s.data.FollowsByFollower[followerID] = dedupeStrings(targets)
	}
	s.persist(ctx)
}

// ToggleFollow flips membership of (followerID, targetID) and returns the
// new state. Self-follows are a no-op reported as not-following. The whole
// read-modify-write runs under the store lock.
func (s *Store) ToggleFollow(ctx context.Context, followerID, targetID string) bool {
	if followerID == "" || targetID == "" || followerID == targetID {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	following := s.data.FollowsByFollower[followerID]
	var nowFollowing bool
	if containsString(following, targetID) {
		following = removeString(following, targetID)
		nowFollowing = false
	} else {
		following = append(following, targetID)
		nowFollowing = true
	}
	s.data.FollowsByFollower[followerID] = following

	s.persist(ctx)
	return nowFollowing
}

// ---- Likes ----

// LikedPostIDs returns the post ids the user has liked.
func (s *Store) LikedPostIDs(userID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]string(nil), s.data.LikesByUser[userID]...)
}

// HasUserLikedPost reports membership of (userID, postID) in the relation.
func (s *Store) HasUserLikedPost(userID, postID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return containsString(s.data.LikesByUser[userID], postID)
}

// ReplaceLikes swaps the whole likes-by-user map.
func (s *Store) ReplaceLikes(ctx context.Context, byUser map[string][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.LikesByUser = make(map[string][]string, len(byUser))
	for userID, liked := range byUser {
		s.data.LikesByUser[userID] = dedupeStrings(liked)
	}
	s.persist(ctx)
}

// ToggleLike flips membership of (userID, postID), adjusts the post's
// denormalized like count clamped at zero, and returns the new state and
// count. The read-modify-write is atomic under the store lock, so the
// count always tracks the relation's cardinality. Returns ok=false when the
// post is not cached; the relation is left untouched in that case.
func (s *Store) ToggleLike(ctx context.Context, userID, postID string) (nowLiked bool, likes int, ok bool) {
	if userID == "" || postID == "" {
		return false, 0, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, p := range s.data.Posts {
		if p.ID == postID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false, 0, false
	}

	liked := s.data.LikesByUser[userID]
	if containsString(liked, postID) {
		liked = removeString(liked, postID)
		nowLiked = false
	} else {
		liked = append(liked, postID)
		nowLiked = true
	}
	s.data.LikesByUser[userID] = liked

	likes = s.data.Posts[idx].Likes
	if nowLiked {
		likes++
	} else if likes > 0 {
		likes--
	}
	s.data.Posts[idx].Likes = likes

	s.persist(ctx)
	return nowLiked, likes, true
}

// ---- helpers ----

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func removeString(list []string, v string) []string {
	out := list[:0]
	for _, s := range list {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}

func dedupeStrings(list []string) []string {
	seen := make(map[string]bool, len(list))
	var out []string
	for _, s := range list {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func clonePosts(posts []models.Post) []models.Post {
	out := make([]models.Post, len(posts))
	copy(out, posts)
	for i := range out {
		out[i].Tags = append([]string(nil), out[i].Tags...)
	}
	return out
}

func cloneSnapshot(snap *Snapshot) *Snapshot {
	out := emptySnapshot()
	for id, u := range snap.Users {
		out.Users[id] = u
	}
	out.Posts = clonePosts(snap.Posts)
	for postID, comments := range snap.CommentsByPost {
		out.CommentsByPost[postID] = append([]models.Comment(nil), comments...)
	}
	for followerID, targets := range snap.FollowsByFollower {
		out.FollowsByFollower[followerID] = append([]string(nil), targets...)
	}
	for userID, liked := range snap.LikesByUser {
		out.LikesByUser[userID] = append([]string(nil), liked...)
	}
	if snap.CurrentUser != nil {
		u := *snap.CurrentUser
		out.CurrentUser = &u
	}
	return &out
}
