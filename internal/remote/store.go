// Package remote defines the contract of the authoritative backing store.
// The engine treats it as an opaque collaborator with a minimal
// per-collection read/write/delete surface; the local cache never assumes
// anything about its consistency beyond "wholesale snapshot wins".
package remote

import "context"

// UserRecord is the remote schema of a user, including the credential hash
// which never enters the local cache.
type UserRecord struct {
	ID            string `gorm:"primaryKey" json:"id"`
	Name          string `json:"name"`
	Username      string `json:"username"`
	Email         string `gorm:"index" json:"email"`
	PasswordHash  string `json:"-"`
	Bio           string `json:"bio,omitempty"`
	Location      string `json:"location,omitempty"`
	Website       string `json:"website,omitempty"`
	AvatarDataURL string `gorm:"type:text" json:"avatar_data_url,omitempty"`
	CreatedAt     int64  `json:"created_at"`
}

// PostRecord is the remote schema of a post.
type PostRecord struct {
	ID               string   `gorm:"primaryKey" json:"id"`
	UserID           string   `gorm:"index" json:"user_id"`
	AuthorName       string   `json:"name"`
	AuthorUsername   string   `json:"username"`
	Body             string   `gorm:"type:text" json:"body"`
	CreatedAt        int64    `gorm:"index" json:"created_at"`
	Visibility       string   `json:"visibility"`
	Likes            int      `json:"likes"`
	Tags             []string `gorm:"serializer:json" json:"tags"`
	ImageDataURL     string   `gorm:"type:text" json:"image_data_url,omitempty"`
	SharedFromPostID string   `json:"shared_from_post_id,omitempty"`
	SharedFromUserID string   `json:"shared_from_user_id,omitempty"`
}

// CommentRecord is the remote schema of a comment.
type CommentRecord struct {
	ID             string `gorm:"primaryKey" json:"id"`
	PostID         string `gorm:"index" json:"post_id"`
	UserID         string `json:"user_id"`
	AuthorName     string `json:"name"`
	AuthorUsername string `json:"username"`
	AvatarDataURL  string `gorm:"type:text" json:"avatar_data_url,omitempty"`
	Body           string `gorm:"type:text" json:"body"`
	ImageDataURL   string `gorm:"type:text" json:"image_data_url,omitempty"`
	CreatedAt      int64  `json:"created_at"`
}

// FollowRecord is the remote schema of one follow edge. ID is the
// deterministic composite `follower_target`, so repeated toggles upsert and
// delete a single document instead of accumulating duplicates.
type FollowRecord struct {
	ID         string `gorm:"primaryKey" json:"id"`
	FollowerID string `gorm:"index" json:"follower_id"`
	TargetID   string `json:"target_id"`
	CreatedAt  int64  `json:"created_at"`
}

// UserStore is the remote users collection.
type UserStore interface {
	ListAll(ctx context.Context) ([]UserRecord, error)
	Get(ctx context.Context, id string) (*UserRecord, error)
	Put(ctx context.Context, rec UserRecord) error
	Delete(ctx context.Context, id string) error
	FindByEmail(ctx context.Context, email string) ([]UserRecord, error)
}

// PostStore is the remote posts collection.
type PostStore interface {
	ListAll(ctx context.Context) ([]PostRecord, error)
	ListOrderedByCreatedAtDesc(ctx context.Context) ([]PostRecord, error)
	Get(ctx context.Context, id string) (*PostRecord, error)
	Put(ctx context.Context, rec PostRecord) error
	Delete(ctx context.Context, id string) error
	UpdateLikes(ctx context.Context, id string, likes int) error
}

// CommentStore is the remote comments collection.
type CommentStore interface {
	ListAll(ctx context.Context) ([]CommentRecord, error)
	Get(ctx context.Context, id string) (*CommentRecord, error)
	Put(ctx context.Context, rec CommentRecord) error
	Delete(ctx context.Context, id string) error
	FindByPostID(ctx context.Context, postID string) ([]CommentRecord, error)
}

// FollowStore is the remote follow-edges collection.
type FollowStore interface {
	ListAll(ctx context.Context) ([]FollowRecord, error)
	Get(ctx context.Context, id string) (*FollowRecord, error)
	Put(ctx context.Context, rec FollowRecord) error
	Delete(ctx context.Context, id string) error
}

// Store bundles the four remote collections.
type Store struct {
	Users    UserStore
	Posts    PostStore
	Comments CommentStore
	Follows  FollowStore
}
