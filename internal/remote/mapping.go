package remote

import "openwall/internal/models"

// UserRecordFromModel converts a cached user into its remote schema. The
// credential hash is managed by the remote side only and stays empty here.
func UserRecordFromModel(u models.User) UserRecord {
	return UserRecord{
		ID:            u.ID,
		Name:          u.Name,
		Username:      u.Username,
		Email:         u.Email,
		Bio:           u.Bio,
		Location:      u.Location,
		Website:       u.Website,
		AvatarDataURL: u.AvatarDataURL,
		CreatedAt:     u.CreatedAt,
	}
}

// ToModel converts the record into the cached representation. The credential
// hash is dropped; it never enters the local cache.
func (r UserRecord) ToModel() models.User {
	return models.User{
		ID:            r.ID,
		Name:          r.Name,
		Username:      r.Username,
		Email:         r.Email,
		Bio:           r.Bio,
		Location:      r.Location,
		Website:       r.Website,
		AvatarDataURL: r.AvatarDataURL,
		CreatedAt:     r.CreatedAt,
	}
}

// PostRecordFromModel converts a cached post into its remote schema.
func PostRecordFromModel(p models.Post) PostRecord {
	return PostRecord(p)
}

// ToModel converts the record into the cached representation.
func (r PostRecord) ToModel() models.Post {
	return models.Post(r)
}

// CommentRecordFromModel converts a cached comment into its remote schema.
func CommentRecordFromModel(c models.Comment) CommentRecord {
	return CommentRecord(c)
}

// ToModel converts the record into the cached representation.
func (r CommentRecord) ToModel() models.Comment {
	return models.Comment(r)
}

// FollowRecordFromEdge converts a follow edge into its remote schema,
// deriving the composite document id.
func FollowRecordFromEdge(e models.FollowEdge) FollowRecord {
	return FollowRecord{
		ID:         e.EdgeID(),
		FollowerID: e.FollowerID,
		TargetID:   e.TargetID,
		CreatedAt:  e.CreatedAt,
	}
}

// ToEdge converts the record into the edge representation.
func (r FollowRecord) ToEdge() models.FollowEdge {
	return models.FollowEdge{
		FollowerID: r.FollowerID,
		TargetID:   r.TargetID,
		CreatedAt:  r.CreatedAt,
	}
}
