// Package models contains data structures for the application's domain models.
package models

// FollowEdge is one (follower, target) pair of the follow relation.
// Membership is exactly-once: toggling twice restores the original state.
type FollowEdge struct {
	FollowerID string `json:"follower_id"`
	TargetID   string `json:"target_id"`
	CreatedAt  int64  `json:"created_at"`
}

// EdgeID returns the deterministic composite document id for the edge, so
// repeated toggles upsert and delete the same remote record instead of
// accumulating duplicates.
func (e FollowEdge) EdgeID() string {
	return FollowEdgeID(e.FollowerID, e.TargetID)
}

// FollowEdgeID builds the composite id for a (follower, target) pair.
func FollowEdgeID(followerID, targetID string) string {
	return followerID + "_" + targetID
}
