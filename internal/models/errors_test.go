package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodes(t *testing.T) {
	assert.True(t, IsValidation(NewValidationError("bad input")))
	assert.True(t, IsPermission(NewPermissionError("not yours")))
	assert.True(t, IsNotFound(NewNotFoundError("Post", "123")))
	assert.False(t, IsNotFound(NewValidationError("bad input")))
	assert.False(t, IsValidation(errors.New("plain")))
}

func TestNotFoundMessage(t *testing.T) {
	err := NewNotFoundError("Post", "42")
	assert.Equal(t, "Post with ID 42 not found", err.Error())
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewInternalError(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk full")
}

func TestHasCodeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewRemoteWriteError("posts.put", errors.New("timeout")))
	assert.True(t, HasCode(err, CodeRemoteWrite))
}

func TestFollowEdgeID(t *testing.T) {
	assert.Equal(t, "a_b", FollowEdgeID("a", "b"))
	e := FollowEdge{FollowerID: "x", TargetID: "y"}
	assert.Equal(t, "x_y", e.EdgeID())
}
