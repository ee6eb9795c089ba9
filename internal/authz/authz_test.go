package authz

import (
	"testing"

	"picstream/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowsDeletePost(t *testing.T) {
	e := NewEvaluator()
	post := &models.Post{ID: 1, UserID: 7}

	assert.True(t, e.Allows(DeletePost, 7, ForPost(post)))
	assert.False(t, e.Allows(DeletePost, 8, ForPost(post)))
}

func TestAllowsDeleteComment(t *testing.T) {
	e := NewEvaluator()
	comment := &models.Comment{ID: 3, UserID: 2, PostID: 1}

	assert.True(t, e.Allows(DeleteComment, 2, ForComment(comment)))
	assert.False(t, e.Allows(DeleteComment, 5, ForComment(comment)))
}

func TestPostOwnerCannotDeleteOthersComment(t *testing.T) {
	// The post owner has no moderation right over comments on their post.
	e := NewEvaluator()
	comment := &models.Comment{ID: 3, UserID: 2, PostID: 1}
	postOwnerID := uint(9)

	assert.False(t, e.Allows(DeleteComment, postOwnerID, ForComment(comment)))
}

func TestAllowsDeniesAnonymousActor(t *testing.T) {
	e := NewEvaluator()
	post := &models.Post{ID: 1, UserID: 0}

	assert.False(t, e.Allows(DeletePost, 0, ForPost(post)))
}

func TestAllowsDeniesMismatchedKind(t *testing.T) {
	e := NewEvaluator()

	assert.False(t, e.Allows(DeletePost, 7, Resource{Kind: KindComment, OwnerID: 7}))
	assert.False(t, e.Allows(DeleteComment, 7, Resource{Kind: KindPost, OwnerID: 7}))
}

func TestAllowsDeniesUnknownPolicy(t *testing.T) {
	e := NewEvaluator()

	assert.False(t, e.Allows(Policy("edit-post"), 7, Resource{Kind: KindPost, OwnerID: 7}))
}

func TestAuthorize(t *testing.T) {
	e := NewEvaluator()
	post := &models.Post{ID: 1, UserID: 7}

	require.NoError(t, e.Authorize(DeletePost, 7, ForPost(post)))

	err := e.Authorize(DeletePost, 8, ForPost(post))
	require.Error(t, err)

	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "FORBIDDEN", appErr.Code)
}
