// Package authz evaluates the application's closed set of ownership policies.
// Policies are dispatched over an explicit (actor, resource kind, owner)
// triple rather than any inheritance scheme.
package authz

import (
	"fmt"

	"picstream/internal/models"
)

// Policy names one authorization rule.
type Policy string

const (
	// DeletePost allows deleting a post. Post owner only.
	DeletePost Policy = "delete-post"
	// DeleteComment allows deleting a comment. Comment owner only; the
	// owner of the post the comment sits on gains no moderation right.
	DeleteComment Policy = "delete-comment"
)

// Kind tags the type of resource a policy is evaluated against.
type Kind string

const (
	KindPost    Kind = "post"
	KindComment Kind = "comment"
)

// Resource is the tagged variant a policy decision is made about.
type Resource struct {
	Kind    Kind
	OwnerID uint
}

// ForPost builds the resource triple for a post.
func ForPost(p *models.Post) Resource {
	return Resource{Kind: KindPost, OwnerID: p.UserID}
}

// ForComment builds the resource triple for a comment.
func ForComment(c *models.Comment) Resource {
	return Resource{Kind: KindComment, OwnerID: c.UserID}
}

// Evaluator decides allow/deny for the fixed policy set.
type Evaluator struct{}

// NewEvaluator returns the policy evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Allows reports whether actorID may perform policy on res.
// Unknown policies and mismatched resource kinds always deny.
func (e *Evaluator) Allows(policy Policy, actorID uint, res Resource) bool {
	if actorID == 0 {
		return false
	}
	switch policy {
	case DeletePost:
		return res.Kind == KindPost && res.OwnerID == actorID
	case DeleteComment:
		return res.Kind == KindComment && res.OwnerID == actorID
	default:
		return false
	}
}

// Authorize is the failing form of Allows: it returns an authorization error
// describing the denied policy instead of a boolean.
func (e *Evaluator) Authorize(policy Policy, actorID uint, res Resource) error {
	if e.Allows(policy, actorID, res) {
		return nil
	}
	return models.NewAuthorizationError(fmt.Sprintf("Not allowed to %s", policy))
}
