// Package authz holds the single authorization predicate every mutating
// operation consults. Handlers never re-derive this logic.
package authz

import (
	"context"
	"errors"

	"labstock/db"
	"labstock/models"
)

// ErrForbidden: the authenticated actor lacks the required capability or
// ownership.
var ErrForbidden = errors.New("forbidden")

// Capability selects which membership flag a resource mutation requires.
// CapNone means the bare presence of a membership row is enough.
type Capability int

const (
	CapNone Capability = iota
	CapEditLabs
	CapEditItems
	CapEditUsers
)

// MembershipSource is the one lookup the evaluator needs; *db.Repo
// satisfies it.
type MembershipSource interface {
	FindMembership(ctx context.Context, userID, teamID string) (*models.Membership, error)
}

type Authorizer struct {
	memberships MembershipSource
}

func New(src MembershipSource) *Authorizer { return &Authorizer{memberships: src} }

// CanAct reports whether the actor may act on a resource:
// superuser, or resource owner, or member of teamID holding cap.
// Pass ownerID="" when the resource has no declared owner; pass teamID=""
// to disable the membership path (owner-or-superuser-only operations).
func (a *Authorizer) CanAct(ctx context.Context, actor *models.User, ownerID, teamID string, capability Capability) (bool, error) {
	if actor == nil {
		return false, nil
	}
	if actor.IsSuperuser {
		return true, nil
	}
	if ownerID != "" && actor.ID == ownerID {
		return true, nil
	}
	if teamID == "" {
		return false, nil
	}
	m, err := a.memberships.FindMembership(ctx, actor.ID, teamID)
	if errors.Is(err, db.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	switch capability {
	case CapNone:
		return true, nil
	case CapEditLabs:
		return m.CanEditLabs, nil
	case CapEditItems:
		return m.CanEditItems, nil
	case CapEditUsers:
		return m.CanEditUsers, nil
	}
	return false, nil
}

// Require is CanAct collapsed into the error taxonomy.
func (a *Authorizer) Require(ctx context.Context, actor *models.User, ownerID, teamID string, capability Capability) error {
	ok, err := a.CanAct(ctx, actor, ownerID, teamID, capability)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}
