package authz

import (
	"context"
	"testing"

	"labstock/db"
	"labstock/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubMemberships keys rows by "userID/teamID".
type stubMemberships map[string]*models.Membership

func (s stubMemberships) FindMembership(_ context.Context, userID, teamID string) (*models.Membership, error) {
	if m, ok := s[userID+"/"+teamID]; ok {
		return m, nil
	}
	return nil, db.ErrNotFound
}

func TestCanAct(t *testing.T) {
	super := &models.User{ID: "su", IsSuperuser: true}
	owner := &models.User{ID: "own"}
	editor := &models.User{ID: "ed"}
	viewer := &models.User{ID: "vw"}
	outsider := &models.User{ID: "out"}

	a := New(stubMemberships{
		"ed/t1": {UserID: "ed", TeamID: "t1", CanEditItems: true},
		"vw/t1": {UserID: "vw", TeamID: "t1"},
	})

	cases := []struct {
		name    string
		actor   *models.User
		ownerID string
		teamID  string
		cap     Capability
		want    bool
	}{
		{"superuser passes everything", super, "", "", CapEditUsers, true},
		{"owner passes without membership", owner, "own", "t1", CapEditLabs, true},
		{"flag holder passes matching cap", editor, "own", "t1", CapEditItems, true},
		{"flag holder fails other cap", editor, "own", "t1", CapEditLabs, false},
		{"member passes CapNone", viewer, "own", "t1", CapNone, true},
		{"member fails any flag cap", viewer, "own", "t1", CapEditItems, false},
		{"outsider fails CapNone", outsider, "own", "t1", CapNone, false},
		{"empty teamID disables membership path", editor, "own", "", CapNone, false},
		{"empty ownerID disables owner path", owner, "", "t2", CapNone, false},
		{"nil actor fails", nil, "own", "t1", CapNone, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := a.CanAct(context.Background(), tc.actor, tc.ownerID, tc.teamID, tc.cap)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRequire(t *testing.T) {
	a := New(stubMemberships{})
	actor := &models.User{ID: "u"}

	assert.ErrorIs(t, a.Require(context.Background(), actor, "", "t1", CapNone), ErrForbidden)
	assert.NoError(t, a.Require(context.Background(), actor, "u", "", CapNone))
}
