package controllers

import (
	"net/http"
	"strings"

	"labstock/app"
	"labstock/authz"
	"labstock/models"

	"github.com/gin-gonic/gin"
)

type MemberController struct{ *Srv }

func NewMemberController(s *Srv) *MemberController { return &MemberController{Srv: s} }

type addMemberReq struct {
	Email        string `json:"email" binding:"required,email"`
	CanEditLabs  bool   `json:"canEditLabs"`
	CanEditItems bool   `json:"canEditItems"`
	CanEditUsers bool   `json:"canEditUsers"`
}

// POST /api/teams/:id/members — superuser, owner, or a member with
// can_edit_users. Upserts the flags when the user is already a member.
func (mc *MemberController) AddMember(c *gin.Context) {
	var in addMemberReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	team, err := mc.Repo.FindTeamByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	actor := app.CurrentUser(c)
	if err := mc.Auth.Require(c.Request.Context(), actor, team.OwnerID, team.ID, authz.CapEditUsers); err != nil {
		fail(c, err)
		return
	}

	user, err := mc.Repo.FindUserByEmail(c.Request.Context(), strings.ToLower(in.Email))
	if err != nil {
		fail(c, err)
		return
	}

	m := &models.Membership{
		UserID:       user.ID,
		TeamID:       team.ID,
		CanEditLabs:  in.CanEditLabs,
		CanEditItems: in.CanEditItems,
		CanEditUsers: in.CanEditUsers,
	}
	if err := mc.Repo.UpsertMembership(c.Request.Context(), m); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "membership": m})
}

// DELETE /api/teams/:id/members/:userId
func (mc *MemberController) RemoveMember(c *gin.Context) {
	team, err := mc.Repo.FindTeamByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	actor := app.CurrentUser(c)
	if err := mc.Auth.Require(c.Request.Context(), actor, team.OwnerID, team.ID, authz.CapEditUsers); err != nil {
		fail(c, err)
		return
	}
	userID := c.Param("userId")
	if err := mc.Repo.RemoveMembership(c.Request.Context(), team.ID, userID); err != nil {
		fail(c, err)
		return
	}
	_, _ = mc.Repo.LogAction(c.Request.Context(), actor.ID, actor.Email, "member.remove", team.ID, userID)
	c.JSON(http.StatusOK, app.H{"ok": true})
}

type permissionsReq struct {
	// All three must be supplied; partial flag updates are not a thing.
	CanEditLabs  *bool `json:"canEditLabs" binding:"required"`
	CanEditItems *bool `json:"canEditItems" binding:"required"`
	CanEditUsers *bool `json:"canEditUsers" binding:"required"`
}

// PUT /api/teams/:id/members/:userId
func (mc *MemberController) UpdatePermissions(c *gin.Context) {
	var in permissionsReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	team, err := mc.Repo.FindTeamByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	actor := app.CurrentUser(c)
	if err := mc.Auth.Require(c.Request.Context(), actor, team.OwnerID, team.ID, authz.CapEditUsers); err != nil {
		fail(c, err)
		return
	}
	userID := c.Param("userId")
	err = mc.Repo.UpdateMembershipFlags(c.Request.Context(), team.ID, userID,
		*in.CanEditLabs, *in.CanEditItems, *in.CanEditUsers)
	if err != nil {
		fail(c, err)
		return
	}
	_, _ = mc.Repo.LogAction(c.Request.Context(), actor.ID, actor.Email, "member.permissions", team.ID, userID)
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// GET /api/teams/:id/members/:userId — any member of the team may look.
func (mc *MemberController) ViewMember(c *gin.Context) {
	team, err := mc.Repo.FindTeamByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	actor := app.CurrentUser(c)
	if err := mc.Auth.Require(c.Request.Context(), actor, "", team.ID, authz.CapNone); err != nil {
		fail(c, err)
		return
	}
	row, err := mc.Repo.GetMember(c.Request.Context(), team.ID, c.Param("userId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

// GET /api/teams/:id/members — any member of the team may list.
func (mc *MemberController) ListMembers(c *gin.Context) {
	team, err := mc.Repo.FindTeamByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	actor := app.CurrentUser(c)
	if err := mc.Auth.Require(c.Request.Context(), actor, "", team.ID, authz.CapNone); err != nil {
		fail(c, err)
		return
	}
	rows, err := mc.Repo.ListMembers(c.Request.Context(), team.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"members": rows})
}
