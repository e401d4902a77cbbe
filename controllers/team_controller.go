package controllers

import (
	"net/http"
	"strconv"

	"labstock/app"
	"labstock/authz"

	"github.com/gin-gonic/gin"
)

type TeamController struct{ *Srv }

func NewTeamController(s *Srv) *TeamController { return &TeamController{Srv: s} }

// GET /api/teams — superusers only.
func (tc *TeamController) ListTeams(c *gin.Context) {
	actor := app.CurrentUser(c)
	if err := tc.Auth.Require(c.Request.Context(), actor, "", "", authz.CapNone); err != nil {
		fail(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	res, err := tc.Repo.ListTeams(c.Request.Context(), page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"total": res.Total, "teams": res.Teams})
}

// GET /api/me/teams — teams the actor owns or belongs to.
func (tc *TeamController) ListMyTeams(c *gin.Context) {
	actor := app.CurrentUser(c)
	teams, err := tc.Repo.ListTeamsForUser(c.Request.Context(), actor.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"teams": teams})
}

// GET /api/teams/:id — visible to superusers and the owner only. Plain
// members go through the member endpoints instead.
func (tc *TeamController) GetTeam(c *gin.Context) {
	team, err := tc.Repo.FindTeamByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	actor := app.CurrentUser(c)
	if err := tc.Auth.Require(c.Request.Context(), actor, team.OwnerID, "", authz.CapNone); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

type teamReq struct {
	Name string `json:"name" binding:"required,max=255"`
}

// POST /api/teams — any authenticated user; the creator becomes owner and
// a full-permission member in the same transaction.
func (tc *TeamController) CreateTeam(c *gin.Context) {
	var in teamReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	actor := app.CurrentUser(c)
	team, err := tc.Repo.CreateTeam(c.Request.Context(), in.Name, actor.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, team)
}

// PUT /api/teams/:id — superuser or owner; rename only.
func (tc *TeamController) UpdateTeam(c *gin.Context) {
	var in teamReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	team, err := tc.Repo.FindTeamByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	actor := app.CurrentUser(c)
	if err := tc.Auth.Require(c.Request.Context(), actor, team.OwnerID, "", authz.CapNone); err != nil {
		fail(c, err)
		return
	}
	team, err = tc.Repo.UpdateTeamName(c.Request.Context(), team.ID, in.Name)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

// DELETE /api/teams/:id — superuser or owner; fans out to memberships,
// labs, items and borrow records.
func (tc *TeamController) DeleteTeam(c *gin.Context) {
	team, err := tc.Repo.FindTeamByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	actor := app.CurrentUser(c)
	if err := tc.Auth.Require(c.Request.Context(), actor, team.OwnerID, "", authz.CapNone); err != nil {
		fail(c, err)
		return
	}
	if err := tc.Repo.DeleteTeam(c.Request.Context(), team.ID); err != nil {
		fail(c, err)
		return
	}
	_, _ = tc.Repo.LogAction(c.Request.Context(), actor.ID, actor.Email, "team.delete", team.ID, team.Name)
	c.JSON(http.StatusOK, app.H{"ok": true})
}
