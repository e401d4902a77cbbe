package controllers

import (
	"net/http"
	"strconv"

	"labstock/app"
	"labstock/authz"
	"labstock/models"

	"github.com/gin-gonic/gin"
)

type LabController struct{ *Srv }

func NewLabController(s *Srv) *LabController { return &LabController{Srv: s} }

type createLabReq struct {
	Place      string `json:"place" binding:"max=255"`
	University string `json:"university" binding:"max=255"`
	Num        string `json:"num" binding:"max=255"`
}

// POST /api/teams/:id/labs — needs can_edit_labs on the team (owner and
// superuser always pass); the creator becomes the lab's owner.
func (lc *LabController) CreateLab(c *gin.Context) {
	var in createLabReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	team, err := lc.Repo.FindTeamByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	actor := app.CurrentUser(c)
	if err := lc.Auth.Require(c.Request.Context(), actor, team.OwnerID, team.ID, authz.CapEditLabs); err != nil {
		fail(c, err)
		return
	}

	lab := &models.Lab{
		OwnerID:    actor.ID,
		TeamID:     team.ID,
		Place:      in.Place,
		University: in.University,
		Num:        in.Num,
	}
	if err := lc.Repo.CreateLab(c.Request.Context(), lab); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, lab)
}

// GET /api/teams/:id/labs — membership-scoped read.
func (lc *LabController) ListLabs(c *gin.Context) {
	team, err := lc.Repo.FindTeamByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	actor := app.CurrentUser(c)
	if err := lc.Auth.Require(c.Request.Context(), actor, team.OwnerID, team.ID, authz.CapNone); err != nil {
		fail(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	res, err := lc.Repo.ListLabsForTeam(c.Request.Context(), team.ID, page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"total": res.Total, "labs": res.Labs})
}

// GET /api/labs/:id
func (lc *LabController) GetLab(c *gin.Context) {
	lab, err := lc.Repo.FindLabByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	actor := app.CurrentUser(c)
	if err := lc.Auth.Require(c.Request.Context(), actor, lab.OwnerID, lab.TeamID, authz.CapNone); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, lab)
}

type updateLabReq struct {
	Place      *string `json:"place" binding:"omitempty,max=255"`
	University *string `json:"university" binding:"omitempty,max=255"`
	Num        *string `json:"num" binding:"omitempty,max=255"`
}

// PUT /api/labs/:id
func (lc *LabController) UpdateLab(c *gin.Context) {
	var in updateLabReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	lab, err := lc.Repo.FindLabByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	actor := app.CurrentUser(c)
	if err := lc.Auth.Require(c.Request.Context(), actor, lab.OwnerID, lab.TeamID, authz.CapEditLabs); err != nil {
		fail(c, err)
		return
	}

	fields := map[string]any{}
	if in.Place != nil {
		fields["place"] = *in.Place
	}
	if in.University != nil {
		fields["university"] = *in.University
	}
	if in.Num != nil {
		fields["num"] = *in.Num
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, app.H{"error": "nothing to update"})
		return
	}

	lab, err = lc.Repo.UpdateLab(c.Request.Context(), lab.ID, fields)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, lab)
}

// DELETE /api/labs/:id — takes the lab's borrow records with it.
func (lc *LabController) DeleteLab(c *gin.Context) {
	lab, err := lc.Repo.FindLabByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	actor := app.CurrentUser(c)
	if err := lc.Auth.Require(c.Request.Context(), actor, lab.OwnerID, lab.TeamID, authz.CapEditLabs); err != nil {
		fail(c, err)
		return
	}
	if err := lc.Repo.DeleteLab(c.Request.Context(), lab.ID); err != nil {
		fail(c, err)
		return
	}
	_, _ = lc.Repo.LogAction(c.Request.Context(), actor.ID, actor.Email, "lab.delete", lab.ID, "")
	c.JSON(http.StatusOK, app.H{"ok": true})
}
