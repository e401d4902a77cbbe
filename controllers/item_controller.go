package controllers

import (
	"net/http"
	"strconv"

	"labstock/app"
	"labstock/authz"
	"labstock/models"

	"github.com/gin-gonic/gin"
)

type ItemController struct{ *Srv }

func NewItemController(s *Srv) *ItemController { return &ItemController{Srv: s} }

type createItemReq struct {
	Name     string `json:"name" binding:"required,max=255"`
	Quantity int    `json:"quantity" binding:"omitempty,min=1"`
	ImgURL   string `json:"imgUrl" binding:"max=255"`
	Vendor   string `json:"vendor" binding:"max=255"`
	Params   string `json:"params" binding:"max=255"`
}

// POST /api/teams/:id/items — needs can_edit_items on the team.
func (ic *ItemController) CreateItem(c *gin.Context) {
	var in createItemReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	team, err := ic.Repo.FindTeamByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	actor := app.CurrentUser(c)
	if err := ic.Auth.Require(c.Request.Context(), actor, team.OwnerID, team.ID, authz.CapEditItems); err != nil {
		fail(c, err)
		return
	}

	item := &models.Item{
		TeamID:   team.ID,
		Name:     in.Name,
		Quantity: in.Quantity,
		ImgURL:   in.ImgURL,
		Vendor:   in.Vendor,
		Params:   in.Params,
	}
	if err := ic.Repo.CreateItem(c.Request.Context(), item); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// GET /api/teams/:id/items — membership-scoped read.
func (ic *ItemController) ListItems(c *gin.Context) {
	team, err := ic.Repo.FindTeamByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	actor := app.CurrentUser(c)
	if err := ic.Auth.Require(c.Request.Context(), actor, team.OwnerID, team.ID, authz.CapNone); err != nil {
		fail(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	res, err := ic.Repo.ListItemsForTeam(c.Request.Context(), team.ID, page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"total": res.Total, "items": res.Items})
}

// GET /api/items/:id
func (ic *ItemController) GetItem(c *gin.Context) {
	item, err := ic.Repo.FindItemByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	actor := app.CurrentUser(c)
	if err := ic.Auth.Require(c.Request.Context(), actor, "", item.TeamID, authz.CapNone); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

type updateItemReq struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=255"`
	Quantity *int    `json:"quantity" binding:"omitempty,min=0"`
	ImgURL   *string `json:"imgUrl" binding:"omitempty,max=255"`
	Vendor   *string `json:"vendor" binding:"omitempty,max=255"`
	Params   *string `json:"params" binding:"omitempty,max=255"`
}

// PUT /api/items/:id
func (ic *ItemController) UpdateItem(c *gin.Context) {
	var in updateItemReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	item, err := ic.Repo.FindItemByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	team, err := ic.Repo.FindTeamByID(c.Request.Context(), item.TeamID)
	if err != nil {
		fail(c, err)
		return
	}
	actor := app.CurrentUser(c)
	if err := ic.Auth.Require(c.Request.Context(), actor, team.OwnerID, team.ID, authz.CapEditItems); err != nil {
		fail(c, err)
		return
	}

	fields := map[string]any{}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Quantity != nil {
		fields["quantity"] = *in.Quantity
	}
	if in.ImgURL != nil {
		fields["img_url"] = *in.ImgURL
	}
	if in.Vendor != nil {
		fields["vendor"] = *in.Vendor
	}
	if in.Params != nil {
		fields["params"] = *in.Params
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, app.H{"error": "nothing to update"})
		return
	}

	item, err = ic.Repo.UpdateItem(c.Request.Context(), item.ID, fields)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DELETE /api/items/:id — takes the item's borrow records with it.
func (ic *ItemController) DeleteItem(c *gin.Context) {
	item, err := ic.Repo.FindItemByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	team, err := ic.Repo.FindTeamByID(c.Request.Context(), item.TeamID)
	if err != nil {
		fail(c, err)
		return
	}
	actor := app.CurrentUser(c)
	if err := ic.Auth.Require(c.Request.Context(), actor, team.OwnerID, team.ID, authz.CapEditItems); err != nil {
		fail(c, err)
		return
	}
	if err := ic.Repo.DeleteItem(c.Request.Context(), item.ID); err != nil {
		fail(c, err)
		return
	}
	_, _ = ic.Repo.LogAction(c.Request.Context(), actor.ID, actor.Email, "item.delete", item.ID, item.Name)
	c.JSON(http.StatusOK, app.H{"ok": true})
}
