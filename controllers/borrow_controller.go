package controllers

import (
	"net/http"
	"strconv"

	"labstock/app"
	"labstock/authz"
	"labstock/db"
	"labstock/models"

	"github.com/gin-gonic/gin"
)

type BorrowController struct{ *Srv }

func NewBorrowController(s *Srv) *BorrowController { return &BorrowController{Srv: s} }

type borrowReq struct {
	LabID      string `json:"labId" binding:"required,uuid"`
	TableName  string `json:"tableName" binding:"max=255"`
	SystemName string `json:"systemName" binding:"max=255"`
	ItemStatus string `json:"itemStatus" binding:"max=255"`
}

// POST /api/items/:id/borrow — any member of the item's team may borrow;
// the record is always written against the actor, never a third party.
func (bc *BorrowController) Borrow(c *gin.Context) {
	var in borrowReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	item, err := bc.Repo.FindItemByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	lab, err := bc.Repo.FindLabByID(c.Request.Context(), in.LabID)
	if err != nil {
		fail(c, err)
		return
	}
	// 实验室和物品必须属于同一个 team
	if lab.TeamID != item.TeamID {
		c.JSON(http.StatusBadRequest, app.H{"error": "lab and item belong to different teams"})
		return
	}

	actor := app.CurrentUser(c)
	if err := bc.Auth.Require(c.Request.Context(), actor, "", item.TeamID, authz.CapNone); err != nil {
		fail(c, err)
		return
	}

	rec := &models.UserItem{
		UserID:     actor.ID,
		ItemID:     item.ID,
		LabID:      lab.ID,
		TableName:  in.TableName,
		SystemName: in.SystemName,
		ItemStatus: in.ItemStatus,
	}
	if err := bc.Repo.CreateBorrowRecord(c.Request.Context(), rec); err != nil {
		fail(c, err)
		return
	}
	_, _ = bc.Repo.LogAction(c.Request.Context(), actor.ID, actor.Email, "item.borrow", item.ID, rec.ID)
	c.JSON(http.StatusCreated, rec)
}

// POST /api/borrows/:id/return — the borrower themselves, anyone with
// can_edit_items on the item's team, the owner, or a superuser.
func (bc *BorrowController) Return(c *gin.Context) {
	rec, err := bc.Repo.FindBorrowRecordByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	item, err := bc.Repo.FindItemByID(c.Request.Context(), rec.ItemID)
	if err != nil {
		fail(c, err)
		return
	}
	team, err := bc.Repo.FindTeamByID(c.Request.Context(), item.TeamID)
	if err != nil {
		fail(c, err)
		return
	}

	actor := app.CurrentUser(c)
	if actor.ID != rec.UserID {
		if err := bc.Auth.Require(c.Request.Context(), actor, team.OwnerID, team.ID, authz.CapEditItems); err != nil {
			fail(c, err)
			return
		}
	}

	rec, err = bc.Repo.ReturnBorrowRecord(c.Request.Context(), rec.ID)
	if err != nil {
		fail(c, err)
		return
	}
	_, _ = bc.Repo.LogAction(c.Request.Context(), actor.ID, actor.Email, "item.return", item.ID, rec.ID)
	c.JSON(http.StatusOK, rec)
}

// GET /api/teams/:id/borrows?status=open — membership-scoped ledger view.
func (bc *BorrowController) ListTeamBorrows(c *gin.Context) {
	team, err := bc.Repo.FindTeamByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	actor := app.CurrentUser(c)
	if err := bc.Auth.Require(c.Request.Context(), actor, team.OwnerID, team.ID, authz.CapNone); err != nil {
		fail(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	res, err := bc.Repo.ListBorrowRecords(c.Request.Context(), db.BorrowQuery{
		TeamID: team.ID,
		ItemID: c.Query("itemId"),
		LabID:  c.Query("labId"),
		UserID: c.Query("userId"),
		Status: c.Query("status"),
		Page:   page,
		Size:   size,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"total": res.Total, "records": res.Records})
}

// GET /api/me/borrows?status=open
func (bc *BorrowController) ListMyBorrows(c *gin.Context) {
	actor := app.CurrentUser(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	res, err := bc.Repo.ListBorrowRecords(c.Request.Context(), db.BorrowQuery{
		UserID: actor.ID,
		Status: c.Query("status"),
		Page:   page,
		Size:   size,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"total": res.Total, "records": res.Records})
}
