package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"labstock/app"
	"labstock/security"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserController: superuser-only account administration.
type UserController struct{ *Srv }

func NewUserController(s *Srv) *UserController { return &UserController{Srv: s} }

// GET /api/users?q=alice&page=1&size=20
func (uc *UserController) ListUsers(c *gin.Context) {
	q := c.Query("q")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	res, err := uc.Repo.ListUsers(c.Request.Context(), q, page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"total": res.Total, "users": res.Users})
}

// GET /api/users/:id
func (uc *UserController) GetUser(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid uuid"})
		return
	}
	user, err := uc.Repo.FindUserByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"user": user})
}

type updateUserReq struct {
	Email       *string `json:"email" binding:"omitempty,email"`
	Password    *string `json:"password" binding:"omitempty,min=8,max=40"`
	FullName    *string `json:"fullName" binding:"omitempty,max=255"`
	IsActive    *bool   `json:"isActive"`
	IsSuperuser *bool   `json:"isSuperuser"`
}

// PUT /api/users/:id
func (uc *UserController) UpdateUser(c *gin.Context) {
	id := c.Param("id")
	var in updateUserReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	fields := map[string]any{}
	if in.Email != nil {
		fields["email"] = strings.ToLower(*in.Email)
	}
	if in.FullName != nil {
		fields["full_name"] = *in.FullName
	}
	if in.IsActive != nil {
		fields["is_active"] = *in.IsActive
	}
	if in.IsSuperuser != nil {
		fields["is_superuser"] = *in.IsSuperuser
	}
	if in.Password != nil {
		hash, err := security.HashPassword(*in.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
			return
		}
		fields["password_hash"] = hash
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, app.H{"error": "nothing to update"})
		return
	}

	u, err := uc.Repo.UpdateUser(c.Request.Context(), id, fields)
	if err != nil {
		fail(c, err)
		return
	}

	// Deactivation kicks the user out of all live sessions.
	if in.IsActive != nil && !*in.IsActive && uc.Sess != nil {
		_ = uc.Sess.RevokeAllForUser(c.Request.Context(), id)
	}
	c.JSON(http.StatusOK, u)
}

// DELETE /api/users/:id
func (uc *UserController) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	actor := app.CurrentUser(c)

	// 不允许删除自己，避免锁死
	if actor.ID == id {
		c.JSON(http.StatusBadRequest, app.H{"error": "cannot delete yourself"})
		return
	}

	if err := uc.Repo.DeleteUserByID(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	if uc.Sess != nil {
		_ = uc.Sess.RevokeAllForUser(c.Request.Context(), id)
	}
	_, _ = uc.Repo.LogAction(c.Request.Context(), actor.ID, actor.Email, "user.delete", id, "")
	c.JSON(http.StatusOK, app.H{"ok": true})
}
