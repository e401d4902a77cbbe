package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"labstock/app"
	"labstock/db"
	"labstock/models"
	"labstock/security"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthController struct{ *Srv }

func NewAuthController(s *Srv) *AuthController { return &AuthController{Srv: s} }

// Authenticate looks the user up by email and verifies the password.
// Both failure paths return the same sentinel so a caller cannot tell an
// unknown email from a wrong password.
func (ac *AuthController) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := ac.Repo.FindUserByEmail(ctx, email)
	if errors.Is(err, db.ErrNotFound) {
		return nil, security.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !security.VerifyPassword(password, u.PasswordHash) {
		return nil, security.ErrInvalidCredentials
	}
	return u, nil
}

type registerReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=40"`
	FullName string `json:"fullName" binding:"max=255"`
}

// POST /api/auth/register
func (ac *AuthController) Register(c *gin.Context) {
	var in registerReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	u := &models.User{
		Email:        strings.ToLower(in.Email),
		PasswordHash: hash,
		FullName:     in.FullName,
		IsActive:     true,
	}
	if err := ac.Repo.CreateUser(c.Request.Context(), u); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /api/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var in loginReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	u, err := ac.Authenticate(c.Request.Context(), strings.ToLower(in.Email), in.Password)
	if err != nil {
		fail(c, err)
		return
	}
	if !u.IsActive {
		c.JSON(http.StatusForbidden, app.H{"error": "account is not active"})
		return
	}

	_ = ac.Repo.TouchUserLogin(c.Request.Context(), u.ID)

	token, err := security.CreateAccessToken(u.ID, ac.Cfg.JWTSecret, ac.Cfg.JWTTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}

	if ac.Sess != nil {
		sid := uuid.NewString()
		if err := ac.Sess.Create(c.Request.Context(), sid, u.ID); err == nil {
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     app.AppSessionCookie,
				Value:    sid,
				Path:     "/",
				MaxAge:   int(ac.Cfg.SessionTTL.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				Secure:   strings.HasPrefix(ac.Cfg.WebOrigin, "https://"),
			})
		}
	}

	c.JSON(http.StatusOK, app.H{"accessToken": token, "user": u})
}

// POST /api/auth/logout
func (ac *AuthController) Logout(c *gin.Context) {
	if ac.Sess != nil {
		if ck, err := c.Request.Cookie(app.AppSessionCookie); err == nil && ck.Value != "" {
			_ = ac.Sess.Delete(c.Request.Context(), ck.Value)
		}
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   strings.HasPrefix(ac.Cfg.WebOrigin, "https://"),
	})
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// GET /api/me
func (ac *AuthController) Me(c *gin.Context) {
	c.JSON(http.StatusOK, app.H{"user": app.CurrentUser(c)})
}

type updateMeReq struct {
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=8,max=40"`
	FullName *string `json:"fullName" binding:"omitempty,max=255"`
}

// PUT /api/me — partial update; a new password is re-hashed before it is
// persisted.
func (ac *AuthController) UpdateMe(c *gin.Context) {
	var in updateMeReq
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

	u, err := ac.Repo.UpdateUser(c.Request.Context(), app.CurrentUser(c).ID, fields)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
