package controllers

import (
	"errors"
	"net/http"

	"labstock/app"
	"labstock/authz"
	"labstock/db"
	"labstock/security"
	"labstock/session"

	"github.com/gin-gonic/gin"
)

// Srv 聚合 handlers 的共享依赖
type Srv struct {
	Repo *db.Repo
	Auth *authz.Authorizer
	Sess *session.Store
	Cfg  app.Config
}

func NewSrv(a *app.App) *Srv {
	repo := db.NewRepo(a.DB)
	return &Srv{
		Repo: repo,
		Auth: authz.New(repo),
		Sess: a.Sessions,
		Cfg:  a.Config,
	}
}

// fail maps the error taxonomy onto transport status codes in one place.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": "not found"})
	case errors.Is(err, authz.ErrForbidden):
		c.JSON(http.StatusForbidden, app.H{"error": "forbidden"})
	case errors.Is(err, db.ErrConflict):
		c.JSON(http.StatusConflict, app.H{"error": "conflict"})
	case errors.Is(err, db.ErrAlreadyReturned):
		c.JSON(http.StatusConflict, app.H{"error": "record already returned"})
	case errors.Is(err, security.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, app.H{"error": "invalid credentials"})
	default:
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
	}
}
