package app

import (
	"labstock/models"

	"github.com/gin-gonic/gin"
)

// CurrentUser returns the actor AuthRequired stored on the context.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get("user")
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}
