package app

import (
	"net/http"
	"strings"

	"labstock/db"
	"labstock/security"
	"labstock/session"

	"github.com/gin-gonic/gin"
)

const AppSessionCookie = "app_session"

// AuthRequired resolves the actor: Bearer JWT first, session cookie as a
// fallback. The resolved *models.User lands in the context under "user".
// sess may be nil, which disables the cookie path.
func AuthRequired(sess *session.Store, repo *db.Repo, cfg Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var userID string

		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid authorization format"})
				return
			}
			claims, err := security.ParseAccessToken(parts[1], cfg.JWTSecret)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid or expired token"})
				return
			}
			userID = claims.UserID
		} else if sess != nil {
			ck, err := c.Request.Cookie(AppSessionCookie)
			if err != nil || ck.Value == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
				return
			}
			as, err := sess.Get(c.Request.Context(), ck.Value)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid session"})
				return
			}
			userID = as.UserID
		} else {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}

		u, err := repo.FindUserByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		if !u.IsActive {
			c.AbortWithStatusJSON(http.StatusForbidden, H{"error": "account is not active"})
			return
		}

		c.Set("user", u)
		c.Set("userID", u.ID)
		c.Next()
	}
}

// SuperuserOnly sits behind AuthRequired.
func SuperuserOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		if !u.IsSuperuser {
			c.AbortWithStatusJSON(http.StatusForbidden, H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
