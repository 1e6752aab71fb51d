package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/farmart/livestock-api/internal/apperr"
	"github.com/farmart/livestock-api/internal/model"
)

const actorKey = "actor"

// TokenVerifier resolves a bearer token to the caller it was issued to.
type TokenVerifier interface {
	VerifyToken(token string) (model.Actor, error)
}

func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "unauthorized", "kind": apperr.KindAuthentication,
			})
			return
		}

		actor, err := verifier.VerifyToken(strings.TrimSpace(header[len("Bearer "):]))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": apperr.MessageOf(err), "kind": apperr.KindAuthentication,
			})
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// RequireRole rejects callers whose role differs from role.
func RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetActor(c).Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "only " + string(role) + "s can perform this action", "kind": apperr.KindForbidden,
			})
			return
		}
		c.Next()
	}
}

func GetActor(c *gin.Context) model.Actor {
	v, _ := c.Get(actorKey)
	actor, _ := v.(model.Actor)
	return actor
}
