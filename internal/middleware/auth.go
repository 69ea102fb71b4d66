package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"drycleaning/internal/pkg/jwt"
)

const (
	ContextOperatorID = "operator_id"
	ContextRole       = "role"
	ContextBranchCode = "branch_code"
)

// JWTAuth authenticates operators by the Bearer token in the Authorization header.
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			abortUnauthorized(c, "UNAUTHORIZED", "Missing Authorization header")
			return
		}

		if !strings.HasPrefix(h, "Bearer ") {
			abortUnauthorized(c, "UNAUTHORIZED", "Invalid Authorization header")
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if tokenStr == "" {
			abortUnauthorized(c, "UNAUTHORIZED", "Empty token")
			return
		}

		claims, err := jwtService.ValidateToken(tokenStr)
		if err != nil {
			abortUnauthorized(c, "INVALID_TOKEN", "Invalid token")
			return
		}

		c.Set(ContextOperatorID, claims.OperatorID)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextBranchCode, claims.BranchCode)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
