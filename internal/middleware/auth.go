package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"petcare/internal/domain"
	"petcare/internal/pkg/jwt"
	"petcare/internal/pkg/response"
	"petcare/internal/policy"
)

// JWTAuth validates the bearer token and exposes the account on the gin
// context ("account_id", "role", "staff_id") and the role on the request
// context for policy checks.
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || strings.TrimSpace(parts[1]) == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		role := domain.AccountRole(claims.Role)
		if !role.Valid() {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Unknown account role")
			c.Abort()
			return
		}

		c.Set("account_id", claims.AccountID)
		c.Set("role", string(role))
		if claims.StaffID != nil {
			c.Set("staff_id", *claims.StaffID)
		}
		c.Request = c.Request.WithContext(policy.WithRole(c.Request.Context(), role))
		c.Next()
	}
}
