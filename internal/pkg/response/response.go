package response

import (
	"github.com/gin-gonic/gin"

	"petcare/internal/pkg/apperr"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// FromError writes the envelope for a service error. Internal errors are
// recorded on the gin context so the request logger picks them up, and the
// client only sees a generic message.
func FromError(c *gin.Context, err error) {
	status, code := apperr.Status(err)
	if code == "INTERNAL_ERROR" {
		_ = c.Error(err)
		Error(c, status, code, "Internal server error")
		return
	}
	Error(c, status, code, err.Error())
}

// BindError answers a malformed request body.
func BindError(c *gin.Context, err error) {
	ErrorWithDetails(c, 400, "VALIDATION_ERROR", "Invalid request body", err.Error())
}
