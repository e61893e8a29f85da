package response

import (
	"errors"

	"github.com/gin-gonic/gin"
	domainerrors "bid-wiser.backend/internal/domain/errors"
)

// Success sends a success envelope. Payload keys are merged alongside the
// success flag and message so handlers control the response shape.
func Success(c *gin.Context, status int, message string, payload gin.H) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// Error sends an error envelope
func Error(c *gin.Context, err error) {
	var appErr *domainerrors.AppError
	if !errors.As(err, &appErr) {
		// Default to Internal Server Error if not an AppError
		appErr = domainerrors.InternalError(err)
	}

	c.JSON(appErr.Status, gin.H{
		"success": false,
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}
