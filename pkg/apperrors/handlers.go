package apperrors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the envelope every failed request returns.
// Mutating endpoints rely on the success flag, the UI shows message.
type ErrorResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Error   *AppError `json:"error,omitempty"`
}

// HandleError writes err as a JSON error response. Unknown error
// types become an opaque 500 so internals never leak to clients.
func HandleError(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPCode, ErrorResponse{
			Success: false,
			Message: appErr.Message,
			Error:   appErr,
		})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Success: false,
		Message: "Internal server error",
		Error:   InternalError(err),
	})
}

// AbortWithError is HandleError plus request abortion, for middleware.
func AbortWithError(c *gin.Context, err error) {
	HandleError(c, err)
	c.Abort()
}
