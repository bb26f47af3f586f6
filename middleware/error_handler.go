package middleware

import (
	"fmt"

	"github.com/formgate/formgate-backend/errors"
	"github.com/formgate/formgate-backend/logger"
	"github.com/formgate/formgate-backend/types"
	"github.com/gin-gonic/gin"
)

// ErrorHandler renders any error attached to the context as the JSON failure
// envelope. Raw detail is only exposed in debug mode; production clients get
// the generic message for the error class.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		if appError, ok := err.(*errors.AppError); ok {
			statusCode := appError.GetHTTPStatus()
			logger.LogHTTPError(c, err, statusCode, fmt.Sprintf("%s error", appError.Type))

			response := types.ErrorResponse{
				Success: false,
				Message: appError.Message,
				Errors:  appError.Fields,
			}

			// Field errors are always safe to return; free-form detail only
			// for user-correctable classes or in debug mode.
			if appError.Detail != "" && (gin.IsDebugging() ||
				appError.Type == errors.ValidationError ||
				appError.Type == errors.RateLimitError) {
				response.Detail = appError.Detail
			}

			c.JSON(statusCode, response)
			return
		}

		// Gin binding errors come through as public errors
		if c.Errors.Last().Type == gin.ErrorTypeBind {
			logger.LogHTTPError(c, err, 400, "Request binding error")

			response := types.ErrorResponse{
				Success: false,
				Message: "Failed to bind request",
			}
			if gin.IsDebugging() {
				response.Detail = err.Error()
			}

			c.JSON(400, response)
			return
		}

		logger.LogHTTPError(c, err, 500, "Unhandled error")

		response := types.ErrorResponse{
			Success: false,
			Message: "Internal server error",
		}
		if gin.IsDebugging() {
			response.Detail = err.Error()
		}

		c.JSON(500, response)
	}
}
