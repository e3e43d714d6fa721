package utils

import (
	"feedbackboard/internal/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

type ErrorResponse struct {
	Success bool                `json:"success"`
	Error   string              `json:"error"`
	Code    apperr.Kind         `json:"code"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

func RespondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, SuccessResponse{Success: true, Data: data})
}

// RespondError renders err through the error taxonomy. Internal failures
// are logged with the request context and rendered with a generic message.
func RespondError(c *gin.Context, logger *zap.SugaredLogger, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal && logger != nil {
		logger.Errorw("Request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
	}
	pub := apperr.Public(err)
	c.AbortWithStatusJSON(apperr.Status(kind), ErrorResponse{
		Success: false,
		Error:   pub.Message,
		Code:    pub.Kind,
		Details: pub.Details,
	})
}

// BindJSON decodes the request body into dst and validates it. Malformed
// JSON is reported as a VALIDATION_ERROR.
func BindJSON(c *gin.Context, dst interface{}) error {
	if err := DecodeJSON(c, dst); err != nil {
		return err
	}
	return apperr.ValidateStruct(dst)
}

// DecodeJSON decodes without validating, for bodies the service layer
// normalizes before checking.
func DecodeJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apperr.FromValidator(err)
	}
	return nil
}
