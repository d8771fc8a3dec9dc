package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/maxaizer/job-board/internal/apperr"
	"github.com/maxaizer/job-board/internal/logger"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"net/http"
)

const serverErrorMessage = "Server error"

// respondError renders expected failures with their own status and message.
// Anything else is logged and hidden behind a generic 500.
func respondError(c *gin.Context, err error) {

	if appErr, ok := apperr.As(err); ok {
		if appErr.Kind == apperr.KindUpstream || appErr.Kind == apperr.KindInternal {
			requestLog(c).Errorf("request failed: %v", err)
		}

		body := gin.H{"success": false, "message": appErr.Message}
		if len(appErr.Fields) > 0 {
			body["errors"] = appErr.Fields
		}
		c.AbortWithStatusJSON(appErr.Status(), body)
		return
	}

	requestLog(c).Errorf("request failed: %+v", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": serverErrorMessage})
}

// respondBindError renders a request that could not be decoded or failed tag validation.
func respondBindError(c *gin.Context, err error) {

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := lo.SliceToMap(validationErrors, func(fieldError validator.FieldError) (string, string) {
			return fieldError.Field(), fieldError.Tag()
		})
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request",
			"errors":  fields,
		})
		return
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
}

func requestLog(c *gin.Context) *log.Entry {
	return log.WithFields(log.Fields{
		logger.ErrorTypeField: logger.ErrorTypeHttp,
		"method":              c.Request.Method,
		"route":               c.FullPath(),
	})
}
