package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/contracts-tracker/internal/common"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	StatusCode int    `json:"statusCode"`
	Code       string `json:"code"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
	Method     string `json:"method"`
	Message    string `json:"message"`
}

// statusFor maps an error kind to its HTTP status. A provider failure inside
// a failed extraction reports as 502, not 422.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrValidation),
		errors.Is(err, common.ErrInvalidInput),
		errors.Is(err, common.ErrTextExtraction):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrProvider):
		return http.StatusBadGateway
	case errors.Is(err, common.ErrParse),
		errors.Is(err, common.ErrExtractionFailed):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError writes the envelope for err. Errors that are not AppErrors
// are reported as a generic internal error.
func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := common.CodeInternal
	message := "Internal server error"

	var appErr *common.AppError
	if errors.As(err, &appErr) {
		status = statusFor(err)
		code = appErr.Code
		message = appErr.Message
	}
	if status >= 500 {
		common.LoggerFrom(c.Request.Context(), nil).Error("http.error",
			"path", c.Request.URL.Path,
			"status", status,
			"error", err,
		)
	}
	writeEnvelope(c, status, code, message)
	c.Abort()
}

func writeEnvelope(c *gin.Context, status int, code, message string) {
	c.JSON(status, errorBody{
		StatusCode: status,
		Code:       code,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Path:       c.Request.URL.Path,
		Method:     c.Request.Method,
		Message:    message,
	})
}
