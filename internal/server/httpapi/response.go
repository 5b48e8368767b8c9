package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type apiResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

type apiError struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

func respond(c *gin.Context, status int, data any, message string) {
	c.JSON(status, apiResponse{StatusCode: status, Data: data, Message: message, Success: status < http.StatusBadRequest})
}

var statusByKind = []struct {
	kind   error
	status int
}{
	{common.ErrorBadRequest, http.StatusBadRequest},
	{common.ErrorUnauthorized, http.StatusUnauthorized},
	{common.ErrorForbidden, http.StatusForbidden},
	{common.ErrorNotFound, http.StatusNotFound},
	{common.ErrorConflict, http.StatusConflict},
	{common.ErrorTooManyRequests, http.StatusTooManyRequests},
}

// statusFor maps a classified error to its HTTP status. Unclassified
// errors are 500.
func statusFor(err error) int {
	for _, m := range statusByKind {
		if errors.Is(err, m.kind) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// writeError is the single error boundary of the HTTP edge.
func (s *Server) writeError(c *gin.Context, err error) {
	status := statusFor(err)

	msg := common.PublicMessage(err)
	if msg == "" {
		msg = http.StatusText(status)
	}

	details := []string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			details = append(details, fieldMessage(fe))
		}
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed", "route", c.FullPath(), "error", err)
	} else {
		s.logger.Debug(c.Request.Context(), "request rejected", "route", c.FullPath(), "status", status, "error", err)
	}

	c.AbortWithStatusJSON(status, apiError{StatusCode: status, Message: msg, Success: false, Errors: details})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email", fe.Field())
	case usernameTag:
		return fmt.Sprintf("%s must be 3 to 30 letters, digits, dots or underscores", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
	}
}

// badInput classifies a binding failure as a 400.
func badInput(err error) error {
	return common.WrapError(common.ErrorBadRequest, "Invalid request", err)
}
