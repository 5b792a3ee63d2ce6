package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samanvaya/samanvaya/pkg/errs"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// status maps the error taxonomy onto HTTP status codes.
func status(err error) int {
	switch {
	case errors.Is(err, errs.ErrUnknownCategory), errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrValidation):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	code := status(err)

	switch code {
	case http.StatusInternalServerError:
		// details stay in the server log
		_ = c.Error(err)
		c.JSON(code, ErrorResponse{Error: "internal error"})
	case http.StatusForbidden:
		if !GetIdentity(c).Authenticated() {
			unauthorized(c, "authentication required")
			return
		}
		c.JSON(code, ErrorResponse{Error: "forbidden"})
	case http.StatusBadRequest:
		var invalid *errs.ValidationError
		if errors.As(err, &invalid) {
			c.JSON(code, ErrorResponse{Error: invalid.Reason, Field: invalid.Field})
			return
		}
		c.JSON(code, ErrorResponse{Error: err.Error()})
	default:
		c.JSON(code, ErrorResponse{Error: err.Error()})
	}
}

func unauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", `Basic realm="samanvaya"`)
	c.JSON(http.StatusUnauthorized, ErrorResponse{Error: message})
}
