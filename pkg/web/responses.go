package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"media-compress/internal/media"
	"media-compress/internal/service"
)

// ErrorResponse represents a standard error response format.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// statusFor maps a processing error to an HTTP status and a short code.
func statusFor(err error) (int, string) {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge, "too_large"
	case errors.Is(err, media.ErrUnsupportedInput):
		return http.StatusUnsupportedMediaType, "unsupported_input"
	case errors.Is(err, media.ErrNoFile):
		return http.StatusBadRequest, "no_file"
	case errors.Is(err, media.ErrInvalidSpec):
		return http.StatusBadRequest, "invalid_spec"
	case errors.Is(err, media.ErrDecode):
		return http.StatusUnprocessableEntity, "decode_failed"
	case errors.Is(err, media.ErrEncode):
		return http.StatusInternalServerError, "encode_failed"
	case errors.Is(err, service.ErrBusy):
		return http.StatusConflict, "busy"
	case errors.Is(err, media.ErrSuperseded):
		return http.StatusConflict, "superseded"
	case errors.Is(err, media.ErrNothingPending):
		return http.StatusNotFound, "nothing_pending"
	case errors.Is(err, media.ErrNothingProcessed):
		return http.StatusNotFound, "nothing_processed"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func respondError(c *gin.Context, err error) {
	status, code := statusFor(err)
	c.AbortWithStatusJSON(status, ErrorResponse{Error: code, Message: err.Error()})
}
