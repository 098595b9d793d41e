package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

// FromError writes the response for an engine error. Lock and version
// details never reach the client: both retryable kinds collapse into the
// same "try again" answer.
func FromError(c *gin.Context, err error) {
	var be BusinessError
	if !errors.As(err, &be) {
		Internal(c, "internal_error", "Unexpected error.")
		return
	}

	switch be {
	case ErrNotFound:
		NotFound(c, be.Code, "Resource not found.")
	case ErrForbidden:
		Forbidden(c, be.Code, "You cannot change this resource.")
	case ErrInvalidTransition:
		Write(c, http.StatusConflict, be.Code, "This change is not allowed in the current state.")
	case ErrSlotConflict:
		Write(c, http.StatusConflict, be.Code, "This time is no longer available.")
	case ErrAlreadyReviewed:
		Write(c, http.StatusConflict, be.Code, "This booking was already reviewed.")
	case ErrEmptyQueue:
		Write(c, http.StatusConflict, be.Code, "Nobody is waiting.")
	case ErrEmailTaken:
		Write(c, http.StatusConflict, be.Code, "This e-mail is already registered.")
	case ErrBadCredentials:
		Unauthorized(c, be.Code, "Invalid e-mail or password.")
	case ErrConcurrentUpdate, ErrLockTimeout:
		Write(c, http.StatusServiceUnavailable, "try_again", "Please try again.")
	case ErrValidation, ErrInvalidService:
		Write(c, http.StatusUnprocessableEntity, be.Code, "Invalid request.")
	default:
		BadRequest(c, be.Code, "Invalid request.")
	}
}
