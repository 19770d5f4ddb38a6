package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"gribova.dev/Foodgram/pkg/auth"
	"gribova.dev/Foodgram/pkg/repository"
)

var (
	ErrForbidden = errors.New("you do not have permission to perform this action")
)

// ValidationError carries a field-level message; recipe validation
// accumulates several of them with multierr.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field string, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func errorsIsConflict(err error) bool {
	return errors.Is(err, repository.ErrConflict)
}

// renderError maps the error taxonomy onto HTTP statuses: validation
// 400, conflict 409, not found 404, auth 401, permission 403.
func renderError(c *gin.Context, logger *zap.Logger, err error) {
	var validationErr *ValidationError

	switch {
	case errors.As(err, &validationErr):
		fields := gin.H{}

		for _, each := range multierr.Errors(err) {
			var fieldErr *ValidationError
			if errors.As(each, &fieldErr) {
				fields[fieldErr.Field] = fieldErr.Message
			}
		}

		c.JSON(http.StatusBadRequest, fields)
	case errors.Is(err, repository.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"errors": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
	case errors.Is(err, auth.ErrBadCredentials), errors.Is(err, auth.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"detail": err.Error()})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"detail": err.Error()})
	default:
		logger.Error("internal error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error."})
	}
}
