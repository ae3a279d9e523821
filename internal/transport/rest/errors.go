package rest

import (
	"errors"
	"net/http"
	"time"

	"inventoryservice/internal/inventory"

	"github.com/gin-gonic/gin"
)

// APIError is the body returned for every failed request.
type APIError struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}

func statusFor(err error) int {
	var verrs inventory.ValidationErrors
	switch {
	case errors.Is(err, inventory.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, inventory.ErrInvalidQuantity), errors.As(err, &verrs):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, APIError{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Path:      c.Request.URL.Path,
	})
}

// writeError maps domain errors to status codes. Internal failures do not
// leak their description.
func (h *ProductHandler) writeError(c *gin.Context, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		message = "unexpected error, try again later"
	}
	abortWithError(c, status, message)
}
