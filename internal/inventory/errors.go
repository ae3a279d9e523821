package inventory

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidQuantity = errors.New("available quantity must be greater than zero")
)

func productNotFound(id int64) error {
	return fmt.Errorf("%w: id %d", ErrProductNotFound, id)
}

// ValidationError describes one rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("field '%s': %s", v.Field, v.Message)
}

// ValidationErrors is returned when one or more input fields are rejected.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}
