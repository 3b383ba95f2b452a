package rest

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrMissingField is matched by every MissingFieldError. Any other error
// reaching an endpoint is an internal failure.
var ErrMissingField = errors.New("missing data in request")

// MissingFieldError names the required upload parts the client left out.
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingField, strings.Join(e.Fields, ", "))
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}
