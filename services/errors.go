package services

import (
	"errors"
	"fmt"
)

// Error taxonomy for the service layer. Validation errors are raised before
// any database round trip; everything the driver raises is wrapped and
// logged at the call site, never forwarded to clients verbatim.
var (
	ErrInvalidObjectID   = errors.New("invalid object id")
	ErrInvalidPagination = errors.New("invalid pagination parameters")
	ErrInvalidFilter     = errors.New("invalid filter")
	ErrAlreadyExists     = errors.New("already exists")
	ErrNotFound          = errors.New("not found")
	ErrTooManyDocuments  = errors.New("too many documents")
)

// ValidationError reports a naming-rule violation on an explicit create.
type ValidationError struct {
	Name   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid name %q: %s", e.Name, e.Reason)
}
