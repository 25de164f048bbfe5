// Package errs defines the error taxonomy shared by services and controllers:
// missing entities, rejected input, and violated business rules. Controllers
// map these onto HTTP status codes; nothing else is expected to cross the
// service boundary.
package errs

import "fmt"

// NotFoundError reports a lookup for an entity id that does not exist.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with id: %d", e.Resource, e.ID)
}

// NotFound builds a NotFoundError for the given resource and id.
func NotFound(resource string, id int64) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError reports malformed or out-of-range input. It is always
// raised before any mutation happens.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// BusinessError reports a violated business rule, e.g. insufficient stock.
// Callers must guarantee zero partial side effects when returning one.
type BusinessError struct {
	Msg string
}

func (e *BusinessError) Error() string { return e.Msg }

func Business(format string, args ...any) error {
	return &BusinessError{Msg: fmt.Sprintf(format, args...)}
}
