package scheduling

import "errors"

// Kind classifies the expected failure modes so the transport layer can map
// them to status codes without inspecting message text.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindUnauthorized
)

// Error carries the failure kind, the stable localization key and the
// resolved human-readable message. Infrastructure failures are never wrapped
// in an Error; they propagate as plain wrapped errors.
type Error struct {
	Kind    Kind
	Key     string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, key, message string) *Error {
	return &Error{Kind: kind, Key: key, Message: message}
}

// AsError unwraps a scheduling Error if err contains one.
func AsError(err error) (*Error, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
