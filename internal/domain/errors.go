package domain

// ValidationError reports a field-level rule violation. Handlers render it
// as a 400 with the message verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}
