package operation

import "strings"

// FieldError is a single problem with one input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors collects the problems found while decoding one operation's
// inputs so they can be reported together.
type FieldErrors []FieldError

// Add records a problem with field.
func (fe *FieldErrors) Add(field, message string) {
	*fe = append(*fe, FieldError{Field: field, Message: message})
}

// AddErr records err against field. Validation errors keep their message;
// other errors use Error().
func (fe *FieldErrors) AddErr(field string, err error) {
	if err == nil {
		return
	}
	fe.Add(field, MessageOf(err))
}

// Has reports whether field already has a recorded problem.
func (fe FieldErrors) Has(field string) bool {
	for _, e := range fe {
		if e.Field == field {
			return true
		}
	}
	return false
}

// Err returns nil when no problems were recorded, otherwise a validation
// *Error whose message lists every problem in the order found.
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	msgs := make([]string, len(fe))
	for i, e := range fe {
		msgs[i] = e.Message
	}
	return &Error{
		Type:    ErrorTypeValidation,
		Message: strings.Join(msgs, "; "),
		Fields:  fe,
	}
}
