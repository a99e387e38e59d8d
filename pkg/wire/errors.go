package wire

import "fmt"

// Error codes carried in ErrorBody.ErrorCode. The control plane's
// mapStoreError uses all of them except ErrCodeBadRequest.
const (
	ErrCodeInvalidSpec = "invalid_spec"
	ErrCodeNotFound    = "not_found"
	ErrCodeConflict    = "conflict"
	ErrCodeStoreError  = "store_error"
	ErrCodeBadRequest  = "bad_request"
)

// ErrorBody pairs an error code with a message. It is not sent as a JSON
// response body: the control plane's mapStoreError passes its Error() text
// ("code: message") as the message of an echo HTTP error, so the code is
// not a separate field of the response. The indexer does not use it.
type ErrorBody struct {
	ErrorCode string `json:"error"`
	Message   string `json:"message"`
}

func (e *ErrorBody) Error() string {
	return fmt.Sprintf("%s: %s", e.ErrorCode, e.Message)
}

// NewErrorBody builds an ErrorBody from a code and a formatted message.
func NewErrorBody(code, format string, args ...any) *ErrorBody {
	return &ErrorBody{ErrorCode: code, Message: fmt.Sprintf(format, args...)}
}

// SpecError reports a PipelineSpec validation failure (HTTP 400, invalid_spec).
type SpecError struct {
	Field string
	Err   error
}

func (e *SpecError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("field %q: %v", e.Field, e.Err)
	}
	return e.Err.Error()
}

func (e *SpecError) Unwrap() error { return e.Err }

// NewSpecError wraps err with the offending field name.
func NewSpecError(field string, err error) *SpecError {
	return &SpecError{Field: field, Err: err}
}
