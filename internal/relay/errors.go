package relay

// Error codes sent to clients in error frames.
const (
	ErrCodeBadRequest    = "bad_request"
	ErrCodeUnknownAction = "unknown_action"
	ErrCodeRateLimited   = "rate_limited"
	ErrCodeUnauthorized  = "unauthorized"
	ErrCodeInternal      = "internal"
)

// Error wraps a code and human-readable message.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NewError builds an Error.
func NewError(code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}
