package gateway

import "fmt"

// Gateway-originated result codes. Anything else in Result.Code came from the
// upstream API and is passed through verbatim.
const (
	// CodeAuthTokenMissing: an authenticated call was attempted with no
	// usable session token. No network call was made.
	CodeAuthTokenMissing = "AUTH_TOKEN_MISSING"

	// CodeSessionError: the session lookup itself failed.
	CodeSessionError = "SESSION_ERROR"

	// CodeNetworkError: transport failure or unparseable response body.
	CodeNetworkError = "NETWORK_ERROR"
)

// Result is the normalized outcome of one upstream API call. It mirrors the
// upstream envelope {success, code, data, message} as a tagged union: a
// success carries Data, a failure carries Message, never both. Callers must
// branch on Success (or use Unpack) before touching Data.
type Result[T any] struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Data    *T     `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// Fail builds a failure result with a gateway or upstream code.
func Fail[T any](code, message string) Result[T] {
	return Result[T]{Success: false, Code: code, Message: message}
}

// Unpack narrows the union: the payload on success, an *Error otherwise.
func (r Result[T]) Unpack() (*T, error) {
	if !r.Success {
		return nil, &Error{Code: r.Code, Message: r.Message}
	}
	return r.Data, nil
}

// Error carries an upstream or gateway failure across service boundaries
// without losing the code/message pair the dashboard renders.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
