package gerror

import "fmt"

// Error is the error type used for contract violations inside the simulation
// core. Recoverable level-data problems are logged instead, never returned.
type Error struct {
	Err string
}

func New(format string, args ...any) *Error {
	return &Error{Err: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return e.Err
}
