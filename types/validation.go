package types

import "fmt"

const (
	ErrInvalidName  = SentinelError("invalid subscriber name")
	ErrInvalidEmail = SentinelError("invalid subscriber email")
)

// ValidationKind identifies which value type rejected its input.
//
//go:generate go run golang.org/x/tools/cmd/stringer -type=ValidationKind
type ValidationKind int

const (
	InvalidName ValidationKind = iota + 1
	InvalidEmail
)

func (k ValidationKind) sentinel() error {
	if k == InvalidEmail {
		return ErrInvalidEmail
	}
	return ErrInvalidName
}

// ValidationError reports raw input that failed to parse into a value type.
//
// The Kind says which type rejected the input, not why. Reason is only for
// humans reading the message.
type ValidationError struct {
	Kind   ValidationKind
	Input  string
	Reason string
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: %q", e.Kind.sentinel(), e.Input)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Is matches the ErrInvalidName or ErrInvalidEmail sentinel for e.Kind, as well
// as any *ValidationError of the same Kind.
func (e *ValidationError) Is(target error) bool {
	if t, ok := target.(*ValidationError); ok {
		return t.Kind == e.Kind
	}
	return target == e.Kind.sentinel()
}
