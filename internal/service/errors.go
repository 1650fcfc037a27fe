package service

import (
	"errors"
	"fmt"
)

// Kind classifies the errors the match service reports to callers.
type Kind int

const (
	// KindNotFound means a requested report does not exist.
	KindNotFound Kind = iota + 1

	// KindInvalidState means a report exists but cannot be matched, because
	// a lost report is resolved or a found report was returned.
	KindInvalidState
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidState:
		return "invalid_state"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is a classified service error.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound)
// works regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrNotFound     = &Error{Kind: KindNotFound, Message: "not found"}
	ErrInvalidState = &Error{Kind: KindInvalidState, Message: "invalid state"}
)

func notFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func invalidState(format string, args ...any) error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of a classified error anywhere in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Errors returned when constructing a MatchService.
var (
	ErrRepositoryRequired = errors.New("repository is required")
	ErrMatcherRequired    = errors.New("matcher is required")
)
