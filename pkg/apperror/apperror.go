package apperror

import (
	"errors"
	"fmt"
)

type Kind string

const (
	Config      Kind = "Config Error"
	Argument    Kind = "Argument Error"
	NotFound    Kind = "Resource Not Found Error"
	Duplication Kind = "Resource Duplication Error"
	Database    Kind = "DB Error"
)

// Error is raised intentionally by the data-access layer. Database errors
// never carry the driver error; it is logged where it happened.
type Error struct {
	Kind    Kind
	Message string
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
