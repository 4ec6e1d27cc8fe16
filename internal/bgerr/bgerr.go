// Package bgerr defines the closed set of failure kinds reported by the graph
// engine. Every error returned from the core wraps an *Error carrying one of
// these kinds, so callers can branch with errors.Is against the sentinels.
package bgerr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	Unknown Kind = iota
	NotFound
	DuplicateID
	WrongType
	IsConnected
	OutOfRange
	DoNotOwn
	PortFull
	NumPortsExceeded
	InvalidConnection
	WrongArgCount
	NoMemory
	NotImplemented
	ExternNotFound
)

var kindNames = map[Kind]string{
	Unknown:           "ERR_UNKNOWN",
	NotFound:          "ERR_NOT_FOUND",
	DuplicateID:       "ERR_DUPLICATE_ID",
	WrongType:         "ERR_WRONG_TYPE",
	IsConnected:       "ERR_IS_CONNECTED",
	OutOfRange:        "ERR_OUT_OF_RANGE",
	DoNotOwn:          "ERR_DO_NOT_OWN",
	PortFull:          "ERR_PORT_FULL",
	NumPortsExceeded:  "ERR_NUM_PORTS_EXCEEDED",
	InvalidConnection: "ERR_INVALID_CONNECTION",
	WrongArgCount:     "ERR_WRONG_ARG_COUNT",
	NoMemory:          "ERR_NO_MEMORY",
	NotImplemented:    "ERR_NOT_IMPLEMENTED",
	ExternNotFound:    "ERR_EXTERN_NOT_FOUND",
}

// String returns the stable name of the kind.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ERR_KIND(%d)", int(k))
}

// Error is a kinded failure. Op names the operation that failed.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Msg != "":
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Msg)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	return e.Kind.String()
}

// Is reports a match for any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrUnknown           = &Error{Kind: Unknown}
	ErrNotFound          = &Error{Kind: NotFound}
	ErrDuplicateID       = &Error{Kind: DuplicateID}
	ErrWrongType         = &Error{Kind: WrongType}
	ErrIsConnected       = &Error{Kind: IsConnected}
	ErrOutOfRange        = &Error{Kind: OutOfRange}
	ErrDoNotOwn          = &Error{Kind: DoNotOwn}
	ErrPortFull          = &Error{Kind: PortFull}
	ErrNumPortsExceeded  = &Error{Kind: NumPortsExceeded}
	ErrInvalidConnection = &Error{Kind: InvalidConnection}
	ErrWrongArgCount     = &Error{Kind: WrongArgCount}
	ErrNoMemory          = &Error{Kind: NoMemory}
	ErrNotImplemented    = &Error{Kind: NotImplemented}
	ErrExternNotFound    = &Error{Kind: ExternNotFound}
)

// New builds a kinded error for op with a formatted message.
func New(kind Kind, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain. A nil error
// has no kind and reports Unknown, as does any foreign error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}
