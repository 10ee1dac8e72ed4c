package domain

import (
	"errors"
	"fmt"
)

// Kind classifies failures so callers can tell "no result" apart from
// "component unusable" without matching on messages.
type Kind int

const (
	KindUnknown Kind = iota
	KindEmptyCorpus
	KindEmptyInput
	KindDimensionMismatch
	KindCorruptRecord
	KindEmptyCatalog
	KindInvalidArgument
	KindSnapshotMismatch
)

var (
	ErrEmptyCorpus       = errors.New("empty corpus")
	ErrEmptyInput        = errors.New("empty input")
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrCorruptRecord     = errors.New("corrupt record")
	ErrEmptyCatalog      = errors.New("empty catalog")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrSnapshotMismatch  = errors.New("snapshot mismatch")
)

var kindSentinels = map[Kind]error{
	KindEmptyCorpus:       ErrEmptyCorpus,
	KindEmptyInput:        ErrEmptyInput,
	KindDimensionMismatch: ErrDimensionMismatch,
	KindCorruptRecord:     ErrCorruptRecord,
	KindEmptyCatalog:      ErrEmptyCatalog,
	KindInvalidArgument:   ErrInvalidArgument,
	KindSnapshotMismatch:  ErrSnapshotMismatch,
}

func (k Kind) String() string {
	if s, ok := kindSentinels[k]; ok {
		return s.Error()
	}
	return "unknown error"
}

// Error carries a failure kind, the operation that produced it and an
// optional detail. It matches the sentinel of its kind under errors.Is.
type Error struct {
	Kind   Kind
	Op     string
	Detail string
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *Error) Is(target error) bool {
	return target == kindSentinels[e.Kind]
}

// Errorf builds an *Error of the given kind with a formatted detail.
func Errorf(kind Kind, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Detail: fmt.Sprintf(format, args...)}
}

// NewError builds an *Error without detail.
func NewError(kind Kind, op string) error {
	return &Error{Kind: kind, Op: op}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}
