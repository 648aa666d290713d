package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an Error. Every user-visible failure carries exactly one kind.
type Kind int

const (
	KindUnknown Kind = iota
	KindGit
	KindState
	KindValidation
	KindFilesystem
	KindPet
)

// Code returns the short code printed in front of user-facing messages.
func (k Kind) Code() string {
	switch k {
	case KindGit:
		return "GIT_ERROR"
	case KindState:
		return "STATE_ERROR"
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindFilesystem:
		return "FILESYSTEM_ERROR"
	case KindPet:
		return "PET_ERROR"
	default:
		return "UNKNOWN_ERROR"
	}
}

func (k Kind) String() string { return k.Code() }

// Sentinel errors that can be used with errors.Is() for error type checking
var (
	// ErrNotGitRepository indicates the working directory is not inside a git work tree
	ErrNotGitRepository = errors.New("not a git repository")

	// ErrNoCommits indicates the repository has no commits yet
	ErrNoCommits = errors.New("no commits found")

	// ErrUnknownStage indicates a stage label outside the known set was used internally
	ErrUnknownStage = errors.New("unknown pet stage")

	// ErrInvalidState indicates a pet record that breaks its structural invariant
	ErrInvalidState = errors.New("invalid pet state")
)

// Error is the tagged error used across commit-pet.
// Hint is an optional remediation shown to the user below the message.
type Error struct {
	Kind    Kind
	Message string
	Hint    string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && !isSentinel(e.Err) {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Sentinels only classify; their text would repeat the message.
func isSentinel(err error) bool {
	switch err {
	case ErrNotGitRepository, ErrNoCommits, ErrUnknownStage, ErrInvalidState:
		return true
	}
	return false
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an Error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches kind and message to err. A nil err yields nil.
func Wrap(kind Kind, err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithHint returns e with a remediation hint attached.
func (e *Error) WithHint(hint string) *Error {
	e.Hint = hint
	return e
}

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// HintOf returns the remediation hint of the first *Error in err's chain, if any.
func HintOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Hint
	}
	return ""
}

// Format renders err for the terminal: "[CODE] message" for classified errors.
// Unclassified errors are reported by message only and nil by a generic text.
func Format(err error) string {
	if err == nil {
		return "An unknown error occurred"
	}
	var e *Error
	if errors.As(err, &e) {
		return fmt.Sprintf("[%s] %s", e.Kind.Code(), e.Error())
	}
	return err.Error()
}

// Is reports whether target is in err's chain.
// This is a convenience function that wraps errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience function that wraps errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}
