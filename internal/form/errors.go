// internal/form/errors.go
//
// Formhook – Forms subsystem: validation error types.
//
// Context
//   Every rule failure becomes a FieldError keyed by its field path, e.g.
//   “email” or “techs[1].title”.  Validate collects them into an ErrorSet and
//   returns the set wrapped in *ValidationError so callers can tell user
//   input errors from system failures via errors.As / IsValidationError.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a rule failure.
type Kind int

const (
	KindEmpty Kind = iota + 1
	KindFormat
	KindDomain
	KindSize
	KindLength
	KindCount
	KindRange
)

// Sentinels matched by errors.Is against a FieldError.
var (
	ErrEmpty  = errors.New("empty")
	ErrFormat = errors.New("invalid format")
	ErrDomain = errors.New("domain not allowed")
	ErrSize   = errors.New("too large")
	ErrLength = errors.New("too short")
	ErrCount  = errors.New("wrong count")
	ErrRange  = errors.New("out of range")
)

var kindInfo = map[Kind]struct {
	name string
	err  error
}{
	KindEmpty:  {"empty", ErrEmpty},
	KindFormat: {"format", ErrFormat},
	KindDomain: {"domain", ErrDomain},
	KindSize:   {"size", ErrSize},
	KindLength: {"length", ErrLength},
	KindCount:  {"count", ErrCount},
	KindRange:  {"range", ErrRange},
}

func (k Kind) String() string {
	if ki, ok := kindInfo[k]; ok {
		return ki.name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// -----------------------------------------------------------------------------
// FieldError and ErrorSet
// -----------------------------------------------------------------------------

// FieldError describes a single validation failure so the renderer can show
// a field-level message.
type FieldError struct {
	Path    string // field path, e.g. techs[0].knowledge
	Kind    Kind
	Message string // user-facing message
}

func (fe FieldError) Error() string { return fe.Path + ": " + fe.Message }

// Unwrap exposes the kind sentinel.
func (fe FieldError) Unwrap() error { return kindInfo[fe.Kind].err }

// ErrorSet holds at most one FieldError per path, in rule order.
type ErrorSet []FieldError

func (s *ErrorSet) add(path string, kind Kind, msg string) {
	*s = append(*s, FieldError{Path: path, Kind: kind, Message: msg})
}

// Get returns the error recorded for path.
func (s ErrorSet) Get(path string) (FieldError, bool) {
	for _, fe := range s {
		if fe.Path == path {
			return fe, true
		}
	}
	return FieldError{}, false
}

// Messages flattens the set into path → message for renderers and JSON.
func (s ErrorSet) Messages() map[string]string {
	out := make(map[string]string, len(s))
	for _, fe := range s {
		out[fe.Path] = fe.Message
	}
	return out
}

// Paths lists the failing paths in rule order.
func (s ErrorSet) Paths() []string {
	out := make([]string, len(s))
	for i, fe := range s {
		out[i] = fe.Path
	}
	return out
}

// ValidationError wraps an ErrorSet and satisfies the error interface.
type ValidationError struct{ Errors ErrorSet }

func (ve *ValidationError) Error() string {
	return "form validation failed: " + strings.Join(ve.Errors.Paths(), ", ")
}

// IsValidationError reports whether err came from a failed Validate.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ErrorsOf returns the ErrorSet inside err, or nil.
func ErrorsOf(err error) ErrorSet {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Errors
	}
	return nil
}

// AvatarTooLarge is the failure for an avatar rejected before it could be
// read, e.g. when the request body hit the transport limit.
func AvatarTooLarge() *ValidationError {
	var errs ErrorSet
	errs.add("avatar", KindSize, msgAvatarSize)
	return &ValidationError{Errors: errs}
}

// rootField strips index and sub-path: techs[1].title → techs.
func rootField(path string) string {
	if i := strings.IndexAny(path, "[."); i != -1 {
		return path[:i]
	}
	return path
}
