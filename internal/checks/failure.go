package checks

import (
	"errors"
	"fmt"
	"strings"
)

const (
	failureMessageTemplateConstant         = "%s: %s"
	failureDetailsTemplateConstant         = "%s: %s (%s)"
	unknownKindDescriptionConstant         = "unknown"
	pathErrorKindDescriptionConstant       = "path error"
	missingFileKindDescriptionConstant     = "missing file"
	syntaxKindDescriptionConstant          = "syntax error"
	schemaViolationKindDescriptionConstant = "schema violation"
	crossReferenceKindDescriptionConstant  = "cross-reference violation"
	unexpectedKindDescriptionConstant      = "unexpected error"
)

// Kind classifies why a check failed.
type Kind int

// Supported failure kinds.
const (
	KindPathError Kind = iota + 1
	KindMissingFile
	KindSyntax
	KindSchemaViolation
	KindCrossReference
	KindUnexpected
)

var kindDescriptions = map[Kind]string{
	KindPathError:       pathErrorKindDescriptionConstant,
	KindMissingFile:     missingFileKindDescriptionConstant,
	KindSyntax:          syntaxKindDescriptionConstant,
	KindSchemaViolation: schemaViolationKindDescriptionConstant,
	KindCrossReference:  crossReferenceKindDescriptionConstant,
	KindUnexpected:      unexpectedKindDescriptionConstant,
}

// String returns a human-readable description of the kind.
func (kind Kind) String() string {
	if description, known := kindDescriptions[kind]; known {
		return description
	}
	return unknownKindDescriptionConstant
}

// Failure is a typed check failure carrying an operator-facing message and optional parser detail.
// Subjects names the offending identifiers when the failure concerns specific entries.
type Failure struct {
	Kind     Kind
	Message  string
	Details  string
	Subjects []string
	Cause    error
}

// NewFailure constructs a Failure without an underlying cause.
func NewFailure(kind Kind, message string) *Failure {
	return &Failure{Kind: kind, Message: message}
}

// WrapFailure constructs a Failure whose details come from the wrapped cause.
func WrapFailure(kind Kind, message string, cause error) *Failure {
	failure := &Failure{Kind: kind, Message: message, Cause: cause}
	if cause != nil {
		failure.Details = strings.TrimSpace(cause.Error())
	}
	return failure
}

// Error implements error.
func (failure *Failure) Error() string {
	if failure == nil {
		return ""
	}
	if len(failure.Details) == 0 {
		return fmt.Sprintf(failureMessageTemplateConstant, failure.Kind, failure.Message)
	}
	return fmt.Sprintf(failureDetailsTemplateConstant, failure.Kind, failure.Message, failure.Details)
}

// Unwrap exposes the underlying cause.
func (failure *Failure) Unwrap() error {
	if failure == nil {
		return nil
	}
	return failure.Cause
}

// KindOf reports the Kind of the first Failure found in the error chain.
func KindOf(err error) (Kind, bool) {
	var failure *Failure
	if !errors.As(err, &failure) {
		return 0, false
	}
	return failure.Kind, true
}
