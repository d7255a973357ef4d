package diag

import (
	"fmt"

	"gitlab.com/tozd/go/errors"
)

// ParseError reports malformed or unexpected input structure. It is fatal
// to the document.
type ParseError struct {
	Msg string
	Err error
}

func NewParseError(format string, args ...any) *ParseError {
	return &ParseError{Msg: fmt.Sprintf(format, args...)}
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return "parse error: " + e.Msg + ": " + e.Err.Error()
	}
	return "parse error: " + e.Msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// ConversionError reports a failure to convert one node. It is fatal to
// that node only.
type ConversionError struct {
	NodeID int
	Label  string
	Genus  string
	Msg    string
}

func NewConversionError(format string, args ...any) *ConversionError {
	return &ConversionError{Msg: fmt.Sprintf(format, args...)}
}

func (e *ConversionError) Error() string {
	if e.Genus != "" {
		return e.Genus + ": " + e.Msg
	}
	return e.Msg
}

// ProjectVersionError reports a component whose version cannot be upgraded
// safely. It is fatal to the whole document and no output is produced.
type ProjectVersionError struct {
	ComponentType string
	Version       int
	Problems      []string
}

func (e *ProjectVersionError) Error() string {
	msg := fmt.Sprintf("Version of component type %s in this project (version %d) is too old to be converted", e.ComponentType, e.Version)
	if len(e.Problems) > 0 {
		msg += fmt.Sprintf(" because of the following problems: %v.", e.Problems)
	} else {
		msg += "."
	}
	return msg + " You must upgrade the version of this component by reloading your project into the" +
		" legacy development environment and fixing any issues introduced by upgrading before saving" +
		" it as a new .zip file."
}

// ProjectError reports input that is not convertible as-is, such as an empty
// file or an archive that is not a legacy project.
type ProjectError struct {
	Msg string
}

func (e *ProjectError) Error() string { return e.Msg }

// SeverityOf classifies an error into a diagnostics channel.
func SeverityOf(err error) Severity {
	var (
		pe *ProjectError
		ve *ProjectVersionError
	)
	if errors.As(err, &pe) || errors.As(err, &ve) {
		return SeverityProject
	}
	return SeveritySystem
}
