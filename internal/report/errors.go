package report

import (
	"errors"
	"fmt"
)

// Stage names the parsing phase an error was detected in, so a failed parse
// reports whether metadata extraction, structural checks or row handling
// went wrong.
type Stage string

const (
	StageRead      Stage = "read"
	StageMetadata  Stage = "metadata"
	StageStructure Stage = "structure"
	StageRow       Stage = "row"
)

// ErrEmptyInput is returned (wrapped in a ParseError) when the input stream
// contains no lines at all.
var ErrEmptyInput = errors.New("input is empty")

// ConfigError reports an invalid parser configuration: a malformed
// department filter code or an unusable field-width table. Configuration
// errors are detected before any input is consumed.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// ParseError reports a fatal problem with the input itself. Line is the
// 1-based physical line number where the problem was detected, or 0 when it
// concerns the stream as a whole.
type ParseError struct {
	Stage Stage
	Line  int
	Err   error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse failed at %s stage, line %d: %v", e.Stage, e.Line, e.Err)
	}
	return fmt.Sprintf("parse failed at %s stage: %v", e.Stage, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func parseErr(stage Stage, line int, format string, args ...any) *ParseError {
	return &ParseError{Stage: stage, Line: line, Err: fmt.Errorf(format, args...)}
}
