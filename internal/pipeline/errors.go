package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorType int

const (
	// ErrConfig is a malformed locale registry or pipeline configuration.
	ErrConfig ErrorType = iota
	// ErrInvalidSourceTree is a source root lacking the application-data
	// subtree. Checked before any stage runs.
	ErrInvalidSourceTree
	// ErrExtractTool is a sidecar-extraction failure on a UI file.
	ErrExtractTool
	// ErrMessageTool is a template-catalog build failure.
	ErrMessageTool
	// ErrUpdateTool is a per-locale catalog bootstrap or merge failure.
	ErrUpdateTool
	// ErrMissingCatalog is a compile attempt against a locale that has no
	// per-locale catalog yet.
	ErrMissingCatalog
	// ErrCompileTool is a binary catalog compilation failure.
	ErrCompileTool
	ErrUnknown
)

type PipelineError struct {
	Type    ErrorType
	Message string
	Context map[string]any
	Cause   error
}

func NewError(errorType ErrorType, message string) *PipelineError {
	return &PipelineError{
		Type:    errorType,
		Message: message,
		Context: make(map[string]any),
	}
}

func NewErrorWithCause(errorType ErrorType, message string, cause error) *PipelineError {
	return &PipelineError{
		Type:    errorType,
		Message: message,
		Context: make(map[string]any),
		Cause:   cause,
	}
}

func (e *PipelineError) Error() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("[%s] %s", e.Type.String(), e.Message))

	if len(e.Context) > 0 {
		var ctxParts []string
		for k, v := range e.Context {
			ctxParts = append(ctxParts, fmt.Sprintf("%s=%v", k, v))
		}
		parts = append(parts, fmt.Sprintf("context: %s", strings.Join(ctxParts, ", ")))
	}

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause: %v", e.Cause))
	}

	return strings.Join(parts, " | ")
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

func (e *PipelineError) WithContext(key string, value any) *PipelineError {
	e.Context[key] = value
	return e
}

func (t ErrorType) String() string {
	switch t {
	case ErrConfig:
		return "Config"
	case ErrInvalidSourceTree:
		return "InvalidSourceTree"
	case ErrExtractTool:
		return "ExtractionTool"
	case ErrMessageTool:
		return "MessageExtractionTool"
	case ErrUpdateTool:
		return "UpdateTool"
	case ErrMissingCatalog:
		return "MissingCatalog"
	case ErrCompileTool:
		return "CompileTool"
	default:
		return "Unknown"
	}
}

// ExitCode maps an error type onto the process exit code contract.
// Distinct codes are kept stable for scripting against the CLI.
func (t ErrorType) ExitCode() int {
	switch t {
	case ErrConfig, ErrInvalidSourceTree, ErrExtractTool:
		return 2
	case ErrMessageTool:
		return 3
	case ErrUpdateTool:
		return 4
	case ErrMissingCatalog, ErrCompileTool:
		return 5
	default:
		return 1
	}
}

// ExitCode resolves any error to a process exit code. Errors outside the
// pipeline taxonomy map to 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var pipeErr *PipelineError
	if errors.As(err, &pipeErr) {
		return pipeErr.Type.ExitCode()
	}
	return 1
}

func IsErrorType(err error, errorType ErrorType) bool {
	var pipeErr *PipelineError
	if errors.As(err, &pipeErr) {
		return pipeErr.Type == errorType
	}
	return false
}

func WrapError(err error, errorType ErrorType, message string) *PipelineError {
	return NewErrorWithCause(errorType, message, err)
}
