package errors

import (
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// ConfigMissing indicates no project configuration was found
	ConfigMissing ErrorCode = "CONFIG_MISSING"
	// ConfigInvalid indicates the configuration file could not be used
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// AppRootMissing indicates the configured app root does not exist
	AppRootMissing ErrorCode = "APP_ROOT_MISSING"
	// RulePackInvalid indicates a rule pack file failed to load
	RulePackInvalid ErrorCode = "RULE_PACK_INVALID"
	// TemplateUnreadable indicates a template file could not be read
	TemplateUnreadable ErrorCode = "TEMPLATE_UNREADABLE"
	// TemplateSyntax indicates a template failed to parse
	TemplateSyntax ErrorCode = "TEMPLATE_SYNTAX"
	// ResolutionFailed indicates a run produced fatal diagnostics
	ResolutionFailed ErrorCode = "RESOLUTION_FAILED"
	// IndexUnavailable indicates the dependency index could not be opened
	IndexUnavailable ErrorCode = "INDEX_UNAVAILABLE"
	// IndexStale indicates the dependency index predates the current config
	IndexStale ErrorCode = "INDEX_STALE"
	// BaselineInvalid indicates the warning baseline file failed to load
	BaselineInvalid ErrorCode = "BASELINE_INVALID"
	// ExportFailed indicates a report export could not be written
	ExportFailed ErrorCode = "EXPORT_FAILED"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// OpenDocs suggests opening documentation
	OpenDocs FixActionType = "open-docs"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Safe        bool          `json:"safe,omitempty"`
	Description string        `json:"description,omitempty"`
	URL         string        `json:"url,omitempty"`
}

// Drilldown represents a suggested follow-up query
type Drilldown struct {
	Label string `json:"label"`
	Query string `json:"query"`
}

// TirError represents a TIR error with code, message, and suggestions
type TirError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	Drilldowns     []Drilldown `json:"drilldowns,omitempty"`
	cause          error       // Underlying error (not exported to JSON)
}

// NewTirError creates a new TirError
func NewTirError(code ErrorCode, message string, cause error, suggestedFixes []FixAction, drilldowns []Drilldown) *TirError {
	return &TirError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: suggestedFixes,
		Drilldowns:     drilldowns,
	}
}

// New creates a TirError with the standard fixes for its code
func New(code ErrorCode, message string, cause error) *TirError {
	return NewTirError(code, message, cause, GetSuggestedFixes(code), nil)
}

// Error implements the error interface
func (e *TirError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *TirError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *TirError) WithDetails(details interface{}) *TirError {
	e.Details = details
	return e
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	ConfigMissing: {
		{
			Type:        RunCommand,
			Command:     "tir config init",
			Safe:        true,
			Description: "Create a starter .tir/config.json",
		},
	},
	AppRootMissing: {
		{
			Type:        RunCommand,
			Command:     "tir config show",
			Safe:        true,
			Description: "Show the resolved configuration and appRoot",
		},
	},
	RulePackInvalid: {
		{
			Type:        RunCommand,
			Command:     "tir rules lint ${rule_file}",
			Safe:        true,
			Description: "Validate the rule pack and report the offending entry",
		},
	},
	IndexUnavailable: {
		{
			Type:        RunCommand,
			Command:     "tir index",
			Safe:        true,
			Description: "Rebuild the dependency index",
		},
	},
	IndexStale: {
		{
			Type:        RunCommand,
			Command:     "tir index",
			Safe:        true,
			Description: "Rebuild the dependency index from the current templates",
		},
	},
	ResolutionFailed: {
		{
			Type:        RunCommand,
			Command:     "tir rules show",
			Safe:        true,
			Description: "List the active rules to check for a missing entry",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}
