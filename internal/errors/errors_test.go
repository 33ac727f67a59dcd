package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestNewTirError(t *testing.T) {
	cause := errors.New("underlying error")
	fixes := []FixAction{{Type: RunCommand, Command: "tir config init"}}
	drilldowns := []Drilldown{{Label: "Rules", Query: "rules show"}}

	err := NewTirError(ConfigMissing, "no configuration found", cause, fixes, drilldowns)

	if err.Code != ConfigMissing {
		t.Errorf("Code = %v, want %v", err.Code, ConfigMissing)
	}
	if err.Message != "no configuration found" {
		t.Errorf("Message = %q, want %q", err.Message, "no configuration found")
	}
	if len(err.SuggestedFixes) != 1 {
		t.Errorf("len(SuggestedFixes) = %d, want 1", len(err.SuggestedFixes))
	}
	if len(err.Drilldowns) != 1 {
		t.Errorf("len(Drilldowns) = %d, want 1", len(err.Drilldowns))
	}
}

func TestTirError_Error(t *testing.T) {
	tests := []struct {
		name      string
		code      ErrorCode
		message   string
		cause     error
		wantParts []string
	}{
		{
			name:      "with cause",
			code:      RulePackInvalid,
			message:   "bad rule pack",
			cause:     errors.New("yieldsSafeComponents[0] must be bool or table"),
			wantParts: []string{"RULE_PACK_INVALID", "bad rule pack", "yieldsSafeComponents[0]"},
		},
		{
			name:      "without cause",
			code:      ResolutionFailed,
			message:   "2 fatal diagnostics",
			cause:     nil,
			wantParts: []string{"RESOLUTION_FAILED", "2 fatal diagnostics"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewTirError(tt.code, tt.message, tt.cause, nil, nil)
			got := err.Error()

			for _, part := range tt.wantParts {
				if !strings.Contains(got, part) {
					t.Errorf("Error() = %q, want to contain %q", got, part)
				}
			}
		})
	}
}

func TestTirError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewTirError(InternalError, "something went wrong", cause, nil, nil)

	unwrapped := err.Unwrap()
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	// Test nil cause
	errNoCause := NewTirError(TemplateSyntax, "parse failed", nil, nil, nil)
	if errNoCause.Unwrap() != nil {
		t.Errorf("Unwrap() on error without cause should return nil")
	}
}

func TestTirError_WithDetails(t *testing.T) {
	err := NewTirError(TemplateSyntax, "parse failed", nil, nil, nil)
	details := map[string]int{"line": 12, "column": 4}

	result := err.WithDetails(details)

	// Check that it returns the same error (for chaining)
	if result != err {
		t.Error("WithDetails should return the same error for chaining")
	}

	// Check details are set
	if err.Details == nil {
		t.Error("Details should be set")
	}
}

func TestNewAttachesStandardFixes(t *testing.T) {
	err := New(IndexUnavailable, "cannot open index", nil)
	if len(err.SuggestedFixes) == 0 {
		t.Fatal("New() should attach the standard fixes for the code")
	}
	if err.SuggestedFixes[0].Command != "tir index" {
		t.Errorf("fix command = %q, want %q", err.SuggestedFixes[0].Command, "tir index")
	}
}

func TestGetSuggestedFixes(t *testing.T) {
	tests := []struct {
		code    ErrorCode
		wantNil bool
		wantLen int
	}{
		{ConfigMissing, false, 1},
		{AppRootMissing, false, 1},
		{RulePackInvalid, false, 1},
		{IndexUnavailable, false, 1},
		{IndexStale, false, 1},
		{ResolutionFailed, false, 1},
		{TemplateSyntax, true, 0}, // No predefined fixes
		{ExportFailed, true, 0},   // No predefined fixes
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			fixes := GetSuggestedFixes(tt.code)

			if tt.wantNil && fixes != nil {
				t.Errorf("GetSuggestedFixes(%v) = %v, want nil", tt.code, fixes)
			}
			if !tt.wantNil && len(fixes) != tt.wantLen {
				t.Errorf("GetSuggestedFixes(%v) len = %d, want %d", tt.code, len(fixes), tt.wantLen)
			}
		})
	}
}

func TestErrorCodes(t *testing.T) {
	// Ensure all error codes are unique
	codes := []ErrorCode{
		ConfigMissing,
		ConfigInvalid,
		AppRootMissing,
		RulePackInvalid,
		TemplateUnreadable,
		TemplateSyntax,
		ResolutionFailed,
		IndexUnavailable,
		IndexStale,
		BaselineInvalid,
		ExportFailed,
		InternalError,
	}

	seen := make(map[ErrorCode]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %v", code)
		}
		seen[code] = true

		// Ensure each code is a non-empty string
		if string(code) == "" {
			t.Error("Error code should not be empty")
		}
	}
}

func TestFixActionTypes(t *testing.T) {
	types := []FixActionType{RunCommand, OpenDocs}

	for _, ft := range types {
		if string(ft) == "" {
			t.Error("FixActionType should not be empty")
		}
	}
}

func TestDrilldownStructure(t *testing.T) {
	dd := Drilldown{
		Label: "Reverse dependencies",
		Query: "query --uses=component:pick-list",
	}

	if dd.Label != "Reverse dependencies" {
		t.Errorf("Label = %q, want %q", dd.Label, "Reverse dependencies")
	}
	if dd.Query != "query --uses=component:pick-list" {
		t.Errorf("Query = %q, want %q", dd.Query, "query --uses=component:pick-list")
	}
}

func TestErrorActionsMap(t *testing.T) {
	// Verify ErrorActions map has expected entries
	expectedCodes := []ErrorCode{
		ConfigMissing,
		AppRootMissing,
		RulePackInvalid,
		IndexUnavailable,
		IndexStale,
		ResolutionFailed,
	}

	for _, code := range expectedCodes {
		if _, ok := ErrorActions[code]; !ok {
			t.Errorf("ErrorActions missing entry for %v", code)
		}
	}

	// Verify each entry has valid fix actions
	for code, fixes := range ErrorActions {
		if len(fixes) == 0 {
			t.Errorf("ErrorActions[%v] has no fix actions", code)
		}
		for i, fix := range fixes {
			if fix.Type == "" {
				t.Errorf("ErrorActions[%v][%d].Type is empty", code, i)
			}
		}
	}
}
