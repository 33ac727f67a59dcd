package testutil

import (
	"encoding/json"
	"testing"

	"tir/internal/output"
)

// NormalizeReport strips the run-specific fields from report JSON and
// re-indents it with sorted keys so golden files stay byte-stable
// across runs. The input must be a full report document.
func NormalizeReport(t *testing.T, data []byte) []byte {
	t.Helper()

	stripped, err := output.NormalizeForSnapshot(data)
	if err != nil {
		t.Fatalf("Failed to normalize report: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(stripped, &parsed); err != nil {
		t.Fatalf("Failed to parse normalized report: %v", err)
	}

	return MarshalStable(t, parsed)
}

// MarshalStable marshals a value to indented JSON with sorted keys and
// a trailing newline. Structs are round-tripped through generic maps
// so field order never depends on declaration order.
func MarshalStable(t *testing.T, v any) []byte {
	t.Helper()

	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Failed to marshal value: %v", err)
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		t.Fatalf("Failed to round-trip value: %v", err)
	}

	out, err := json.MarshalIndent(generic, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal normalized value: %v", err)
	}

	return append(out, '\n')
}
