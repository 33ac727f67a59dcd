package output

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestDeterministicEncode(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		wantJSON string
	}{
		{
			name: "simple struct with floats",
			input: struct {
				Name  string  `json:"name"`
				Score float64 `json:"score"`
				Count int     `json:"count"`
			}{
				Name:  "test",
				Score: 0.123456789,
				Count: 42,
			},
			wantJSON: `{"count":42,"name":"test","score":0.123457}`,
		},
		{
			name: "struct with omitted nil fields",
			input: struct {
				Name  string   `json:"name"`
				Score *float64 `json:"score,omitempty"`
			}{
				Name:  "test",
				Score: nil,
			},
			wantJSON: `{"name":"test"}`,
		},
		{
			name: "struct with zero values and omitempty",
			input: struct {
				Name  string `json:"name"`
				Count int    `json:"count,omitempty"`
			}{
				Name:  "test",
				Count: 0,
			},
			wantJSON: `{"name":"test"}`,
		},
		{
			name: "map with sorted keys",
			input: map[string]interface{}{
				"zebra": "last",
				"alpha": "first",
				"beta":  "second",
			},
			wantJSON: `{"alpha":"first","beta":"second","zebra":"last"}`,
		},
		{
			name: "slice of structs",
			input: []struct {
				ID    string  `json:"id"`
				Value float64 `json:"value"`
			}{
				{ID: "a", Value: 1.123456789},
				{ID: "b", Value: 2.987654321},
			},
			wantJSON: `[{"id":"a","value":1.123457},{"id":"b","value":2.987654}]`,
		},
		{
			name:     "nil value",
			input:    nil,
			wantJSON: `null`,
		},
		{
			name:     "empty slice returns null",
			input:    []string{},
			wantJSON: `null`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeterministicEncode(tt.input)
			if err != nil {
				t.Fatalf("DeterministicEncode() error = %v", err)
			}

			// Compare JSON strings
			var gotObj, wantObj interface{}
			if err := json.Unmarshal(got, &gotObj); err != nil {
				t.Fatalf("Failed to unmarshal got: %v", err)
			}
			if err := json.Unmarshal([]byte(tt.wantJSON), &wantObj); err != nil {
				t.Fatalf("Failed to unmarshal want: %v", err)
			}

			gotJSON, _ := json.Marshal(gotObj)
			wantJSON, _ := json.Marshal(wantObj)

			if !bytes.Equal(gotJSON, wantJSON) {
				t.Errorf("DeterministicEncode() = %s, want %s", string(got), tt.wantJSON)
			}
		})
	}
}

func TestDeterministicEncodeConsistency(t *testing.T) {
	// Test that encoding the same data multiple times produces identical bytes
	data := map[string]interface{}{
		"dependencies": []Dependency{
			{Kind: "component", Name: "nav-bar", RuntimeName: "component:nav-bar", Module: "app/components/nav-bar.js", Templates: []string{"app/templates/index.hbs"}},
			{Kind: "helper", Name: "format-date", RuntimeName: "helper:format-date", Module: "app/helpers/format-date.js", Templates: []string{"app/templates/index.hbs", "app/templates/about.hbs"}},
		},
		"summary": Summary{Templates: 2, Records: 3, Errors: 1, Warnings: 2},
		"metadata": map[string]interface{}{
			"version": "1.0",
			"score":   0.123456789,
		},
	}

	// Encode 10 times
	var results [][]byte
	for i := 0; i < 10; i++ {
		encoded, err := DeterministicEncode(data)
		if err != nil {
			t.Fatalf("DeterministicEncode() error = %v", err)
		}
		results = append(results, encoded)
	}

	// All results should be byte-identical
	for i := 1; i < len(results); i++ {
		if !bytes.Equal(results[0], results[i]) {
			t.Errorf("Encoding is not deterministic:\nrun 0: %s\nrun %d: %s", string(results[0]), i, string(results[i]))
		}
	}
}

func TestDeterministicEncodeIndented(t *testing.T) {
	data := map[string]interface{}{
		"name":  "test",
		"value": 0.123456789,
	}

	got, err := DeterministicEncodeIndented(data, "  ")
	if err != nil {
		t.Fatalf("DeterministicEncodeIndented() error = %v", err)
	}

	// Verify it's valid JSON
	var decoded map[string]interface{}
	if err := json.Unmarshal(got, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal result: %v", err)
	}

	// Verify indentation is present
	if !bytes.Contains(got, []byte("\n")) {
		t.Error("DeterministicEncodeIndented() should produce indented output")
	}
}

func TestSummaryZeroSuppressedOmitted(t *testing.T) {
	got, err := DeterministicEncode(Summary{Templates: 1, Records: 2})
	if err != nil {
		t.Fatalf("DeterministicEncode() error = %v", err)
	}

	if bytes.Contains(got, []byte("suppressed")) {
		t.Errorf("zero suppressed count should be omitted, got %s", string(got))
	}

	got, err = DeterministicEncode(Summary{Templates: 1, Records: 2, Suppressed: 3})
	if err != nil {
		t.Fatalf("DeterministicEncode() error = %v", err)
	}
	if !bytes.Contains(got, []byte(`"suppressed":3`)) {
		t.Errorf("nonzero suppressed count should be encoded, got %s", string(got))
	}
}

func TestComplexNestedStructure(t *testing.T) {
	type nested struct {
		Dependencies []Dependency           `json:"dependencies"`
		Templates    []string               `json:"templates,omitempty"`
		Metadata     map[string]interface{} `json:"metadata"`
		Timestamp    *string                `json:"timestamp,omitempty"`
	}

	response := nested{
		Dependencies: []Dependency{
			{Kind: "component", Name: "b", RuntimeName: "component:b", Module: "app/components/b.js"},
			{Kind: "component", Name: "a", RuntimeName: "component:a", Module: "app/components/a.js"},
		},
		Templates: nil, // Should be omitted
		Metadata: map[string]interface{}{
			"zebra": "last",
			"alpha": "first",
			"score": 0.123456789,
		},
		Timestamp: nil, // Should be omitted
	}

	// Encode twice
	result1, err := DeterministicEncode(response)
	if err != nil {
		t.Fatalf("DeterministicEncode() error = %v", err)
	}

	result2, err := DeterministicEncode(response)
	if err != nil {
		t.Fatalf("DeterministicEncode() error = %v", err)
	}

	// Should be byte-identical
	if !bytes.Equal(result1, result2) {
		t.Errorf("Complex structure encoding is not deterministic:\n%s\nvs\n%s", string(result1), string(result2))
	}

	// Verify nil fields are omitted
	if bytes.Contains(result1, []byte("templates")) {
		t.Error("Nil templates field should be omitted")
	}
	if bytes.Contains(result1, []byte("timestamp")) {
		t.Error("Nil timestamp field should be omitted")
	}

	// Verify map keys are sorted
	var decoded map[string]interface{}
	if err := json.Unmarshal(result1, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	metadata, ok := decoded["metadata"].(map[string]interface{})
	if !ok {
		t.Fatal("metadata is not a map")
	}

	// Re-encode to check key order
	metadataJSON, _ := json.Marshal(metadata)
	if !bytes.Contains(metadataJSON, []byte(`"alpha"`)) ||
		!bytes.Contains(metadataJSON, []byte(`"score"`)) ||
		!bytes.Contains(metadataJSON, []byte(`"zebra"`)) {
		t.Error("metadata keys are not properly handled")
	}
}
