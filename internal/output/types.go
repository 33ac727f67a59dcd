package output

import (
	"encoding/json"
	"fmt"

	"tir/internal/resolve"
)

// SchemaVersion is bumped whenever the report shape changes in a way
// consumers can observe.
const SchemaVersion = 1

// Report is the complete outcome of one resolution run.
type Report struct {
	SchemaVersion int                       `json:"schemaVersion"`
	Run           RunInfo                   `json:"run"`
	Policies      Policies                  `json:"policies"`
	Templates     []*resolve.TemplateResult `json:"templates"`
	// Dependencies is the project-wide rollup of every resolved
	// module across all templates.
	Dependencies []Dependency `json:"dependencies"`
	Summary      Summary      `json:"summary"`
}

// RunInfo identifies one run. These are the only fields that vary
// between identical runs; snapshot comparison strips them.
type RunInfo struct {
	ID          string  `json:"id"`
	GeneratedAt string  `json:"generatedAt"`
	DurationMs  float64 `json:"durationMs"`
	Root        string  `json:"root"`
	Version     string  `json:"version"`
}

// Policies records which name classes were resolved statically.
type Policies struct {
	StaticComponents bool `json:"staticComponents"`
	StaticHelpers    bool `json:"staticHelpers"`
}

// Dependency is one resolved module and the templates that need it.
type Dependency struct {
	Kind        string   `json:"kind"`
	Name        string   `json:"name"`
	RuntimeName string   `json:"runtimeName"`
	Module      string   `json:"module"`
	Templates   []string `json:"templates"`
}

// Summary carries the run totals.
type Summary struct {
	Templates int `json:"templates"`
	Failed    int `json:"failed"`
	Records   int `json:"records"`
	Errors    int `json:"errors"`
	Warnings  int `json:"warnings"`
	// Suppressed counts warnings removed by the accepted baseline.
	Suppressed int `json:"suppressed,omitempty"`
}

// DecodeReport parses an encoded report and checks its schema
// version.
func DecodeReport(data []byte) (*Report, error) {
	var rep Report
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, err
	}
	if rep.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("unsupported report schema version %d", rep.SchemaVersion)
	}
	return &rep, nil
}
