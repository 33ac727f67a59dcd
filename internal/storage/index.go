package storage

import (
	"database/sql"
	"fmt"
	"time"

	"tir/internal/resolve"
)

// IndexRun describes the run that produced the current index contents.
type IndexRun struct {
	ID               string    `json:"id"`
	GeneratedAt      time.Time `json:"generatedAt"`
	Root             string    `json:"root"`
	ToolVersion      string    `json:"toolVersion"`
	StaticComponents bool      `json:"staticComponents"`
	StaticHelpers    bool      `json:"staticHelpers"`
}

// TemplateUse is one reverse-lookup hit: a template together with the
// matched dependency record.
type TemplateUse struct {
	TemplatePath string `json:"templatePath"`
	Kind         string `json:"kind"`
	Name         string `json:"name"`
	RuntimeName  string `json:"runtimeName"`
	Module       string `json:"module"`
}

// IndexStore reads and writes the dependency index tables.
type IndexStore struct {
	db *DB
}

// NewIndexStore creates a new index store
func NewIndexStore(db *DB) *IndexStore {
	return &IndexStore{db: db}
}

// Replace swaps the entire index contents for the given run in one
// transaction. The previous run's rows are gone afterwards.
func (s *IndexStore) Replace(run IndexRun, results []*resolve.TemplateResult) error {
	return s.db.WithTx(func(tx *sql.Tx) error {
		// Children first so foreign keys stay satisfied throughout
		for _, table := range []string{"diagnostics", "dependencies", "templates", "runs"} {
			if _, err := tx.Exec("DELETE FROM " + table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}

		_, err := tx.Exec(`
			INSERT INTO runs (id, generated_at, root, tool_version, static_components, static_helpers)
			VALUES (?, ?, ?, ?, ?, ?)
		`,
			run.ID,
			run.GeneratedAt.UTC().Format(time.RFC3339),
			run.Root,
			run.ToolVersion,
			boolToInt(run.StaticComponents),
			boolToInt(run.StaticHelpers),
		)
		if err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}

		for _, tr := range results {
			if err := insertTemplate(tx, tr); err != nil {
				return err
			}
		}

		return nil
	})
}

func insertTemplate(tx *sql.Tx, tr *resolve.TemplateResult) error {
	errorCount, warningCount := 0, 0
	for _, d := range tr.Diagnostics {
		switch d.Severity {
		case resolve.SeverityError:
			errorCount++
		case resolve.SeverityWarning:
			warningCount++
		}
	}

	_, err := tx.Exec(`
		INSERT INTO templates (path, failed, record_count, error_count, warning_count)
		VALUES (?, ?, ?, ?, ?)
	`, tr.Path, boolToInt(tr.Failed()), len(tr.Records), errorCount, warningCount)
	if err != nil {
		return fmt.Errorf("failed to insert template %s: %w", tr.Path, err)
	}

	for _, r := range tr.Records {
		_, err := tx.Exec(`
			INSERT INTO dependencies (template_path, kind, name, runtime_name, module, convention)
			VALUES (?, ?, ?, ?, ?, ?)
		`, tr.Path, r.Kind, r.Name, r.RuntimeName, r.Module, r.Convention)
		if err != nil {
			return fmt.Errorf("failed to insert dependency %s: %w", r.RuntimeName, err)
		}
	}

	for _, d := range tr.Diagnostics {
		_, err := tx.Exec(`
			INSERT INTO diagnostics (template_path, severity, code, message, line, col)
			VALUES (?, ?, ?, ?, ?, ?)
		`, tr.Path, string(d.Severity), d.Code, d.Message, d.Loc.Line, d.Loc.Column)
		if err != nil {
			return fmt.Errorf("failed to insert diagnostic: %w", err)
		}
	}

	return nil
}

// Run returns the indexed run, or nil when the index has never been
// written.
func (s *IndexStore) Run() (*IndexRun, error) {
	var run IndexRun
	var generatedAt string
	var staticComponents, staticHelpers int

	err := s.db.QueryRow(`
		SELECT id, generated_at, root, tool_version, static_components, static_helpers
		FROM runs LIMIT 1
	`).Scan(&run.ID, &generatedAt, &run.Root, &run.ToolVersion, &staticComponents, &staticHelpers)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	run.GeneratedAt, err = time.Parse(time.RFC3339, generatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid generated_at format: %w", err)
	}
	run.StaticComponents = staticComponents != 0
	run.StaticHelpers = staticHelpers != 0

	return &run, nil
}

// TemplatesUsing returns every dependency record matching the given
// name, spelled as a runtime name, a canonical dashed name, or a
// module path. Results are ordered by template path, then runtime
// name.
func (s *IndexStore) TemplatesUsing(name string) ([]TemplateUse, error) {
	rows, err := s.db.Query(`
		SELECT template_path, kind, name, runtime_name, module
		FROM dependencies
		WHERE runtime_name = ? OR name = ? OR module = ?
		ORDER BY template_path, runtime_name, module
	`, name, name, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query dependencies: %w", err)
	}
	defer rows.Close()

	var uses []TemplateUse
	for rows.Next() {
		var u TemplateUse
		if err := rows.Scan(&u.TemplatePath, &u.Kind, &u.Name, &u.RuntimeName, &u.Module); err != nil {
			return nil, fmt.Errorf("failed to scan dependency: %w", err)
		}
		uses = append(uses, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate dependencies: %w", err)
	}

	return uses, nil
}

// DependenciesOf returns the indexed dependency records of one
// template, ordered by runtime name then module.
func (s *IndexStore) DependenciesOf(templatePath string) ([]TemplateUse, error) {
	rows, err := s.db.Query(`
		SELECT template_path, kind, name, runtime_name, module
		FROM dependencies
		WHERE template_path = ?
		ORDER BY runtime_name, module
	`, templatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to query dependencies: %w", err)
	}
	defer rows.Close()

	var uses []TemplateUse
	for rows.Next() {
		var u TemplateUse
		if err := rows.Scan(&u.TemplatePath, &u.Kind, &u.Name, &u.RuntimeName, &u.Module); err != nil {
			return nil, fmt.Errorf("failed to scan dependency: %w", err)
		}
		uses = append(uses, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate dependencies: %w", err)
	}

	return uses, nil
}

// Counts returns the number of indexed templates and dependency rows.
func (s *IndexStore) Counts() (templates int, dependencies int, err error) {
	if err = s.db.QueryRow("SELECT COUNT(*) FROM templates").Scan(&templates); err != nil {
		return 0, 0, fmt.Errorf("failed to count templates: %w", err)
	}
	if err = s.db.QueryRow("SELECT COUNT(*) FROM dependencies").Scan(&dependencies); err != nil {
		return 0, 0, fmt.Errorf("failed to count dependencies: %w", err)
	}
	return templates, dependencies, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
