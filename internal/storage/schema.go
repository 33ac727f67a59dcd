package storage

import (
	"database/sql"
	"fmt"
)

// Schema version tracking
const currentSchemaVersion = 1

// initializeSchema creates all tables for a new database
func (db *DB) initializeSchema() error {
	return db.WithTx(func(tx *sql.Tx) error {
		// Create schema_version table first
		if err := createSchemaVersionTable(tx); err != nil {
			return err
		}

		// Create all application tables
		if err := createRunsTable(tx); err != nil {
			return err
		}
		if err := createTemplatesTable(tx); err != nil {
			return err
		}
		if err := createDependenciesTable(tx); err != nil {
			return err
		}
		if err := createDiagnosticsTable(tx); err != nil {
			return err
		}

		// Set initial schema version
		if err := setSchemaVersion(tx, currentSchemaVersion); err != nil {
			return err
		}

		db.logger.Info("Index schema initialized", map[string]interface{}{
			"version": currentSchemaVersion,
		})

		return nil
	})
}

// runMigrations runs any pending schema migrations
func (db *DB) runMigrations() error {
	// Get current schema version
	version, err := db.getSchemaVersion()
	if err != nil {
		return err
	}

	if version == currentSchemaVersion {
		db.logger.Debug("Index schema is up to date", map[string]interface{}{
			"version": version,
		})
		return nil
	}

	db.logger.Info("Running index migrations", map[string]interface{}{
		"from_version": version,
		"to_version":   currentSchemaVersion,
	})

	// Run migrations sequentially
	// Add migration functions here as schema evolves

	return nil
}

// getSchemaVersion gets the current schema version
func (db *DB) getSchemaVersion() (int, error) {
	// Check if schema_version table exists
	var tableName string
	err := db.QueryRow(`
		SELECT name FROM sqlite_master
		WHERE type='table' AND name='schema_version'
	`).Scan(&tableName)

	if err == sql.ErrNoRows {
		// Table doesn't exist, this is a new database
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	// Get version
	var version int
	err = db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return version, nil
}

// setSchemaVersion sets the schema version
func setSchemaVersion(tx *sql.Tx, version int) error {
	_, err := tx.Exec("DELETE FROM schema_version")
	if err != nil {
		return err
	}
	_, err = tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version)
	return err
}

// createSchemaVersionTable creates the schema_version tracking table
func createSchemaVersionTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`)
	return err
}

// createRunsTable creates the runs table. It holds exactly one row,
// describing the run that produced the current index contents.
func createRunsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			generated_at TEXT NOT NULL,
			root TEXT NOT NULL,
			tool_version TEXT NOT NULL,
			static_components INTEGER NOT NULL,
			static_helpers INTEGER NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create runs table: %w", err)
	}
	return nil
}

// createTemplatesTable creates the templates table
func createTemplatesTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS templates (
			path TEXT PRIMARY KEY,
			failed INTEGER NOT NULL,
			record_count INTEGER NOT NULL,
			error_count INTEGER NOT NULL,
			warning_count INTEGER NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create templates table: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_templates_failed ON templates(failed)",
	}

	for _, indexSQL := range indexes {
		if _, err := tx.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// createDependenciesTable creates the dependencies table
func createDependenciesTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS dependencies (
			template_path TEXT NOT NULL,
			kind TEXT NOT NULL CHECK(kind IN ('component', 'helper')),
			name TEXT NOT NULL,
			runtime_name TEXT NOT NULL,
			module TEXT NOT NULL,
			convention TEXT NOT NULL,

			PRIMARY KEY (template_path, runtime_name, module),
			FOREIGN KEY (template_path) REFERENCES templates(path) ON DELETE CASCADE
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create dependencies table: %w", err)
	}

	// Create indexes for reverse lookups
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_dependencies_runtime_name ON dependencies(runtime_name)",
		"CREATE INDEX IF NOT EXISTS idx_dependencies_name ON dependencies(name)",
		"CREATE INDEX IF NOT EXISTS idx_dependencies_module ON dependencies(module)",
	}

	for _, indexSQL := range indexes {
		if _, err := tx.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// createDiagnosticsTable creates the diagnostics table
func createDiagnosticsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS diagnostics (
			template_path TEXT NOT NULL,
			severity TEXT NOT NULL CHECK(severity IN ('error', 'warning')),
			code TEXT NOT NULL,
			message TEXT NOT NULL,
			line INTEGER NOT NULL,
			col INTEGER NOT NULL,

			FOREIGN KEY (template_path) REFERENCES templates(path) ON DELETE CASCADE
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create diagnostics table: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_diagnostics_template_path ON diagnostics(template_path)",
		"CREATE INDEX IF NOT EXISTS idx_diagnostics_code ON diagnostics(code)",
	}

	for _, indexSQL := range indexes {
		if _, err := tx.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}
