// Package export writes resolution reports to disk. Output is the
// deterministic JSON encoding of the report; a .zst destination gets
// zstd compression so whole-tree reports stay cheap to archive.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"tir/internal/logging"
	"tir/internal/output"
)

// Exporter writes reports using the configured compression level.
type Exporter struct {
	level  int
	logger *logging.Logger
}

// NewExporter creates an exporter. level is a standard zstd level
// (1-19); 0 uses the library default.
func NewExporter(level int, logger *logging.Logger) *Exporter {
	return &Exporter{level: level, logger: logger}
}

// WriteReport encodes the report and writes it to path, creating
// parent directories as needed. The extension decides the encoding:
// a path ending in .zst is compressed, anything else is plain JSON.
func (e *Exporter) WriteReport(rep *output.Report, path string) error {
	data, err := output.DeterministicEncodeIndented(rep, "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}

	if strings.HasSuffix(path, ".zst") {
		if err := e.writeCompressed(path, data); err != nil {
			return err
		}
	} else {
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	e.logger.Debug("Report exported", map[string]interface{}{
		"path":       path,
		"bytes":      len(data),
		"compressed": strings.HasSuffix(path, ".zst"),
	})
	return nil
}

func (e *Exporter) writeCompressed(path string, data []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	var opts []zstd.EOption
	if e.level > 0 {
		opts = append(opts, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(e.level)))
	}

	enc, err := zstd.NewWriter(f, opts...)
	if err != nil {
		return fmt.Errorf("failed to create compressor: %w", err)
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finish compression: %w", err)
	}
	return nil
}

// ReadReport loads an exported report, decompressing .zst files
// transparently.
func ReadReport(path string) (*output.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open report: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to create decompressor: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	rep, err := output.DecodeReport(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return rep, nil
}
