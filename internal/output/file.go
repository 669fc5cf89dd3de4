package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileSink writes structured output to a file, delegating the encoding
// to an EmitSink. The format is inferred from the file extension when
// not given: .json is an aggregate array, .ndjson/.jsonl stream events.
type FileSink struct {
	path string
	file *os.File
	emit *EmitSink
}

func NewFileSink(path string, format string) (*FileSink, error) {
	if path == "" {
		return nil, fmt.Errorf("output path required")
	}

	if format == "" {
		ext := strings.ToLower(filepath.Ext(path))
		switch ext {
		case ".json":
			format = "json"
		case ".ndjson", ".jsonl":
			format = "ndjson"
		default:
			return nil, fmt.Errorf("cannot infer output format from file extension %q", ext)
		}
	}
	if format != "json" && format != "ndjson" {
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	emit, err := NewEmitSink(f, format)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, err
	}

	return &FileSink{path: path, file: f, emit: emit}, nil
}

func (s *FileSink) Write(v any) error {
	return s.emit.Write(v)
}

func (s *FileSink) Close() error {
	err := s.emit.Close()
	if closeErr := s.file.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}
