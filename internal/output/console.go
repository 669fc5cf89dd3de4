package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"

	"ownerlint/internal/diagnostics"
)

type ConsoleSink struct {
	writer   io.Writer
	format   string // "text", "json", "ndjson"
	mu       sync.Mutex
	findings []Finding // For JSON array output
	minSev   diagnostics.Severity
}

// NewConsoleSink writes findings to w. minSeverity filters out findings
// below the threshold; empty means everything.
func NewConsoleSink(w io.Writer, format string, minSeverity diagnostics.Severity) *ConsoleSink {
	if w == nil {
		w = os.Stdout
	}
	if format == "" {
		format = "text"
	}
	return &ConsoleSink{
		writer: w,
		format: format,
		minSev: minSeverity,
	}
}

var severityColors = map[diagnostics.Severity]*color.Color{
	diagnostics.SeverityError:   color.New(color.FgRed, color.Bold),
	diagnostics.SeverityWarning: color.New(color.FgYellow),
	diagnostics.SeverityInfo:    color.New(color.FgCyan),
	diagnostics.SeverityHint:    color.New(color.Faint),
}

func severityLabel(sev diagnostics.Severity) string {
	if c, ok := severityColors[sev]; ok {
		return c.Sprint(string(sev))
	}
	return string(sev)
}

func (s *ConsoleSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(v)
}

func (s *ConsoleSink) writeLocked(v any) error {
	if s.minSev != "" {
		if f, ok := v.(Finding); ok && !f.Severity.AtLeast(s.minSev) {
			return nil
		}
	}

	switch s.format {
	case "json":
		f, ok := v.(Finding)
		if !ok {
			// Ignore lifecycle events in JSON console mode.
			return nil
		}
		s.findings = append(s.findings, f)
		return nil
	case "ndjson":
		encoder := json.NewEncoder(s.writer)
		switch t := v.(type) {
		case Event:
			if err := encoder.Encode(t); err != nil {
				return err
			}
			return flushIfPossible(s.writer)
		case Finding:
			if err := encoder.Encode(eventFromFinding(t)); err != nil {
				return err
			}
			return flushIfPossible(s.writer)
		default:
			return nil
		}
	case "text":
		f, ok := v.(Finding)
		if !ok {
			// Ignore events in text mode.
			return nil
		}
		// file:line:col with 1-based positions, the way compilers print.
		_, err := fmt.Fprintf(s.writer, "%s:%d:%d: %s: %s: %s\n",
			f.File, f.Line+1, f.StartChar+1, severityLabel(f.Severity), f.Code, f.Message)
		if err != nil {
			return err
		}
		return flushIfPossible(s.writer)
	default:
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
}

func (s *ConsoleSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.format == "json" {
		encoder := json.NewEncoder(s.writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(s.findings); err != nil {
			return err
		}
		return flushIfPossible(s.writer)
	}
	if s.format != "text" && s.format != "ndjson" {
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
	return nil
}
