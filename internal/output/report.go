package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"ownerlint/internal/diagnostics"
)

// ReportSink aggregates findings and writes a Markdown summary on Close:
// totals by severity, totals by code, and the worst files. Useful as a
// CI artifact next to the machine-readable outputs.
type ReportSink struct {
	path         string
	file         *os.File
	mu           sync.Mutex
	findings     []Finding
	files        map[string]struct{}
	exitCode     int
	haveExitCode bool
}

func NewReportSink(path string) (*ReportSink, error) {
	if path == "" {
		return nil, fmt.Errorf("report path required")
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create report file: %w", err)
	}

	return &ReportSink{
		path:  path,
		file:  f,
		files: make(map[string]struct{}),
	}, nil
}

func (s *ReportSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch t := v.(type) {
	case Finding:
		s.findings = append(s.findings, t)
		if t.File != "" {
			s.files[t.File] = struct{}{}
		}
	case Event:
		if t.File != "" {
			s.files[t.File] = struct{}{}
		}
		if t.Type == "run.finished" {
			s.exitCode = t.ExitCode
			s.haveExitCode = true
		}
	}
	return nil
}

var severityOrder = []diagnostics.Severity{
	diagnostics.SeverityError,
	diagnostics.SeverityWarning,
	diagnostics.SeverityInfo,
	diagnostics.SeverityHint,
}

func (s *ReportSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bySeverity := make(map[diagnostics.Severity]int)
	byCode := make(map[diagnostics.Code]int)
	byFile := make(map[string]int)
	for _, f := range s.findings {
		bySeverity[f.Severity]++
		byCode[f.Code]++
		byFile[f.File]++
	}

	var files []string
	for file := range s.files {
		files = append(files, file)
	}
	sort.Strings(files)

	var b strings.Builder
	b.WriteString("# CODEOWNERS Lint Report\n\n")

	if len(s.findings) == 0 {
		b.WriteString("No findings. ")
		b.WriteString(fmt.Sprintf("%d file(s) checked.\n", len(files)))
	} else {
		b.WriteString(fmt.Sprintf("%d finding(s) across %d file(s).\n\n", len(s.findings), len(files)))

		b.WriteString("## Findings by severity\n\n")
		b.WriteString("| Severity | Count |\n")
		b.WriteString("| --- | ---: |\n")
		for _, sev := range severityOrder {
			if n := bySeverity[sev]; n > 0 {
				b.WriteString(fmt.Sprintf("| %s | %d |\n", sev, n))
			}
		}
		b.WriteString("\n")

		b.WriteString("## Findings by code\n\n")
		b.WriteString("| Code | Count |\n")
		b.WriteString("| --- | ---: |\n")
		var codes []string
		for code := range byCode {
			codes = append(codes, string(code))
		}
		sort.Slice(codes, func(i, j int) bool {
			if byCode[diagnostics.Code(codes[i])] != byCode[diagnostics.Code(codes[j])] {
				return byCode[diagnostics.Code(codes[i])] > byCode[diagnostics.Code(codes[j])]
			}
			return codes[i] < codes[j]
		})
		for _, code := range codes {
			b.WriteString(fmt.Sprintf("| %s | %d |\n", code, byCode[diagnostics.Code(code)]))
		}
		b.WriteString("\n")

		b.WriteString("## Details\n\n")
		for _, file := range files {
			if byFile[file] == 0 {
				continue
			}
			b.WriteString(fmt.Sprintf("### %s\n\n", file))
			for _, f := range s.findings {
				if f.File != file {
					continue
				}
				b.WriteString(fmt.Sprintf("- line %d [%s] %s: %s\n", f.Line+1, f.Severity, f.Code, f.Message))
			}
			b.WriteString("\n")
		}
	}

	if s.haveExitCode {
		b.WriteString(fmt.Sprintf("\nExit code: %d\n", s.exitCode))
	}

	if _, err := s.file.WriteString(b.String()); err != nil {
		_ = s.file.Close()
		return err
	}
	return s.file.Close()
}
