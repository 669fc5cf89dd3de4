package output

import "ownerlint/internal/diagnostics"

// Finding is one diagnostic bound to the file it was reported in. Sinks
// consume findings; everything else they receive is a lifecycle Event.
type Finding struct {
	File string `json:"file"`
	diagnostics.Diagnostic
}

// Event is a lifecycle record for NDJSON streaming output.
//
// In NDJSON mode, sinks emit Events (one JSON object per line), including:
// - run.started
// - finding
// - run.finished
//
// JSON mode remains an aggregate of Finding values.
type Event struct {
	Type string `json:"type"`
	File string `json:"file,omitempty"`
	*Finding
	Findings int `json:"findings,omitempty"`
	ExitCode int `json:"exit_code,omitempty"`
}

func eventFromFinding(f Finding) Event {
	return Event{Type: "finding", File: f.File, Finding: &f}
}
