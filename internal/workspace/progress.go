package workspace

import "fmt"

// Stage is a step of the scan pipeline.
type Stage string

const (
	StageListing    Stage = "listing"
	StageParsing    Stage = "parsing"
	StageExtracting Stage = "extracting"
	StageBuilding   Stage = "building"
	StageDone       Stage = "done"
)

// ProgressEvent reports scan progress. Done and Total count files for the
// parsing and extracting stages.
type ProgressEvent struct {
	ScanID  string
	Stage   Stage
	Path    string
	Done    int
	Total   int
	Message string
}

// ProgressReporter emits progress events through a buffered channel.
type ProgressReporter struct {
	ch chan ProgressEvent
}

// NewProgressReporter creates a ProgressReporter with a buffered channel of size 64.
func NewProgressReporter() *ProgressReporter {
	return &ProgressReporter{
		ch: make(chan ProgressEvent, 64),
	}
}

// Emit sends a progress event in a non-blocking fashion.
// If the channel is full, the event is silently dropped.
func (pr *ProgressReporter) Emit(event ProgressEvent) {
	select {
	case pr.ch <- event:
	default:
	}
}

// Subscribe returns a read-only channel for consuming progress events.
func (pr *ProgressReporter) Subscribe() <-chan ProgressEvent {
	return pr.ch
}

// Close closes the progress event channel.
func (pr *ProgressReporter) Close() {
	close(pr.ch)
}

// FormatProgress formats a ProgressEvent as a human-readable status line.
func FormatProgress(event ProgressEvent) string {
	switch event.Stage {
	case StageListing:
		return "  ○ listing conflicted files"
	case StageParsing, StageExtracting:
		if event.Path == "" {
			return fmt.Sprintf("  ● %s (%d/%d)", event.Stage, event.Done, event.Total)
		}
		return fmt.Sprintf("  ● %s %s (%d/%d)", event.Stage, event.Path, event.Done, event.Total)
	case StageBuilding:
		return "  ● building relation graph"
	case StageDone:
		return fmt.Sprintf("  ✓ scan %s complete: %s", event.ScanID, event.Message)
	default:
		return fmt.Sprintf("  ? %s (unknown stage)", event.Stage)
	}
}
