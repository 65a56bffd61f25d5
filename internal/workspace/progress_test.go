package workspace

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressReporter_EmitAndSubscribe(t *testing.T) {
	pr := NewProgressReporter()
	defer pr.Close()

	ch := pr.Subscribe()
	want := ProgressEvent{ScanID: "s1", Stage: StageParsing, Path: "a.go", Done: 1, Total: 2}
	pr.Emit(want)

	select {
	case got := <-ch:
		assert.Equal(t, want, got)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for progress event")
	}
}

func TestProgressReporter_EmitWhenFull_DoesNotBlock(t *testing.T) {
	pr := NewProgressReporter()
	defer pr.Close()

	// The internal channel buffer is 64. Emitting 100 events must never block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			pr.Emit(ProgressEvent{Stage: StageExtracting, Done: i, Total: 100})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Emit blocked when the channel was full")
	}
}

func TestProgressReporter_Close_ChannelClosed(t *testing.T) {
	pr := NewProgressReporter()
	ch := pr.Subscribe()

	pr.Emit(ProgressEvent{Stage: StageDone, Message: "ok"})
	pr.Close()

	var received []ProgressEvent
	for ev := range ch {
		received = append(received, ev)
	}
	require.Len(t, received, 1)
	assert.Equal(t, StageDone, received[0].Stage)
}

func TestFormatProgress(t *testing.T) {
	tests := []struct {
		name  string
		event ProgressEvent
		want  string
	}{
		{"listing", ProgressEvent{Stage: StageListing}, "  ○ listing conflicted files"},
		{"parsing", ProgressEvent{Stage: StageParsing, Path: "a.go", Done: 1, Total: 3}, "  ● parsing a.go (1/3)"},
		{"extracting without path", ProgressEvent{Stage: StageExtracting, Done: 2, Total: 3}, "  ● extracting (2/3)"},
		{"building", ProgressEvent{Stage: StageBuilding}, "  ● building relation graph"},
		{"done", ProgressEvent{ScanID: "s1", Stage: StageDone, Message: "4 conflicts in 3 files"}, "  ✓ scan s1 complete: 4 conflicts in 3 files"},
		{"unknown", ProgressEvent{Stage: "weird"}, "  ? weird (unknown stage)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatProgress(tt.event))
		})
	}
}
