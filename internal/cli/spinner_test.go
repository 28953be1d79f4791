package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestSpinnerFrameShowsMessage(t *testing.T) {
	s := newSpinnerWithContext(context.Background(), "Packing images...")
	if got := s.frame(0); !strings.Contains(got, "Packing images...") {
		t.Errorf("frame missing message: %q", got)
	}
	if s.frame(0) == s.frame(1) {
		t.Error("consecutive frames should show different glyphs")
	}
	if s.frame(0) != s.frame(len(spinnerFrames)) {
		t.Error("frames should cycle")
	}
}

func TestSpinnerStopClearsLine(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinnerWithContext(context.Background(), "Rendering pages...")
	s.out = &buf

	s.Start()
	s.Stop()
	s.Stop() // idempotent

	if out := buf.String(); !strings.HasSuffix(out, "\r") {
		t.Errorf("stopped spinner should leave the cursor at line start: %q", out)
	}
}

func TestSpinnerStopsOnContextCancel(t *testing.T) {
	var buf bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinnerWithContext(ctx, "Loading images...")
	s.out = &buf

	s.Start()
	cancel()
	<-s.stopped // animation goroutine exits on its own

	s.Stop()
}
