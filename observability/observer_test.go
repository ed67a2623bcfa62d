package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/tripdesk/tripdesk/observability"
)

func TestLevel_SlogLevel(t *testing.T) {
	tests := []struct {
		level observability.Level
		want  slog.Level
	}{
		{observability.LevelVerbose, slog.LevelDebug},
		{observability.LevelInfo, slog.LevelInfo},
		{observability.LevelWarning, slog.LevelWarn},
		{observability.LevelError, slog.LevelError},
	}

	for _, tt := range tests {
		if got := tt.level.SlogLevel(); got != tt.want {
			t.Errorf("level %d: got %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestSlogObserver_EmitsTypeAndData(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	obs := observability.NewSlogObserver(logger)

	obs.OnEvent(context.Background(), observability.Event{
		Type:      "round.start",
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "orchestrate.RunRound",
		Data:      map[string]any{"session": "s-1"},
	})

	out := buf.String()
	if !strings.Contains(out, "round.start") {
		t.Errorf("output missing event type: %q", out)
	}
	if !strings.Contains(out, "session=s-1") {
		t.Errorf("output missing data attribute: %q", out)
	}
}

type countingObserver struct{ n int }

func (c *countingObserver) OnEvent(ctx context.Context, event observability.Event) { c.n++ }

func TestMultiObserver_FansOutAndSkipsNil(t *testing.T) {
	a := &countingObserver{}
	b := &countingObserver{}
	multi := observability.NewMultiObserver(a, nil, b)

	multi.OnEvent(context.Background(), observability.Event{Type: "round.complete"})

	if a.n != 1 || b.n != 1 {
		t.Errorf("got counts %d and %d, want 1 and 1", a.n, b.n)
	}
}
