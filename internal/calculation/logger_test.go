package calculation

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriterLogger(t *testing.T) {
	var buf bytes.Buffer
	l := WriterLogger{W: &buf}

	l.Debugf("building %s arm", "control")
	l.Warnf("row sums to %.2f", 1.25)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	if lines[0] != "DEBUG building control arm" {
		t.Errorf("unexpected debug line: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "WARN ") || !strings.Contains(lines[1], "1.25") {
		t.Errorf("unexpected warn line: %q", lines[1])
	}
}

func TestSetLogger_NilFallsBackToNop(t *testing.T) {
	e := NewEngine()
	e.SetLogger(nil)
	if _, ok := e.Logger.(NopLogger); !ok {
		t.Fatalf("expected NopLogger, got %T", e.Logger)
	}
}
