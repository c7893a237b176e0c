package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"
)

func TestSetVerbose(t *testing.T) {
	defer SetVerbose(false)

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true")
	}

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false")
	}
}

func TestDebug_VerboseEnabled(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)
	defer func() {
		SetOutput(os.Stderr)
		SetVerbose(false)
	}()

	Debug("test message %s", "arg")

	got := buf.String()
	want := "[DEBUG] test message arg\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDebug_VerboseDisabled(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)
	defer SetOutput(os.Stderr)

	Debug("should not appear")

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestSection(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)
	defer func() {
		SetOutput(os.Stderr)
		SetVerbose(false)
	}()

	Section("Test Section")

	got := buf.String()
	want := "\n=== Test Section ===\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestInfo(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)
	defer func() {
		SetOutput(os.Stderr)
		SetVerbose(false)
	}()

	Info("indexed %d chunks", 42)

	got := buf.String()
	want := "[INFO] indexed 42 chunks\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTiming(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)
	defer func() {
		SetOutput(os.Stderr)
		SetVerbose(false)
	}()

	Timing("search", time.Now())

	got := buf.String()
	if !strings.HasPrefix(got, "[DEBUG] search took ") {
		t.Errorf("got %q, want a search timing line", got)
	}
}

func TestWarn(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)
	defer func() {
		SetOutput(os.Stderr)
		SetVerbose(false)
	}()

	Warn("metadata list truncated")

	got := buf.String()
	want := "[WARN] metadata list truncated\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
