// Package logger traces the curio ingestion and retrieval pipeline.
// Nothing is emitted unless verbose mode is switched on via the
// --verbose flag; output then goes to stderr so it never mixes with
// command results on stdout.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

type level string

const (
	levelDebug level = "DEBUG"
	levelInfo  level = "INFO"
	levelWarn  level = "WARN"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose tracing.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose reports whether verbose tracing is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects trace output away from stderr. Used by tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func logf(lv level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	fmt.Fprintf(output, "[%s] %s\n", lv, fmt.Sprintf(format, args...))
}

// Debug traces a pipeline step.
func Debug(format string, args ...any) { logf(levelDebug, format, args...) }

// Info traces a completed operation.
func Info(format string, args ...any) { logf(levelInfo, format, args...) }

// Warn traces a recoverable problem, such as a degraded provider or
// truncated input.
func Warn(format string, args ...any) { logf(levelWarn, format, args...) }

// Section marks the start of a pipeline stage in the trace.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	fmt.Fprintf(output, "\n=== %s ===\n", name)
}

// Timing reports how long a stage took. Deferred with the stage's
// start time:
//
//	defer logger.Timing("search", time.Now())
func Timing(stage string, start time.Time) {
	logf(levelDebug, "%s took %s", stage, time.Since(start).Round(time.Millisecond))
}
