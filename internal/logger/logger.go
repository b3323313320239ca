// Package logger is the stderr logger behind the --verbose flag.
//
// Debug and Info trace the ingestion and retrieval pipeline and only
// print in verbose mode. Warn reports degraded behavior (a failed
// client close, a settings reload that did not apply) and always
// prints. Section marks the phases of long admin runs such as refresh.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables pipeline tracing.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if pipeline tracing is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects log output. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Debug traces a pipeline step. Verbose mode only.
func Debug(format string, args ...any) {
	logf(true, "[DEBUG] ", format, args...)
}

// Info reports pipeline progress. Verbose mode only.
func Info(format string, args ...any) {
	logf(true, "[INFO] ", format, args...)
}

// Warn reports degraded behavior. Always printed.
func Warn(format string, args ...any) {
	logf(false, "[WARN] ", format, args...)
}

// Section marks a phase of a long admin run. Verbose mode only.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

func logf(verboseOnly bool, prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verboseOnly && !verbose {
		return
	}
	fmt.Fprintf(output, prefix+format+"\n", args...)
}
