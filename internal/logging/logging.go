// Package logging gates detail logging behind the verbose flag. Progress,
// audit and error lines go through the standard logger unconditionally; only
// Debugf output is suppressed in default operation.
package logging

import (
	"log"
	"sync/atomic"
)

var verbose atomic.Bool

// SetVerbose enables or disables detail logging.
func SetVerbose(v bool) {
	verbose.Store(v)
}

// Verbose reports whether detail logging is enabled.
func Verbose() bool {
	return verbose.Load()
}

// Debugf writes a detail line when verbose logging is enabled.
func Debugf(format string, args ...any) {
	if verbose.Load() {
		log.Printf(format, args...)
	}
}
