// Package logx is the ambient logging used throughout isomap: plain
// fmt.Fprintf to stderr with a fixed prefix, the same style the teacher
// (anvil2slime) and the rest of the retrieval pack's small CLI tools use
// in place of a structured logging library.
package logx

import (
	"fmt"
	"os"
)

var verbose bool

// SetVerbose toggles whether Debugf lines are printed.
func SetVerbose(v bool) {
	verbose = v
}

// Warnf logs a non-fatal condition: a skipped region, a skipped chunk, a
// malformed section. These correspond to the "logged, skipped" policy
// rows in the error-handling table.
func Warnf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "[isomap] warn: "+format+"\n", args...)
}

// Infof logs a normal progress line, always printed.
func Infof(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "[isomap] "+format+"\n", args...)
}

// Debugf logs a line only when verbose mode is enabled via SetVerbose.
func Debugf(format string, args ...interface{}) {
	if !verbose {
		return
	}
	fmt.Fprintf(os.Stderr, "[isomap] debug: "+format+"\n", args...)
}
