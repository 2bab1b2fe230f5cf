package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/cristianoliveira/intray-live/internal/version"
)

// versionOutputWriter overrides where PrintVersion writes. Nil means stdout.
var versionOutputWriter io.Writer

// GetVersion returns the build version string.
func GetVersion() string {
	return version.String()
}

// PrintVersion writes the version line.
func PrintVersion() {
	w := versionOutputWriter
	if w == nil {
		w = os.Stdout
	}
	fmt.Fprintf(w, "intray-live v%s\n", GetVersion())
}
