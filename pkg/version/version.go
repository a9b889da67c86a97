// Package version provides version information for gptizer.
// These variables are set via ldflags during the build process.
package version

import (
	"fmt"
	"runtime"
)

// Version is the current version of the binary.
// Set via -ldflags "-X github.com/gptizer/gptizer/pkg/version.Version=..."
var Version = "dev"

// BuildDate is the date when the binary was built.
// Set via -ldflags "-X github.com/gptizer/gptizer/pkg/version.BuildDate=..."
var BuildDate = "unknown"

// GitCommit is the git commit hash used to build the binary.
// Set via -ldflags "-X github.com/gptizer/gptizer/pkg/version.GitCommit=..."
var GitCommit = "unknown"

// String returns the bare version.
func String() string {
	return Version
}

// FullString returns a one-line description for --version.
func FullString() string {
	if Version == "dev" {
		return "gptizer development version"
	}
	return "gptizer " + Version
}

// Info returns all version information as a map.
func Info() map[string]string {
	return map[string]string{
		"version":   Version,
		"buildDate": BuildDate,
		"gitCommit": GitCommit,
		"goVersion": runtime.Version(),
		"platform":  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}
