// Package buildinfo carries the version stamped into the moodboard binary.
//
// Release builds set the variables with the linker:
//
//	go build -ldflags "-X github.com/matzehuels/moodboard/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/moodboard/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/moodboard/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/moodboard
package buildinfo

import "strings"

// Stamped by the linker; the defaults identify a local build.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Template is the cobra version template for the root command. Only the
// command name is left for cobra to fill in.
func Template() string {
	return strings.Join([]string{
		"{{.Name}} version " + Version,
		"commit: " + Commit,
		"built: " + Date,
	}, "\n") + "\n"
}
