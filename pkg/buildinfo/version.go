// Package buildinfo holds version information injected at build time:
//
//	go build -ldflags "-X github.com/matzehuels/hawkeye/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/hawkeye/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/hawkeye/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Template returns the version template for cobra's --version.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}

// UserAgent identifies hawkeye in outgoing HTTP requests.
func UserAgent() string {
	return "hawkeye/" + Version
}
