package core

// Build metadata, injected with ldflags:
//
//	go build -ldflags "-X hashart/core.Version=$(git describe --tags --always) \
//	    -X hashart/core.GitCommit=$(git rev-parse --short HEAD) \
//	    -X hashart/core.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)" .
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// GetVersionInfo returns e.g. "v1.0.0 (built 2024-01-15T10:30:00Z, commit abc1234)".
func GetVersionInfo() string {
	return Version + " (built " + BuildTime + ", commit " + GitCommit + ")"
}
