// Package version carries the todokit build version.
//
// Version and GitCommit are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/todokit/version.Version=1.2.0" ./cmd/todoist-smoke
//
// The HTTP transport sends UserAgent() on every request.
package version
