// Package version reports build metadata for streamkit binaries.
//
// Values are set with -ldflags and fall back to the VCS stamp the Go
// toolchain embeds:
//
//	go build -ldflags "-X github.com/kbukum/streamkit/version.Version=v0.3.0" ./cmd/streamstat
package version
