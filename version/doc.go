// Package version reports the build of the pipekit binary.
//
// Values are injected at link time and fall back to the VCS stamp Go
// embeds in the binary:
//
//	go build -ldflags "-X github.com/kbukum/pipekit/version.Version=1.2.0" ./cmd/pipekit
package version
