// Package version exposes build-time version metadata.
package version

// ListkeeperVersion is the semantic version string embedded at build time.
var ListkeeperVersion = "0.0.0-src"

// Set version at compile time with
// go build -ldflags "-X listkeeper/pkg/version.ListkeeperVersion=1.0.0" -o listkeeper

// For a release build with version and optimization flags:
// go build -ldflags "-s -w -X listkeeper/pkg/version.ListkeeperVersion=1.0.0" -o listkeeper
