// Package utils holds small shared helpers.
package utils

// Version is the build version, overridden at link time with
// -ldflags "-X .../pkg/utils.Version=v1.2.3".
var Version = "dev"

// Sha is the git commit the binary was built from, set at link time.
var Sha = "unknown"

// Buildtime is when the binary was built, set at link time.
var Buildtime = "unknown"
