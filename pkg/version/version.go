// Package version provides the pydep tool version.
package version

// Version is the pydep tool version.
// Can be overridden at build time with:
//   go build -ldflags "-X github.com/arjun-kestrel/pydep/pkg/version.Version=1.2.0"
var Version = "dev"
