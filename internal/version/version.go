// Package version carries build identification, injected at link time via
// -ldflags.
package version

var (
	// Version is the release version of the binning engine.
	Version = "dev"
	// GitSHA is the git commit the binary was built from.
	GitSHA = "unknown"
	// BuildTime is the build timestamp.
	BuildTime = "unknown"
)

// String returns the combined build identification.
func String() string {
	return Version + " (" + GitSHA + ", " + BuildTime + ")"
}
