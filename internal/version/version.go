// Package version provides version information for intray-live.
package version

// Version is the version of intray-live. This can be overridden at build time using ldflags.
var Version = "development"

// Commit is the git commit hash. This can be overridden at build time using ldflags.
var Commit = "unknown"

// String returns the full version string including the commit hash if available.
func String() string {
	if Commit != "unknown" {
		return Version + "+" + Commit
	}
	return Version
}

// UserAgent is the User-Agent sent on API requests and the websocket
// handshake.
func UserAgent() string {
	return "intray-live/" + String()
}
