package version

// Version is the current ploneview release.
const Version = "0.4.0"

// BuildVersion returns the version string for display
func BuildVersion() string {
	return "ploneview version " + Version
}

// UserAgent is sent to the Plone backend on every request.
func UserAgent() string {
	return "ploneview/" + Version
}
