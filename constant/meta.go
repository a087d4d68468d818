// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Jellysan is the canonical application identifier used for filesystem paths and CLI branding.
	Jellysan = "jellysan"

	// Version is the current application semantic version string.
	Version = "0.1.0"

	// ClientName identifies this client to the media server in authorization
	// headers and playback reports.
	ClientName = "Jellysan"

	// UserAgent is the default HTTP User-Agent string used for requests to the media server.
	UserAgent = Jellysan + "/" + Version
)

// Build metadata injected at link time via -ldflags.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)

// AsciiArtLogo is the application's ASCII art banner.
const AsciiArtLogo = `
     _      _ _
    (_) ___| | |_   _ ___  __ _ _ __
    | |/ _ \ | | | | / __|/ _` + "`" + ` | '_ \
    | |  __/ | | |_| \__ \ (_| | | | |
   _/ |\___|_|_|\__, |___/\__,_|_| |_|
  |__/          |___/
`
