package interfaces

import "net/url"

// -----------------------------------------------------------------------------
// IProxyRotator picks the outbound identity (proxy and User-Agent) of a request.
// -----------------------------------------------------------------------------

type IProxyRotator interface {

	// Current returns the proxy in use, or nil for a direct connection.
	Current() *url.URL

	// -----------------------------------------------------------------------------

	// Advance moves to the next proxy after a blocked or failed request.
	Advance()

	// -----------------------------------------------------------------------------

	// UserAgent returns the browser User-Agent for the next request.
	UserAgent() string
}
