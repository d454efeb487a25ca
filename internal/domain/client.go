package domain

import "fmt"

// Client identifies one way of presenting requests to YouTube's player API.
// Which client is used decides which media formats and protections the
// remote side hands back, so switching clients is the primary recovery
// path when a download is rejected.
type Client string

const (
	ClientWeb          Client = "web"           // may be served SABR-only streams
	ClientAndroid      Client = "android"       // often still serves traditional formats
	ClientTV           Client = "tv"            // often still serves traditional formats
	ClientTVDowngraded Client = "tv_downgraded" // avoids SABR on logged-in accounts
	ClientMWeb         Client = "mweb"          // recommended together with a PO token
	ClientWebMusic     Client = "web_music"
	ClientAndroidMusic Client = "android_music"
)

// clientCatalog is the fixed priority order used for fallback selection.
// Order matters: earlier entries are tried first when a retry is needed.
var clientCatalog = []Client{
	ClientWeb,
	ClientAndroid,
	ClientTV,
	ClientTVDowngraded,
	ClientMWeb,
	ClientWebMusic,
	ClientAndroidMusic,
}

// DefaultClient is used when the caller does not pick one.
const DefaultClient = ClientWeb

// ParseClient validates a client name against the catalog. Unknown names
// are an error at construction time rather than a silently skipped
// fallback entry later.
func ParseClient(name string) (Client, error) {
	for _, c := range clientCatalog {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown client %q (valid: %v)", name, clientCatalog)
}

// FallbackEligible reports whether the client may be selected automatically
// during fallback. All catalog members are currently eligible.
func (c Client) FallbackEligible() bool {
	for _, e := range clientCatalog {
		if c == e {
			return true
		}
	}
	return false
}

// FallbackCatalog returns the fallback-eligible clients in fixed priority
// order. The returned slice is a copy.
func FallbackCatalog() []Client {
	catalog := make([]Client, len(clientCatalog))
	copy(catalog, clientCatalog)
	return catalog
}

// ClientNames returns the catalog as plain strings, for flag help text.
func ClientNames() []string {
	names := make([]string, len(clientCatalog))
	for i, c := range clientCatalog {
		names[i] = string(c)
	}
	return names
}
