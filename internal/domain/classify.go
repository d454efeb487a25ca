package domain

import "strings"

// ErrorCategory labels a failed yt-dlp run based on its diagnostic output.
type ErrorCategory string

const (
	// CategoryStreamingRestriction means the remote side is forcing an
	// adaptive-bitrate (SABR) delivery mode the current client cannot
	// satisfy. Usually resolved by switching clients.
	CategoryStreamingRestriction ErrorCategory = "streaming_restriction"

	// CategoryBotDetectionToken means a proof-of-origin (PO) token was
	// required and missing or rejected.
	CategoryBotDetectionToken ErrorCategory = "bot_detection_token"

	// CategoryTimeout means the attempt's deadline expired and the child
	// was killed. Assigned directly from the attempt outcome, never by
	// Classify.
	CategoryTimeout ErrorCategory = "timeout"

	// CategoryUnclassified means no known marker matched.
	CategoryUnclassified ErrorCategory = "unclassified"
)

// classificationRules maps marker phrases in yt-dlp output to a category.
// Order matters: the streaming-restriction markers are checked first
// because they are the more specific diagnosis ("... require a GVS PO
// Token" would otherwise also match the token markers). Extend this table
// when upstream messages change; control flow never needs touching.
var classificationRules = []struct {
	category ErrorCategory
	markers  []string
}{
	{
		category: CategoryStreamingRestriction,
		markers: []string{
			"web client https formats require a gvs po token",
			"youtube is forcing sabr streaming",
			"only sabr formats",
		},
	},
	{
		category: CategoryBotDetectionToken,
		markers: []string{
			"po token",
			"po_token",
			"requires a gvs po token",
		},
	},
}

// Classify maps captured diagnostic text to an ErrorCategory using
// case-insensitive substring matching. Pure function.
func Classify(diagnostics string) ErrorCategory {
	lower := strings.ToLower(diagnostics)
	for _, rule := range classificationRules {
		for _, marker := range rule.markers {
			if strings.Contains(lower, marker) {
				return rule.category
			}
		}
	}
	return CategoryUnclassified
}

// Retryable reports whether switching to another client is worth a retry.
func (c ErrorCategory) Retryable() bool {
	return c == CategoryStreamingRestriction || c == CategoryBotDetectionToken
}

// Hint returns remediation guidance shown to the user on terminal failure.
func (c ErrorCategory) Hint() string {
	switch c {
	case CategoryStreamingRestriction:
		return "The remote side is forcing SABR streaming for this client. " +
			"Try a different client (e.g. --client android or --client tv), " +
			"or install the PO token provider plugin: uv pip install bgutil-ytdlp-pot-provider"
	case CategoryBotDetectionToken:
		return "A PO token is required to bypass bot detection. " +
			"Install the provider plugin (uv pip install bgutil-ytdlp-pot-provider) and start its server:\n" +
			"  docker run --name bgutil-provider -d -p 4416:4416 --init brainicism/bgutil-ytdlp-pot-provider\n" +
			"Or try the mweb client: --client mweb"
	case CategoryTimeout:
		return "The download exceeded its deadline; check your connection or raise download_timeout"
	default:
		return "Run with --verbose and inspect the yt-dlp output; " +
			"a manually chosen client (--client) or format (--format) may help"
	}
}
