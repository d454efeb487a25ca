package domain

import "context"

// Options carries the user-tunable parts of a yt-dlp invocation that are
// constant across the attempts of one request.
type Options struct {
	Browser            string // cookie source for --cookies-from-browser
	SponsorblockMark   string // category list, YouTube only
	SponsorblockRemove string
	EmbedChapters      bool
	SleepInterval      int // seconds between downloads, 0 disables
	EnableSABR         bool
	POTProviderURL     string   // custom bgutil HTTP server base URL
	POTProviderScript  string   // bgutil script path for script mode
	ExtraArgs          []string // passed through to yt-dlp verbatim
}

// AttemptSpec is everything the invoker needs for one download attempt.
// The Fallback flag records whether this attempt is allowed to trigger
// further fallback; attempts spawned by the retry machine always carry
// false.
type AttemptSpec struct {
	URL       string
	Platform  Platform
	Client    Client
	Selector  string
	OutputDir string
	Fallback  bool
	Options   Options
}

// VideoInfo is the subset of yt-dlp's metadata JSON the wrapper needs.
type VideoInfo struct {
	Title       string `json:"title"`
	UploadDate  string `json:"upload_date"`
	ReleaseDate string `json:"release_date"`
}

// Invoker runs the external yt-dlp tool.
type Invoker interface {
	// VideoInfo fetches metadata under the short deadline.
	VideoInfo(ctx context.Context, url string) (*VideoInfo, error)

	// PremiumFormats scans the remote format list for Premium variants
	// under the short deadline.
	PremiumFormats(ctx context.Context, url string) ([]PremiumFormat, error)

	// Download runs the full media download under the long deadline and
	// always returns an AttemptResult, never a raw process error.
	Download(ctx context.Context, spec AttemptSpec) AttemptResult
}
