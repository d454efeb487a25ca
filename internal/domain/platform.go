package domain

import "strings"

// Platform is the source site a URL points at. Only YouTube gets the
// client/fallback and token-provider treatment; everything else is handed
// to yt-dlp as-is.
type Platform string

const (
	PlatformYouTube Platform = "youtube"
	PlatformX       Platform = "x"
	PlatformOther   Platform = "other"
)

var platformDomains = map[Platform][]string{
	PlatformYouTube: {"youtube.com", "youtu.be"},
	PlatformX:       {"twitter.com", "x.com"},
}

// DetectPlatform maps a URL to a platform by domain substring.
func DetectPlatform(url string) Platform {
	lower := strings.ToLower(url)
	for platform, domains := range platformDomains {
		for _, domain := range domains {
			if strings.Contains(lower, domain) {
				return platform
			}
		}
	}
	return PlatformOther
}
