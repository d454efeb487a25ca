package domain

import (
	"fmt"
	"strings"
)

// FormatPolicy describes how the yt-dlp format selector is built when the
// user does not supply one. Immutable once constructed.
type FormatPolicy struct {
	HeightTiers   []int    // resolution ceilings, highest first
	Codecs        []string // vcodec prefixes in preference order
	PreferPremium bool     // pin a Premium format when one is found
	Custom        string   // user-supplied selector, passed through verbatim
}

// DefaultFormatPolicy prefers AV1 over VP9 over H.264 at up to 4K,
// stepping down through common resolution tiers.
func DefaultFormatPolicy() FormatPolicy {
	return FormatPolicy{
		HeightTiers:   []int{2160, 1440, 1080, 720},
		Codecs:        []string{"av01", "vp9", "avc1"},
		PreferPremium: true,
	}
}

// PremiumFormat describes one Premium-only format found in the remote
// format list.
type PremiumFormat struct {
	ID     string
	Height int
}

// BestPremium picks the candidate with the strictly highest resolution.
// Ties keep the first-encountered candidate. Returns nil for an empty list.
func BestPremium(candidates []PremiumFormat) *PremiumFormat {
	var best *PremiumFormat
	for i := range candidates {
		if best == nil || candidates[i].Height > best.Height {
			best = &candidates[i]
		}
	}
	return best
}

// Selector builds the format-selection expression handed to yt-dlp.
//
// The expression is a '/'-separated list of clauses tried in order by the
// external tool; this function only guarantees the priority order, it never
// does any matching itself. The result is always non-empty.
func (p FormatPolicy) Selector(premium *PremiumFormat) string {
	if p.Custom != "" {
		return p.Custom
	}

	if premium != nil && p.PreferPremium {
		return fmt.Sprintf("%s+bestaudio/best", premium.ID)
	}

	var clauses []string
	for _, height := range p.HeightTiers {
		for _, codec := range p.Codecs {
			clauses = append(clauses,
				fmt.Sprintf("bestvideo[height<=%d][vcodec^=%s]+bestaudio", height, codec))
		}
	}
	// Unconditional last resort so the expression always matches something.
	clauses = append(clauses, "best")

	return strings.Join(clauses, "/")
}
