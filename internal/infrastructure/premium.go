package infrastructure

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yourusername/ytgrab/internal/domain"
)

var (
	formatIDPattern   = regexp.MustCompile(`^(\d+)\s+`)
	resolutionPattern = regexp.MustCompile(`(\d+)x(\d+)`)
)

// ParsePremiumFormats extracts Premium format entries from yt-dlp's -F
// table output. Lines without a parseable resolution keep height 0 so they
// still count as candidates, just never the best one.
func ParsePremiumFormats(output string) []domain.PremiumFormat {
	var formats []domain.PremiumFormat

	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, "Premium") {
			continue
		}

		idMatch := formatIDPattern.FindStringSubmatch(line)
		if idMatch == nil {
			continue
		}

		height := 0
		if resMatch := resolutionPattern.FindStringSubmatch(line); resMatch != nil {
			height, _ = strconv.Atoi(resMatch[2])
		}

		formats = append(formats, domain.PremiumFormat{
			ID:     idMatch[1],
			Height: height,
		})
	}

	return formats
}
