package infrastructure

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// maxTitleLength bounds the sanitized title so the folder name stays well
// under filesystem limits.
const maxTitleLength = 100

// SanitizeTitle strips filesystem-unsafe characters from a video title and
// bounds its length.
func SanitizeTitle(title string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '\\', '/', ':', '*', '?', '"', '<', '>', '|':
			return -1
		}
		return r
	}, title)

	cleaned = strings.TrimSpace(cleaned)

	runes := []rune(cleaned)
	if len(runes) > maxTitleLength {
		cleaned = strings.TrimSpace(string(runes[:maxTitleLength]))
	}
	return cleaned
}

// FolderDate converts yt-dlp's yyyymmdd date into the folder prefix form.
// Empty or malformed dates fall back to today.
func FolderDate(dateStr string) string {
	if dateStr != "" {
		if parsed, err := time.Parse("20060102", dateStr); err == nil {
			return parsed.Format("2006.01.02")
		}
	}
	return time.Now().Format("2006.01.02")
}

// CreateOutputDir builds and creates the per-video output directory
// `<root>/<date> - <title>/`. The directory exists when this returns nil
// error.
func CreateOutputDir(root, title, dateStr string) (string, error) {
	cleaned := SanitizeTitle(title)
	if cleaned == "" {
		cleaned = "video"
	}

	folder := fmt.Sprintf("%s - %s", FolderDate(dateStr), cleaned)
	outputDir := filepath.Join(root, folder)

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("could not create output directory: %w", err)
	}
	return outputDir, nil
}
