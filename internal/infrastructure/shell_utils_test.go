package infrastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShellEscape(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain path untouched",
			input:    "/tmp/simple/path",
			expected: "/tmp/simple/path",
		},
		{
			name:     "spaces quoted",
			input:    "/tmp/path with spaces",
			expected: "'/tmp/path with spaces'",
		},
		{
			name:     "embedded single quote",
			input:    "/tmp/it's a test",
			expected: `'/tmp/it'"'"'s a test'`,
		},
		{
			name:     "shell metacharacters quoted",
			input:    "https://x.com/user/status/123?s=20&t=abc",
			expected: "'https://x.com/user/status/123?s=20&t=abc'",
		},
		{
			name:     "format selector quoted",
			input:    "bestvideo[height<=1080]+bestaudio/best",
			expected: "'bestvideo[height<=1080]+bestaudio/best'",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "''",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ShellEscape(tt.input))
		})
	}
}

func TestShellEscapeCommand(t *testing.T) {
	result := ShellEscapeCommand("yt-dlp",
		"-f", "best[height<=720]",
		"-P", "/tmp/my downloads",
		"https://youtu.be/abc")

	assert.Equal(t,
		"yt-dlp -f 'best[height<=720]' -P '/tmp/my downloads' https://youtu.be/abc",
		result)
}
