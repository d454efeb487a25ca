package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		diagnostics string
		expected    ErrorCategory
	}{
		{
			name:        "SABR forcing message",
			diagnostics: "WARNING: YouTube is forcing SABR streaming for this client",
			expected:    CategoryStreamingRestriction,
		},
		{
			name:        "only SABR formats",
			diagnostics: "ERROR: this video has only SABR formats available",
			expected:    CategoryStreamingRestriction,
		},
		{
			name:        "web client GVS message",
			diagnostics: "web client https formats require a GVS PO Token",
			expected:    CategoryStreamingRestriction,
		},
		{
			name:        "PO token required",
			diagnostics: "ERROR: [youtube] abc: requires a PO Token for this client",
			expected:    CategoryBotDetectionToken,
		},
		{
			name:        "snake case token marker",
			diagnostics: "missing po_token for android client",
			expected:    CategoryBotDetectionToken,
		},
		{
			name:        "case insensitive matching",
			diagnostics: "YOUTUBE IS FORCING sabr STREAMING",
			expected:    CategoryStreamingRestriction,
		},
		{
			name:        "unrelated failure",
			diagnostics: "ERROR: HTTP Error 403: Forbidden",
			expected:    CategoryUnclassified,
		},
		{
			name:        "empty diagnostics",
			diagnostics: "",
			expected:    CategoryUnclassified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.diagnostics))
		})
	}
}

// When both marker families appear, the streaming-restriction diagnosis
// wins: it is the more specific signal about format negotiation.
func TestClassify_Precedence(t *testing.T) {
	diagnostics := "YouTube is forcing SABR streaming; this client requires a PO Token"
	assert.Equal(t, CategoryStreamingRestriction, Classify(diagnostics))

	// The GVS phrase alone contains a token marker as a substring and must
	// still classify as a streaming restriction.
	assert.Equal(t, CategoryStreamingRestriction,
		Classify("web client https formats require a GVS PO Token"))
}

func TestErrorCategory_Retryable(t *testing.T) {
	assert.True(t, CategoryStreamingRestriction.Retryable())
	assert.True(t, CategoryBotDetectionToken.Retryable())
	assert.False(t, CategoryTimeout.Retryable())
	assert.False(t, CategoryUnclassified.Retryable())
}

func TestErrorCategory_Hint(t *testing.T) {
	for _, c := range []ErrorCategory{
		CategoryStreamingRestriction,
		CategoryBotDetectionToken,
		CategoryTimeout,
		CategoryUnclassified,
	} {
		assert.NotEmpty(t, c.Hint(), "category %s should carry a hint", c)
	}
}
