package domain

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelector_ClauseOrder(t *testing.T) {
	policy := FormatPolicy{
		HeightTiers: []int{1080, 720},
		Codecs:      []string{"av01", "vp9"},
	}

	selector := policy.Selector(nil)
	clauses := strings.Split(selector, "/")

	expected := []string{
		"bestvideo[height<=1080][vcodec^=av01]+bestaudio",
		"bestvideo[height<=1080][vcodec^=vp9]+bestaudio",
		"bestvideo[height<=720][vcodec^=av01]+bestaudio",
		"bestvideo[height<=720][vcodec^=vp9]+bestaudio",
		"best",
	}
	assert.Equal(t, expected, clauses)
}

func TestSelector_DefaultPolicy(t *testing.T) {
	selector := DefaultFormatPolicy().Selector(nil)
	clauses := strings.Split(selector, "/")

	// 4 tiers x 3 codecs plus the unconditional fallback.
	require.Len(t, clauses, 13)
	assert.Equal(t, "best", clauses[len(clauses)-1])

	// Resolution strictly descending across tier boundaries.
	assert.Contains(t, clauses[0], "height<=2160")
	assert.Contains(t, clauses[3], "height<=1440")
	assert.Contains(t, clauses[6], "height<=1080")
	assert.Contains(t, clauses[9], "height<=720")
}

func TestSelector_AlwaysNonEmpty(t *testing.T) {
	policies := []FormatPolicy{
		{},
		{HeightTiers: []int{720}},
		{Codecs: []string{"vp9"}},
		DefaultFormatPolicy(),
	}
	for i, p := range policies {
		t.Run(fmt.Sprintf("policy_%d", i), func(t *testing.T) {
			assert.NotEmpty(t, p.Selector(nil))
		})
	}
}

func TestSelector_CustomPassthrough(t *testing.T) {
	policy := DefaultFormatPolicy()
	policy.Custom = "best[height<=480]"

	// Verbatim, even when a premium format was found.
	premium := &PremiumFormat{ID: "616", Height: 1080}
	assert.Equal(t, "best[height<=480]", policy.Selector(premium))
}

func TestSelector_PremiumPinned(t *testing.T) {
	policy := DefaultFormatPolicy()
	premium := &PremiumFormat{ID: "616", Height: 1080}

	assert.Equal(t, "616+bestaudio/best", policy.Selector(premium))
}

func TestSelector_PremiumIgnoredWhenDisabled(t *testing.T) {
	policy := DefaultFormatPolicy()
	policy.PreferPremium = false
	premium := &PremiumFormat{ID: "616", Height: 1080}

	selector := policy.Selector(premium)
	assert.NotContains(t, selector, "616")
	assert.True(t, strings.HasSuffix(selector, "/best"))
}

func TestBestPremium(t *testing.T) {
	tests := []struct {
		name       string
		candidates []PremiumFormat
		expectedID string
	}{
		{
			name: "highest resolution wins",
			candidates: []PremiumFormat{
				{ID: "356", Height: 720},
				{ID: "616", Height: 1080},
				{ID: "134", Height: 360},
			},
			expectedID: "616",
		},
		{
			name: "tie keeps first encountered",
			candidates: []PremiumFormat{
				{ID: "first", Height: 1080},
				{ID: "second", Height: 1080},
			},
			expectedID: "first",
		},
		{
			name: "single candidate",
			candidates: []PremiumFormat{
				{ID: "only", Height: 0},
			},
			expectedID: "only",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			best := BestPremium(tt.candidates)
			require.NotNil(t, best)
			assert.Equal(t, tt.expectedID, best.ID)
		})
	}
}

func TestBestPremium_Empty(t *testing.T) {
	assert.Nil(t, BestPremium(nil))
	assert.Nil(t, BestPremium([]PremiumFormat{}))
}
