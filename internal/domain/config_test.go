package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "yt-dlp", config.Download.YTDLPBinary)
	assert.Equal(t, "firefox", config.Download.Browser)
	assert.Equal(t, 5*time.Minute, config.Download.MetadataTimeout)
	assert.Equal(t, time.Hour, config.Download.DownloadTimeout)
	assert.Equal(t, len(FallbackCatalog()), config.Download.MaxAttempts)
	assert.Equal(t, []int{2160, 1440, 1080, 720}, config.Format.HeightTiers)
	assert.Equal(t, []string{"av01", "vp9", "avc1"}, config.Format.Codecs)
	assert.True(t, config.Format.PreferPremium)
	assert.Equal(t, "http", config.TokenProvider.Mode)
	assert.Equal(t, 4416, config.TokenProvider.ProbePort)
}

func TestConfig_Policy(t *testing.T) {
	config := DefaultConfig()

	policy := config.Policy("")
	assert.Equal(t, config.Format.HeightTiers, policy.HeightTiers)
	assert.Equal(t, config.Format.Codecs, policy.Codecs)
	assert.True(t, policy.PreferPremium)
	assert.Empty(t, policy.Custom)

	custom := config.Policy("bestaudio")
	assert.Equal(t, "bestaudio", custom.Custom)
}

func TestExhaustedError_Message(t *testing.T) {
	err := &ExhaustedError{
		Tried:    []Client{ClientWeb, ClientAndroid},
		Category: CategoryBotDetectionToken,
	}
	assert.Contains(t, err.Error(), "web, android")
	assert.Contains(t, err.Error(), "bot_detection_token")
}

func TestTimeoutError_Message(t *testing.T) {
	err := &TimeoutError{Stage: "download", Limit: time.Hour}
	assert.Contains(t, err.Error(), "download")
	assert.Contains(t, err.Error(), "1h")
}
