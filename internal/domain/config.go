package domain

import "time"

// Config represents the application configuration
type Config struct {
	Download      DownloadConfig      `mapstructure:"download"`
	Format        FormatConfig        `mapstructure:"format"`
	TokenProvider TokenProviderConfig `mapstructure:"token_provider"`
	History       HistoryConfig       `mapstructure:"history"`
	Notification  NotificationConfig  `mapstructure:"notification"`
	Logging       LoggingConfig       `mapstructure:"logging"`
}

// DownloadConfig contains download-related configuration
type DownloadConfig struct {
	DownloadsRoot   string        `mapstructure:"downloads_root"`
	YTDLPBinary     string        `mapstructure:"ytdlp_binary"`
	Browser         string        `mapstructure:"browser"`
	SubtitleLangs   string        `mapstructure:"subtitle_langs"`
	MetadataTimeout time.Duration `mapstructure:"metadata_timeout"`
	DownloadTimeout time.Duration `mapstructure:"download_timeout"`
	MaxAttempts     int           `mapstructure:"max_attempts"`
}

// FormatConfig contains format-selection configuration
type FormatConfig struct {
	HeightTiers   []int    `mapstructure:"height_tiers"`
	Codecs        []string `mapstructure:"codecs"`
	PreferPremium bool     `mapstructure:"prefer_premium"`
}

// TokenProviderConfig contains PO token provider configuration
type TokenProviderConfig struct {
	Mode         string        `mapstructure:"mode"` // http or script
	URL          string        `mapstructure:"url"`
	ScriptPath   string        `mapstructure:"script_path"`
	ProbeHost    string        `mapstructure:"probe_host"`
	ProbePort    int           `mapstructure:"probe_port"`
	ProbeTimeout time.Duration `mapstructure:"probe_timeout"`
}

// HistoryConfig contains the download-history ledger configuration
type HistoryConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	DatabasePath string `mapstructure:"database_path"`
}

// NotificationConfig contains desktop notification configuration
type NotificationConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Method  string `mapstructure:"method"` // osascript, notify-send
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
}

// SupportedBrowsers are the cookie sources this wrapper accepts for
// --cookies-from-browser.
var SupportedBrowsers = []string{"firefox", "chrome", "safari"}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Download: DownloadConfig{
			DownloadsRoot:   "$HOME/Downloads",
			YTDLPBinary:     "yt-dlp",
			Browser:         "firefox",
			SubtitleLangs:   "en.*",
			MetadataTimeout: 5 * time.Minute,
			DownloadTimeout: time.Hour,
			MaxAttempts:     len(FallbackCatalog()),
		},
		Format: FormatConfig{
			HeightTiers:   []int{2160, 1440, 1080, 720},
			Codecs:        []string{"av01", "vp9", "avc1"},
			PreferPremium: true,
		},
		TokenProvider: TokenProviderConfig{
			Mode:         "http",
			URL:          "http://127.0.0.1:4416",
			ProbeHost:    "127.0.0.1",
			ProbePort:    4416,
			ProbeTimeout: time.Second,
		},
		History: HistoryConfig{
			Enabled:      true,
			DatabasePath: "$HOME/.ytgrab/history.db",
		},
		Notification: NotificationConfig{
			Enabled: false,
			Method:  "notify-send",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stderr",
		},
	}
}

// Policy converts the format configuration into an immutable FormatPolicy.
func (c *Config) Policy(customSelector string) FormatPolicy {
	return FormatPolicy{
		HeightTiers:   c.Format.HeightTiers,
		Codecs:        c.Format.Codecs,
		PreferPremium: c.Format.PreferPremium,
		Custom:        customSelector,
	}
}
