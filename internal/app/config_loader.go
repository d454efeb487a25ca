package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/yourusername/ytgrab/internal/domain"
)

// LoadConfig loads configuration from file and environment
func LoadConfig(configPath string) (*domain.Config, error) {
	// Start with default config
	config := domain.DefaultConfig()

	// Set up viper
	v := viper.New()
	v.SetConfigType("yaml")

	// If config path is provided, use it
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.ytgrab")
		v.AddConfigPath("/etc/ytgrab")
	}

	// Read environment variables
	v.SetEnvPrefix("YTGRAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Try to read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults
	}

	// Unmarshal into config struct
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Expand environment variables in paths
	config = expandPaths(config)

	// Validate config
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// expandPaths expands environment variables in path configurations
func expandPaths(config *domain.Config) *domain.Config {
	config.Download.DownloadsRoot = expandPath(config.Download.DownloadsRoot)
	config.History.DatabasePath = expandPath(config.History.DatabasePath)
	config.TokenProvider.ScriptPath = expandPath(config.TokenProvider.ScriptPath)

	if config.Logging.OutputPath != "stdout" && config.Logging.OutputPath != "stderr" {
		config.Logging.OutputPath = expandPath(config.Logging.OutputPath)
	}

	return config
}

// expandPath expands environment variables and ~ in paths
func expandPath(path string) string {
	// Expand environment variables
	path = os.ExpandEnv(path)

	// Expand home directory
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	// Replace $HOME
	if strings.Contains(path, "$HOME") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = strings.ReplaceAll(path, "$HOME", home)
		}
	}

	return path
}

// validateConfig validates the configuration
func validateConfig(config *domain.Config) error {
	if config.Download.DownloadsRoot == "" {
		return fmt.Errorf("downloads root directory not configured")
	}

	if config.Download.YTDLPBinary == "" {
		return fmt.Errorf("yt-dlp binary not configured")
	}

	if !browserSupported(config.Download.Browser) {
		return fmt.Errorf("unsupported browser %q (valid: %s)",
			config.Download.Browser, strings.Join(domain.SupportedBrowsers, ", "))
	}

	if config.Download.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be at least 1")
	}

	if config.Download.MetadataTimeout <= 0 || config.Download.DownloadTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}

	if len(config.Format.HeightTiers) == 0 || len(config.Format.Codecs) == 0 {
		return fmt.Errorf("format policy needs at least one height tier and one codec")
	}

	if config.TokenProvider.Mode != "http" && config.TokenProvider.Mode != "script" {
		return fmt.Errorf("invalid token provider mode: %s", config.TokenProvider.Mode)
	}

	if config.TokenProvider.ProbePort < 1 || config.TokenProvider.ProbePort > 65535 {
		return fmt.Errorf("invalid token provider probe port: %d", config.TokenProvider.ProbePort)
	}

	if config.History.Enabled && config.History.DatabasePath == "" {
		return fmt.Errorf("history database path not configured")
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}

	return nil
}

func browserSupported(browser string) bool {
	for _, b := range domain.SupportedBrowsers {
		if browser == b {
			return true
		}
	}
	return false
}
