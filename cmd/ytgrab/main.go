package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/yourusername/ytgrab/internal/app"
	"github.com/yourusername/ytgrab/internal/domain"
	"github.com/yourusername/ytgrab/internal/infrastructure"
	"github.com/yourusername/ytgrab/pkg/logger"
	"go.uber.org/zap"
)

var (
	configPath    string
	formatFlag    string
	browserFlag   string
	clientFlag    string
	enableSABR    bool
	noFallback    bool
	noPremium     bool
	sponsorMark   string
	sponsorRemove string
	embedChapters bool
	sleepInterval int
	potMode       string
	potURL        string
	potScript     string
	verbose       bool
	historyLimit  int
	historyStats  bool
)

var rootCmd = &cobra.Command{
	Use:   "ytgrab [flags] URL [-- yt-dlp args...]",
	Short: "Download videos from YouTube, X (Twitter), and other platforms",
	Long: `ytgrab wraps yt-dlp with smart format selection, Premium format
detection, dated output folders and automatic client fallback when
YouTube rejects an attempt. Arguments after -- pass through to yt-dlp
verbatim.`,
	Example: `  ytgrab "https://www.youtube.com/watch?v=VIDEO_ID"
  ytgrab --format "best[height<=720]" "https://x.com/user/status/123"
  ytgrab --client mweb "https://youtu.be/VIDEO_ID" -- --proxy socks5://127.0.0.1:9050`,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDownload,
}

var historyCmd = &cobra.Command{
	Use:           "history",
	Short:         "Show recent download requests",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runHistory,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&formatFlag, "format", "f", "", "Custom format selector (overrides the built-in policy)")
	flags.StringVarP(&browserFlag, "browser", "b", "", "Browser to extract cookies from (firefox, chrome, safari)")
	flags.StringVarP(&clientFlag, "client", "y", "", "YouTube client to start with ("+strings.Join(domain.ClientNames(), ", ")+")")
	flags.BoolVar(&enableSABR, "enable-sabr", false, "Enable YouTube SABR streaming format support")
	flags.BoolVar(&noFallback, "no-fallback", false, "Disable automatic fallback to other YouTube clients")
	flags.BoolVar(&noPremium, "no-premium", false, "Disable automatic selection of Premium formats")
	flags.StringVar(&sponsorMark, "sponsorblock-mark", "", "SponsorBlock categories to mark as chapters (e.g. \"all\", \"sponsor,intro\")")
	flags.StringVar(&sponsorRemove, "sponsorblock-remove", "", "SponsorBlock categories to remove from the video")
	flags.BoolVar(&embedChapters, "embed-chapters", false, "Embed chapter markers in the video file")
	flags.IntVar(&sleepInterval, "sleep-interval", 0, "Seconds to sleep between downloads")
	flags.StringVar(&potMode, "pot-provider-mode", "", "PO token provider mode: http or script")
	flags.StringVar(&potURL, "pot-provider-url", "", "Custom PO token provider HTTP server URL")
	flags.StringVar(&potScript, "pot-provider-script", "", "Path to the PO token provider script")

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Number of entries to show")
	historyCmd.Flags().BoolVar(&historyStats, "stats", false, "Show aggregate statistics instead of entries")

	rootCmd.AddCommand(historyCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	url := args[0]
	extraArgs := args[1:]

	config, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		Level:      config.Logging.Level,
		Format:     config.Logging.Format,
		OutputPath: config.Logging.OutputPath,
	})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer log.Sync()

	if err := validatePrerequisites(config, log); err != nil {
		return err
	}

	startClient := domain.DefaultClient
	if clientFlag != "" {
		startClient, err = domain.ParseClient(clientFlag)
		if err != nil {
			return domain.NewValidationError("%v", err)
		}
	}

	if potMode == "script" && config.TokenProvider.ScriptPath == "" && potScript == "" {
		log.Warn("Script mode selected without a script path; the plugin default will be used")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	invoker := infrastructure.NewYTDLPInvoker(&config.Download, log)
	probe := infrastructure.NewCapabilityProbe(&config.TokenProvider, log)
	notifier := infrastructure.NewNotificationService(&config.Notification, log)

	var repo domain.RequestRepository
	if config.History.Enabled {
		sqlRepo, err := infrastructure.NewSQLiteRequestRepository(config.History.DatabasePath)
		if err != nil {
			log.Warn("History ledger unavailable", zap.Error(err))
		} else {
			repo = sqlRepo
			defer sqlRepo.Close()
		}
	}

	orchestrator := app.NewOrchestrator(invoker, probe, notifier, repo, config, log)

	err = orchestrator.Run(ctx, app.RunRequest{
		URL:             url,
		StartClient:     startClient,
		FallbackEnabled: !noFallback,
		Policy:          config.Policy(formatFlag),
		Options: domain.Options{
			Browser:            config.Download.Browser,
			SponsorblockMark:   sponsorMark,
			SponsorblockRemove: sponsorRemove,
			EmbedChapters:      embedChapters,
			SleepInterval:      sleepInterval,
			EnableSABR:         enableSABR,
			POTProviderURL:     resolvePOTURL(config),
			POTProviderScript:  resolvePOTScript(config),
			ExtraArgs:          extraArgs,
		},
	})

	if ctx.Err() != nil {
		return errors.New("download interrupted")
	}
	return err
}

func runHistory(cmd *cobra.Command, args []string) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}
	if !config.History.Enabled {
		return errors.New("history ledger is disabled in configuration")
	}

	repo, err := infrastructure.NewSQLiteRequestRepository(config.History.DatabasePath)
	if err != nil {
		return err
	}
	defer repo.Close()

	if historyStats {
		stats, err := repo.Stats()
		if err != nil {
			return err
		}
		fmt.Println("Download Statistics:")
		fmt.Printf("  Total:     %d\n", stats.Total)
		fmt.Printf("  Completed: %d\n", stats.Completed)
		fmt.Printf("  Failed:    %d\n", stats.Failed)
		return nil
	}

	requests, err := repo.FindRecent(historyLimit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tURL\tPLATFORM\tSTATUS\tCLIENT\tATTEMPTS\tCREATED")
	for _, r := range requests {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			truncate(r.ID, 8),
			truncate(r.URL, 40),
			r.Platform,
			r.Status,
			r.Client,
			r.Attempts,
			r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

// loadConfig loads the file/env configuration and applies flag overrides.
func loadConfig() (*domain.Config, error) {
	config, err := app.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	if browserFlag != "" {
		config.Download.Browser = browserFlag
	}
	if potMode != "" {
		config.TokenProvider.Mode = potMode
	}
	if potURL != "" {
		config.TokenProvider.URL = potURL
	}
	if potScript != "" {
		config.TokenProvider.ScriptPath = potScript
	}
	if noPremium {
		config.Format.PreferPremium = false
	}
	if verbose {
		config.Logging.Level = "debug"
	}

	if !browserKnown(config.Download.Browser) {
		return nil, domain.NewValidationError("unsupported browser %q (valid: %s)",
			config.Download.Browser, strings.Join(domain.SupportedBrowsers, ", "))
	}
	if config.TokenProvider.Mode != "http" && config.TokenProvider.Mode != "script" {
		return nil, domain.NewValidationError("invalid --pot-provider-mode %q (valid: http, script)",
			config.TokenProvider.Mode)
	}

	return config, nil
}

// validatePrerequisites fails fast when the external tool is missing and
// warns when the cookie browser looks absent.
func validatePrerequisites(config *domain.Config, log *zap.Logger) error {
	if _, err := exec.LookPath(config.Download.YTDLPBinary); err != nil {
		return domain.NewValidationError(
			"%s not found. Install with: uv pip install -U yt-dlp", config.Download.YTDLPBinary)
	}

	if !browserPresent(config.Download.Browser) {
		log.Warn("Browser not found; downloads may fail for authenticated content",
			zap.String("browser", config.Download.Browser))
	}
	return nil
}

// browserPresent does a best-effort check for the cookie source browser.
func browserPresent(browser string) bool {
	home, _ := os.UserHomeDir()
	candidates := map[string][]string{
		"firefox": {
			"/Applications/Firefox.app",
			home + "/.mozilla/firefox",
			"/usr/bin/firefox",
		},
		"chrome": {
			"/Applications/Google Chrome.app",
			home + "/.config/google-chrome",
			"/usr/bin/google-chrome",
		},
		"safari": {
			"/Applications/Safari.app",
		},
	}

	paths, ok := candidates[browser]
	if !ok {
		return false
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return true
		}
	}
	return false
}

func browserKnown(browser string) bool {
	for _, b := range domain.SupportedBrowsers {
		if browser == b {
			return true
		}
	}
	return false
}

func resolvePOTURL(config *domain.Config) string {
	if potURL != "" {
		return potURL
	}
	if config.TokenProvider.Mode == "http" {
		return config.TokenProvider.URL
	}
	return ""
}

func resolvePOTScript(config *domain.Config) string {
	if potScript != "" {
		return potScript
	}
	if config.TokenProvider.Mode == "script" {
		return config.TokenProvider.ScriptPath
	}
	return ""
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exhausted *domain.ExhaustedError
		if errors.As(err, &exhausted) && exhausted.Hint != "" {
			fmt.Fprintf(os.Stderr, "Error: %v\n\n%s\n", err, exhausted.Hint)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
