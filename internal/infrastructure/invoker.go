package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/yourusername/ytgrab/internal/domain"
	"go.uber.org/zap"
)

// YTDLPInvoker runs yt-dlp as a child process.
//
// Two deadlines apply: the short metadata timeout for probing calls (-j, -F)
// and the long download timeout for the media download itself. Exceeding
// either kills the child process and is reported as a timeout, distinct
// from a plain non-zero exit.
type YTDLPInvoker struct {
	config *domain.DownloadConfig
	logger *zap.Logger
}

// NewYTDLPInvoker creates an invoker around the configured yt-dlp binary.
func NewYTDLPInvoker(config *domain.DownloadConfig, logger *zap.Logger) *YTDLPInvoker {
	return &YTDLPInvoker{config: config, logger: logger}
}

// VideoInfo fetches the video metadata JSON under the metadata deadline.
// Only stdout is parsed: yt-dlp writes advisory lines (cookie extraction,
// warnings) to stderr on most runs, and those must not corrupt the JSON.
func (i *YTDLPInvoker) VideoInfo(ctx context.Context, url string) (*domain.VideoInfo, error) {
	args := []string{"--cookies-from-browser", i.config.Browser, "-j", url}

	stdout, _, err := i.runCapture(ctx, "metadata", i.config.MetadataTimeout, args)
	if err != nil {
		return nil, err
	}

	var info domain.VideoInfo
	if err := json.Unmarshal([]byte(stdout), &info); err != nil {
		return nil, fmt.Errorf("could not parse video information: %w", err)
	}
	return &info, nil
}

// PremiumFormats lists the remote formats and extracts the Premium entries,
// under the metadata deadline. The format table arrives on stdout; stderr
// noise is ignored.
func (i *YTDLPInvoker) PremiumFormats(ctx context.Context, url string) ([]domain.PremiumFormat, error) {
	args := []string{"--cookies-from-browser", i.config.Browser, "-F", url}

	stdout, _, err := i.runCapture(ctx, "formats", i.config.MetadataTimeout, args)
	if err != nil {
		return nil, err
	}
	return ParsePremiumFormats(stdout), nil
}

// Download runs the full media download under the download deadline. The
// result is always an AttemptResult; the raw exec error never escapes.
func (i *YTDLPInvoker) Download(ctx context.Context, spec domain.AttemptSpec) domain.AttemptResult {
	args := BuildDownloadArgs(spec, i.config)

	i.logger.Debug("Invoking yt-dlp",
		zap.String("cmd", ShellEscapeCommand(i.config.YTDLPBinary, args...)))

	start := time.Now()
	_, diagnostics, err := i.runCapture(ctx, "download", i.config.DownloadTimeout, args)
	elapsed := time.Since(start)

	result := domain.AttemptResult{
		Diagnostics: diagnostics,
		Elapsed:     elapsed,
		Client:      spec.Client,
	}

	switch {
	case err == nil:
		result.Outcome = domain.OutcomeSuccess
	case isTimeout(err):
		result.Outcome = domain.OutcomeTimeout
		result.ExitCode = -1
	default:
		result.Outcome = domain.OutcomeFailure
		result.ExitCode = exitCode(err)
	}
	return result
}

// runCapture executes yt-dlp with a deadline. stdout comes back on its own
// so callers can parse structured output; diagnostics carries stdout plus
// stderr for the classifier and error messages. Deadline expiry force-kills
// the child and yields a TimeoutError.
func (i *YTDLPInvoker) runCapture(ctx context.Context, stage string, timeout time.Duration, args []string) (stdout, diagnostics string, err error) {
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, i.config.YTDLPBinary, args...)

	var out, errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut

	// If the killed child leaves pipe readers hanging, give up on them
	// shortly after the kill instead of waiting forever.
	cmd.WaitDelay = 10 * time.Second

	runErr := cmd.Run()

	stdout = out.String()
	diagnostics = stdout + errOut.String()

	if cctx.Err() == context.DeadlineExceeded {
		i.logger.Error("yt-dlp call timed out",
			zap.String("stage", stage),
			zap.Duration("limit", timeout))
		return stdout, diagnostics, &domain.TimeoutError{Stage: stage, Limit: timeout}
	}

	if runErr != nil {
		return stdout, diagnostics, fmt.Errorf("yt-dlp %s call failed: %w", stage, runErr)
	}
	return stdout, diagnostics, nil
}

// BuildDownloadArgs assembles the full yt-dlp argument list for one download
// attempt. The URL always goes last so pass-through args cannot swallow it.
func BuildDownloadArgs(spec domain.AttemptSpec, config *domain.DownloadConfig) []string {
	browser := spec.Options.Browser
	if browser == "" {
		browser = config.Browser
	}

	args := []string{
		"--cookies-from-browser", browser,
		"-f", spec.Selector,
		"--write-auto-sub",
		"--sub-lang", config.SubtitleLangs,
		"--convert-subs", "srt",
		"--ignore-errors", // subtitle conversion failures should not kill the download
		"-P", spec.OutputDir,
		"--no-mtime",
		"--embed-metadata",
	}

	if spec.Options.EmbedChapters {
		args = append(args, "--embed-chapters")
	}

	if spec.Options.SleepInterval > 0 {
		args = append(args, "--sleep-interval", fmt.Sprintf("%d", spec.Options.SleepInterval))
	}

	if spec.Platform == domain.PlatformYouTube {
		args = append(args, youtubeArgs(spec)...)
	}

	args = append(args, spec.Options.ExtraArgs...)
	args = append(args, spec.URL)
	return args
}

// youtubeArgs builds the YouTube-only flags: SponsorBlock handling and the
// extractor arguments selecting the client, SABR formats and the PO token
// provider. Each extractor namespace gets its own --extractor-args flag.
func youtubeArgs(spec domain.AttemptSpec) []string {
	var args []string

	if spec.Options.SponsorblockMark != "" {
		args = append(args, "--sponsorblock-mark", spec.Options.SponsorblockMark)
	}
	if spec.Options.SponsorblockRemove != "" {
		args = append(args, "--sponsorblock-remove", spec.Options.SponsorblockRemove)
	}

	var ytParts []string
	if spec.Client != "" {
		ytParts = append(ytParts, "player-client="+string(spec.Client))
	}
	if spec.Options.EnableSABR {
		ytParts = append(ytParts, "formats=duplicate")
	}
	if len(ytParts) > 0 {
		args = append(args, "--extractor-args", "youtube:"+strings.Join(ytParts, ";"))
	}

	if spec.Options.POTProviderURL != "" {
		args = append(args, "--extractor-args",
			"youtubepot-bgutilhttp:base_url="+spec.Options.POTProviderURL)
	}
	if spec.Options.POTProviderScript != "" {
		args = append(args, "--extractor-args",
			"youtubepot-bgutilscript:script_path="+spec.Options.POTProviderScript)
	}

	return args
}

func isTimeout(err error) bool {
	var te *domain.TimeoutError
	return errors.As(err, &te)
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
