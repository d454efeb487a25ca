package app

import (
	"context"

	"github.com/yourusername/ytgrab/internal/domain"
	"github.com/yourusername/ytgrab/internal/infrastructure"
	"go.uber.org/zap"
)

// State is where the retry machine currently stands for one request.
type State int

const (
	StateIdle State = iota
	StateAttempting
	StateSucceeded
	StateClassifying
	StateRetrying
	StateGaveUp
)

// Verdict is the decision produced by evaluating one attempt result.
type Verdict struct {
	State    State
	Category domain.ErrorCategory
	Next     domain.Client // valid when State is StateRetrying
	Hint     string        // valid when State is StateGaveUp
}

// Evaluate is the pure transition function of the retry machine: given the
// session snapshot before the attempt, the attempt result and the fallback
// catalog, it returns the next session snapshot and the verdict. It never
// mutates its inputs.
//
// Rules:
//   - success terminates the session;
//   - a timeout terminates the session immediately, fallback or not, since
//     retrying an hour-long call against another client is unlikely to help;
//   - otherwise the diagnostics are classified, and a retry happens only if
//     fallback is enabled, the attempt bound is not reached, the category is
//     retryable and an untried catalog client remains. The failed client is
//     recorded in the tried-list before the next attempt.
func Evaluate(s domain.Session, res domain.AttemptResult, catalog []domain.Client) (domain.Session, Verdict) {
	switch res.Outcome {
	case domain.OutcomeSuccess:
		return s, Verdict{State: StateSucceeded}
	case domain.OutcomeTimeout:
		next := s.WithTried(res.Client)
		return next, Verdict{
			State:    StateGaveUp,
			Category: domain.CategoryTimeout,
			Hint:     domain.CategoryTimeout.Hint(),
		}
	}

	category := domain.Classify(res.Diagnostics)
	next := s.WithTried(res.Client)

	retryable := s.FallbackEnabled &&
		len(next.Tried) < s.MaxAttempts &&
		category.Retryable()

	if retryable {
		if client, ok := next.FirstUntried(catalog); ok {
			return next.WithActive(client), Verdict{
				State:    StateRetrying,
				Category: category,
				Next:     client,
			}
		}
	}

	return next, Verdict{
		State:    StateGaveUp,
		Category: category,
		Hint:     category.Hint(),
	}
}

// Orchestrator drives one download request end to end: capability probes,
// premium scan, format selection, metadata fetch, output directory, then
// the attempt loop.
type Orchestrator struct {
	invoker  domain.Invoker
	probe    *infrastructure.CapabilityProbe
	notifier *infrastructure.NotificationService
	repo     domain.RequestRepository // nil disables the history ledger
	config   *domain.Config
	logger   *zap.Logger
}

// NewOrchestrator creates an orchestrator. repo may be nil when history is
// disabled.
func NewOrchestrator(
	invoker domain.Invoker,
	probe *infrastructure.CapabilityProbe,
	notifier *infrastructure.NotificationService,
	repo domain.RequestRepository,
	config *domain.Config,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		invoker:  invoker,
		probe:    probe,
		notifier: notifier,
		repo:     repo,
		config:   config,
		logger:   logger,
	}
}

// RunRequest describes one download request.
type RunRequest struct {
	URL             string
	StartClient     domain.Client
	FallbackEnabled bool
	Policy          domain.FormatPolicy
	Options         domain.Options
}

// Run performs the request. Returns nil on success; any other outcome is a
// single wrapped error carrying a remediation hint where one exists.
func (o *Orchestrator) Run(ctx context.Context, req RunRequest) error {
	platform := domain.DetectPlatform(req.URL)
	o.logger.Info("Processing download",
		zap.String("url", req.URL),
		zap.String("platform", string(platform)))

	record := domain.NewDownloadRequest(req.URL)
	o.recordCreate(record)

	if platform == domain.PlatformYouTube {
		o.runProbes(ctx)
	}

	selector := o.buildSelector(ctx, req, platform)
	o.logger.Debug("Format selector", zap.String("selector", selector))

	outputDir, err := o.prepareOutputDir(ctx, req.URL)
	if err != nil {
		record.MarkFailed(err, domain.CategoryUnclassified, 0)
		o.recordUpdate(record)
		return err
	}
	record.OutputDir = outputDir
	o.logger.Info("Output directory", zap.String("dir", outputDir))

	result, session, verdict := o.runAttempts(ctx, req, platform, selector, outputDir)

	if verdict.State == StateSucceeded {
		record.MarkCompleted(result.Client, len(session.Tried)+1, outputDir)
		o.recordUpdate(record)
		if o.notifier != nil {
			o.notifier.NotifyCompleted(req.URL)
		}
		o.logger.Info("Download completed",
			zap.String("url", req.URL),
			zap.String("client", string(result.Client)),
			zap.Duration("elapsed", result.Elapsed))
		return nil
	}

	failure := &domain.ExhaustedError{
		Tried:       session.Tried,
		Category:    verdict.Category,
		Diagnostics: result.Diagnostics,
		Hint:        verdict.Hint,
	}
	record.MarkFailed(failure, verdict.Category, len(session.Tried))
	o.recordUpdate(record)
	if o.notifier != nil {
		o.notifier.NotifyFailed(req.URL, failure)
	}
	return failure
}

// runAttempts executes the attempt loop. Every attempt after the first has
// its fallback flag forced off: the loop here is the only place retries are
// decided, so a fallback attempt can never spawn further fallback of its
// own.
func (o *Orchestrator) runAttempts(
	ctx context.Context,
	req RunRequest,
	platform domain.Platform,
	selector, outputDir string,
) (domain.AttemptResult, domain.Session, Verdict) {
	catalog := domain.FallbackCatalog()
	maxAttempts := o.config.Download.MaxAttempts
	if maxAttempts < 1 || maxAttempts > len(catalog) {
		maxAttempts = len(catalog)
	}

	fallback := req.FallbackEnabled && platform == domain.PlatformYouTube
	session := domain.NewSession(req.StartClient, fallback, maxAttempts)

	for {
		spec := domain.AttemptSpec{
			URL:       req.URL,
			Platform:  platform,
			Client:    session.Active,
			Selector:  selector,
			OutputDir: outputDir,
			Fallback:  session.FallbackEnabled && len(session.Tried) == 0,
			Options:   req.Options,
		}

		o.logger.Info("Starting attempt",
			zap.String("client", string(session.Active)),
			zap.Int("attempt", len(session.Tried)+1))

		result := o.invoker.Download(ctx, spec)

		next, verdict := Evaluate(session, result, catalog)
		session = next

		if verdict.State != StateRetrying {
			return result, session, verdict
		}

		o.logger.Warn("Attempt failed, falling back",
			zap.String("category", string(verdict.Category)),
			zap.String("failed_client", string(result.Client)),
			zap.String("next_client", string(verdict.Next)))
	}
}

// buildSelector resolves the format expression for this request, including
// the optional Premium scan. Scan failures only cost the Premium pin.
func (o *Orchestrator) buildSelector(ctx context.Context, req RunRequest, platform domain.Platform) string {
	var premium *domain.PremiumFormat

	if platform == domain.PlatformYouTube && req.Policy.PreferPremium && req.Policy.Custom == "" {
		o.logger.Info("Checking for Premium formats")
		candidates, err := o.invoker.PremiumFormats(ctx, req.URL)
		if err != nil {
			o.logger.Warn("Could not retrieve format list", zap.Error(err))
		} else if premium = domain.BestPremium(candidates); premium != nil {
			o.logger.Info("Best Premium format found",
				zap.String("id", premium.ID),
				zap.Int("height", premium.Height))
		} else {
			o.logger.Info("No Premium formats found, using default selector")
		}
	}

	return req.Policy.Selector(premium)
}

// prepareOutputDir fetches metadata and creates the dated output folder.
// A failed metadata call degrades to a generic title and today's date.
func (o *Orchestrator) prepareOutputDir(ctx context.Context, url string) (string, error) {
	title := "video"
	date := ""

	info, err := o.invoker.VideoInfo(ctx, url)
	if err != nil {
		o.logger.Warn("Could not retrieve video information", zap.Error(err))
	} else {
		if info.Title != "" {
			title = info.Title
		}
		date = info.UploadDate
		if date == "" {
			date = info.ReleaseDate
		}
	}

	return infrastructure.CreateOutputDir(o.config.Download.DownloadsRoot, title, date)
}

// runProbes emits the advisory capability findings. Probes never fail the
// request.
func (o *Orchestrator) runProbes(ctx context.Context) {
	if o.probe == nil {
		return
	}

	if js := o.probe.CheckJSRuntime(); js.Finding == infrastructure.FindingOK {
		o.logger.Debug("JavaScript runtime found", zap.String("runtime", js.Detail))
	} else {
		o.logger.Warn("No JavaScript runtime detected", zap.String("hint", js.Hint))
	}

	if tp := o.probe.CheckTokenProvider(ctx); tp.Finding == infrastructure.FindingOK {
		o.logger.Info("PO token provider ready", zap.String("detail", tp.Detail))
	} else {
		o.logger.Info("PO token provider unavailable", zap.String("hint", tp.Hint))
	}
}

func (o *Orchestrator) recordCreate(record *domain.DownloadRequest) {
	if o.repo == nil {
		return
	}
	if err := o.repo.Create(record); err != nil {
		o.logger.Warn("Failed to record download request", zap.Error(err))
	}
}

func (o *Orchestrator) recordUpdate(record *domain.DownloadRequest) {
	if o.repo == nil {
		return
	}
	if err := o.repo.Update(record); err != nil {
		o.logger.Warn("Failed to update download record", zap.Error(err))
	}
}
