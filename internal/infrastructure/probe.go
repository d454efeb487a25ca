package infrastructure

import (
	"context"
	"fmt"
	"net"
	"os/exec"
	"time"

	"github.com/yourusername/ytgrab/internal/domain"
	"go.uber.org/zap"
)

// Finding is the advisory result of one capability check.
type Finding string

const (
	FindingOK          Finding = "ok"
	FindingDegraded    Finding = "degraded"
	FindingUnavailable Finding = "unavailable"
)

// ProbeResult carries a finding plus optional remediation guidance.
type ProbeResult struct {
	Finding Finding
	Detail  string
	Hint    string
}

// jsRuntimes are checked in priority order; only deno is enabled by default
// in yt-dlp, the rest need opting in.
var jsRuntimes = []string{"deno", "node", "bun", "quickjs"}

const potPluginName = "bgutil-ytdlp-pot-provider"

// pluginCheckTimeout bounds the pip/uv lookup so a slow package index can
// never stall a download.
const pluginCheckTimeout = 5 * time.Second

// CapabilityProbe checks optional runtime capabilities. All findings are
// advisory: the caller proceeds regardless, probes never alter policy.
type CapabilityProbe struct {
	config *domain.TokenProviderConfig
	logger *zap.Logger

	// Injection points for tests.
	lookPath    func(file string) (string, error)
	dialTimeout func(network, address string, timeout time.Duration) (net.Conn, error)
	runCommand  func(ctx context.Context, name string, args ...string) error
}

// NewCapabilityProbe creates a probe using the real system lookups.
func NewCapabilityProbe(config *domain.TokenProviderConfig, logger *zap.Logger) *CapabilityProbe {
	return &CapabilityProbe{
		config:      config,
		logger:      logger,
		lookPath:    exec.LookPath,
		dialTimeout: net.DialTimeout,
		runCommand: func(ctx context.Context, name string, args ...string) error {
			return exec.CommandContext(ctx, name, args...).Run()
		},
	}
}

// CheckJSRuntime tests for the presence of a JavaScript runtime. Without
// one, YouTube downloads may have limited format availability.
func (p *CapabilityProbe) CheckJSRuntime() ProbeResult {
	for _, runtime := range jsRuntimes {
		if _, err := p.lookPath(runtime); err == nil {
			return ProbeResult{Finding: FindingOK, Detail: runtime}
		}
	}
	return ProbeResult{
		Finding: FindingDegraded,
		Hint: "Install Deno (recommended): https://deno.land/ " +
			"(macOS: brew install deno, Linux: curl -fsSL https://deno.land/install.sh | sh). " +
			"Alternatively: Node.js 20+, Bun, or QuickJS",
	}
}

// CheckTokenProvider tests whether the PO token provider plugin is
// installed and, in http mode, whether its server answers. The network
// check is bounded by the configured probe timeout so a hung server cannot
// stall the run.
func (p *CapabilityProbe) CheckTokenProvider(ctx context.Context) ProbeResult {
	if !p.pluginInstalled(ctx) {
		return ProbeResult{
			Finding: FindingUnavailable,
			Hint: "Install " + potPluginName + " to bypass YouTube's bot detection: " +
				"uv pip install " + potPluginName +
				" (see https://github.com/Brainicism/bgutil-ytdlp-pot-provider)",
		}
	}

	if p.config.Mode == "script" {
		return ProbeResult{Finding: FindingOK, Detail: "script mode"}
	}

	address := net.JoinHostPort(p.config.ProbeHost, fmt.Sprintf("%d", p.config.ProbePort))
	conn, err := p.dialTimeout("tcp", address, p.config.ProbeTimeout)
	if err != nil {
		p.logger.Debug("PO token server check failed", zap.String("address", address), zap.Error(err))
		return ProbeResult{
			Finding: FindingUnavailable,
			Detail:  "plugin installed, server not reachable",
			Hint: "Start the provider server with Docker:\n" +
				"  docker run --name bgutil-provider -d -p 4416:4416 --init brainicism/bgutil-ytdlp-pot-provider\n" +
				"Or use script mode: --pot-provider-mode script",
		}
	}
	conn.Close()

	return ProbeResult{Finding: FindingOK, Detail: "server at " + address}
}

// pluginInstalled asks uv (preferred) or pip whether the provider plugin is
// present, bounded to a few seconds.
func (p *CapabilityProbe) pluginInstalled(ctx context.Context) bool {
	cctx, cancel := context.WithTimeout(ctx, pluginCheckTimeout)
	defer cancel()

	if _, err := p.lookPath("uv"); err == nil {
		return p.runCommand(cctx, "uv", "pip", "show", potPluginName) == nil
	}
	return p.runCommand(cctx, "python3", "-m", "pip", "show", potPluginName) == nil
}
