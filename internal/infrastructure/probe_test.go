package infrastructure

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yourusername/ytgrab/internal/domain"
	"go.uber.org/zap"
)

func testProbe(config *domain.TokenProviderConfig) *CapabilityProbe {
	if config == nil {
		c := domain.DefaultConfig()
		config = &c.TokenProvider
	}
	probe := NewCapabilityProbe(config, zap.NewNop())
	return probe
}

func TestCheckJSRuntime_Found(t *testing.T) {
	probe := testProbe(nil)
	probe.lookPath = func(file string) (string, error) {
		if file == "node" {
			return "/usr/bin/node", nil
		}
		return "", errors.New("not found")
	}

	result := probe.CheckJSRuntime()
	assert.Equal(t, FindingOK, result.Finding)
	assert.Equal(t, "node", result.Detail)
}

func TestCheckJSRuntime_PriorityOrder(t *testing.T) {
	probe := testProbe(nil)
	probe.lookPath = func(file string) (string, error) {
		return "/usr/bin/" + file, nil // everything installed
	}

	result := probe.CheckJSRuntime()
	assert.Equal(t, "deno", result.Detail, "deno is preferred when present")
}

func TestCheckJSRuntime_Missing(t *testing.T) {
	probe := testProbe(nil)
	probe.lookPath = func(file string) (string, error) {
		return "", errors.New("not found")
	}

	result := probe.CheckJSRuntime()
	assert.Equal(t, FindingDegraded, result.Finding)
	assert.Contains(t, result.Hint, "deno")
}

func TestCheckTokenProvider_PluginMissing(t *testing.T) {
	probe := testProbe(nil)
	probe.lookPath = func(file string) (string, error) { return "", errors.New("not found") }
	probe.runCommand = func(ctx context.Context, name string, args ...string) error {
		return errors.New("package not installed")
	}

	result := probe.CheckTokenProvider(context.Background())
	assert.Equal(t, FindingUnavailable, result.Finding)
	assert.Contains(t, result.Hint, "bgutil-ytdlp-pot-provider")
}

func TestCheckTokenProvider_ServerReachable(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skip("cannot open local listener")
	}
	defer listener.Close()

	addr := listener.Addr().(*net.TCPAddr)
	config := &domain.TokenProviderConfig{
		Mode:         "http",
		ProbeHost:    "127.0.0.1",
		ProbePort:    addr.Port,
		ProbeTimeout: time.Second,
	}

	probe := testProbe(config)
	probe.lookPath = func(file string) (string, error) { return "/usr/bin/" + file, nil }
	probe.runCommand = func(ctx context.Context, name string, args ...string) error { return nil }

	result := probe.CheckTokenProvider(context.Background())
	assert.Equal(t, FindingOK, result.Finding)
}

func TestCheckTokenProvider_ServerUnreachable(t *testing.T) {
	config := &domain.TokenProviderConfig{
		Mode:         "http",
		ProbeHost:    "127.0.0.1",
		ProbePort:    4416,
		ProbeTimeout: 100 * time.Millisecond,
	}

	probe := testProbe(config)
	probe.lookPath = func(file string) (string, error) { return "/usr/bin/" + file, nil }
	probe.runCommand = func(ctx context.Context, name string, args ...string) error { return nil }
	probe.dialTimeout = func(network, address string, timeout time.Duration) (net.Conn, error) {
		return nil, errors.New("connection refused")
	}

	result := probe.CheckTokenProvider(context.Background())
	assert.Equal(t, FindingUnavailable, result.Finding)
	assert.Contains(t, result.Hint, "docker run")
}

func TestCheckTokenProvider_ScriptModeSkipsDial(t *testing.T) {
	config := &domain.TokenProviderConfig{Mode: "script"}

	probe := testProbe(config)
	probe.lookPath = func(file string) (string, error) { return "/usr/bin/" + file, nil }
	probe.runCommand = func(ctx context.Context, name string, args ...string) error { return nil }
	probe.dialTimeout = func(network, address string, timeout time.Duration) (net.Conn, error) {
		t.Fatal("script mode must not dial the server")
		return nil, nil
	}

	result := probe.CheckTokenProvider(context.Background())
	assert.Equal(t, FindingOK, result.Finding)
	assert.Equal(t, "script mode", result.Detail)
}
