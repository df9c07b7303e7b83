package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/hamed0406/serviceprobe/internal/config"
	"github.com/hamed0406/serviceprobe/internal/logging"
	"github.com/hamed0406/serviceprobe/internal/probe"
	"github.com/hamed0406/serviceprobe/internal/report"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := loadConfig(args, stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(stderr, "✖", err)
		return exitUsage
	}
	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		fmt.Fprintln(stderr, "✖", err)
		return exitUsage
	}

	logger, err := logging.NewLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(stderr, "✖ logger:", err)
		return exitUsage
	}
	defer func() { _ = logger.Sync() }()

	endpoint, err := probe.ResolveEndpoint(cfg.Endpoint)
	if err != nil {
		logger.Error("endpoint_invalid", zap.String("endpoint", cfg.Endpoint), zap.Error(err))
		fmt.Fprintln(stderr, "✖", err)
		return exitUsage
	}

	out := report.New(stdout, format)
	out.Connecting(endpoint)

	prober := probe.NewProber(cfg.Timeout, logger)
	res := <-prober.Start(ctx, cfg.Endpoint)

	if res.OK() {
		logger.Info("probe_ok",
			zap.String("url", res.Endpoint),
			zap.String("request_id", res.RequestID),
			zap.Int("status", res.StatusCode),
			zap.Float64("latency_ms", res.LatencyMS),
		)
	} else {
		logger.Warn("probe_failed",
			zap.String("url", res.Endpoint),
			zap.String("request_id", res.RequestID),
			zap.String("kind", string(res.Kind)),
			zap.Int("status", res.StatusCode),
			zap.Float64("latency_ms", res.LatencyMS),
			zap.Error(res.Err),
		)
	}
	if err := out.Result(res); err != nil {
		fmt.Fprintln(stderr, "✖", err)
		return exitFailed
	}

	// A refused or unreachable host is often a name problem.
	if res.Kind == probe.KindConnection && ctx.Err() == nil {
		dns := probe.CheckDNS(ctx, probe.HostOf(endpoint))
		logger.Info("dns_check",
			zap.String("host", dns.Host),
			zap.String("class", dns.Class),
			zap.String("cname", dns.CNAME),
			zap.Strings("nameservers", dns.Nameservers),
			zap.String("resolver_error", dns.ResolverError),
		)
		out.DNS(dns)
	}

	out.Hint()
	if !res.OK() {
		return exitFailed
	}
	return exitOK
}

// loadConfig applies flags over the environment. Only flags the user set
// override env values.
func loadConfig(args []string, stderr io.Writer) (config.Config, error) {
	cfg := config.FromEnv()

	fs := pflag.NewFlagSet("probe", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	endpoint := fs.StringP("endpoint", "e", cfg.Endpoint, "target base URL (env MCP_SERVER_URL); a trailing /sse is stripped")
	timeout := fs.DurationP("timeout", "t", cfg.Timeout, "bound for the whole probe (env PROBE_TIMEOUT_MS)")
	format := fs.StringP("format", "f", cfg.Format, "payload rendering: json or yaml (env PROBE_FORMAT)")
	logDir := fs.String("log-dir", cfg.LogDir, "log directory, empty disables file logging (env LOG_DIR)")
	logLevel := fs.String("log-level", cfg.LogLevel, "debug, info, warn or error (env LOG_LEVEL)")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() > 0 && !fs.Changed("endpoint") {
		cfg.Endpoint = fs.Arg(0)
	}
	if fs.Changed("endpoint") {
		cfg.Endpoint = *endpoint
	}
	if fs.Changed("timeout") {
		cfg.Timeout = *timeout
	}
	if fs.Changed("format") {
		cfg.Format = strings.ToLower(*format)
	}
	if fs.Changed("log-dir") {
		cfg.LogDir = *logDir
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = strings.ToLower(*logLevel)
	}
	return cfg, cfg.Validate()
}
