package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"
)

const (
	DefaultEndpoint = "http://localhost:3002/sse"
	DefaultTimeout  = 5 * time.Second
	DefaultFormat   = "json"
	DefaultLogDir   = "logs"
	DefaultLogLevel = "info"
	DefaultStubAddr = "127.0.0.1:3002"
)

type Config struct {
	Endpoint string        // target base URL, may carry the /sse transport suffix
	Timeout  time.Duration // bound for the whole probe
	Format   string        // payload rendering: json | yaml
	LogDir   string        // logs directory; empty disables file logging
	LogLevel string        // debug | info | warn | error
	StubAddr string        // bind address of the stub info server
}

func FromEnv() Config {
	endpoint := strings.TrimSpace(os.Getenv("MCP_SERVER_URL"))
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	timeout := DefaultTimeout
	if v := os.Getenv("PROBE_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			timeout = time.Duration(ms) * time.Millisecond
		}
	}

	format := strings.ToLower(strings.TrimSpace(os.Getenv("PROBE_FORMAT")))
	if format == "" {
		format = DefaultFormat
	}

	// LOG_DIR set to "" explicitly turns file logging off
	logDir, ok := os.LookupEnv("LOG_DIR")
	if !ok {
		logDir = DefaultLogDir
	}

	level := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if level == "" {
		level = DefaultLogLevel
	}

	stub := os.Getenv("STUB_ADDR")
	if stub == "" {
		stub = DefaultStubAddr
	}

	return Config{
		Endpoint: endpoint,
		Timeout:  timeout,
		Format:   format,
		LogDir:   logDir,
		LogLevel: level,
		StubAddr: stub,
	}
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var err error
	if strings.TrimSpace(c.Endpoint) == "" {
		err = multierr.Append(err, errors.New("endpoint must not be empty"))
	}
	if c.Timeout <= 0 {
		err = multierr.Append(err, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}
	switch c.Format {
	case "json", "yaml":
	default:
		err = multierr.Append(err, fmt.Errorf("unknown format %q (want json or yaml)", c.Format))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		err = multierr.Append(err, fmt.Errorf("unknown log level %q", c.LogLevel))
	}
	return err
}
