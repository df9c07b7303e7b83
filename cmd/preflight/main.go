// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/multierr"

	"github.com/hamed0406/serviceprobe/internal/config"
	"github.com/hamed0406/serviceprobe/internal/probe"
)

func main() {
	os.Exit(check(config.FromEnv()))
}

// check prints one line per finding and returns the exit code.
func check(cfg config.Config) int {
	fail := func(msg string) { fmt.Fprintln(os.Stderr, "✖", msg) }
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	failed := false
	for _, err := range multierr.Errors(cfg.Validate()) {
		fail(err.Error())
		failed = true
	}

	if strings.TrimSpace(os.Getenv("MCP_SERVER_URL")) == "" {
		warn("MCP_SERVER_URL empty; default " + config.DefaultEndpoint + " will be probed.")
	}
	if endpoint, err := probe.ResolveEndpoint(cfg.Endpoint); err != nil {
		fail(err.Error())
		failed = true
	} else {
		ok("info endpoint " + endpoint)
	}

	if cfg.LogDir == "" {
		warn("LOG_DIR empty; file logging disabled.")
	} else {
		ok("LOG_DIR=" + cfg.LogDir)
	}

	if failed {
		return 1
	}
	ok("preflight passed")
	return 0
}
