package main

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hamed0406/serviceprobe/internal/httpapi"
	"github.com/hamed0406/serviceprobe/internal/report"
)

func runProbe(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("LOG_DIR", "")
	t.Setenv("MCP_SERVER_URL", "")
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Success(t *testing.T) {
	ts := httptest.NewServer(httpapi.NewServer(zap.NewNop(), httpapi.DefaultInfo()).Router())
	defer ts.Close()

	code, out, errOut := runProbe(t, "--endpoint", ts.URL+"/sse")
	require.Equal(t, exitOK, code, "stderr: %s", errOut)
	assert.Contains(t, out, "Connecting to "+ts.URL+"\n")
	assert.Contains(t, out, `"name": "stub-mcp-server"`)
	assert.Contains(t, out, report.Hint)
}

func TestRun_PositionalEndpointAndYAML(t *testing.T) {
	ts := httptest.NewServer(httpapi.NewServer(zap.NewNop(), httpapi.DefaultInfo()).Router())
	defer ts.Close()

	code, out, _ := runProbe(t, "-f", "YAML", ts.URL)
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "name: stub-mcp-server")
}

func TestRun_ResponseErrorExitsNonZero(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	code, out, _ := runProbe(t, "--endpoint", ts.URL)
	assert.Equal(t, exitFailed, code)
	assert.Contains(t, out, "Probe failed (response error)")
	assert.Contains(t, out, report.Hint)
}

func TestRun_ConnectionErrorShowsDNS(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	code, out, _ := runProbe(t, "--endpoint", "http://"+addr, "--timeout", "1s")
	assert.Equal(t, exitFailed, code)
	assert.Contains(t, out, "Probe failed (connection error)")
	assert.Contains(t, out, "DNS for 127.0.0.1: RESOLVES")
}

func TestRun_UsageErrors(t *testing.T) {
	code, _, errOut := runProbe(t, "--endpoint", "localhost:3002")
	assert.Equal(t, exitUsage, code)
	assert.NotEmpty(t, errOut)

	code, _, _ = runProbe(t, "--format", "xml")
	assert.Equal(t, exitUsage, code)

	code, _, _ = runProbe(t, "--timeout", "0s")
	assert.Equal(t, exitUsage, code)

	code, _, _ = runProbe(t, "--no-such-flag")
	assert.Equal(t, exitUsage, code)
}

func TestRun_Help(t *testing.T) {
	code, _, errOut := runProbe(t, "--help")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, errOut, "--endpoint")
}

func TestRun_CancelledContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()

	t.Setenv("LOG_DIR", "")
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var stdout, stderr bytes.Buffer
	start := time.Now()
	code := run(ctx, []string{"--endpoint", ts.URL}, &stdout, &stderr)
	assert.Equal(t, exitFailed, code)
	assert.Less(t, time.Since(start), time.Second)
	assert.NotContains(t, stdout.String(), "DNS for")
}
