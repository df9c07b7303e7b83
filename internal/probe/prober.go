package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultTimeout = 5 * time.Second
	UserAgent      = "serviceprobe/1.0"

	maxBodyBytes    = 1 << 20
	maxExcerptBytes = 256
)

// Payload is the decoded info document.
type Payload map[string]any

// Result is the outcome of one probe, ready for display.
type Result struct {
	Endpoint   string
	RequestID  string
	Payload    Payload
	StatusCode int // 0 when no response was received
	LatencyMS  float64
	Kind       Kind
	Message    string
	Err        error
	CheckedAt  time.Time
}

func (r Result) OK() bool { return r.Err == nil }

// Prober performs single, non-retried info requests.
//
// A nil Client means every call builds its own transport and tears it
// down before returning.
type Prober struct {
	Client  *http.Client
	Timeout time.Duration
	Logger  *zap.Logger
}

func NewProber(timeout time.Duration, logger *zap.Logger) *Prober {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Prober{Timeout: timeout, Logger: logger}
}

// Probe resolves base, GETs it once and decodes the JSON object body.
func (p *Prober) Probe(ctx context.Context, base string) (Payload, error) {
	payload, _, _, err := p.do(ctx, base)
	return payload, err
}

// Run is Probe packaged as a Result.
func (p *Prober) Run(ctx context.Context, base string) Result {
	start := time.Now()
	payload, status, reqID, err := p.do(ctx, base)
	res := Result{
		Endpoint:   base,
		RequestID:  reqID,
		Payload:    payload,
		StatusCode: status,
		LatencyMS:  time.Since(start).Seconds() * 1000,
		Kind:       KindOf(err),
		Err:        err,
		CheckedAt:  time.Now().UTC(),
	}
	if resolved, rerr := ResolveEndpoint(base); rerr == nil {
		res.Endpoint = resolved
	}
	if err != nil {
		res.Message = err.Error()
	} else {
		res.Message = http.StatusText(status)
	}
	return res
}

// Start runs the probe in the background. The channel yields exactly one
// Result and is then closed.
func (p *Prober) Start(ctx context.Context, base string) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		out <- p.Run(ctx, base)
	}()
	return out
}

func (p *Prober) do(ctx context.Context, base string) (Payload, int, string, error) {
	target, err := ResolveEndpoint(base)
	if err != nil {
		return nil, 0, "", err
	}
	log := p.logger()

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := p.Client
	if client == nil {
		tr := newTransport(timeout)
		defer tr.CloseIdleConnections()
		client = &http.Client{Transport: tr}
	}

	reqID := uuid.NewString()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, 0, reqID, fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("X-Request-Id", reqID)

	log.Debug("probe_request", zap.String("url", target), zap.String("request_id", reqID))

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, reqID, &ConnectionError{URL: target, Err: unwrapURLError(err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, reqID, &ConnectionError{URL: target, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, reqID, &ResponseError{
			URL:        target,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       excerpt(body),
		}
	}

	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, resp.StatusCode, reqID, &DecodeError{
			URL:         target,
			ContentType: resp.Header.Get("Content-Type"),
			Err:         err,
		}
	}
	if payload == nil {
		// "null" decodes without error
		return nil, resp.StatusCode, reqID, &DecodeError{
			URL:         target,
			ContentType: resp.Header.Get("Content-Type"),
			Err:         errors.New("body is not a JSON object"),
		}
	}
	return payload, resp.StatusCode, reqID, nil
}

func (p *Prober) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

func newTransport(timeout time.Duration) *http.Transport {
	d := &net.Dialer{Timeout: timeout}
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         d.DialContext,
		TLSHandshakeTimeout: timeout,
		DisableKeepAlives:   true,
	}
}

// unwrapURLError drops the *url.Error layer; ConnectionError already
// carries the URL.
func unwrapURLError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) && ue.Err != nil {
		return ue.Err
	}
	return err
}

func excerpt(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxExcerptBytes {
		s = s[:maxExcerptBytes] + "..."
	}
	return s
}
