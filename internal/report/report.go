// Package report renders probe outcomes as console status lines.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hamed0406/serviceprobe/internal/probe"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var ErrUnknownFormat = errors.New("unknown output format")

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Hint points at a client that speaks the full protocol.
const Hint = "For full MCP protocol support (sessions, tools, streaming), use a complete MCP client such as MCP Inspector."

type Printer struct {
	w      io.Writer
	format Format
}

func New(w io.Writer, format Format) *Printer {
	if format == "" {
		format = FormatJSON
	}
	return &Printer{w: w, format: format}
}

func (p *Printer) Connecting(url string) {
	fmt.Fprintf(p.w, "Connecting to %s\n", url)
}

// Result prints the success payload or the typed failure.
func (p *Printer) Result(r probe.Result) error {
	if !r.OK() {
		fmt.Fprintf(p.w, "Probe failed (%s): %s\n", kindLabel(r.Kind), r.Message)
		return nil
	}
	fmt.Fprintf(p.w, "Server info (HTTP %d, %.0f ms):\n", r.StatusCode, r.LatencyMS)
	out, err := p.Render(r.Payload)
	if err != nil {
		return err
	}
	_, err = io.WriteString(p.w, out)
	return err
}

// Render formats payload, always ending in a newline.
func (p *Printer) Render(payload probe.Payload) (string, error) {
	var (
		b   []byte
		err error
	)
	switch p.format {
	case FormatYAML:
		b, err = yaml.Marshal(map[string]any(payload))
	default:
		b, err = json.MarshalIndent(payload, "", "  ")
	}
	if err != nil {
		return "", fmt.Errorf("render %s: %w", p.format, err)
	}
	s := string(b)
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return s, nil
}

func (p *Printer) DNS(s probe.DNSStatus) {
	line := fmt.Sprintf("DNS for %s: %s", s.Host, s.Class)
	if s.CNAME != "" {
		line += " cname=" + s.CNAME
	}
	if len(s.Nameservers) > 0 {
		line += " ns=" + strings.Join(s.Nameservers, ",")
	}
	fmt.Fprintln(p.w, line)
}

func (p *Printer) Hint() {
	fmt.Fprintf(p.w, "\n%s\n", Hint)
}

func kindLabel(k probe.Kind) string {
	switch k {
	case probe.KindConnection:
		return "connection error"
	case probe.KindResponse:
		return "response error"
	case probe.KindDecode:
		return "decode error"
	}
	return "error"
}
