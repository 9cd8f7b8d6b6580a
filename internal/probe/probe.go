// Package probe performs single reachability checks against monitor targets.
package probe

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"
)

// DefaultPort is dialled when a target does not carry an explicit port.
// Port 53 answers on the public resolvers this service typically watches.
const DefaultPort = "53"

// Result is the normalized outcome of one reachability check. An unreachable
// or timed-out target is a regular result, not an error.
type Result struct {
	Alive     bool
	LatencyMs int64
}

// Prober dials targets over TCP with a bounded timeout.
type Prober struct {
	timeout time.Duration
	dialer  *net.Dialer
}

// New creates a prober. Non-positive timeouts fall back to 2 seconds.
func New(timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Prober{
		timeout: timeout,
		dialer:  &net.Dialer{Timeout: timeout},
	}
}

// Timeout reports the bound on a single probe's duration.
func (p *Prober) Timeout() time.Duration {
	return p.timeout
}

// Probe checks whether target accepts a TCP connection within the timeout.
// Network failure and timeout both yield Alive=false with a nil error; a
// non-nil error means the probe itself could not be attempted.
func (p *Prober) Probe(ctx context.Context, target string) (Result, error) {
	address, err := normalizeTarget(target)
	if err != nil {
		return Result{}, err
	}

	dialCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	started := time.Now()
	conn, err := p.dialer.DialContext(dialCtx, "tcp", address)
	if err != nil {
		return Result{}, nil
	}
	latency := time.Since(started).Milliseconds()
	_ = conn.Close()

	return Result{Alive: true, LatencyMs: latency}, nil
}

// normalizeTarget appends the default port to bare hosts. Targets that
// already carry a port pass through unchanged.
func normalizeTarget(target string) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", errors.New("empty probe target")
	}
	if _, _, err := net.SplitHostPort(target); err == nil {
		return target, nil
	}
	return net.JoinHostPort(target, DefaultPort), nil
}
