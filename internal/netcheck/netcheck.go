// Package netcheck probes network reachability with a single bounded TCP dial.
package netcheck

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"
)

// Defaults for the connectivity probe.
const (
	DefaultAddr    = "8.8.8.8:53"
	DefaultTimeout = time.Second
)

// DialFunc opens a connection. It matches (*net.Dialer).DialContext.
type DialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// Prober checks reachability of one TCP address.
type Prober struct {
	addr    string
	timeout time.Duration
	dial    DialFunc
	logger  *slog.Logger
}

// Option configures a Prober.
type Option func(*Prober)

// WithDialer replaces the dialer, mainly for tests.
func WithDialer(d DialFunc) Option {
	return func(p *Prober) {
		if d != nil {
			p.dial = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Prober) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a Prober for addr. Empty addr and non-positive timeout use the defaults.
func New(addr string, timeout time.Duration, opts ...Option) *Prober {
	if addr == "" {
		addr = DefaultAddr
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	p := &Prober{
		addr:    addr,
		timeout: timeout,
		dial:    (&net.Dialer{}).DialContext,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Addr returns the probed address.
func (p *Prober) Addr() string { return p.addr }

// Check dials the probe address once, giving up after the timeout.
func (p *Prober) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	conn, err := p.dial(ctx, "tcp", p.addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", p.addr, err)
	}
	_ = conn.Close()
	p.logger.Debug("connectivity probe succeeded", "addr", p.addr, "elapsed", time.Since(start))
	return nil
}

// Reachable reports whether Check succeeds.
func (p *Prober) Reachable(ctx context.Context) bool {
	if err := p.Check(ctx); err != nil {
		p.logger.Debug("connectivity probe failed", "addr", p.addr, "error", err)
		return false
	}
	return true
}
