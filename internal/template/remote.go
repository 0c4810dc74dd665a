package template

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"gopkg.in/yaml.v3"
)

const (
	// ManifestFile is the optional index at the root of a remote template source.
	ManifestFile = "manifest.yaml"

	defaultRemoteTimeout = 5 * time.Second
	defaultRetryDelay    = 200 * time.Millisecond
	maxRemoteBody        = 1 << 20
)

// defaultRemotePaths locates front-end files when the source has no manifest.
var defaultRemotePaths = map[Kind]string{
	KindHTML:       "html/index.html",
	KindCSS:        "css/styles.css",
	KindJavaScript: "js/script.js",
}

// Manifest describes a remote template source.
type Manifest struct {
	Name    string            `yaml:"name"`
	Version string            `yaml:"version"`
	Files   map[string]string `yaml:"files"` // keyed by Kind
}

// RemoteProvider fetches front-end files from an HTTP template source.
// Content is used verbatim; it is not rendered as a template.
type RemoteProvider struct {
	baseURL  string
	client   *http.Client
	attempts uint
	delay    time.Duration
	logger   *slog.Logger

	once  sync.Once
	paths map[Kind]string
}

// RemoteOption configures a RemoteProvider.
type RemoteOption func(*RemoteProvider)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) RemoteOption {
	return func(p *RemoteProvider) {
		if c != nil {
			p.client = c
		}
	}
}

// WithRetries sets how many times a failed request is retried.
func WithRetries(n int) RemoteOption {
	return func(p *RemoteProvider) {
		if n >= 0 {
			p.attempts = uint(n) + 1
		}
	}
}

// WithRetryDelay sets the base delay between retries.
func WithRetryDelay(d time.Duration) RemoteOption {
	return func(p *RemoteProvider) {
		p.delay = d
	}
}

// WithRemoteLogger sets the logger.
func WithRemoteLogger(l *slog.Logger) RemoteOption {
	return func(p *RemoteProvider) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewRemoteProvider creates a RemoteProvider for baseURL.
func NewRemoteProvider(baseURL string, timeout time.Duration, opts ...RemoteOption) *RemoteProvider {
	if timeout <= 0 {
		timeout = defaultRemoteTimeout
	}
	p := &RemoteProvider{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: timeout},
		attempts: 1,
		delay:    defaultRetryDelay,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// BaseURL returns the template source root.
func (p *RemoteProvider) BaseURL() string {
	return p.baseURL
}

// Fetch downloads the file for a front-end kind. Other kinds, HTTP errors
// and empty bodies yield an error wrapping ErrUnavailable.
func (p *RemoteProvider) Fetch(ctx context.Context, kind Kind, _ *TemplateContext) ([]byte, error) {
	if p.baseURL == "" {
		return nil, fmt.Errorf("%w: no remote source configured", ErrUnavailable)
	}
	if !kind.IsFrontEnd() {
		return nil, fmt.Errorf("%w: %s is not served remotely", ErrUnavailable, kind)
	}

	p.once.Do(func() { p.paths = p.loadPaths(ctx) })

	rel, ok := p.paths[kind]
	if !ok {
		return nil, fmt.Errorf("%w: manifest has no entry for %s", ErrUnavailable, kind)
	}

	body, err := p.get(ctx, p.baseURL+"/"+strings.TrimLeft(rel, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", ErrUnavailable, kind, err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, fmt.Errorf("%w: empty response for %s", ErrUnavailable, kind)
	}
	return body, nil
}

// loadPaths reads the manifest, falling back to the default layout.
func (p *RemoteProvider) loadPaths(ctx context.Context) map[Kind]string {
	paths := make(map[Kind]string, len(defaultRemotePaths))
	for k, v := range defaultRemotePaths {
		paths[k] = v
	}

	body, err := p.get(ctx, p.baseURL+"/"+ManifestFile)
	if err != nil {
		p.logger.Debug("remote manifest unavailable, using default layout", "error", err)
		return paths
	}

	var m Manifest
	if err := yaml.Unmarshal(body, &m); err != nil {
		p.logger.Warn("ignoring malformed remote manifest", "error", err)
		return paths
	}
	for key, rel := range m.Files {
		k := Kind(key)
		if !k.IsFrontEnd() || rel == "" {
			continue
		}
		paths[k] = rel
	}
	p.logger.Debug("loaded remote manifest", "name", m.Name, "version", m.Version)
	return paths
}

// errClientStatus marks 4xx responses, which are not retried.
var errClientStatus = errors.New("client error status")

func (p *RemoteProvider) get(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("create request: %w", err))
			}
			req.Header.Set("User-Agent", "webproj")

			resp, err := p.client.Do(req)
			if err != nil {
				return fmt.Errorf("get %s: %w", url, err)
			}
			defer resp.Body.Close()

			switch {
			case resp.StatusCode >= 400 && resp.StatusCode < 500:
				return retry.Unrecoverable(fmt.Errorf("%w: %s", errClientStatus, resp.Status))
			case resp.StatusCode != http.StatusOK:
				return fmt.Errorf("unexpected status: %s", resp.Status)
			}

			b, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteBody))
			if err != nil {
				return fmt.Errorf("read body: %w", err)
			}
			body = b
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(p.attempts),
		retry.Delay(p.delay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			p.logger.Debug("retrying remote template request", "url", url, "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return nil, err
	}
	return body, nil
}
