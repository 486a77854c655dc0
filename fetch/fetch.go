package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/apkfetch/apkfetch/fetch/throttle"
)

const (
	// DefaultMaxRedirects bounds the redirect chain a single Fetch
	// will follow. A decrementing budget defends against redirect
	// loops without tracking visited URLs.
	DefaultMaxRedirects = 5

	// defaultTimeout applies per hop; each redirect is its own request.
	defaultTimeout = 30 * time.Second
)

// Fetcher downloads APK artifacts over HTTP(S) into staged local files.
// Build one with [Build]; the zero value is not usable.
type Fetcher struct {
	c            *http.Client
	logger       *slog.Logger
	tracer       trace.Tracer
	maxRedirects int
	tempRoot     string
	progress     bool
}

// Build creates a Fetcher, applying the given options over defaults:
// a dedicated http.Client with a 30s per-hop timeout, slog.Default(),
// a no-op tracer, and the platform temp root for staging.
func Build(optFns ...Option) (*Fetcher, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying fetcher option: %w", err)
		}
	}

	f := &Fetcher{
		logger:       slog.Default(),
		tracer:       noop.NewTracerProvider().Tracer("fetch"),
		maxRedirects: DefaultMaxRedirects,
		tempRoot:     os.TempDir(),
	}

	if opts.logger != nil {
		f.logger = opts.logger
	}
	if opts.tracer != nil {
		f.tracer = opts.tracer
	}
	if opts.maxRedirects != nil {
		f.maxRedirects = *opts.maxRedirects
	}
	if opts.tempRoot != "" {
		f.tempRoot = opts.tempRoot
	}
	f.progress = opts.progress

	hc := &http.Client{Timeout: defaultTimeout}
	if opts.client != nil {
		cpy := *opts.client
		hc = &cpy
	}
	if opts.timeout != nil {
		hc.Timeout = *opts.timeout
	}

	// Redirects are followed manually so every hop can be inspected
	// and counted against the budget.
	hc.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	var transport http.RoundTripper
	switch {
	case opts.rt != nil:
		transport = opts.rt
	case opts.client != nil && opts.client.Transport != nil:
		transport = opts.client.Transport
	default:
		transport = http.DefaultTransport
	}
	if opts.userAgent != "" {
		transport = userAgent{value: opts.userAgent, base: transport}
	}
	if opts.throttle != nil {
		rt, err := throttle.Wrap(opts.throttle.rps, opts.throttle.burst, f.logger, transport)
		if err != nil {
			return nil, err
		}
		transport = rt
	}
	hc.Transport = transport
	f.c = hc

	return f, nil
}

// Fetch downloads the artifact at rawURL and returns the absolute path
// of the staged file. It validates the URL before any I/O, creates one
// staging directory for the call, follows up to the configured number
// of redirects, and verifies the result is non-empty.
//
// On failure any partially written file is removed; the staging
// directory is left in place for diagnostics. On success ownership of
// the file (and its directory) transfers to the caller.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := parseURL(rawURL)
	if err != nil {
		return "", err
	}

	ctx, span := f.tracer.Start(ctx, "fetch",
		trace.WithAttributes(attribute.String("url", rawURL)))
	defer span.End()

	dir, err := f.stage()
	if err != nil {
		return "", err
	}
	f.logger.Debug("staging directory created", "dir", dir)

	dest, err := f.transfer(ctx, u, dir, span)
	if err != nil {
		return "", err
	}

	if err := validate(u, dest); err != nil {
		return "", err
	}

	abs, err := filepath.Abs(dest)
	if err != nil {
		return "", &TransferError{URL: rawURL, Cause: err}
	}

	f.logger.Info("artifact fetched", "url", rawURL, "path", abs)

	return abs, nil
}

// parseURL is the gate in front of all I/O: only http and https URLs
// pass through.
func parseURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, &RequestError{URL: rawURL, Reason: "unparsable url"}
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, &RequestError{URL: rawURL, Reason: "unsupported scheme " + strconv.Quote(u.Scheme)}
	}

	return u, nil
}
