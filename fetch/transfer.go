package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// transfer drives the redirect-following state machine over
// (current URL, remaining budget). Each hop issues its own GET; the
// budget is checked before following so a chain one hop past it fails
// with the unfollowed Location attached. The destination file is only
// opened once a 2xx response is confirmed, so redirect hops never
// leave partial data behind.
func (f *Fetcher) transfer(ctx context.Context, origin *url.URL, dir string, span trace.Span) (string, error) {
	current := origin
	remaining := f.maxRedirects

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, current.String(), nil)
		if err != nil {
			return "", &TransferError{URL: current.String(), Cause: err}
		}

		resp, err := f.c.Do(req)
		if err != nil {
			return "", &TransferError{URL: current.String(), Cause: err}
		}

		loc := resp.Header.Get("Location")

		switch {
		case resp.StatusCode >= 300 && resp.StatusCode < 400 && loc != "":
			drain(resp.Body, f.logger)

			if remaining == 0 {
				return "", &RedirectError{URL: current.String(), StatusCode: resp.StatusCode, Location: loc}
			}

			next, err := current.Parse(loc)
			if err != nil {
				return "", &TransferError{URL: current.String(), Cause: fmt.Errorf("resolving location %q: %w", loc, err)}
			}

			span.AddEvent("redirect", trace.WithAttributes(
				attribute.Int("status", resp.StatusCode),
				attribute.String("location", next.String()),
			))
			f.logger.Debug("following redirect", "from", current.String(), "to", next.String(), "remaining", remaining-1)

			remaining--
			current = next

		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			drain(resp.Body, f.logger)
			return "", &StatusError{URL: current.String(), StatusCode: resp.StatusCode}

		default:
			// The name comes from the final post-redirect URL, so a
			// redirect from app.apk to an extensionless build path
			// still yields a properly suffixed file.
			dest := filepath.Join(dir, destName(current))
			if err := f.write(ctx, current, resp, dest); err != nil {
				return "", err
			}

			return dest, nil
		}
	}
}

// write streams the response body into dest incrementally. On any
// error the partial file is removed best-effort before the failure
// propagates.
func (f *Fetcher) write(ctx context.Context, u *url.URL, resp *http.Response, dest string) (err error) {
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			f.logger.Error("failed to close response body", "error", cerr)
		}
	}()

	file, err := os.Create(dest)
	if err != nil {
		return &TransferError{URL: u.String(), Cause: err}
	}

	defer func() {
		if err == nil {
			return
		}
		if rerr := os.Remove(dest); rerr != nil {
			f.logger.Error("failed to remove partial file", "path", dest, "error", rerr)
		}
	}()

	var body io.Reader = &contextReader{ctx: ctx, r: resp.Body}

	var writer io.Writer = file
	if f.progress {
		writer = &progressWriter{
			w:         writer,
			logger:    f.logger,
			total:     resp.ContentLength,
			startTime: time.Now(),
		}
	}

	if _, err = io.Copy(writer, body); err != nil {
		file.Close()
		return &TransferError{URL: u.String(), Cause: err}
	}

	if err = file.Sync(); err != nil {
		file.Close()
		return &TransferError{URL: u.String(), Cause: err}
	}
	if err = file.Close(); err != nil {
		return &TransferError{URL: u.String(), Cause: err}
	}

	return nil
}

// drain exhausts and closes a response body that will not be written
// to disk. Redirect and error responses must be drained before moving
// on so no hop retains partial data.
func drain(body io.ReadCloser, logger *slog.Logger) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		logger.Error("failed to discard unused body", "error", err)
	}
	if err := body.Close(); err != nil {
		logger.Error("failed to close response body", "error", err)
	}
}

// contextReader aborts the stream between reads once ctx is done,
// instead of waiting on the transport.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}

// progressWriter is an io.Writer, logging transfer progress at
// most once per second if enabled.
type progressWriter struct {
	w           io.Writer
	logger      *slog.Logger
	transferred int64
	total       int64
	startTime   time.Time
	lastLog     time.Time
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n, err := pw.w.Write(p)
	pw.transferred += int64(n)

	if time.Since(pw.lastLog) >= time.Second {
		pw.lastLog = time.Now()
		pw.log("transferring")
	}

	if pw.total >= 0 && pw.transferred == pw.total {
		pw.log("transfer complete")
	}

	return n, err
}

func (pw *progressWriter) log(msg string) {
	elapsed := time.Since(pw.startTime)
	attrs := []any{
		"elapsed", elapsed.Round(time.Millisecond),
		"transferred", pw.transferred,
	}
	if pw.total >= 0 {
		attrs = append(attrs,
			"total", pw.total,
			"progress", fmt.Sprintf("%.1f%%", float64(pw.transferred)/float64(pw.total)*100),
		)
	}
	pw.logger.Info(msg, attrs...)
}
