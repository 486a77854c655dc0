// Command apkfetch downloads an APK artifact from an http/https URL
// into a staging directory and prints the resulting file path.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/s3blob"

	"github.com/apkfetch/apkfetch/archive"
	"github.com/apkfetch/apkfetch/fetch"
)

// Exit codes
const (
	ExitSuccess       = 0
	ExitGeneralError  = 1
	ExitInvalidArgs   = 2
	ExitInvalidURL    = 3
	ExitRedirects     = 4
	ExitHTTPStatus    = 5
	ExitTransfer      = 6
	ExitEmptyArtifact = 7
	ExitStaging       = 8
	ExitArchive       = 9
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("apkfetch", flag.ExitOnError)

	urlFlag := fs.String("url", "", "Artifact URL, http or https (required unless set in config)")
	configPath := fs.String("config", "", "Path to a YAML config file")
	timeout := fs.Duration("timeout", 0, "Per-hop request timeout (default 30s)")
	redirects := fs.Int("redirects", -1, "Redirect budget (default 5)")
	userAgent := fs.String("user-agent", "", "User-Agent header for outgoing requests")
	progress := fs.Bool("progress", false, "Log transfer progress")
	archiveBucket := fs.String("archive-bucket", "", "Copy the artifact to this bucket URL after fetching")
	archiveKey := fs.String("archive-key", "", "Object key for the archived artifact (default: file name)")
	verbose := fs.Bool("v", false, "Enable debug logging")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: apkfetch [options]

Download an APK artifact from an http/https URL, following up to the
configured number of redirects, and print the staged file path.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := Default()
	if *configPath != "" {
		loaded, err := LoadFromFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitInvalidArgs
		}
		cfg = loaded
	}

	// Flags override the config file.
	if *urlFlag != "" {
		cfg.URL = *urlFlag
	}
	if *timeout > 0 {
		cfg.Timeout = *timeout
	}
	if *redirects >= 0 {
		cfg.MaxRedirects = *redirects
	}
	if *userAgent != "" {
		cfg.UserAgent = *userAgent
	}
	if *progress {
		cfg.Progress = true
	}
	if *archiveBucket != "" {
		cfg.Archive.Bucket = *archiveBucket
	}
	if *archiveKey != "" {
		cfg.Archive.Key = *archiveKey
	}

	if err := Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		fs.Usage()
		return ExitInvalidArgs
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	f, err := fetch.Build(append(cfg.Options(), fetch.WithLogger(logger))...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}

	path, err := f.Fetch(ctx, cfg.URL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitCode(err)
	}

	if cfg.Archive.Bucket != "" {
		key := cfg.Archive.Key
		if key == "" {
			key = filepath.Base(path)
		}

		archiveCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
		defer cancel()

		if err := archive.Store(archiveCtx, cfg.Archive.Bucket, key, path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitArchive
		}
		logger.Info("artifact archived", "bucket", cfg.Archive.Bucket, "key", key)
	}

	fmt.Println(path)
	return ExitSuccess
}

// exitCode maps the fetch error taxonomy to process exit codes.
func exitCode(err error) int {
	switch {
	case errors.Is(err, fetch.ErrInvalidRequest):
		return ExitInvalidURL
	case errors.Is(err, fetch.ErrTooManyRedirects):
		return ExitRedirects
	case errors.Is(err, fetch.ErrUnexpectedStatus):
		return ExitHTTPStatus
	case errors.Is(err, fetch.ErrTransferFailed):
		return ExitTransfer
	case errors.Is(err, fetch.ErrEmptyArtifact):
		return ExitEmptyArtifact
	case errors.Is(err, fetch.ErrStagingFailed):
		return ExitStaging
	default:
		return ExitGeneralError
	}
}
