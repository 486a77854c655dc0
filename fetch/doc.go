// Package fetch downloads a remote APK artifact to a staged local file.
//
// # Building a Fetcher
//
// Use [Build] to create a [Fetcher] with functional options:
//
//	f, err := fetch.Build(
//		fetch.WithTimeout(30 * time.Second),
//		fetch.WithUserAgent("myagent/1.0"),
//	)
//
// # Fetching
//
// [Fetcher.Fetch] takes a raw http/https URL, follows a bounded chain of
// redirects, streams the final response body into a uniquely named staging
// directory, and returns the absolute path of the downloaded file:
//
//	path, err := f.Fetch(ctx, "https://cdn.example.com/builds/app.apk")
//
// A success return always denotes an existing, non-empty file. The caller
// owns the returned file; the staging directory is never removed by this
// package.
//
// # Errors
//
// Every failure is one of the typed errors in this package
// ([RequestError], [RedirectError], [StatusError], [TransferError],
// [EmptyArtifactError], [StagingError]), each unwrapping to a matching
// sentinel so callers can branch with [errors.Is] or inspect details with
// [errors.As]:
//
//	if errors.Is(err, fetch.ErrTooManyRedirects) { ... }
//
//	var se *fetch.StatusError
//	if errors.As(err, &se) { log.Println(se.StatusCode) }
package fetch
