// Package apkfetch exposes the artifact fetcher builder.
package apkfetch

import (
	"github.com/apkfetch/apkfetch/fetch"
)

// New instantiates a new *fetch.Fetcher with the provided options.
// If not specified, a default http.Client and http.Transport are used.
func New(opts ...fetch.Option) (*fetch.Fetcher, error) {
	return fetch.Build(opts...)
}
