package fetch_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"time"

	"github.com/apkfetch/apkfetch/fetch"
)

func ExampleBuild() {
	f, err := fetch.Build(
		fetch.WithTimeout(10*time.Second),
		fetch.WithUserAgent("example/1.0"),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	_ = f
	fmt.Println("fetcher built")
	// Output: fetcher built
}

func ExampleFetcher_Fetch() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("payload"))
	}))
	defer ts.Close()

	f, err := fetch.Build()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	path, err := f.Fetch(context.Background(), ts.URL+"/demo.apk")
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(filepath.Base(path))
	// Output: demo.apk
}

func ExampleFetcher_Fetch_errorHandling() {
	f, err := fetch.Build()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	_, err = f.Fetch(context.Background(), "file:///etc/passwd")

	switch {
	case errors.Is(err, fetch.ErrInvalidRequest):
		fmt.Println("rejected before any I/O")
	case errors.Is(err, fetch.ErrTooManyRedirects):
		fmt.Println("redirect budget exhausted")
	default:
		fmt.Println("unexpected:", err)
	}
	// Output: rejected before any I/O
}
