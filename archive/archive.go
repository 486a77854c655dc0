// Package archive copies fetched artifacts into object storage.
//
// Buckets are addressed with gocloud.dev URLs (s3://, gs://, file://,
// mem://); the caller chooses which drivers to link in.
package archive

import (
	"context"
	"fmt"
	"io"
	"os"

	"gocloud.dev/blob"
)

// Store opens the bucket at bucketURL and copies the file at srcPath
// into it under key.
func Store(ctx context.Context, bucketURL, key, srcPath string) error {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return fmt.Errorf("open bucket: %w", err)
	}
	defer bucket.Close()

	return StoreTo(ctx, bucket, key, srcPath)
}

// StoreTo copies the file at srcPath into an already-open bucket under
// key. The write is streamed; nothing is buffered in memory.
func StoreTo(ctx context.Context, bucket *blob.Bucket, key, srcPath string) error {
	f, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	w, err := bucket.NewWriter(ctx, key, nil)
	if err != nil {
		return fmt.Errorf("open bucket writer: %w", err)
	}

	if _, err := io.Copy(w, f); err != nil {
		w.Close()
		return fmt.Errorf("copy artifact: %w", err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("commit artifact: %w", err)
	}

	return nil
}
