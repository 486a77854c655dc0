package archive_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gocloud.dev/blob/memblob"

	"github.com/apkfetch/apkfetch/archive"
)

func TestStoreTo_RoundTrip(t *testing.T) {
	body := []byte("apk bytes")

	src := filepath.Join(t.TempDir(), "app.apk")
	if err := os.WriteFile(src, body, 0o644); err != nil {
		t.Fatalf("failed to write source file: %v", err)
	}

	bucket := memblob.OpenBucket(nil)
	defer bucket.Close()

	if err := archive.StoreTo(context.Background(), bucket, "builds/app.apk", src); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	got, err := bucket.ReadAll(context.Background(), "builds/app.apk")
	if err != nil {
		t.Fatalf("failed to read stored object: %v", err)
	}
	if diff := cmp.Diff(body, got); diff != "" {
		t.Errorf("stored object mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreTo_MissingSource(t *testing.T) {
	bucket := memblob.OpenBucket(nil)
	defer bucket.Close()

	err := archive.StoreTo(context.Background(), bucket, "key", filepath.Join(t.TempDir(), "nope.apk"))
	if err == nil {
		t.Fatal("expected an error for a missing source file")
	}
}

func TestStore_BadBucketURL(t *testing.T) {
	src := filepath.Join(t.TempDir(), "app.apk")
	if err := os.WriteFile(src, []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to write source file: %v", err)
	}

	if err := archive.Store(context.Background(), "bogus://nowhere", "key", src); err == nil {
		t.Fatal("expected an error for an unregistered bucket scheme")
	}
}
