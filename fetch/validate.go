package fetch

import (
	"net/url"
	"os"
)

// validate guards against servers that answer 200 with no body, or
// truncated streams that reported success: the destination must exist
// and hold at least one byte. A zero-length file is removed so nothing
// stray is left behind; the staging directory stays.
func validate(origin *url.URL, dest string) error {
	info, err := os.Stat(dest)
	if err != nil {
		return &EmptyArtifactError{URL: origin.String(), Path: dest, Reason: "artifact missing"}
	}

	if info.Size() == 0 {
		os.Remove(dest) // best-effort
		return &EmptyArtifactError{URL: origin.String(), Path: dest, Reason: "zero-length artifact"}
	}

	return nil
}
