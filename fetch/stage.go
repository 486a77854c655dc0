package fetch

import (
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	// stagingPrefix keeps apkfetch staging directories apart from
	// unrelated entries under the temp root.
	stagingPrefix = "apkfetch-"

	// artifactExt is enforced on every destination file name.
	artifactExt = ".apk"

	// defaultBaseName is used when the URL path has no final segment.
	defaultBaseName = "artifact"
)

// stage creates the staging directory for one Fetch call. The uuid
// suffix makes the name process-unique, so concurrent calls never
// collide. The directory is not removed by this package, even on
// failure; callers may inspect it for diagnostics.
func (f *Fetcher) stage() (string, error) {
	dir := filepath.Join(f.tempRoot, stagingPrefix+uuid.NewString())
	if err := os.Mkdir(dir, 0o755); err != nil {
		return "", &StagingError{Dir: dir, Cause: err}
	}

	return dir, nil
}

// destName derives the artifact file name from the last segment of the
// URL path, falling back to defaultBaseName and suffixing artifactExt
// when missing.
func destName(u *url.URL) string {
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		name = defaultBaseName
	}

	if !strings.HasSuffix(name, artifactExt) {
		name += artifactExt
	}

	return name
}
