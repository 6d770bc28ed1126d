package payload

import (
	"errors"
	"os"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/rostoc-updates/internal/config"
	"github.com/oshokin/rostoc-updates/internal/repository/artifact"
)

// errReadForbidden is returned by noReadFS when content is opened.
var errReadForbidden = errors.New("file content must not be read")

// noReadFS fails every attempt to open file content while still answering Stat.
type noReadFS struct {
	billy.Filesystem
}

func (noReadFS) Open(string) (billy.File, error) {
	return nil, errReadForbidden
}

func (noReadFS) OpenFile(string, int, os.FileMode) (billy.File, error) {
	return nil, errReadForbidden
}

// writeFiles creates a memfs populated with the given files.
func writeFiles(t *testing.T, files map[string]string) billy.Filesystem {
	t.Helper()

	fs := memfs.New()
	for name, body := range files {
		require.NoError(t, util.WriteFile(fs, name, []byte(body), artifact.DefaultFileMode))
	}

	return fs
}

// testConfig returns settings pointing at memfs paths.
func testConfig() *config.Config {
	return &config.Config{
		Version:      "1.2.3",
		Channel:      "stable",
		BuildSHA:     "cafebabe",
		ManifestPath: "/in/manifest.json",
		ReleasesPath: "/in/releases.json",
		MacRoot:      "/mac",
		WindowsRoot:  "/win",
		LinuxRoot:    "/linux",
		OutputPath:   "/out/publish-payload.json",
	}
}

// withDocuments adds minimal manifest and releases documents to files.
func withDocuments(files map[string]string) map[string]string {
	if _, ok := files["/in/manifest.json"]; !ok {
		files["/in/manifest.json"] = `{"version": "1.2.3", "platforms": {}}`
	}

	if _, ok := files["/in/releases.json"]; !ok {
		files["/in/releases.json"] = `{"releases": [{"version": "1.2.3", "platforms": {}}]}`
	}

	return files
}
