package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeTree creates files relative to dir.
func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for name, body := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	}
}

// minimalDocuments returns manifest and releases documents for version 1.2.3.
func minimalDocuments() map[string]string {
	return map[string]string{
		"inputs/manifest.json": `{"version": "1.2.3", "notes": "release notes"}`,
		"inputs/releases.json": `{"releases": [{"version": "1.2.3", "platforms": {
			"darwin-aarch64": {"installer": {"notarization_status": "accepted", "submission_id": "abc-123"}}
		}}]}`,
	}
}
