package integration

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/rostoc-updates/internal/config"
	"github.com/oshokin/rostoc-updates/internal/domain/release"
	"github.com/oshokin/rostoc-updates/internal/service/payload"
)

// TestPayload_DefaultRootsOnDisk runs the whole pipeline on the host filesystem with default roots.
func TestPayload_DefaultRootsOnDisk(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	files := minimalDocuments()
	files["macos-artifacts/bundle/macos/Rostoc-1.2.3-darwin-aarch64.app.tar.gz"] = "mac archive"
	files["macos-artifacts/bundle/macos/Rostoc-1.2.3-darwin-aarch64.app.tar.gz.sig"] = "bWFjIHNpZw==\n"
	files["macos-artifacts/bundle/dmg/Rostoc_1.2.3_aarch64.dmg"] = "mac dmg"
	files["windows-artifacts/msi/Rostoc-1.2.3-windows-x64.msi"] = "win msi"
	writeTree(t, dir, files)

	cfg := &config.Config{
		Version:      "1.2.3",
		BuildSHA:     "0123abcd",
		CDNBase:      "https://cdn.example.com/",
		ManifestPath: "inputs/manifest.json",
		ReleasesPath: "inputs/releases.json",
	}

	require.NoError(t, payload.Run(context.Background(), &payload.Options{Config: cfg}))

	contents, err := os.ReadFile(filepath.Join(dir, config.DefaultOutputPath))
	require.NoError(t, err)

	var got release.Payload
	require.NoError(t, json.Unmarshal(contents, &got))

	require.Equal(t, release.ChannelStable, got.Channel)
	require.Equal(t, "0123abcd", got.BuildSHA)
	require.JSONEq(t, `{"version": "1.2.3", "notes": "release notes"}`, string(got.ManifestPayload))
	require.Len(t, got.Assets, 3)

	archive := got.Assets[0]
	require.Equal(t, release.KindArchive, archive.Kind)
	require.Equal(t, "arm64", archive.Architecture)
	require.Equal(t, "bWFjIHNpZw==", archive.Extra["signature_ed25519"])
	require.Equal(t,
		"https://cdn.example.com/releases/v1.2.3/Rostoc-1.2.3-darwin-aarch64.app.tar.gz",
		archive.Extra["cdn_url"])

	dmg := got.Assets[1]
	require.Equal(t, "accepted", dmg.Extra["notarization_status"])
	require.Equal(t, "abc-123", dmg.Extra["submission_id"])

	msi := got.Assets[2]
	require.Equal(t, release.PlatformWindows, msi.Platform)
	require.Equal(t, int64(len("win msi")), msi.SizeBytes)
	require.True(t, release.IsSHA256Hex(msi.Checksum))
}

// TestPayload_ConfigFileAndTrustedChecksums loads settings from YAML and trusts the sidecar index.
func TestPayload_ConfigFileAndTrustedChecksums(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	trusted := "1111111111111111111111111111111111111111111111111111111111111111"

	files := minimalDocuments()
	files["linux/Rostoc-1.2.3-linux-aarch64.AppImage"] = "\x7fELF appimage"
	files["win/Rostoc-1.2.3-windows-x86.msi"] = "win x86"
	files["win/checksums.json"] = `{"Rostoc-1.2.3-windows-x86.msi": "` + trusted + `"}`
	writeTree(t, dir, files)

	settings := &config.Config{
		Version:      "1.2.3",
		Channel:      "beta",
		BuildSHA:     "feedface",
		ManifestPath: filepath.Join(dir, "inputs", "manifest.json"),
		ReleasesPath: filepath.Join(dir, "inputs", "releases.json"),
		MacRoot:      filepath.Join(dir, "mac"),
		WindowsRoot:  filepath.Join(dir, "win"),
		LinuxRoot:    filepath.Join(dir, "linux"),
		OutputPath:   filepath.Join(dir, "out", "payload.json"),
	}

	data, err := yaml.Marshal(settings)
	require.NoError(t, err)

	cfgPath := filepath.Join(dir, "publish.yaml")
	require.NoError(t, os.WriteFile(cfgPath, data, 0o600))

	loaded, err := config.Load(cfgPath)
	require.NoError(t, err)

	require.NoError(t, payload.Run(context.Background(), &payload.Options{Config: loaded}))

	contents, err := os.ReadFile(settings.OutputPath)
	require.NoError(t, err)

	var got release.Payload
	require.NoError(t, json.Unmarshal(contents, &got))
	require.Len(t, got.Assets, 2)

	win := got.Assets[0]
	require.Equal(t, "x86", win.Architecture)
	require.Equal(t, trusted, win.Checksum)
	require.Equal(t, "releases/beta/v1.2.3/Rostoc-1.2.3-windows-x86.msi", win.StoragePath)

	linux := got.Assets[1]
	require.Equal(t, release.PlatformLinux, linux.Platform)
	require.Equal(t, release.KindInstaller, linux.Kind)
	require.NotEmpty(t, linux.MIMEType)
}

// TestPayload_RefusesLinuxOnly fails without writing output when no required platform was built.
func TestPayload_RefusesLinuxOnly(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	files := minimalDocuments()
	files["linux/Rostoc-1.2.3-linux-x86_64.AppImage.tar.gz"] = "linux"
	writeTree(t, dir, files)

	cfg := &config.Config{
		Version:      "1.2.3",
		BuildSHA:     "feedface",
		ManifestPath: filepath.Join(dir, "inputs", "manifest.json"),
		ReleasesPath: filepath.Join(dir, "inputs", "releases.json"),
		MacRoot:      filepath.Join(dir, "mac"),
		WindowsRoot:  filepath.Join(dir, "win"),
		LinuxRoot:    filepath.Join(dir, "linux"),
		OutputPath:   filepath.Join(dir, "payload.json"),
	}

	err := payload.Run(context.Background(), &payload.Options{Config: cfg})
	require.ErrorIs(t, err, payload.ErrMissingRequiredPlatform)

	_, err = os.Stat(cfg.OutputPath)
	require.ErrorIs(t, err, os.ErrNotExist)
}
