package release

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestArchiveName checks archive filenames and rejection of Windows.
func TestArchiveName(t *testing.T) {
	t.Parallel()

	name, err := ArchiveName("0.2.143", PlatformMacOS, "aarch64")
	require.NoError(t, err)
	require.Equal(t, "Rostoc-0.2.143-darwin-aarch64.app.tar.gz", name)

	name, err = ArchiveName("0.2.143", PlatformLinux, "x86_64")
	require.NoError(t, err)
	require.Equal(t, "Rostoc-0.2.143-linux-x86_64.AppImage.tar.gz", name)

	_, err = ArchiveName("0.2.143", PlatformWindows, "x86_64")
	require.ErrorIs(t, err, ErrUnsupportedPlatform)

	_, err = ArchiveName("0.2.143", Platform("freebsd"), "x86_64")
	require.ErrorIs(t, err, ErrUnsupportedPlatform)
}

// TestInstallerName checks installer filenames including Windows arch normalization.
func TestInstallerName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		platform Platform
		arch     string
		want     string
	}{
		{PlatformMacOS, "aarch64", "Rostoc_0.2.143_aarch64.dmg"},
		{PlatformWindows, "i686", "Rostoc-0.2.143-windows-x86.msi"},
		{PlatformWindows, "x86_64", "Rostoc-0.2.143-windows-x64.msi"},
		{PlatformWindows, "arm64", "Rostoc-0.2.143-windows-arm64.msi"},
		{PlatformLinux, "aarch64", "Rostoc-0.2.143-linux-aarch64.AppImage"},
	}

	for _, tc := range cases {
		got, err := InstallerName("0.2.143", tc.platform, tc.arch)
		require.NoError(t, err)
		require.Equal(t, tc.want, got)
	}

	got, err := InstallerName("0.2.143", PlatformWindows, "i686")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(got, "-windows-x86.msi"))

	_, err = InstallerName("0.2.143", Platform("plan9"), "x86_64")
	require.ErrorIs(t, err, ErrUnsupportedPlatform)
}

// TestSignatureName ensures .sig is appended unconditionally.
func TestSignatureName(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Rostoc_0.2.143_aarch64.dmg.sig", SignatureName("Rostoc_0.2.143_aarch64.dmg"))
	require.Equal(t, "x.sig.sig", SignatureName("x.sig"))
}

// TestArtifactNamesAreUnique verifies no two matrix cells and kinds share a filename.
func TestArtifactNamesAreUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]string)

	for _, target := range Matrix() {
		for _, kind := range []Kind{KindArchive, KindInstaller} {
			name, err := ArtifactName(kind, "1.2.3", target.Platform, target.Arch)
			if err != nil {
				require.ErrorIs(t, err, ErrUnsupportedPlatform)
				continue
			}

			owner := target.String() + "/" + string(kind)
			prev, dup := seen[name]
			require.False(t, dup, "%s collides with %s", owner, prev)

			seen[name] = owner
		}
	}

	require.Len(t, seen, 10)
}

// TestArtifactName_UnknownKind rejects kinds outside archive and installer.
func TestArtifactName_UnknownKind(t *testing.T) {
	t.Parallel()

	_, err := ArtifactName(Kind("patch"), "1.0.0", PlatformMacOS, "aarch64")
	require.Error(t, err)
}
