package release

import (
	"errors"
	"fmt"
)

// Platform is an operating system a release is built for.
type Platform string

const (
	// PlatformMacOS identifies macOS builds.
	PlatformMacOS Platform = "macos"
	// PlatformWindows identifies Windows builds.
	PlatformWindows Platform = "windows"
	// PlatformLinux identifies Linux builds.
	PlatformLinux Platform = "linux"
)

// Kind is the role an artifact plays in a release.
type Kind string

const (
	// KindArchive is the self-update bundle consumed by the updater.
	KindArchive Kind = "archive"
	// KindInstaller is the platform-native installer.
	KindInstaller Kind = "installer"
)

// ErrUnsupportedPlatform is returned when a platform or platform/architecture
// pair is outside the declared release matrix.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// Target is a single (platform, architecture) cell of the build matrix.
// Arch is the build-toolchain token, e.g. aarch64 or x86_64.
type Target struct {
	// Platform is the operating system of the build.
	Platform Platform
	// Arch is the architecture token produced by the build toolchain.
	Arch string
}

// String renders the target as platform/arch for logs.
func (t Target) String() string {
	return string(t.Platform) + "/" + t.Arch
}

// backendArchitectures maps build architectures to the tokens the backend understands.
//
//nolint:gochecknoglobals // Fixed lookup table.
var backendArchitectures = map[Target]string{
	{PlatformMacOS, "aarch64"}:  "arm64",
	{PlatformMacOS, "x86_64"}:   "x64",
	{PlatformWindows, "x86_64"}: "x64",
	{PlatformWindows, "i686"}:   "x86",
	{PlatformLinux, "x86_64"}:   "x64",
	{PlatformLinux, "aarch64"}:  "arm64",
}

// Matrix returns every target a release may contain, in publishing order.
func Matrix() []Target {
	return []Target{
		{PlatformMacOS, "aarch64"},
		{PlatformMacOS, "x86_64"},
		{PlatformWindows, "x86_64"},
		{PlatformWindows, "i686"},
		{PlatformLinux, "x86_64"},
		{PlatformLinux, "aarch64"},
	}
}

// BackendArch returns the backend-facing architecture token for the target.
func BackendArch(t Target) (string, error) {
	arch, ok := backendArchitectures[t]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedPlatform, t)
	}

	return arch, nil
}

// PlatformKey returns the key under which the releases manifest stores
// per-platform metadata for the target. macOS entries are keyed as darwin.
func PlatformKey(t Target) string {
	if t.Platform == PlatformMacOS {
		return "darwin-" + t.Arch
	}

	return string(t.Platform) + "-" + t.Arch
}

// KindsFor lists the artifact kinds published for a platform.
// Windows ships no separate updater archive: the signed MSI is the update bundle.
func KindsFor(p Platform) []Kind {
	switch p {
	case PlatformMacOS, PlatformLinux:
		return []Kind{KindArchive, KindInstaller}
	case PlatformWindows:
		return []Kind{KindInstaller}
	default:
		return nil
	}
}

// IsRequired reports whether a payload must carry at least one asset for the platform.
func IsRequired(p Platform) bool {
	return p == PlatformMacOS || p == PlatformWindows
}

// MIMEType returns the fixed content type for an artifact, or an empty string
// when the type has to be detected from the file itself.
func MIMEType(p Platform, k Kind) string {
	switch {
	case k == KindArchive:
		return "application/gzip"
	case p == PlatformMacOS:
		return "application/x-apple-diskimage"
	case p == PlatformWindows:
		return "application/x-msi"
	default:
		return ""
	}
}
