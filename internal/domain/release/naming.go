package release

import "fmt"

// Product is the application name embedded in every artifact filename.
const Product = "Rostoc"

// SignatureSuffix is appended to an artifact filename to name its detached signature.
const SignatureSuffix = ".sig"

// ArchiveName returns the updater archive filename for a build.
func ArchiveName(version string, platform Platform, arch string) (string, error) {
	switch platform {
	case PlatformMacOS:
		return fmt.Sprintf("%s-%s-darwin-%s.app.tar.gz", Product, version, arch), nil
	case PlatformLinux:
		return fmt.Sprintf("%s-%s-linux-%s.AppImage.tar.gz", Product, version, arch), nil
	default:
		return "", fmt.Errorf("%w for updater archive: %s", ErrUnsupportedPlatform, platform)
	}
}

// InstallerName returns the installer filename for a build.
func InstallerName(version string, platform Platform, arch string) (string, error) {
	switch platform {
	case PlatformMacOS:
		return fmt.Sprintf("%s_%s_%s.dmg", Product, version, arch), nil
	case PlatformWindows:
		return fmt.Sprintf("%s-%s-windows-%s.msi", Product, version, windowsArch(arch)), nil
	case PlatformLinux:
		return fmt.Sprintf("%s-%s-linux-%s.AppImage", Product, version, arch), nil
	default:
		return "", fmt.Errorf("%w for installer: %s", ErrUnsupportedPlatform, platform)
	}
}

// ArtifactName dispatches to ArchiveName or InstallerName by kind.
func ArtifactName(kind Kind, version string, platform Platform, arch string) (string, error) {
	switch kind {
	case KindArchive:
		return ArchiveName(version, platform, arch)
	case KindInstaller:
		return InstallerName(version, platform, arch)
	default:
		return "", fmt.Errorf("unknown artifact kind %q", kind)
	}
}

// SignatureName returns the detached signature filename for an artifact.
func SignatureName(artifact string) string {
	return artifact + SignatureSuffix
}

// windowsArch converts toolchain architectures to the tokens used in MSI names.
func windowsArch(arch string) string {
	switch arch {
	case "i686":
		return "x86"
	case "x86_64":
		return "x64"
	default:
		return arch
	}
}
