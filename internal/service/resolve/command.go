package resolve

import (
	"errors"
	"fmt"

	"github.com/oshokin/rostoc-updates/internal/domain/release"
)

// Name types accepted by Name.
const (
	NameArchive   = "archive"
	NameInstaller = "installer"
	NameSignature = "signature"
)

// Path types accepted by Path.
const (
	PathStorage   = "path"
	PathURL       = "url"
	PathSignature = "signature"
)

var (
	// ErrUsage is returned when the arguments do not match the requested type.
	ErrUsage = errors.New("wrong number of arguments")
	// ErrUnknownType is returned for an unknown name or path type.
	ErrUnknownType = errors.New("unknown type")
	// ErrCDNBaseRequired is returned when a URL is requested without a CDN base.
	ErrCDNBaseRequired = errors.New("SPACES_CDN_BASE environment variable not set")
)

// Name resolves an artifact filename. archive and installer take
// version, platform and arch; signature takes the artifact filename.
func Name(kind string, args []string) (string, error) {
	switch kind {
	case NameArchive, NameInstaller:
		if len(args) != 3 {
			return "", fmt.Errorf("%w: %s <version> <platform> <arch>", ErrUsage, kind)
		}

		return release.ArtifactName(artifactKind(kind), args[0], release.Platform(args[1]), args[2])
	case NameSignature:
		if len(args) != 1 {
			return "", fmt.Errorf("%w: signature <artifact_name>", ErrUsage)
		}

		return release.SignatureName(args[0]), nil
	default:
		return "", fmt.Errorf("%w %q, valid types: archive, installer, signature", ErrUnknownType, kind)
	}
}

// PathOptions are the inputs of Path.
type PathOptions struct {
	// Type is one of path, url or signature.
	Type string
	// Version is the release version.
	Version string
	// Filename is the artifact filename.
	Filename string
	// Channel selects the storage prefix; empty means stable.
	Channel string
	// CDNBase is required for the url type.
	CDNBase string
}

// Path resolves a storage path, CDN URL or signature path.
func Path(opts *PathOptions) (string, error) {
	channel := release.Channel(opts.Channel)
	if channel == "" {
		channel = release.ChannelStable
	}

	switch opts.Type {
	case PathStorage:
		return release.StoragePath(opts.Version, opts.Filename, channel), nil
	case PathURL:
		url := release.CDNURL(opts.Version, opts.Filename, opts.CDNBase, channel)
		if url == "" {
			return "", ErrCDNBaseRequired
		}

		return url, nil
	case PathSignature:
		return release.SignaturePath(opts.Version, opts.Filename, channel), nil
	default:
		return "", fmt.Errorf("%w %q, valid types: path, url, signature", ErrUnknownType, opts.Type)
	}
}

// artifactKind maps a name type to the artifact kind.
func artifactKind(kind string) release.Kind {
	if kind == NameArchive {
		return release.KindArchive
	}

	return release.KindInstaller
}
