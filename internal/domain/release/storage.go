package release

import (
	"fmt"
	"strings"
)

// Channel selects where a release is stored and who receives it.
type Channel string

const (
	// ChannelStable is the default public channel.
	ChannelStable Channel = "stable"
	// ChannelStaging is used for pre-release verification.
	ChannelStaging Channel = "staging"
	// ChannelBeta is the opt-in early access channel.
	ChannelBeta Channel = "beta"
	// ChannelDev carries development builds.
	ChannelDev Channel = "dev"
)

// defaultChannelPrefix is used for stable and for any channel not listed below.
const defaultChannelPrefix = "releases"

//nolint:gochecknoglobals // Fixed lookup table.
var channelPrefixes = map[Channel]string{
	ChannelStable:  defaultChannelPrefix,
	ChannelStaging: "releases/staging",
	ChannelBeta:    "releases/beta",
	ChannelDev:     "releases/dev",
}

// IsKnown reports whether the channel has its own storage prefix.
func (c Channel) IsKnown() bool {
	_, ok := channelPrefixes[c]

	return ok
}

// Prefix returns the storage prefix of the channel, falling back to the stable one.
func (c Channel) Prefix() string {
	if prefix, ok := channelPrefixes[c]; ok {
		return prefix
	}

	return defaultChannelPrefix
}

// StoragePath returns the object key an artifact is stored under.
func StoragePath(version, filename string, channel Channel) string {
	return fmt.Sprintf("%s/v%s/%s", channel.Prefix(), version, filename)
}

// CDNURL returns the public URL of an artifact, or an empty string when no
// CDN base is configured. Trailing slashes of cdnBase are ignored.
func CDNURL(version, filename, cdnBase string, channel Channel) string {
	cdnBase = strings.TrimRight(cdnBase, "/")
	if cdnBase == "" {
		return ""
	}

	return cdnBase + "/" + StoragePath(version, filename, channel)
}

// SignaturePath returns the object key of the detached signature of an artifact.
func SignaturePath(version, filename string, channel Channel) string {
	return StoragePath(version, SignatureName(filename), channel)
}
