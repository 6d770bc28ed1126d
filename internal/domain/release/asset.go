package release

import (
	"encoding/hex"
	"encoding/json"
	"strings"
)

// StatusLive is the only status a freshly published payload carries.
const StatusLive = "live"

// sha256HexLength is the length of a hex-encoded SHA-256 digest.
const sha256HexLength = 64

// Asset describes one published artifact.
type Asset struct {
	// Platform is the operating system the artifact targets.
	Platform Platform `json:"platform"`
	// Architecture is the backend-facing architecture token (arm64, x64, x86).
	Architecture string `json:"architecture"`
	// Kind tells archives and installers apart.
	Kind Kind `json:"kind"`
	// StoragePath is the object key of the artifact.
	StoragePath string `json:"spaces_path"`
	// Checksum is the lowercase hex SHA-256 of the artifact.
	Checksum string `json:"checksum_sha256"`
	// SizeBytes is the artifact size.
	SizeBytes int64 `json:"size_bytes"`
	// MIMEType is the content type served for the artifact.
	MIMEType string `json:"mime_type"`
	// SignaturePath is the object key of the detached signature, if one was found.
	SignaturePath string `json:"signature_path,omitempty"`
	// Extra carries free-form metadata such as cdn_url or signature_ed25519.
	Extra map[string]any `json:"extra,omitempty"`
}

// Metadata wraps auxiliary documents forwarded to the backend.
type Metadata struct {
	// ReleasesEntry is the first entry of the releases manifest, untouched.
	ReleasesEntry json.RawMessage `json:"releases_entry"`
}

// Payload is the document the backend ingests to publish a release.
type Payload struct {
	// Channel is the release channel.
	Channel Channel `json:"channel"`
	// Version is the release version, used verbatim.
	Version string `json:"version"`
	// Status is always StatusLive for new payloads.
	Status string `json:"status"`
	// BuildSHA identifies the build that produced the artifacts.
	BuildSHA string `json:"build_sha"`
	// ManifestPayload is passed through unmodified.
	ManifestPayload json.RawMessage `json:"manifest_payload"`
	// Metadata holds the releases entry.
	Metadata Metadata `json:"metadata"`
	// Assets lists every discovered artifact in matrix order.
	Assets []*Asset `json:"assets"`
}

// IsSHA256Hex reports whether s is a 64-character lowercase hex digest.
func IsSHA256Hex(s string) bool {
	if len(s) != sha256HexLength || strings.ToLower(s) != s {
		return false
	}

	_, err := hex.DecodeString(s)

	return err == nil
}
