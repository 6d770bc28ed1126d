package payload

import (
	"context"
	"fmt"
	"maps"
	"path/filepath"
	"strings"

	"github.com/oshokin/rostoc-updates/internal/domain/release"
	"github.com/oshokin/rostoc-updates/internal/logger"
	"github.com/oshokin/rostoc-updates/internal/repository/artifact"
)

// fallbackMIMEType is served when content sniffing fails.
const fallbackMIMEType = "application/octet-stream"

// Extra keys derived by the builder.
const (
	extraCDNURL    = "cdn_url"
	extraSignature = "signature_ed25519"
)

// AssetRequest describes one discovered artifact to turn into an asset.
type AssetRequest struct {
	// Source is the artifact path. Empty means the artifact was not built.
	Source string
	// Version is the release version.
	Version string
	// Target is the platform and toolchain architecture of the artifact.
	Target release.Target
	// Kind is the artifact kind.
	Kind release.Kind
	// CDNBase is the public base URL; empty disables cdn_url.
	CDNBase string
	// Channel selects the storage prefix.
	Channel release.Channel
	// Signature is the detached signature path, if any.
	Signature string
	// MIMEType is the content type; empty means sniff it from the file.
	MIMEType string
	// Extra is caller metadata. It always wins over derived keys.
	Extra map[string]any
	// Index holds trusted checksums of the artifact root.
	Index artifact.Index
}

// Builder turns discovered artifacts into assets.
type Builder struct {
	// store reads artifact content, sizes and signatures.
	store *artifact.Store
}

// NewBuilder creates a builder reading through the given store.
func NewBuilder(store *artifact.Store) *Builder {
	return &Builder{
		store: store,
	}
}

// Build describes the artifact of the request. It returns a nil asset without
// error when the request has no source so callers can skip optional artifacts.
func (b *Builder) Build(ctx context.Context, req *AssetRequest) (*release.Asset, error) {
	if req == nil || req.Source == "" {
		return nil, nil //nolint:nilnil // Absent artifact is a normal outcome.
	}

	arch, err := release.BackendArch(req.Target)
	if err != nil {
		return nil, err
	}

	filename := filepath.Base(req.Source)

	info, err := b.store.Stat(req.Source)
	if err != nil {
		return nil, err
	}

	checksum, err := b.store.ChecksumFor(req.Source, req.Index)
	if err != nil {
		return nil, fmt.Errorf("checksum %s: %w", filename, err)
	}

	asset := &release.Asset{
		Platform:     req.Target.Platform,
		Architecture: arch,
		Kind:         req.Kind,
		StoragePath:  release.StoragePath(req.Version, filename, req.Channel),
		Checksum:     checksum,
		SizeBytes:    info.Size(),
		MIMEType:     b.mimeType(ctx, req),
	}

	extra := maps.Clone(req.Extra)
	if extra == nil {
		extra = make(map[string]any)
	}

	if cdnURL := release.CDNURL(req.Version, filename, req.CDNBase, req.Channel); cdnURL != "" {
		setDefault(extra, extraCDNURL, cdnURL)
	}

	if req.Signature != "" {
		asset.SignaturePath = release.SignaturePath(req.Version, filename, req.Channel)

		var signature []byte

		signature, err = b.store.ReadFile(req.Signature)
		if err != nil {
			return nil, fmt.Errorf("read signature of %s: %w", filename, err)
		}

		if text := strings.TrimSpace(string(signature)); text != "" {
			setDefault(extra, extraSignature, text)
		}
	}

	if len(extra) > 0 {
		asset.Extra = extra
	}

	return asset, nil
}

// mimeType returns the requested content type or sniffs it from the artifact.
func (b *Builder) mimeType(ctx context.Context, req *AssetRequest) string {
	if req.MIMEType != "" {
		return req.MIMEType
	}

	detected, err := b.store.DetectMIME(req.Source)
	if err != nil {
		logger.WarnKV(ctx, "Unable to detect content type", "path", req.Source, "error", err)

		return fallbackMIMEType
	}

	return detected
}

// setDefault stores value under key unless the key is already present.
func setDefault(m map[string]any, key string, value any) {
	if _, ok := m[key]; !ok {
		m[key] = value
	}
}
