package payload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/tidwall/jsonc"

	"github.com/oshokin/rostoc-updates/internal/config"
	"github.com/oshokin/rostoc-updates/internal/domain/release"
	"github.com/oshokin/rostoc-updates/internal/logger"
	"github.com/oshokin/rostoc-updates/internal/repository/artifact"
)

var (
	// ErrManifestMissing is returned when the manifest payload document does not exist.
	ErrManifestMissing = errors.New("manifest payload file missing")
	// ErrReleasesMissing is returned when the releases manifest document does not exist.
	ErrReleasesMissing = errors.New("releases manifest file missing")
	// ErrEmptyPayload is returned when no artifact was discovered at all.
	ErrEmptyPayload = errors.New("no release assets discovered; refusing to publish empty payload")
	// ErrMissingRequiredPlatform is returned when only optional platforms produced assets.
	ErrMissingRequiredPlatform = errors.New(
		"no macos or windows release assets discovered; refusing to publish without a required platform")
)

// installerMetadataKeys are copied from the releases manifest into macOS installer assets.
//
//nolint:gochecknoglobals // Fixed list.
var installerMetadataKeys = []string{"notarization_status", "submission_id"}

// emptyObject stands in for a missing releases entry.
//
//nolint:gochecknoglobals // Immutable value.
var emptyObject = json.RawMessage(`{}`)

// jsonIndent matches the formatting of the other CI documents.
const jsonIndent = "  "

// Options contains inputs for the payload entry point.
type Options struct {
	// Config holds the publish settings.
	Config *config.Config
	// Store reads artifacts and writes the payload. Defaults to the host filesystem.
	Store *artifact.Store
}

// releasesDocument is the part of the releases manifest this package reads.
type releasesDocument struct {
	// Releases lists release entries, newest first.
	Releases []json.RawMessage `json:"releases"`
}

// releaseEntry is the typed view of a releases entry.
// Platform metadata stays raw until a macOS installer asks for it.
type releaseEntry struct {
	// Platforms maps platform keys such as darwin-aarch64 to their metadata.
	Platforms json.RawMessage `json:"platforms"`
}

// platformEntry carries per-platform metadata of a release.
type platformEntry struct {
	// Installer holds installer metadata such as notarization status.
	Installer json.RawMessage `json:"installer"`
}

// assembler holds the state of a single payload assembly.
// It is unexported: callers use Run or Assemble.
type assembler struct {
	// cfg holds validated publish settings.
	cfg *config.Config
	// store reads artifacts and documents.
	store *artifact.Store
	// builder describes artifacts.
	builder *Builder
	// manifest is the passthrough manifest payload.
	manifest json.RawMessage
	// releasesEntry is the raw first releases entry.
	releasesEntry json.RawMessage
	// entry is the typed view of releasesEntry.
	entry releaseEntry
	// indexes holds the trusted checksums of every present artifact root.
	indexes map[release.Platform]artifact.Index
}

// Run assembles the payload described by the options and writes it to the configured output.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "rostoc-payload")

	cfg := opts.Config
	if err := config.Validate(cfg); err != nil {
		return err
	}

	store := opts.Store
	if store == nil {
		store = artifact.NewOSStore()
	}

	warnAboutSettings(ctx, cfg)

	payload, err := Assemble(ctx, store, cfg)
	if err != nil {
		return err
	}

	contents, err := json.MarshalIndent(payload, "", jsonIndent)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	if err = store.WriteFile(cfg.OutputPath, contents); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Wrote backend payload", "assets", len(payload.Assets), "path", cfg.OutputPath)

	return nil
}

// Assemble builds the payload from validated settings without writing it.
func Assemble(ctx context.Context, store *artifact.Store, cfg *config.Config) (*release.Payload, error) {
	a := &assembler{
		cfg:     cfg,
		store:   store,
		builder: NewBuilder(store),
		indexes: make(map[release.Platform]artifact.Index),
	}

	if err := a.loadDocuments(); err != nil {
		return nil, err
	}

	a.loadIndexes(ctx)

	assets, err := a.buildAssets(ctx)
	if err != nil {
		return nil, err
	}

	if err = checkAssets(assets); err != nil {
		return nil, err
	}

	return &release.Payload{
		Channel:         cfg.ReleaseChannel(),
		Version:         cfg.Version,
		Status:          release.StatusLive,
		BuildSHA:        cfg.BuildSHA,
		ManifestPayload: a.manifest,
		Metadata: release.Metadata{
			ReleasesEntry: a.releasesEntry,
		},
		Assets: assets,
	}, nil
}

// loadDocuments reads the manifest payload and the first releases entry.
func (a *assembler) loadDocuments() error {
	manifest, err := a.readDocument(a.cfg.ManifestPath, ErrManifestMissing)
	if err != nil {
		return err
	}

	a.manifest = manifest

	releases, err := a.readDocument(a.cfg.ReleasesPath, ErrReleasesMissing)
	if err != nil {
		return err
	}

	var doc releasesDocument
	if err = json.Unmarshal(releases, &doc); err != nil {
		return fmt.Errorf("decode releases manifest %s: %w", a.cfg.ReleasesPath, err)
	}

	a.releasesEntry = emptyObject
	if len(doc.Releases) > 0 && !isNull(doc.Releases[0]) {
		a.releasesEntry = doc.Releases[0]
	}

	if err = json.Unmarshal(a.releasesEntry, &a.entry); err != nil {
		return fmt.Errorf("decode releases entry %s: %w", a.cfg.ReleasesPath, err)
	}

	return nil
}

// readDocument reads a JSON (or JSONC) document that must exist.
func (a *assembler) readDocument(path string, errMissing error) (json.RawMessage, error) {
	exists, err := a.store.Exists(path)
	if err != nil {
		return nil, err
	}

	if !exists {
		return nil, fmt.Errorf("%w: %s", errMissing, path)
	}

	contents, err := a.store.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var document json.RawMessage
	if err = json.Unmarshal(jsonc.ToJSON(contents), &document); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return document, nil
}

// loadIndexes loads the checksum sidecar of every existing artifact root.
func (a *assembler) loadIndexes(ctx context.Context) {
	for platform, root := range a.cfg.Roots() {
		if !a.store.IsDir(root) {
			continue
		}

		a.indexes[platform] = a.store.LoadIndex(ctx, root)
	}
}

// buildAssets walks the matrix and collects every discovered asset in matrix order.
func (a *assembler) buildAssets(ctx context.Context) ([]*release.Asset, error) {
	roots := a.cfg.Roots()
	assets := make([]*release.Asset, 0, len(release.Matrix()))

	for _, target := range release.Matrix() {
		root := roots[target.Platform]
		if !a.store.IsDir(root) {
			logger.DebugKV(ctx, "Artifact root not found, skipping target", "target", target.String(), "root", root)

			continue
		}

		targetAssets, err := a.buildTarget(ctx, target, root)
		if err != nil {
			return nil, fmt.Errorf("build assets for %s: %w", target, err)
		}

		assets = append(assets, targetAssets...)
	}

	return assets, nil
}

// buildTarget discovers and describes every artifact kind of one target.
func (a *assembler) buildTarget(ctx context.Context, target release.Target, root string) ([]*release.Asset, error) {
	ctx = logger.WithKV(ctx, "target", target.String())

	var assets []*release.Asset

	for _, kind := range release.KindsFor(target.Platform) {
		name, err := release.ArtifactName(kind, a.cfg.Version, target.Platform, target.Arch)
		if err != nil {
			return nil, err
		}

		source, found := a.store.Find(ctx, root, name)
		if !found {
			logger.DebugKV(ctx, "Artifact not built in this run", "name", name, "root", root)

			continue
		}

		signature, _ := a.store.Find(ctx, root, release.SignatureName(name))

		asset, err := a.builder.Build(ctx, &AssetRequest{
			Source:    source,
			Version:   a.cfg.Version,
			Target:    target,
			Kind:      kind,
			CDNBase:   a.cfg.CDNBase,
			Channel:   a.cfg.ReleaseChannel(),
			Signature: signature,
			MIMEType:  release.MIMEType(target.Platform, kind),
			Extra:     a.extraFor(ctx, target, kind),
			Index:     a.indexes[target.Platform],
		})
		if err != nil {
			return nil, err
		}

		logger.InfoKV(ctx, "Added asset",
			"kind", asset.Kind,
			"path", asset.StoragePath,
			"signed", asset.SignaturePath != "")

		assets = append(assets, asset)
	}

	return assets, nil
}

// extraFor returns the caller-side metadata of an artifact. macOS installers
// carry the notarization data recorded in the releases manifest.
func (a *assembler) extraFor(ctx context.Context, target release.Target, kind release.Kind) map[string]any {
	extra := map[string]any{
		"artifact": artifactLabel(kind),
	}

	if target.Platform != release.PlatformMacOS || kind != release.KindInstaller {
		return extra
	}

	installer := a.installerMetadata(ctx, release.PlatformKey(target))
	for _, key := range installerMetadataKeys {
		if value, ok := installer[key]; ok && value != nil {
			extra[key] = value
		}
	}

	return extra
}

// installerMetadata decodes the installer metadata recorded under a platform key.
// Metadata that is absent or not an object yields nil; numbers keep their literal form.
func (a *assembler) installerMetadata(ctx context.Context, platformKey string) map[string]any {
	if isNull(a.entry.Platforms) {
		return nil
	}

	var platforms map[string]json.RawMessage
	if err := json.Unmarshal(a.entry.Platforms, &platforms); err != nil {
		logger.WarnKV(ctx, "Ignoring releases platforms that are not an object", "error", err)

		return nil
	}

	raw, ok := platforms[platformKey]
	if !ok || isNull(raw) {
		return nil
	}

	var platform platformEntry
	if err := json.Unmarshal(raw, &platform); err != nil {
		logger.WarnKV(ctx, "Ignoring platform metadata that is not an object", "platform_key", platformKey, "error", err)

		return nil
	}

	if isNull(platform.Installer) {
		return nil
	}

	var installer map[string]any

	decoder := json.NewDecoder(bytes.NewReader(platform.Installer))
	decoder.UseNumber()

	if err := decoder.Decode(&installer); err != nil {
		logger.WarnKV(ctx, "Ignoring installer metadata that is not an object", "platform_key", platformKey, "error", err)

		return nil
	}

	return installer
}

// isNull reports whether a raw document is absent or the JSON null literal.
func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)

	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// artifactLabel is the backend name of an artifact kind.
func artifactLabel(kind release.Kind) string {
	if kind == release.KindArchive {
		return "updater"
	}

	return "installer"
}

// checkAssets enforces that the payload is not empty and has a required platform.
func checkAssets(assets []*release.Asset) error {
	if len(assets) == 0 {
		return ErrEmptyPayload
	}

	for _, asset := range assets {
		if release.IsRequired(asset.Platform) {
			return nil
		}
	}

	return ErrMissingRequiredPlatform
}

// warnAboutSettings logs settings that are accepted but probably mistaken.
func warnAboutSettings(ctx context.Context, cfg *config.Config) {
	if !cfg.ReleaseChannel().IsKnown() {
		logger.WarnKV(ctx, "Unknown channel, using the stable storage prefix", "channel", cfg.Channel)
	}

	if _, err := semver.StrictNewVersion(cfg.Version); err != nil {
		logger.WarnKV(ctx, "Release version is not a strict semantic version", "version", cfg.Version)
	}
}
