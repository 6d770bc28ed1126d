package artifact

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/tidwall/jsonc"

	"github.com/oshokin/rostoc-updates/internal/domain/release"
	"github.com/oshokin/rostoc-updates/internal/logger"
)

// IndexFilename is the checksum sidecar produced next to build outputs.
const IndexFilename = "checksums.json"

// hashChunkSize bounds memory used while hashing large artifacts.
const hashChunkSize = 64 * 1024

// Index maps artifact filenames to trusted SHA-256 digests computed at build time.
type Index map[string]string

// Lookup returns the trusted digest for a filename.
func (i Index) Lookup(filename string) (string, bool) {
	digest, ok := i[filename]

	return digest, ok
}

// LoadIndex reads the checksum sidecar of an artifact root. A missing,
// unreadable or malformed sidecar yields an empty index: checksums are then
// computed locally. Entries that are not SHA-256 hex digests are dropped.
func (s *Store) LoadIndex(ctx context.Context, root string) Index {
	path := filepath.Join(root, IndexFilename)

	exists, err := s.Exists(path)
	if err != nil {
		logger.WarnKV(ctx, "Checksum index is not accessible, hashing locally", "path", path, "error", err)

		return Index{}
	}

	if !exists {
		logger.DebugKV(ctx, "No checksum index found", "path", path)

		return Index{}
	}

	contents, err := s.ReadFile(path)
	if err != nil {
		logger.WarnKV(ctx, "Checksum index is not readable, hashing locally", "path", path, "error", err)

		return Index{}
	}

	var raw map[string]string
	if err = json.Unmarshal(jsonc.ToJSON(contents), &raw); err != nil {
		logger.WarnKV(ctx, "Checksum index is malformed, hashing locally", "path", path, "error", err)

		return Index{}
	}

	index := make(Index, len(raw))

	for filename, digest := range raw {
		if !release.IsSHA256Hex(digest) {
			logger.WarnKV(ctx, "Ignoring checksum index entry that is not a SHA-256 hex digest",
				"path", path, "file", filename)

			continue
		}

		index[filename] = digest
	}

	logger.DebugKV(ctx, "Loaded checksum index", "path", path, "entries", len(index))

	return index
}

// ChecksumFor returns the trusted digest of the file at path when the index
// knows its name, otherwise hashes the file.
func (s *Store) ChecksumFor(path string, index Index) (string, error) {
	if digest, ok := index.Lookup(filepath.Base(path)); ok {
		return digest, nil
	}

	return s.Checksum(path)
}

// Checksum streams the file at path through SHA-256 and returns the lowercase hex digest.
func (s *Store) Checksum(path string) (string, error) {
	file, err := s.fs.Open(s.resolve(path))
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}

	defer func() {
		_ = file.Close()
	}()

	hasher := sha256.New()
	if _, err = io.CopyBuffer(hasher, file, make([]byte, hashChunkSize)); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
