package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// DefaultFileMode is used for documents written by the store.
const DefaultFileMode os.FileMode = 0o644

// defaultDirMode is used for parent directories created on write.
const defaultDirMode os.FileMode = 0o755

// Store reads artifacts and documents from a filesystem.
type Store struct {
	// fs is the backing filesystem.
	fs billy.Filesystem
	// absolute makes the store resolve relative paths against the working directory.
	absolute bool
}

// NewStore creates a store on top of an arbitrary billy filesystem.
// Paths are passed to the filesystem as is.
func NewStore(fs billy.Filesystem) *Store {
	return &Store{
		fs: fs,
	}
}

// NewOSStore creates a store backed by the host filesystem.
func NewOSStore() *Store {
	return &Store{
		fs:       osfs.New(string(filepath.Separator)),
		absolute: true,
	}
}

// Exists reports whether something exists at path.
func (s *Store) Exists(path string) (bool, error) {
	_, err := s.fs.Stat(s.resolve(path))

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
}

// IsDir reports whether path is an existing directory.
func (s *Store) IsDir(path string) bool {
	info, err := s.fs.Stat(s.resolve(path))

	return err == nil && info.IsDir()
}

// Stat returns file information for path.
func (s *Store) Stat(path string) (os.FileInfo, error) {
	info, err := s.fs.Stat(s.resolve(path))
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	return info, nil
}

// ReadFile returns the whole content of a small file such as a signature or a document.
func (s *Store) ReadFile(path string) ([]byte, error) {
	contents, err := util.ReadFile(s.fs, s.resolve(path))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return contents, nil
}

// WriteFile writes data to path, creating parent directories as needed.
func (s *Store) WriteFile(path string, data []byte) error {
	resolved := s.resolve(path)

	if dir := filepath.Dir(resolved); dir != "." && dir != "" {
		if err := s.fs.MkdirAll(dir, defaultDirMode); err != nil {
			return fmt.Errorf("create directory for %s: %w", path, err)
		}
	}

	if err := util.WriteFile(s.fs, resolved, data, DefaultFileMode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

// DetectMIME sniffs the content type of a file from its leading bytes.
func (s *Store) DetectMIME(path string) (string, error) {
	file, err := s.fs.Open(s.resolve(path))
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}

	defer func() {
		_ = file.Close()
	}()

	detected, err := mimetype.DetectReader(file)
	if err != nil {
		return "", fmt.Errorf("detect content type of %s: %w", path, err)
	}

	return detected.String(), nil
}

// resolve maps a caller path to a path of the backing filesystem.
func (s *Store) resolve(path string) string {
	if !s.absolute {
		return filepath.Clean(path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}

	return abs
}
