package artifact

import (
	"context"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5/util"

	"github.com/oshokin/rostoc-updates/internal/logger"
)

// Find searches the tree under root for a regular file named exactly name.
// Symbolic links count when they resolve to a regular file.
// Entries are visited in lexical order and the first match wins; further
// matches are reported as a warning. A missing root or no match yields
// found == false, which is not an error: optional artifacts may be absent.
func (s *Store) Find(ctx context.Context, root, name string) (string, bool) {
	if !s.IsDir(root) {
		return "", false
	}

	var matches []string

	walkFn := func(path string, info os.FileInfo, err error) error {
		if err != nil {
			logger.DebugKV(ctx, "Skipping unreadable entry", "path", path, "error", err)

			return nil
		}

		if info.Name() != name {
			return nil
		}

		if s.isRegular(ctx, path, info) {
			matches = append(matches, path)
		}

		return nil
	}

	// walkFn never fails, so the only error left is an unreadable root.
	if err := util.Walk(s.fs, s.resolve(root), walkFn); err != nil {
		logger.WarnKV(ctx, "Artifact root could not be searched", "root", root, "error", err)

		return "", false
	}

	if len(matches) == 0 {
		return "", false
	}

	if len(matches) > 1 {
		logger.WarnKV(ctx, "Several files share an artifact name, using the first one",
			"name", name,
			"used", matches[0],
			"ignored", matches[1:])
	}

	return filepath.Clean(matches[0]), true
}

// isRegular reports whether a walked entry is a regular file, following symbolic links.
func (s *Store) isRegular(ctx context.Context, path string, info os.FileInfo) bool {
	if info.Mode()&os.ModeSymlink == 0 {
		return info.Mode().IsRegular()
	}

	target, err := s.fs.Stat(path)
	if err != nil {
		logger.DebugKV(ctx, "Skipping dangling symlink", "path", path, "error", err)

		return false
	}

	return target.Mode().IsRegular()
}
