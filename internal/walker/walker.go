// Package walker enumerates the candidate documents under a search root.
package walker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ziadkadry99/pdfscan/internal/document"
	"github.com/ziadkadry99/pdfscan/internal/domain"
)

// Config controls the behaviour of the Walk function.
type Config struct {
	Root    string   // Directory (or single document) to search.
	Include []string // Glob patterns; only matching documents are kept.
	Exclude []string // Glob patterns; matching documents are dropped.
	// Logger receives a Debug line per skipped directory. Nil discards them.
	Logger *zerolog.Logger
}

// Walk traverses the tree rooted at cfg.Root and returns the absolute paths
// of every document that passes filtering, sorted lexically. Unreadable
// subdirectories are skipped. A missing or unreadable root is an
// enumeration error.
func Walk(cfg Config) ([]string, error) {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, domain.EnumerationError(cfg.Root, fmt.Errorf("resolve root: %w", err))
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, domain.EnumerationError(root, err)
	}
	if !info.IsDir() {
		if info.Mode().IsRegular() && isDocument(root) {
			return []string{root}, nil
		}
		return nil, domain.EnumerationError(root, fmt.Errorf("not a directory or %s file", document.Extension))
	}
	if _, err := os.ReadDir(root); err != nil {
		return nil, domain.EnumerationError(root, err)
	}

	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}

	ignorePatterns := loadIgnoreFile(filepath.Join(root, IgnoreFile))

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// The root was checked above, so this is a nested entry.
			if d != nil && d.IsDir() {
				log.Debug().Err(walkErr).Str("dir", path).Msg("skipping unreadable directory")
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root && shouldExcludeDir(d.Name()) {
				log.Debug().Str("dir", path).Msg("skipping version control directory")
				return filepath.SkipDir
			}
			return nil
		}

		// Symlinks and other special files are never followed.
		if !d.Type().IsRegular() || !isDocument(path) {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if matchesIgnore(relPath, ignorePatterns) {
			return nil
		}
		if !MatchesInclude(relPath, cfg.Include) || MatchesExclude(relPath, cfg.Exclude) {
			return nil
		}

		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, domain.EnumerationError(root, fmt.Errorf("traversal: %w", err))
	}

	sort.Strings(paths)
	return paths, nil
}

func isDocument(path string) bool {
	return strings.EqualFold(filepath.Ext(path), document.Extension)
}
