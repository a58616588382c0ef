// Package discussion owns the per-discussion filesystem layout: the memory
// log, the summary log, the timestamp map, and the vector store database all
// live under one directory per discussion id. A Store is constructed once
// per discussion and passed explicitly, rather than re-deriving paths from a
// bare id string at every call site.
package discussion

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// dirName is the name of the reels dot-directory.
	dirName = ".reels"

	// discussionsDir is the subdirectory holding per-discussion state.
	discussionsDir = "discussions"
)

// Resolver resolves the root directory that holds all discussion state.
type Resolver struct {
	override string
}

// NewResolver creates a resolver. If overrideDir is non-empty it is used as
// the root; otherwise a local ./.reels/ directory is preferred over ~/.reels/.
func NewResolver(overrideDir string) *Resolver {
	return &Resolver{override: overrideDir}
}

// Root returns the absolute path to the reels root directory, creating it if
// needed. Order of precedence:
//  1. Provided override
//  2. Local ./.reels/ dir
//  3. Home ~/.reels/ dir (created if none found)
func (r *Resolver) Root() (string, error) {
	var dir string

	switch {
	case r.override != "":
		dir = r.override

	case localDirExists():
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting current directory: %w", err)
		}
		dir = filepath.Join(cwd, dirName)

	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, dirName)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating reels directory %s: %w", dir, err)
	}

	return filepath.Abs(dir)
}

// Open returns the Store for the given discussion id, creating its directory
// if needed.
func (r *Resolver) Open(discussionID string) (*Store, error) {
	root, err := r.Root()
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(root, discussionsDir, sanitizeID(discussionID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating discussion directory %s: %w", dir, err)
	}

	return &Store{id: discussionID, dir: dir}, nil
}

// localDirExists checks whether a .reels/ directory exists in the current
// working directory.
func localDirExists() bool {
	cwd, err := os.Getwd()
	if err != nil {
		return false
	}

	info, err := os.Stat(filepath.Join(cwd, dirName))
	return err == nil && info.IsDir()
}

// sanitizeID maps a discussion id to a filesystem-safe directory name.
// When sanitization had to rewrite the id, a short hash of the original is
// appended so distinct ids that sanitize identically (like "a/b" and "a?b")
// do not collide onto the same directory.
func sanitizeID(id string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_':
			return r
		default:
			return '-'
		}
	}, id)

	if mapped == "" {
		mapped = "default"
	}

	if mapped != id {
		sum := sha256.Sum256([]byte(id))
		mapped += "-" + hex.EncodeToString(sum[:])[:8]
	}

	return mapped
}
