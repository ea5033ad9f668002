package doc

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
)

// Identity ties a document to a stable ID derived from its canonical path.
// The ID survives process restarts and is used for session files and cache
// keys.
type Identity struct {
	// Path is the absolute, symlink-resolved location of the document.
	Path string
	// ID is the UUIDv5 of the canonical path in URL form.
	ID string
}

// ResolveIdentity canonicalizes path and derives its stable ID. Two paths
// reaching the same file through different symlinks share one identity.
func ResolveIdentity(path string) (Identity, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Identity{}, fmt.Errorf("resolve %s: %w", path, err)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return Identity{}, fmt.Errorf("resolve %s: %w", path, err)
	}
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+canonical))
	return Identity{Path: canonical, ID: id.String()}, nil
}
