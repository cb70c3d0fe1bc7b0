package catalog

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// IdentityGenerator maps an absolute file path to a stable photo identity.
//
// The identity is a name-based (SHA-1, version 5) UUID in the collection's
// namespace, computed over the path relative to whichever configured root
// contains it. A file keeps its identity when it moves between the collection
// root and the trash root as long as its relative path is unchanged.
type IdentityGenerator struct {
	namespace uuid.UUID
	roots     []string
	fsmgr     FilesystemManager
}

// NewIdentityGenerator creates a generator that strips any of roots before hashing.
// Nested roots are allowed; the deepest matching root wins.
func NewIdentityGenerator(namespace uuid.UUID, fsmgr FilesystemManager, roots ...string) *IdentityGenerator {
	cleaned := make([]string, 0, len(roots))
	for _, r := range roots {
		cleaned = append(cleaned, filepath.Clean(r))
	}
	slices.SortFunc(cleaned, func(a, b string) int { return len(b) - len(a) })

	return &IdentityGenerator{
		namespace: namespace,
		roots:     cleaned,
		fsmgr:     fsmgr,
	}
}

// Generate returns the identity of the regular file at absPath.
func (g *IdentityGenerator) Generate(absPath string) (string, error) {
	if absPath == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidInput)
	}

	info, err := g.fsmgr.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("%w: stat %s: %w", ErrInvalidInput, absPath, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: not a regular file: %s", ErrInvalidInput, absPath)
	}

	return g.identityFor(absPath), nil
}

func (g *IdentityGenerator) identityFor(absPath string) string {
	return uuid.NewSHA1(g.namespace, []byte(filepath.ToSlash(g.relative(absPath)))).String()
}

// relative strips the deepest root containing absPath. Paths outside every
// root are hashed whole.
func (g *IdentityGenerator) relative(absPath string) string {
	clean := filepath.Clean(absPath)
	for _, root := range g.roots {
		if rel, ok := within(root, clean); ok {
			return rel
		}
	}
	return clean
}

// within returns path relative to root if path lies strictly below root.
func within(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", false
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}
