package loader

import (
	"io"
	"os"
	"path/filepath"
)

// OSFileResolver resolves import targets against the local filesystem.
// Targets resolve relative to the importing file's directory and may
// carry a directory prefix ("power/battery"). The configured
// extensions are tried in order when the target has none.
type OSFileResolver struct {
	// Extensions tried, in order, when the target has no extension
	// and does not exist as written, e.g. {".on.json", ".on"}.
	Extensions []string
}

// NewOSFileResolver returns a resolver with the default extension
// list.
func NewOSFileResolver() *OSFileResolver {
	return &OSFileResolver{Extensions: []string{".on.json", ".on"}}
}

// Resolve implements FileResolver.
func (r *OSFileResolver) Resolve(importerPath, target string) (io.ReadCloser, string, error) {
	candidate, err := r.locate(importerPath, target)
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(candidate)
	if err != nil {
		return nil, "", err
	}
	return f, candidate, nil
}

// Exists implements FileResolver.
func (r *OSFileResolver) Exists(importerPath, target string) bool {
	path := r.siblingPath(importerPath, target)
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (r *OSFileResolver) locate(importerPath, target string) (string, error) {
	base := r.siblingPath(importerPath, target)
	candidates := []string{base}
	if filepath.Ext(base) == "" {
		for _, ext := range r.Extensions {
			candidates = append(candidates, base+ext)
		}
	}
	var firstErr error
	for _, candidate := range candidates {
		abs, err := filepath.Abs(candidate)
		if err != nil {
			return "", err
		}
		if info, err := os.Stat(abs); err == nil && !info.IsDir() {
			return abs, nil
		} else if firstErr == nil && err != nil {
			firstErr = err
		}
	}
	return "", firstErr
}

// siblingPath resolves target relative to the importing file unless it
// is already absolute. A root import ("model.on" passed directly to
// Load) has itself as importer, so relative resolution works from the
// working directory in that case too.
func (r *OSFileResolver) siblingPath(importerPath, target string) string {
	if filepath.IsAbs(target) {
		return target
	}
	if importerPath == target {
		return target
	}
	return filepath.Join(filepath.Dir(importerPath), target)
}
