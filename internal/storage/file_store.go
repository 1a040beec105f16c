package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Kinds partition uploads on disk and in public paths.
const (
	KindPieces  = "pieces"
	KindOutfits = "outfits"
)

// publicPrefix is where the HTTP layer mounts the base directory.
const publicPrefix = "/static/"

// FileStore saves uploaded images to disk under a base directory and hands
// back stable public paths. Replaced or orphaned files are deleted on
// request; a stray file left behind by a mid-request failure is tolerated.
type FileStore struct {
	baseDir string
}

// NewFileStore creates the base directory and its per-kind subdirectories.
func NewFileStore(baseDir string) (*FileStore, error) {
	if strings.TrimSpace(baseDir) == "" {
		return nil, fmt.Errorf("storage base path is required")
	}
	for _, kind := range []string{KindPieces, KindOutfits} {
		if err := os.MkdirAll(filepath.Join(baseDir, kind), 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	return &FileStore{baseDir: baseDir}, nil
}

// BaseDir is the directory the HTTP layer serves under /static/.
func (f *FileStore) BaseDir() string { return f.baseDir }

// Save writes an upload under the given kind with a fresh unique name,
// keeping only the extension of the original filename. Returns the public
// path to store on the record.
func (f *FileStore) Save(kind, originalName string, r io.Reader) (string, error) {
	if kind != KindPieces && kind != KindOutfits {
		return "", fmt.Errorf("unknown storage kind %q", kind)
	}

	name := uuid.NewString() + safeExt(originalName)
	target := filepath.Join(f.baseDir, kind, name)

	out, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, r); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return publicPrefix + kind + "/" + name, nil
}

// Delete removes the file behind a public path. Missing files and empty
// paths are a no-op; paths escaping the base directory are rejected.
func (f *FileStore) Delete(publicPath string) error {
	if publicPath == "" {
		return nil
	}
	rel := strings.TrimPrefix(publicPath, publicPrefix)
	rel = path.Clean("/" + rel)[1:] // strips any ../ escape attempt
	if rel == "" || rel == "." {
		return nil
	}

	full := filepath.Join(f.baseDir, filepath.FromSlash(rel))
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

// safeExt keeps a short, dot-prefixed, lowercase extension or none at all.
func safeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	if ext == "" || ext == "." || len(ext) > 10 || strings.ContainsAny(ext, `/\`) {
		return ""
	}
	return ext
}
