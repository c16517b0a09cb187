package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DiskStore writes images under rootDir/<authority>/<unix>_<name> and serves
// them from baseURL with the same layout.
type DiskStore struct {
	rootDir string
	baseURL string
}

func NewDiskStore(rootDir, baseURL string) *DiskStore {
	return &DiskStore{
		rootDir: rootDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *DiskStore) Save(ctx context.Context, data []byte, authority, filename string) (string, error) {
	dir := filepath.Join(s.rootDir, authority)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := fmt.Sprintf("%d_%s", time.Now().Unix(), sanitizeFilename(filename))
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}

	return s.baseURL + "/" + authority + "/" + name, nil
}

// sanitizeFilename strips path separators and keeps a usable base name
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = "upload.jpg"
	}
	return name
}
