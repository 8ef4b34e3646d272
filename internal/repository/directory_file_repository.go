package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spec-kit/coordination-audit/internal/domain"
)

type fileDirectoryRepository struct {
	path string
}

// NewFileDirectoryRepository stores the directory as a JSON document at path.
func NewFileDirectoryRepository(path string) DirectoryRepository {
	return &fileDirectoryRepository{path: path}
}

func (r *fileDirectoryRepository) Load(_ context.Context) (*domain.Directory, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.NewDirectory(nil, nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read directory file: %w", err)
	}

	var doc directoryDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode directory file: %w", err)
	}
	return doc.directory(), nil
}

// Save writes to a temporary file in the same folder and renames it over the target,
// so readers never see a partial document.
func (r *fileDirectoryRepository) Save(_ context.Context, dir *domain.Directory) error {
	data, err := json.MarshalIndent(documentOf(dir), "", "  ")
	if err != nil {
		return fmt.Errorf("encode directory: %w", err)
	}

	folder := filepath.Dir(r.path)
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return fmt.Errorf("create directory folder: %w", err)
	}

	tmp, err := os.CreateTemp(folder, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("replace directory file: %w", err)
	}
	return nil
}
