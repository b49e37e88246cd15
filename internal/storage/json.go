package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/lukman83/catalog-scrap/internal/models"
)

// JSONFile stores the catalog as a pretty-printed JSON array.
type JSONFile struct {
	Path string
}

func NewJSONFile(path string) *JSONFile { return &JSONFile{Path: path} }

func (j *JSONFile) Name() string { return "json" }

// Write replaces the file atomically: readers see either the previous
// catalog or the new one, never a partial write.
func (j *JSONFile) Write(_ context.Context, _ string, products []models.Product) error {
	data, err := Encode(products)
	if err != nil {
		return err
	}

	dir := filepath.Dir(j.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(j.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), j.Path); err != nil {
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}

func (j *JSONFile) Read(_ context.Context) ([]models.Product, error) {
	data, err := os.ReadFile(j.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, j.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("read output: %w", err)
	}
	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("decode %s: %w", j.Path, err)
	}
	return products, nil
}

// Encode renders products with four-space indentation and without HTML or
// slash escaping. A nil slice encodes as [].
func Encode(products []models.Product) ([]byte, error) {
	if products == nil {
		products = []models.Product{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(products); err != nil {
		return nil, fmt.Errorf("encode products: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
