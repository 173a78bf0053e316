package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// JSONFile keeps a cache as one indented JSON object.  A missing file reads as empty.
type JSONFile[V any] struct {
	Path string
}

func NewJSONFile[V any](path string) *JSONFile[V] {
	return &JSONFile[V]{Path: path}
}

func (f *JSONFile[V]) Read(ctx context.Context) (map[string]V, error) {
	source, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		// first run
		return map[string]V{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: couldn't read %s: %w", f.Path, err)
	}

	entries := map[string]V{}
	if len(source) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(source, &entries); err != nil {
		return nil, fmt.Errorf("store: couldn't parse %s: %w", f.Path, err)
	}

	return entries, nil
}

// Write replaces the file atomically: the new contents land in a temp file next to it which is
// then renamed over the old one.
func (f *JSONFile[V]) Write(ctx context.Context, entries map[string]V) error {
	if entries == nil {
		entries = map[string]V{}
	}

	contents, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("store: couldn't encode %s: %w", f.Path, err)
	}

	directory := filepath.Dir(f.Path)
	if err := os.MkdirAll(directory, 0750); err != nil {
		return fmt.Errorf("store: couldn't create directory %s: %w", directory, err)
	}

	tmp, err := os.CreateTemp(directory, filepath.Base(f.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("store: couldn't create temp file in %s: %w", directory, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(contents); err != nil {
		tmp.Close()
		return fmt.Errorf("store: couldn't write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store: couldn't close %s: %w", tmp.Name(), err)
	}

	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		return fmt.Errorf("store: couldn't replace %s: %w", f.Path, err)
	}

	return nil
}
