// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache stores intermediate pipeline artifacts as files named
// <id>.<format> under a base directory.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Format is a cache file format and extension.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "txt"
	FormatYAML Format = "yaml"
)

var (
	// ErrUnsupportedFormat is returned before any file is touched when a
	// format is not one of the known ones.
	ErrUnsupportedFormat = errors.New("format not supported")

	// ErrInvalidID is returned for identifiers that would escape the
	// cache directory.
	ErrInvalidID = errors.New("invalid cache id")
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatText, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnsupportedFormat)
}

// Cache reads and writes artifacts below BaseDir.
type Cache struct {
	BaseDir string
}

// New returns a cache rooted at baseDir.
func New(baseDir string) *Cache {
	return &Cache{BaseDir: baseDir}
}

// Path returns the file path for id in dir (relative to BaseDir).
func (c *Cache) Path(dir, id string, f Format) (string, error) {
	path, _, err := c.resolve(dir, id, f)
	return path, err
}

// resolve validates f and id and returns the path with the canonical format.
func (c *Cache) resolve(dir, id string, f Format) (string, Format, error) {
	f, err := ParseFormat(string(f))
	if err != nil {
		return "", "", err
	}
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return "", "", fmt.Errorf("%q: %w", id, ErrInvalidID)
	}
	return filepath.Join(c.BaseDir, dir, id+"."+string(f)), f, nil
}

// Save encodes data in the given format and writes it atomically. Text
// format accepts a string or []byte.
func (c *Cache) Save(dir, id string, f Format, data any) error {
	path, f, err := c.resolve(dir, id, f)
	if err != nil {
		return err
	}
	body, err := encode(f, data)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", id, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	return writeAtomic(path, body)
}

// Load reads id back into v. Text format needs a *string or *[]byte; the
// other formats accept anything their decoder does. A missing entry
// returns an error wrapping fs.ErrNotExist.
func (c *Cache) Load(dir, id string, f Format, v any) error {
	path, f, err := c.resolve(dir, id, f)
	if err != nil {
		return err
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	switch f {
	case FormatJSON:
		err = json.Unmarshal(body, v)
	case FormatYAML:
		err = yaml.Unmarshal(body, v)
	case FormatText:
		switch t := v.(type) {
		case *string:
			*t = string(body)
		case *[]byte:
			*t = body
		default:
			err = fmt.Errorf("text format needs *string or *[]byte, got %T", v)
		}
	}
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

// Exists reports whether id is cached in dir.
func (c *Cache) Exists(dir, id string, f Format) bool {
	path, err := c.Path(dir, id, f)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

func encode(f Format, data any) ([]byte, error) {
	switch f {
	case FormatJSON:
		return json.Marshal(data)
	case FormatYAML:
		return yaml.Marshal(data)
	case FormatText:
		switch t := data.(type) {
		case string:
			return []byte(t), nil
		case []byte:
			return t, nil
		}
		return nil, fmt.Errorf("text format needs string or []byte, got %T", data)
	}
	return nil, ErrUnsupportedFormat
}

// writeAtomic writes body to a temp file beside path and renames it into
// place.
func writeAtomic(path string, body []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".cache-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(body)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
