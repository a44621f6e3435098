// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package queue reads and rewrites the list of pending papers. The list is
// newline-delimited text; blank lines are ignored and entries are trimmed.
package queue

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Queue is an ordered list of pending entries held in an external store.
type Queue interface {
	// Fetch returns the current entries in order.
	Fetch(ctx context.Context) ([]string, error)

	// Update replaces the list with items and returns where it now lives.
	Update(ctx context.Context, items []string) (string, error)
}

// ParseList splits newline-delimited text into trimmed, non-blank entries.
func ParseList(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// FormatList renders items one per line.
func FormatList(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return strings.Join(items, "\n") + "\n"
}

// FileQueue keeps the list in a local file. A missing file is an empty
// queue.
type FileQueue struct {
	Path string
}

// Fetch reads the file.
func (q *FileQueue) Fetch(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(q.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading queue file: %w", err)
	}
	return ParseList(string(data)), nil
}

// Update rewrites the file atomically.
func (q *FileQueue) Update(ctx context.Context, items []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dir := filepath.Dir(q.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating queue directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".queue-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.WriteString(FormatList(items))
	closeErr := tmp.Close()
	if writeErr != nil || closeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing queue file: %v", firstErr(writeErr, closeErr))
	}
	if err := os.Rename(tmpPath, q.Path); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("renaming temp file: %w", err)
	}
	return q.Path, nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
