// Package sources loads the published JSON documents (snapshots, events,
// history) and turns them into the maps the calendar core works on. Any
// document that cannot be fetched or parsed is treated as empty.
package sources

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

var ErrNotFound = errors.New("document not found")

// Source fetches a raw document by file name.
type Source interface {
	Name() string
	Fetch(ctx context.Context, file string) ([]byte, error)
}

// DirSource reads documents from a local directory, typically the checkout
// the crawler job commits its output into.
type DirSource struct {
	dir string
}

func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

func (s *DirSource) Name() string { return "dir:" + s.dir }

func (s *DirSource) Fetch(ctx context.Context, file string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// Clean against root so a file name cannot climb out of dir.
	path := filepath.Join(s.dir, filepath.Clean(string(filepath.Separator)+file))
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", file, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	return data, nil
}
