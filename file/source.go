// Package file reads documents from a directory of markdown files.
//
// A document id is the file path relative to the directory without the
// ".md" extension, so "notes/today" names dir/notes/today.md.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	keyinfo "github.com/riverfjs/keyinfo-go"
)

// Ensure Source implements keyinfo.MarkdownSource at compile time.
var _ keyinfo.MarkdownSource = (*Source)(nil)

// ErrNotFound is returned when no file exists for a document id.
var ErrNotFound = errors.New("document not found")

// Ext is the extension of document files.
const Ext = ".md"

// Source implements keyinfo.MarkdownSource over a directory.
type Source struct {
	dir string
}

// NewSource creates a Source rooted at dir.
func NewSource(dir string) *Source {
	return &Source{dir: dir}
}

// Dir returns the root directory.
func (s *Source) Dir() string {
	return s.dir
}

// Path returns the file path of a document.
func (s *Source) Path(docID string) (string, error) {
	if docID == "" || !filepath.IsLocal(filepath.FromSlash(docID)) {
		return "", fmt.Errorf("invalid document id %q", docID)
	}
	return filepath.Join(s.dir, filepath.FromSlash(docID)+Ext), nil
}

// DocID returns the document id of a file path under the directory.
func (s *Source) DocID(path string) (string, bool) {
	rel, err := filepath.Rel(s.dir, path)
	if err != nil || !filepath.IsLocal(rel) || filepath.Ext(rel) != Ext {
		return "", false
	}
	return filepath.ToSlash(strings.TrimSuffix(rel, Ext)), true
}

func (s *Source) Markdown(ctx context.Context, docID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path, err := s.Path(docID)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, docID)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// List returns the ids of all documents under the directory, sorted.
func (s *Source) List() ([]string, error) {
	var ids []string
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if id, ok := s.DocID(path); ok {
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}
