/*
Package store contains the credential store and its persistence contract.

This file implements the file-backed Persister: the document is kept in a
single local JSON file and rewritten wholesale through a temp-file rename so
a crash mid-write never leaves a truncated document behind.
*/
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"minichat/internal/pkg/logx"
)

// FilePersister stores the document as a JSON file on the local filesystem.
type FilePersister struct {
	// path is the location of the JSON document.
	path string
}

// NewFilePersister returns a FilePersister writing to the given path.
func NewFilePersister(path string) *FilePersister {
	return &FilePersister{path: path}
}

// Load reads and decodes the document. A missing or undecodable file yields
// the empty state so a fresh deployment starts cleanly.
func (p *FilePersister) Load() (*Document, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewDocument(), nil
		}
		return NewDocument(), fmt.Errorf("failed to read state file %s: %w", p.path, err)
	}

	doc := NewDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		logx.Warn("State file is corrupt. Falling back to empty state.", "path", p.path, "error", err.Error())
		return NewDocument(), nil
	}

	return doc, nil
}

// Save marshals the document and atomically replaces the state file.
func (p *FilePersister) Save(doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state document: %w", err)
	}

	dir := filepath.Dir(p.path)
	tmp, err := os.CreateTemp(dir, ".users-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write temp state file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp state file: %w", err)
	}

	if err := os.Rename(tmp.Name(), p.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace state file %s: %w", p.path, err)
	}

	return nil
}
