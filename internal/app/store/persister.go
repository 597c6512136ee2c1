/*
Package store contains the credential store and its persistence contract.

This file defines the Persister interface and the wire document the store is
persisted as: a single JSON object holding the full user and friend maps,
rewritten wholesale after every mutation.
*/
package store

import "minichat/internal/app/user"

// UserRecord is the persisted form of a single user.
type UserRecord struct {
	Name         string      `json:"name"`
	PasswordHash string      `json:"passwordHash"`
	Avatar       user.Avatar `json:"avatar"`
}

// Document is the persisted form of the whole store.
type Document struct {
	Users   map[string]UserRecord `json:"users"`
	Friends map[string][]string   `json:"friends"`
}

// NewDocument returns an empty, fully initialized Document.
func NewDocument() *Document {
	return &Document{
		Users:   make(map[string]UserRecord),
		Friends: make(map[string][]string),
	}
}

// Persister loads the store state at startup and durably saves it after
// every mutation.
//
// Load returns the empty state when no document exists yet or the stored one
// cannot be decoded; an error is reserved for conditions the caller may want
// to log. Save rewrites the whole document and is best effort: the store
// logs failures and keeps running on its in-memory state.
type Persister interface {
	Load() (*Document, error)
	Save(doc *Document) error
}

// MemoryPersister is the no-op Persister used when persistence is disabled.
// State lives only in the process.
type MemoryPersister struct{}

// Load returns the empty state.
func (MemoryPersister) Load() (*Document, error) {
	return NewDocument(), nil
}

// Save discards the snapshot.
func (MemoryPersister) Save(doc *Document) error {
	return nil
}
