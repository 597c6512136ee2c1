package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minichat/internal/app/user"
)

func TestFilePersisterRoundTrip(t *testing.T) {
	p := NewFilePersister(filepath.Join(t.TempDir(), "users.json"))

	doc := NewDocument()
	doc.Users["alice"] = UserRecord{
		Name:         "Alice",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		Avatar:       user.NewAvatar("Alice"),
	}
	doc.Users["bob"] = UserRecord{
		Name:         "bob",
		PasswordHash: "$2a$10$vutsrqponmlkjihgfedcba",
		Avatar:       user.NewAvatar("bob"),
	}
	doc.Friends["alice"] = []string{"bob"}
	doc.Friends["bob"] = []string{}

	require.NoError(t, p.Save(doc))

	loaded, err := p.Load()
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)
}

func TestFilePersisterLoadMissingFile(t *testing.T) {
	p := NewFilePersister(filepath.Join(t.TempDir(), "does-not-exist.json"))

	doc, err := p.Load()
	require.NoError(t, err)
	assert.Empty(t, doc.Users)
	assert.Empty(t, doc.Friends)
}

func TestFilePersisterLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	p := NewFilePersister(path)

	doc, err := p.Load()
	require.NoError(t, err)
	assert.Empty(t, doc.Users)
}

func TestFilePersisterSaveReplacesWholesale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	p := NewFilePersister(path)

	first := NewDocument()
	first.Users["alice"] = UserRecord{Name: "Alice", PasswordHash: "x", Avatar: user.NewAvatar("Alice")}
	first.Friends["alice"] = []string{}
	require.NoError(t, p.Save(first))

	second := NewDocument()
	second.Users["bob"] = UserRecord{Name: "bob", PasswordHash: "y", Avatar: user.NewAvatar("bob")}
	second.Friends["bob"] = []string{}
	require.NoError(t, p.Save(second))

	loaded, err := p.Load()
	require.NoError(t, err)
	assert.NotContains(t, loaded.Users, "alice")
	assert.Contains(t, loaded.Users, "bob")

	// No stray temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
