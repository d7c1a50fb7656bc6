package store

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) *DB {
	dir, err := ioutil.TempDir("", "store")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	db, err := New(filepath.Join(dir, "shades.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func TestAddGet(t *testing.T) {
	db := newDB(t)

	data := []byte("first image")
	sha, err := db.Add(data, "png", 450)
	require.NoError(t, err)
	assert.Equal(t, Checksum(data), sha)
	assert.Len(t, sha, 40)

	// Adding again is a no-op
	again, err := db.Add(data, "png", 450)
	require.NoError(t, err)
	assert.Equal(t, sha, again)

	entries, err := db.List()
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	e, err := db.Get(sha)
	require.NoError(t, err)
	assert.Equal(t, data, e.Data)
	assert.Equal(t, "png", e.Format)
	assert.Equal(t, 450, e.Width)
	assert.False(t, e.Created.IsZero())

	// Lower case prefixes match
	e, err = db.Get(sha[:8])
	require.NoError(t, err)
	assert.Equal(t, sha, e.SHA1)
}

func TestGetErrors(t *testing.T) {
	db := newDB(t)

	_, err := db.Get("ABCDEF")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = db.Get("AB")
	assert.Equal(t, errBadPrefix, err)

	_, err = db.Get("AB%_")
	assert.Equal(t, errBadPrefix, err)
}

func TestAmbiguous(t *testing.T) {
	db := newDB(t)

	// Find two inputs whose checksums share the shortest usable prefix
	seen := make(map[string][]byte)
	var a, b []byte
	for i := 0; a == nil; i++ {
		data := []byte(strconv.Itoa(i))
		prefix := Checksum(data)[:minPrefix]
		if prev, ok := seen[prefix]; ok {
			a, b = prev, data
		}
		seen[prefix] = data
	}

	sha, err := db.Add(a, "png", 88)
	require.NoError(t, err)
	_, err = db.Add(b, "gif", 88)
	require.NoError(t, err)

	_, err = db.Get(sha[:minPrefix])
	assert.ErrorIs(t, err, ErrAmbiguous)

	e, err := db.Get(sha)
	require.NoError(t, err)
	assert.Equal(t, a, e.Data)

	entries, err := db.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Nil(t, entries[0].Data)
	assert.Equal(t, "gif", entries[1].Format)
}

func TestRemove(t *testing.T) {
	db := newDB(t)

	sha, err := db.Add([]byte("to be removed"), "bmp", 88)
	require.NoError(t, err)

	require.NoError(t, db.Remove(sha[:6]))

	_, err = db.Get(sha)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, db.Remove(sha), ErrNotFound)
}
