package scan

import (
	"bytes"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/shades"
	"github.com/bodgit/shades/image"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeImage(t *testing.T, file, message, key string, f image.Format) {
	require.NoError(t, os.MkdirAll(filepath.Dir(file), 0755))

	b := new(bytes.Buffer)
	require.NoError(t, image.EncodeMessage(b, message, key, &image.Options{Width: 176, Format: f}))
	require.NoError(t, ioutil.WriteFile(file, b.Bytes(), 0644))
}

func tempDir(t *testing.T) string {
	dir, err := ioutil.TempDir("", "scan")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func TestScan(t *testing.T) {
	dir := tempDir(t)

	writeImage(t, filepath.Join(dir, "a.png"), "first", "key", image.PNG)
	writeImage(t, filepath.Join(dir, "sub", "b.GIF"), "second", "key", image.GIF)
	writeImage(t, filepath.Join(dir, ".hidden", "c.png"), "hidden", "key", image.PNG)
	writeImage(t, filepath.Join(dir, ".d.png"), "hidden", "key", image.PNG)
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "c.png"), []byte("garbage"), 0644))
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	b := new(bytes.Buffer)
	s := New(nil, log.New(b, "", 0))

	results, err := s.Scan(dir, "key")
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, filepath.Join(dir, "a.png"), results[0].File)
	assert.Equal(t, "first", results[0].Message)
	assert.NoError(t, results[0].Err)

	assert.Equal(t, filepath.Join(dir, "c.png"), results[1].File)
	assert.ErrorIs(t, results[1].Err, shades.ErrInvalidImage)

	assert.Equal(t, filepath.Join(dir, "sub", "b.GIF"), results[2].File)
	assert.Equal(t, "second", results[2].Message)

	assert.Contains(t, b.String(), "c.png")
}

func TestScanManyFiles(t *testing.T) {
	dir := tempDir(t)

	for _, name := range []string{"00", "01", "02", "03", "04", "05", "06", "07", "08", "09", "10", "11", "12", "13", "14", "15", "16", "17", "18", "19", "20", "21", "22", "23", "24"} {
		writeImage(t, filepath.Join(dir, name+".png"), "message "+name, "k", image.PNG)
	}

	results, err := New(nil, nil).Scan(dir, "k")
	require.NoError(t, err)
	require.Len(t, results, 25)
	for _, r := range results {
		require.NoError(t, r.Err)
		assert.Equal(t, "message "+filepath.Base(r.File)[:2], r.Message)
	}
}

func TestScanStrict(t *testing.T) {
	dir := tempDir(t)
	writeImage(t, filepath.Join(dir, "a.png"), "strict", "key", image.PNG)

	results, err := New(&shades.Decoder{Strict: true}, nil).Scan(dir, "key")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "strict", results[0].Message)
}

func TestScanErrors(t *testing.T) {
	_, err := New(nil, nil).Scan(filepath.Join(tempDir(t), "missing"), "key")
	assert.Error(t, err)

	_, err = New(nil, nil).Scan(tempDir(t), "")
	assert.ErrorIs(t, err, shades.ErrEmptyKey)

	results, err := New(nil, nil).Scan(tempDir(t), "key")
	assert.NoError(t, err)
	assert.Empty(t, results)
}
