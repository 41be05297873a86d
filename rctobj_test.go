package rctobj

import (
	"bytes"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/rctobj/imagetable"
	"github.com/bodgit/rctobj/object"
	"github.com/bodgit/rctobj/sawyer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var waterPreamble = append(make([]byte, 16), 0x00, 'W', 'a', 't', 'e', 'r', 0x00, 0xFF)

func testTable(t *testing.T, pixels ...[]byte) *imagetable.Table {
	t.Helper()
	var b imagetable.Builder
	for _, p := range pixels {
		_, err := b.Add(imagetable.Element{Width: int16(len(p)), Height: 1, Flags: imagetable.FlagBMP}, p)
		require.NoError(t, err)
	}
	return b.Table()
}

func writeWater(t *testing.T, file, name string, images *imagetable.Table) {
	t.Helper()
	b := new(bytes.Buffer)
	_, err := object.New(object.TypeWater, name, sawyer.EncodingRLECompressed, waterPreamble, images).WriteTo(b)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(file), 0755))
	require.NoError(t, ioutil.WriteFile(file, b.Bytes(), 0644))
}

func newRepository(t *testing.T) (*Repository, *bytes.Buffer) {
	t.Helper()
	out := new(bytes.Buffer)
	r, err := New(filepath.Join(t.TempDir(), "test.db"), log.New(out, "", 0))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, r.Close())
	})
	return r, out
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "WTRCYAN.DAT")
	writeWater(t, file, "WTRCYAN", testTable(t, []byte{1, 2, 3}))

	d, err := Load(file, nil)
	require.NoError(t, err)
	defer d.Close()
	assert.Equal(t, "WTRCYAN", d.Entry.Identifier())
	assert.Equal(t, 1, d.Images.Count())

	_, err = Load(filepath.Join(dir, "missing.dat"), nil)
	assert.Error(t, err)
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	shared := testTable(t, []byte{1, 2, 3}, []byte{4, 5})

	writeWater(t, filepath.Join(dir, "WTRCYAN.DAT"), "WTRCYAN", shared)
	writeWater(t, filepath.Join(dir, "sub", "wtrgrn.dat"), "WTRGRN", shared)
	writeWater(t, filepath.Join(dir, "sub", "WTRORNG.DAT"), "WTRORNG", testTable(t, []byte{9}))
	writeWater(t, filepath.Join(dir, ".hidden", "WTRHIDE.DAT"), "WTRHIDE", shared)
	writeWater(t, filepath.Join(dir, "WTRTEXT.TXT"), "WTRTEXT", shared)
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "BROKEN.DAT"), []byte{1, 2, 3}, 0644))

	r, out := newRepository(t)
	require.NoError(t, r.Scan(dir))
	assert.Contains(t, out.String(), "BROKEN.DAT")

	objects, err := r.Objects()
	require.NoError(t, err)
	require.Len(t, objects, 3)

	names := make([]string, 0, len(objects))
	for _, o := range objects {
		names = append(names, o.Name)
		assert.Equal(t, object.TypeWater, o.Type)
	}
	assert.Equal(t, []string{"WTRCYAN", "WTRGRN", "WTRORNG"}, names)
	assert.Equal(t, 2, objects[0].Images)
	assert.Equal(t, 5, objects[0].DataSize)

	// Scanning again replaces rather than duplicates
	require.NoError(t, r.Scan(dir))
	objects, err = r.Objects()
	require.NoError(t, err)
	assert.Len(t, objects, 3)
}

func TestImageTableDeduplicated(t *testing.T) {
	dir := t.TempDir()
	shared := testTable(t, []byte{1, 2, 3}, []byte{4, 5})
	writeWater(t, filepath.Join(dir, "A.DAT"), "WTRA", shared)
	writeWater(t, filepath.Join(dir, "B.DAT"), "WTRB", shared)

	r, _ := newRepository(t)
	require.NoError(t, r.Scan(dir))

	var count int
	require.NoError(t, r.db.db.QueryRow("SELECT COUNT(*) FROM image_table").Scan(&count))
	assert.Equal(t, 1, count)

	got, err := r.ImageTable("WTRB")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, shared.Images(), got.Images())
	assert.Equal(t, shared.PixelData(), got.PixelData())
	assert.Equal(t, []byte{4, 5}, got.Pixels(1))
}

func TestScanPrunesReplacedTables(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "WTRCYAN.DAT")
	writeWater(t, file, "WTRCYAN", testTable(t, []byte{1, 2, 3}))

	r, _ := newRepository(t)
	require.NoError(t, r.Scan(dir))

	replacement := testTable(t, []byte{7, 8})
	writeWater(t, file, "WTRCYAN", replacement)
	require.NoError(t, r.Scan(dir))

	var count int
	require.NoError(t, r.db.db.QueryRow("SELECT COUNT(*) FROM image_table").Scan(&count))
	assert.Equal(t, 1, count)

	got, err := r.ImageTable("WTRCYAN")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, replacement.PixelData(), got.PixelData())
}

func TestObjectMissing(t *testing.T) {
	r, _ := newRepository(t)

	o, err := r.FindObject("NOTHERE")
	assert.NoError(t, err)
	assert.Nil(t, o)

	tbl, err := r.ImageTable("NOTHERE")
	assert.NoError(t, err)
	assert.Nil(t, tbl)
}

func TestObject(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "WTRCYAN.DAT")
	writeWater(t, file, "WTRCYAN", testTable(t, []byte{1}))

	r, _ := newRepository(t)
	require.NoError(t, r.Add(file))

	o, err := r.FindObject("WTRCYAN")
	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Equal(t, file, o.Path)
	assert.Equal(t, 1, o.Images)
	assert.NotZero(t, o.Checksum)
}
