package upload

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 50, B: 50, A: 255})
		}
	}
	return img
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(w, h)))
	return buf.Bytes()
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, solid(w, h), nil))
	return buf.Bytes()
}

func TestLoadKeepsOrder(t *testing.T) {
	files := []File{
		{Name: "one.png", Data: pngBytes(t, 4, 3)},
		{Name: "two.jpg", Data: jpegBytes(t, 8, 8)},
		{Name: "three.png", Data: pngBytes(t, 2, 5)},
	}
	imgs, err := Load(context.Background(), files)
	require.NoError(t, err)
	require.Len(t, imgs, 3)

	assert.Equal(t, "one.png", imgs[0].Name)
	assert.Equal(t, "png", imgs[0].Format)
	assert.Equal(t, 4, imgs[0].Pixels.Bounds().Dx())
	assert.Equal(t, "jpeg", imgs[1].Format)
	assert.Equal(t, "three.png", imgs[2].Name)
	assert.Equal(t, files[2].Data, imgs[2].Data)
}

func TestLoadRejectsUnsupported(t *testing.T) {
	files := []File{
		{Name: "ok.png", Data: pngBytes(t, 2, 2)},
		{Name: "notes.txt", Data: []byte("hello world, definitely not an image")},
		{Name: "anim.gif", Data: []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")},
	}
	imgs, err := Load(context.Background(), files)
	require.Error(t, err)
	assert.Len(t, imgs, 1)
	assert.Equal(t, "ok.png", imgs[0].Name)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Rejected, 2)
	assert.Equal(t, "notes.txt", verr.Rejected[0].Name)
	assert.Equal(t, "anim.gif", verr.Rejected[1].Name)
	assert.Equal(t, "image/gif", verr.Rejected[1].Type)
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.Contains(t, err.Error(), "notes.txt")
}

func TestLoadCorruptPNG(t *testing.T) {
	data := pngBytes(t, 4, 4)
	files := []File{{Name: "broken.png", Data: data[:20]}}
	imgs, err := Load(context.Background(), files)
	assert.Empty(t, imgs)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "broken.png", verr.Rejected[0].Name)
}

func TestLoadEmpty(t *testing.T) {
	_, err := Load(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestReadFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shot.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t, 3, 3), 0o644))

	files, err := ReadFiles([]string{path})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "shot.png", files[0].Name)
}

func TestReadFilesKeepsReadableEntries(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "a.png")
	require.NoError(t, os.WriteFile(good, pngBytes(t, 3, 3), 0o644))

	files, err := ReadFiles([]string{filepath.Join(dir, "missing.png"), good, filepath.Join(dir, "gone.png")})
	require.Len(t, files, 1)
	assert.Equal(t, "a.png", files[0].Name)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Rejected, 2)
	assert.Equal(t, "missing.png", verr.Rejected[0].Name)
	assert.Equal(t, "gone.png", verr.Rejected[1].Name)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadFilesRejectsOversized(t *testing.T) {
	limit := MaxFileSize
	MaxFileSize = 64
	t.Cleanup(func() { MaxFileSize = limit })

	dir := t.TempDir()
	big := filepath.Join(dir, "big.png")
	require.NoError(t, os.WriteFile(big, make([]byte, 65), 0o644))
	exact := filepath.Join(dir, "exact.bin")
	require.NoError(t, os.WriteFile(exact, make([]byte, 64), 0o644))

	files, err := ReadFiles([]string{big, exact})
	require.Len(t, files, 1)
	assert.Equal(t, "exact.bin", files[0].Name)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

// withDimensions rewrites the IHDR size of a PNG without touching its
// pixel data.
func withDimensions(t *testing.T, data []byte, w, h uint32) []byte {
	t.Helper()
	out := bytes.Clone(data)
	require.Equal(t, "IHDR", string(out[12:16]))
	binary.BigEndian.PutUint32(out[16:20], w)
	binary.BigEndian.PutUint32(out[20:24], h)
	binary.BigEndian.PutUint32(out[29:33], crc32.ChecksumIEEE(out[12:29]))
	return out
}

func TestLoadRejectsHugeDimensionsBeforeDecoding(t *testing.T) {
	huge := withDimensions(t, pngBytes(t, 2, 2), 12000, 12000)
	files := []File{
		{Name: "bomb.png", Data: huge},
		{Name: "ok.png", Data: pngBytes(t, 2, 2)},
	}

	imgs, err := Load(context.Background(), files)
	require.Len(t, imgs, 1)
	assert.Equal(t, "ok.png", imgs[0].Name)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Rejected, 1)
	assert.Equal(t, "bomb.png", verr.Rejected[0].Name)
	assert.ErrorIs(t, err, ErrImageTooLarge)
	assert.Contains(t, err.Error(), "12000x12000")
}

func TestLoadPathsMergesRejections(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "a.png")
	require.NoError(t, os.WriteFile(good, pngBytes(t, 3, 3), 0o644))
	notes := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("plain text, not an image"), 0o644))

	imgs, err := LoadPaths(context.Background(), []string{notes, good, filepath.Join(dir, "missing.png")})
	require.Len(t, imgs, 1)
	assert.Equal(t, "a.png", imgs[0].Name)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Rejected, 2)
	assert.Equal(t, "missing.png", verr.Rejected[0].Name)
	assert.Equal(t, "notes.txt", verr.Rejected[1].Name)
}

func TestLoadPathsNothingReadable(t *testing.T) {
	imgs, err := LoadPaths(context.Background(), []string{filepath.Join(t.TempDir(), "missing.png")})
	assert.Empty(t, imgs)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Rejected, 1)

	_, err = LoadPaths(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmpty)
}
