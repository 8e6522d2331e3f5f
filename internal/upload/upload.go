// Package upload validates raw file blobs and turns them into decoded,
// self-contained batch images.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp" // Register WEBP decoder
	"golang.org/x/sync/errgroup"

	"shotframe/internal/batch"
)

var (
	ErrEmpty           = errors.New("no files given")
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrFileTooLarge    = errors.New("file too large")
	ErrImageTooLarge   = errors.New("image dimensions too large")
)

// Input bounds. Dimensions are checked from the header before decoding, so
// a small, highly compressed file cannot force a huge allocation.
var (
	MaxFileSize int64 = 50 << 20
	MaxPixels         = 40_000_000
)

// AcceptedTypes are the MIME types a screenshot may have.
var AcceptedTypes = []string{"image/png", "image/jpeg", "image/webp"}

// File is a raw blob as picked by the user.
type File struct {
	Name string
	Data []byte
}

type Rejection struct {
	Name string
	Type string
	Err  error
}

// ValidationError lists every entry that could not be accepted.
type ValidationError struct {
	Rejected []Rejection
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Rejected))
	for _, r := range e.Rejected {
		parts = append(parts, fmt.Sprintf("%s (%s)", r.Name, r.Err))
	}
	return "invalid files: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error {
	if len(e.Rejected) == 0 {
		return nil
	}
	return e.Rejected[0].Err
}

// ReadFiles loads paths from disk in order. Files that cannot be read or
// exceed MaxFileSize are left out and reported in a *ValidationError; the
// readable ones are still returned.
func ReadFiles(paths []string) ([]File, error) {
	files := make([]File, 0, len(paths))
	var rejected []Rejection
	for _, p := range paths {
		name := filepath.Base(p)
		data, err := readLimited(p)
		if err != nil {
			rejected = append(rejected, Rejection{Name: name, Err: err})
			continue
		}
		files = append(files, File{Name: name, Data: data})
	}
	if len(rejected) > 0 {
		return files, &ValidationError{Rejected: rejected}
	}
	return files, nil
}

func readLimited(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if int64(len(data)) > MaxFileSize {
		return nil, fmt.Errorf("%w (limit %d MiB)", ErrFileTooLarge, MaxFileSize>>20)
	}
	return data, nil
}

// LoadPaths reads and decodes paths. Read failures and invalid images are
// merged into one *ValidationError, read failures first.
func LoadPaths(ctx context.Context, paths []string) ([]batch.Image, error) {
	if len(paths) == 0 {
		return nil, ErrEmpty
	}
	files, err := ReadFiles(paths)
	var readErr *ValidationError
	if err != nil && !errors.As(err, &readErr) {
		return nil, err
	}
	if len(files) == 0 {
		return nil, err
	}

	images, err := Load(ctx, files)
	var loadErr *ValidationError
	if err != nil && !errors.As(err, &loadErr) {
		return nil, err
	}

	var rejected []Rejection
	if readErr != nil {
		rejected = append(rejected, readErr.Rejected...)
	}
	if loadErr != nil {
		rejected = append(rejected, loadErr.Rejected...)
	}
	if len(rejected) > 0 {
		return images, &ValidationError{Rejected: rejected}
	}
	return images, nil
}

// Load validates and decodes files, keeping their order. Valid images are
// always returned; when some entries were rejected the error is a
// *ValidationError naming them.
func Load(ctx context.Context, files []File) ([]batch.Image, error) {
	if len(files) == 0 {
		return nil, ErrEmpty
	}

	decoded := make([]batch.Image, len(files))
	failures := make([]error, len(files))
	types := make([]string, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			mime := mimetype.Detect(f.Data)
			types[i] = mime.String()
			if !accepted(mime) {
				failures[i] = ErrUnsupportedType
				return nil
			}
			if int64(len(f.Data)) > MaxFileSize {
				failures[i] = ErrFileTooLarge
				return nil
			}
			if err := checkDimensions(f.Data); err != nil {
				failures[i] = err
				return nil
			}
			img, format, err := image.Decode(bytes.NewReader(f.Data))
			if err != nil {
				failures[i] = fmt.Errorf("decode: %w", err)
				return nil
			}
			decoded[i] = batch.Image{
				Name:   f.Name,
				Format: format,
				Data:   f.Data,
				Pixels: img,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var (
		out      []batch.Image
		rejected []Rejection
	)
	for i, f := range files {
		if failures[i] != nil {
			rejected = append(rejected, Rejection{Name: f.Name, Type: types[i], Err: failures[i]})
			continue
		}
		out = append(out, decoded[i])
	}
	if len(rejected) > 0 {
		return out, &ValidationError{Rejected: rejected}
	}
	return out, nil
}

func checkDimensions(data []byte) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("decode: empty image %dx%d", cfg.Width, cfg.Height)
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(MaxPixels) {
		return fmt.Errorf("%dx%d: %w", cfg.Width, cfg.Height, ErrImageTooLarge)
	}
	return nil
}

func accepted(mime *mimetype.MIME) bool {
	for _, t := range AcceptedTypes {
		if mime.Is(t) {
			return true
		}
	}
	return false
}
