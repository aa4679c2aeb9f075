// Package image provides utilities for loading images from disk.
package image

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/hashicorp/go-hclog"
	_ "golang.org/x/image/bmp"  // Register BMP format
	_ "golang.org/x/image/tiff" // Register TIFF format
	_ "golang.org/x/image/webp" // Register WebP format
)

var (
	// ErrEmptyPath is returned when no image path was given.
	ErrEmptyPath = errors.New("image path cannot be empty")

	// ErrNotFound is returned when the path does not reference an existing file.
	ErrNotFound = errors.New("file does not exist")

	// ErrDecode is returned when the file exists but cannot be decoded as an image.
	ErrDecode = errors.New("failed to decode image")
)

// Loader handles loading images from various sources.
type Loader interface {
	// Load loads an image from the given path.
	Load(path string) (image.Image, error)
}

// FileLoader loads images from the local filesystem.
type FileLoader struct {
	logger hclog.Logger
}

// NewFileLoader creates a new FileLoader instance.
// A nil logger discards all output.
func NewFileLoader(logger hclog.Logger) *FileLoader {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &FileLoader{logger: logger.Named("loader")}
}

// Exists checks that path references an existing regular file.
func Exists(path string) error {
	if path == "" {
		return ErrEmptyPath
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("failed to stat image file: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory, not a file", ErrNotFound, path)
	}

	return nil
}

// Load loads an image from a file path.
// Supported formats: JPEG, PNG, GIF, WebP, BMP, TIFF.
func (l *FileLoader) Load(path string) (image.Image, error) {
	if err := Exists(path); err != nil {
		return nil, err
	}

	file, err := os.Open(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	format := sniffFormat(file)
	l.logger.Debug("decoding image", "path", path, "format", format)

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w (format: %s): %v", ErrDecode, format, err)
	}

	bounds := img.Bounds()
	l.logger.Debug("image decoded", "width", bounds.Dx(), "height", bounds.Dy())

	return img, nil
}

// sniffFormat reports the registered format name for the file header and
// rewinds the file. It returns "unknown" when no decoder recognises it.
func sniffFormat(f *os.File) string {
	_, format, err := image.DecodeConfig(f)
	if _, seekErr := f.Seek(0, io.SeekStart); seekErr != nil || err != nil {
		return "unknown"
	}
	return format
}

// SupportedImageExtensions returns a list of supported image file extensions.
func SupportedImageExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".tif", ".tiff"}
}

// IsImageFile checks if a file has a supported image extension.
func IsImageFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.Contains(SupportedImageExtensions(), ext)
}
