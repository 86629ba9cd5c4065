// Package cover locates and inspects the artwork attached to a video.
package cover

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
)

// DefaultSuffix is appended to the video stem when looking for artwork.
const DefaultSuffix = "-poster"

// Extensions lists the accepted artwork extensions in lookup order.
var Extensions = []string{".jpg", ".jpeg", ".png"}

const (
	MIMEJPEG = "image/jpeg"
	MIMEPNG  = "image/png"
)

// Info describes one artwork file.
type Info struct {
	Path   string
	MIME   string
	Width  int
	Height int
}

// Landscape reports whether the image is wider than it is tall.
func (i Info) Landscape() bool {
	return i.Width > i.Height
}

// AttachmentName is the Matroska attachment name players look for.
func (i Info) AttachmentName() string {
	if i.Landscape() {
		return "cover_land"
	}
	return "cover"
}

// Find returns the first existing <stem><suffix><ext> next to videoPath, or
// "" when none exists.
func Find(videoPath, suffix string, extensions []string) string {
	if len(extensions) == 0 {
		extensions = Extensions
	}
	stem := strings.TrimSuffix(videoPath, filepath.Ext(videoPath))
	for _, ext := range extensions {
		candidate := stem + suffix + ext
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate
		}
	}
	return ""
}

// Supported reports whether path carries an accepted artwork extension.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, candidate := range Extensions {
		if ext == candidate {
			return true
		}
	}
	return false
}

// Validate checks that path exists and looks like JPEG or PNG artwork.
func Validate(path string) error {
	if !Supported(path) {
		return fmt.Errorf("cover %s: unsupported extension %q", path, filepath.Ext(path))
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cover %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("cover %s: is a directory", path)
	}
	return nil
}

// Inspect validates path and reads the image dimensions from its header.
func Inspect(path string) (Info, error) {
	if err := Validate(path); err != nil {
		return Info{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("open cover: %w", err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return Info{}, fmt.Errorf("decode cover %s: %w", path, err)
	}
	mime := MIMEJPEG
	if format == "png" {
		mime = MIMEPNG
	}
	return Info{Path: path, MIME: mime, Width: cfg.Width, Height: cfg.Height}, nil
}
