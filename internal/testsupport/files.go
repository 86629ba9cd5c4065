package testsupport

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	WriteText(t, path, strings.Repeat("B", int(size)))
}

// WriteText writes content to path, creating parent directories.
func WriteText(t testing.TB, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteScript writes an executable /bin/sh script with the given body.
func WriteScript(t testing.TB, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script %s: %v", path, err)
	}
}

// MovieNFO is a small but complete movie document.
const MovieNFO = `<?xml version="1.0" encoding="UTF-8"?>
<movie>
  <title>Heat</title>
  <originaltitle>Heat</originaltitle>
  <plot>A group of professional bank robbers.</plot>
  <outline>Cops and robbers.</outline>
  <premiered>1995-12-15</premiered>
  <genre>Action</genre>
  <genre>Crime</genre>
  <tag>heist</tag>
  <director>Michael Mann</director>
  <actor><name>Al Pacino</name><role>Vincent Hanna</role></actor>
  <uniqueid type="imdb" default="true">tt0113277</uniqueid>
</movie>
`

// WriteNFO writes content to path, or MovieNFO when content is omitted.
func WriteNFO(t testing.TB, path string, content ...string) {
	t.Helper()
	body := MovieNFO
	if len(content) > 0 {
		body = content[0]
	}
	WriteText(t, path, body)
}

// WriteImage encodes a width x height image. The format follows the
// extension: .png gives PNG, anything else JPEG.
func WriteImage(t testing.TB, path string, width, height int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 0x80, A: 0xff})
		}
	}
	var buf bytes.Buffer
	var err error
	if strings.EqualFold(filepath.Ext(path), ".png") {
		err = png.Encode(&buf, img)
	} else {
		err = jpeg.Encode(&buf, img, nil)
	}
	if err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
