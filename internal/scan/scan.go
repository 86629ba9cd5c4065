// Package scan finds videos below a directory and resolves their sidecars.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Container identifies the video formats the tool can tag.
type Container string

const (
	ContainerMP4 Container = "mp4"
	ContainerMKV Container = "mkv"
)

// ContainerOf reports the container of path by its extension.
func ContainerOf(path string) (Container, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4":
		return ContainerMP4, true
	case ".mkv":
		return ContainerMKV, true
	default:
		return "", false
	}
}

// Video is one candidate file found by Videos.
type Video struct {
	Path      string
	Container Container
	Size      int64
	ModTime   time.Time
}

// Videos walks root and returns every MP4 and MKV file, sorted by path.
// Hidden directories and MP4 backups ending in backupSuffix are skipped.
func Videos(root, backupSuffix string) ([]Video, error) {
	root = filepath.Clean(root)
	videos := make([]Video, 0, 64)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		container, ok := ContainerOf(path)
		if !ok || IsBackup(path, backupSuffix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		videos = append(videos, Video{
			Path:      path,
			Container: container,
			Size:      info.Size(),
			ModTime:   info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	sort.Slice(videos, func(i, j int) bool { return videos[i].Path < videos[j].Path })
	return videos, nil
}

// IsBackup reports whether path is a backup written by an earlier MP4 remux.
func IsBackup(path, backupSuffix string) bool {
	if backupSuffix == "" {
		return false
	}
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.HasSuffix(stem, backupSuffix)
}

// BackupPath returns <stem><suffix><ext> next to path.
func BackupPath(path, backupSuffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + backupSuffix + ext
}

// ResolveNFO returns explicit when it names an existing file, otherwise the
// sibling <stem>.nfo when that exists. It returns "" when neither exists.
func ResolveNFO(videoPath, explicit string) string {
	if explicit != "" {
		if fileExists(explicit) {
			return explicit
		}
		return ""
	}
	sibling := strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".nfo"
	if fileExists(sibling) {
		return sibling
	}
	return ""
}

// ResolveOutput returns explicit, or the video path itself when empty.
func ResolveOutput(videoPath, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return videoPath
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
