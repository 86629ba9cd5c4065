package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeCover()
	c.normalizeMP4()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.TempDir) == "" {
		c.Paths.TempDir = os.TempDir()
	}
	if c.Paths.TempDir, err = expandPath(strings.TrimSpace(c.Paths.TempDir)); err != nil {
		return fmt.Errorf("paths.temp_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() {
	for _, tool := range []struct {
		value *string
		env   string
	}{
		{&c.Tools.FFmpeg, "NFO2TAGS_FFMPEG"},
		{&c.Tools.FFprobe, "NFO2TAGS_FFPROBE"},
		{&c.Tools.MKVPropEdit, "NFO2TAGS_MKVPROPEDIT"},
	} {
		if value, ok := os.LookupEnv(tool.env); ok && strings.TrimSpace(value) != "" {
			*tool.value = value
		}
		*tool.value = strings.TrimSpace(*tool.value)
	}
	c.Tools.FFmpeg = binaryOrDefault(c.Tools.FFmpeg, defaultFFmpeg)
	c.Tools.FFprobe = binaryOrDefault(c.Tools.FFprobe, defaultFFprobe)
	c.Tools.MKVPropEdit = binaryOrDefault(c.Tools.MKVPropEdit, defaultMKVPropEdit)
}

func (c *Config) normalizeCover() {
	c.Cover.Suffix = strings.TrimSpace(c.Cover.Suffix)
	if len(c.Cover.Extensions) == 0 {
		c.Cover.Extensions = append([]string(nil), defaultCoverExtensions...)
		return
	}
	exts := make([]string, 0, len(c.Cover.Extensions))
	seen := make(map[string]struct{}, len(c.Cover.Extensions))
	for _, ext := range c.Cover.Extensions {
		normalized := strings.ToLower(strings.TrimSpace(ext))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		exts = append(exts, normalized)
	}
	if len(exts) == 0 {
		exts = append([]string(nil), defaultCoverExtensions...)
	}
	c.Cover.Extensions = exts
}

func (c *Config) normalizeMP4() {
	c.MP4.BackupSuffix = strings.TrimSpace(c.MP4.BackupSuffix)
	if c.MP4.BackupSuffix == "" {
		c.MP4.BackupSuffix = defaultBackupSuffix
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
