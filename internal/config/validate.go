package config

import (
	"errors"
	"fmt"
	"strings"
)

var allowedCoverExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateCover(); err != nil {
		return err
	}
	if err := c.validateMP4(); err != nil {
		return err
	}
	if err := c.validateHistory(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return errors.New("paths.state_dir must be set")
	}
	return nil
}

func (c *Config) validateCover() error {
	if strings.ContainsAny(c.Cover.Suffix, `/\`) {
		return fmt.Errorf("cover.suffix %q must not contain a path separator", c.Cover.Suffix)
	}
	if len(c.Cover.Extensions) == 0 {
		return errors.New("cover.extensions must list at least one extension")
	}
	for _, ext := range c.Cover.Extensions {
		if _, ok := allowedCoverExtensions[ext]; !ok {
			return fmt.Errorf("cover.extensions: unsupported extension %q (use .jpg, .jpeg or .png)", ext)
		}
	}
	return nil
}

func (c *Config) validateMP4() error {
	if c.MP4.BackupSuffix == "" {
		return errors.New("mp4.backup_suffix must be set")
	}
	if strings.ContainsAny(c.MP4.BackupSuffix, `/\`) {
		return fmt.Errorf("mp4.backup_suffix %q must not contain a path separator", c.MP4.BackupSuffix)
	}
	return nil
}

func (c *Config) validateHistory() error {
	if c.History.SkipUnchanged && !c.History.Enabled {
		return errors.New("history.skip_unchanged requires history.enabled")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q must be debug, info, warn or error", c.Logging.Level)
	}
	return nil
}
