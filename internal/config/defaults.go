package config

const (
	defaultConfigPath   = "~/.config/nfo2tags/config.toml"
	defaultLogDir       = "~/.local/share/nfo2tags/logs"
	defaultStateDir     = "~/.local/share/nfo2tags"
	defaultFFmpeg       = "ffmpeg"
	defaultFFprobe      = "ffprobe"
	defaultMKVPropEdit  = "mkvpropedit"
	defaultCoverSuffix  = "-poster"
	defaultBackupSuffix = ".OLD"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

var defaultCoverExtensions = []string{".jpg", ".jpeg", ".png"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:   defaultLogDir,
			StateDir: defaultStateDir,
		},
		Tools: Tools{
			FFmpeg:      defaultFFmpeg,
			FFprobe:     defaultFFprobe,
			MKVPropEdit: defaultMKVPropEdit,
		},
		Cover: Cover{
			Suffix:     defaultCoverSuffix,
			Extensions: append([]string(nil), defaultCoverExtensions...),
		},
		MP4: MP4{
			BackupSuffix: defaultBackupSuffix,
			VerifyOutput: true,
		},
		MKV: MKV{
			ReplaceAttachments: true,
		},
		Metadata: Metadata{
			StripMarkup: true,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
