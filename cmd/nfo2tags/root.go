package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var opts tagOptions

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:   "nfo2tags",
		Short: "Add NFO metadata and cover art to MP4 and MKV files",
		Long: `nfo2tags writes title, genre, plot, cast and crew from a sidecar NFO file,
plus an optional cover image, into MP4 (via ffmpeg) and MKV (via mkvpropedit)
files. Pass a directory to -v to process every video beneath it.`,
		Example: `  nfo2tags -v "Heat (1995).mkv"
  nfo2tags -v movie.mp4 -n movie.nfo -c folder.jpg -o tagged.mp4
  nfo2tags -v /media/movies -N -fanart -d`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.video == "" {
				return cmd.Help()
			}
			return runTag(cmd, ctx, opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Configuration file path")

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.video, "video", "v", "", "Video file, or a folder to process every video in it")
	flags.StringVarP(&opts.nfo, "nfo", "n", "", "NFO file (default: video name with .nfo)")
	flags.StringVarP(&opts.cover, "cover", "c", "", "Cover image, jpg or png (ignored for folders)")
	flags.StringVarP(&opts.coverSuffix, "cover-name", "N", "", "Suffix used to find covers next to videos (default from config, \"-poster\")")
	flags.StringVarP(&opts.output, "output", "o", "", "MP4 output file; without it the original is kept as <name>.OLD.mp4 (not used for MKV)")
	flags.BoolVarP(&opts.deleteBackup, "delete", "d", false, "Delete the .OLD backup after a successful MP4 remux")
	flags.BoolVar(&opts.skipUnchanged, "skip-unchanged", false, "Skip videos unchanged since their last successful run")
	flags.BoolVar(&opts.noProgress, "no-progress", false, "Log progress instead of drawing a progress bar")

	rootCmd.AddCommand(newConvertCommand())
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
