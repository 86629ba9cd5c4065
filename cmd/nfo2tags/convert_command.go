package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"nfo2tags/internal/mkvtags"
)

func newConvertCommand() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:         "convert <file.nfo>",
		Short:       "Write the Matroska tags document for an NFO",
		Long:        "Convert runs the NFO to Matroska tags translation on its own. The result is what nfo2tags hands to mkvpropedit --tags.",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]
			if target := strings.TrimSpace(outputPath); target != "" && target != "-" {
				if err := mkvtags.Convert(source, target); err != nil {
					if wroteDestination(err) {
						_ = os.Remove(target)
					}
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote tags to %s\n", target)
				return nil
			}

			file, err := os.Open(source)
			if err != nil {
				return &mkvtags.IOError{Op: "open", Path: source, Err: err}
			}
			defer file.Close()
			if err := mkvtags.Transform(file, cmd.OutOrStdout()); err != nil {
				var parseErr *mkvtags.ParseError
				if errors.As(err, &parseErr) {
					parseErr.Path = source
				}
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination file (default: stdout)")
	return cmd
}

// wroteDestination reports whether a failed Convert got far enough to leave a
// partial document behind.
func wroteDestination(err error) bool {
	var ioErr *mkvtags.IOError
	if errors.As(err, &ioErr) {
		return ioErr.Op != "open" && ioErr.Op != "create"
	}
	return true
}
