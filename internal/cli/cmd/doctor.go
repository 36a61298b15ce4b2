package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"webmclip/internal/config"
	"webmclip/internal/dirs"
	"webmclip/internal/util/deps"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "doctor",
		Short:         "Diagnose external dependencies (ffprobe, ffmpeg)",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			probe, perr := deps.FindFFprobe(config.Current().FFprobe)
			if perr != nil {
				return &ExitError{Code: ExitMissingDep, Err: perr}
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "FFprobe: %s\n", probe)
			// ffmpeg is only needed to run the compiled arguments.
			if ff, err := deps.FindFFmpeg(config.Current().FFmpeg); err == nil {
				fmt.Fprintf(out, "FFmpeg:  %s\n", ff)
			} else {
				fmt.Fprintf(out, "FFmpeg:  not found (%v)\n", err)
			}
			if p, err := dirs.PresetDir(); err == nil {
				fmt.Fprintf(out, "Presets: %s\n", p)
			}
			return nil
		},
	}
}
