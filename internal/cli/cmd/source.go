package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"webmclip/internal/config"
	"webmclip/internal/model"
	"webmclip/internal/probe"
	"webmclip/internal/util/deps"
)

func bindSourceFlags(fs *pflag.FlagSet) {
	fs.String("probe-json", "", "Read saved `ffprobe -print_format json -show_format -show_streams` output instead of running ffprobe")
}

// loadMedia probes the source named by args[0], or parses --probe-json.
// With --probe-json the argument is optional and overrides the input path.
func loadMedia(cmd *cobra.Command, args []string) (model.MediaInfo, error) {
	logger := loggerFrom(cmd)
	var input string
	if len(args) > 0 {
		input = args[0]
	}

	if jsonPath, _ := cmd.Flags().GetString("probe-json"); jsonPath != "" {
		data, err := os.ReadFile(jsonPath)
		if err != nil {
			return model.MediaInfo{}, &ExitError{Code: ExitCLIError, Err: fmt.Errorf("read probe json: %w", err)}
		}
		info, err := probe.ParseJSON(data)
		if err != nil {
			return model.MediaInfo{}, &ExitError{Code: ExitProbeError, Err: err}
		}
		if input != "" {
			info.Path = input
		}
		if info.Path == "" {
			return model.MediaInfo{}, &ExitError{Code: ExitCLIError, Err: fmt.Errorf("probe json has no filename; pass the input path")}
		}
		logger.Debug("loaded probe json", "file", jsonPath, "tracks", len(info.Tracks))
		return info, nil
	}

	if input == "" {
		return model.MediaInfo{}, &ExitError{Code: ExitCLIError, Err: fmt.Errorf("an input file is required")}
	}
	ffprobe, err := deps.FindFFprobe(config.Current().FFprobe)
	if err != nil {
		return model.MediaInfo{}, &ExitError{Code: ExitMissingDep, Err: err}
	}
	info, err := probe.Probe(cmd.Context(), input, probe.Options{
		FFprobePath: ffprobe,
		Verbose:     getPersistentBool(cmd, "verbose", false),
	})
	if err != nil {
		return model.MediaInfo{}, &ExitError{Code: ExitProbeError, Err: err}
	}
	logger.Debug("probed source", "path", input, "duration", info.DurationSec, "tracks", len(info.Tracks))
	return info, nil
}
