package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"webmclip/internal/model"
	"webmclip/internal/tracks"
	"webmclip/internal/util/timecode"
)

func newTracksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tracks <input>",
		Short:         "List the selectable tracks of a source",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := loadMedia(cmd, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s, %s)\n", info.Path, info.FormatName, timecode.Format(info.DurationSec))
			fmt.Fprintln(out, renderTracks(tracks.New(info.Tracks)))
			return nil
		},
	}
	bindSourceFlags(cmd.Flags())
	return cmd
}

// renderTracks lists tracks by kind with the index the option fields use.
func renderTracks(cat tracks.Catalog) string {
	var rows [][]string
	add := func(kind, field string, ts []model.Track) {
		for i, t := range ts {
			ch := ""
			if t.Channels > 0 {
				ch = strconv.Itoa(t.Channels)
			}
			rows = append(rows, []string{kind, field + "=" + strconv.Itoa(i), strconv.Itoa(t.ID), t.Codec, ch, t.Language, t.Title})
		}
	}
	add("video", "vtrackn", cat.Video())
	add("audio", "atrackn", cat.Audio())
	add("subtitle", "strackn", cat.Subtitle())
	return renderTable(
		[]string{"Kind", "Select", "Stream", "Codec", "Channels", "Language", "Title"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignRight},
	)
}
