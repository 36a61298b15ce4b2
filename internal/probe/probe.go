// Package probe turns ffprobe JSON output into the media descriptor the
// option compiler works from.
package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"webmclip/internal/model"
	"webmclip/internal/util"
)

// Options control the ffprobe invocation.
type Options struct {
	FFprobePath string
	Runner      util.CmdRunner // nil uses util.DefaultRunner
	Verbose     bool
}

// Probe runs a single ffprobe JSON call against path and returns the
// parsed media descriptor.
func Probe(ctx context.Context, path string, opts Options) (model.MediaInfo, error) {
	if opts.FFprobePath == "" {
		return model.MediaInfo{}, errors.New("ffprobe path is required")
	}
	runner := opts.Runner
	if runner == nil {
		runner = util.NewDefaultRunner()
	}
	res, err := runner.Run(ctx, util.CmdSpec{
		Path: opts.FFprobePath,
		Args: []string{
			"-v", "quiet",
			"-print_format", "json",
			"-show_format", "-show_streams",
			path,
		},
		Verbose: opts.Verbose,
	})
	if err != nil {
		return model.MediaInfo{}, fmt.Errorf("ffprobe %q: %w", path, err)
	}
	info, err := ParseJSON(res.Stdout)
	if err != nil {
		return model.MediaInfo{}, err
	}
	info.Path = path
	return info, nil
}

// ParseJSON converts raw ffprobe JSON output into a MediaInfo. The path is
// taken from the format section.
func ParseJSON(data []byte) (model.MediaInfo, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.MediaInfo{}, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	info := model.MediaInfo{
		Path:        raw.Format.Filename,
		DurationSec: parseFloat(raw.Format.Duration),
		FormatName:  raw.Format.FormatName,
	}
	if info.DurationSec <= 0 {
		return model.MediaInfo{}, fmt.Errorf("parse ffprobe JSON: missing or zero duration")
	}
	for _, s := range raw.Streams {
		t, ok := convertStream(s)
		if ok {
			info.Tracks = append(info.Tracks, t)
		}
	}
	return info, nil
}

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
}

type ffprobeStream struct {
	Index       int               `json:"index"`
	CodecName   string            `json:"codec_name"`
	CodecType   string            `json:"codec_type"`
	Channels    int               `json:"channels"`
	Disposition map[string]int    `json:"disposition"`
	Tags        map[string]string `json:"tags"`
}

func convertStream(s ffprobeStream) (model.Track, bool) {
	t := model.Track{
		ID:       s.Index,
		Codec:    s.CodecName,
		Language: s.Tags["language"],
		Title:    s.Tags["title"],
	}
	switch s.CodecType {
	case "video":
		t.Type = model.TrackVideo
		t.AttachedPic = s.Disposition["attached_pic"] == 1
	case "audio":
		t.Type = model.TrackAudio
		t.Channels = s.Channels
	case "subtitle":
		t.Type = model.TrackSubtitle
	default:
		// data and attachment streams are never selectable
		return model.Track{}, false
	}
	return t, true
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}
