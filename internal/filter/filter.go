// Package filter assembles the ffmpeg -vf and -af chains for an encode
// request. Stage order is fixed; stages without input are left out.
package filter

import (
	"strconv"
	"strings"

	"webmclip/internal/model"
)

// keepAspect is the scale value ffmpeg derives from the other dimension.
const keepAspect = -1

// Video returns the comma-joined video filter chain for req, or "" when
// no stage applies. Subtitles are read from req.InputPath.
func Video(req model.EncodeRequest) string {
	var filters []string

	// Deinterlacing must come first.
	if req.Deinterlace {
		filters = append(filters, "yadif")
	}

	if c := cropFilter(req.Crop); c != "" {
		filters = append(filters, c)
	}

	// Both dimensions are always emitted; a missing one keeps aspect.
	if !req.Scale.Empty() {
		w, h := keepAspect, keepAspect
		if req.Scale.W != nil {
			w = *req.Scale.W
		}
		if req.Scale.H != nil {
			h = *req.Scale.H
		}
		filters = append(filters, "scale="+strconv.Itoa(w)+":"+strconv.Itoa(h))
	}

	if req.BurnSubs {
		filters = append(filters, subtitleFilters(req)...)
	}

	if req.Speed != nil {
		filters = append(filters, "setpts=PTS*"+num(*req.Speed))
	}

	return strings.Join(filters, ",")
}

// Audio returns the comma-joined audio filter chain for req, or "".
func Audio(req model.EncodeRequest) string {
	var filters []string

	// Amplify goes before the fades so they apply to the final level.
	if req.Amplify != nil {
		filters = append(filters, "acompressor=makeup="+strconv.Itoa(*req.Amplify))
	}
	if req.FadeIn != nil {
		filters = append(filters, "afade=t=in:d="+num(*req.FadeIn))
	}
	if req.FadeOut != nil {
		st := strconv.FormatFloat(req.DurationSec-*req.FadeOut, 'f', 3, 64)
		filters = append(filters, "afade=t=out:d="+num(*req.FadeOut)+":st="+st)
	}
	return strings.Join(filters, ",")
}

// EscapeArg quotes a filter option value following the filtergraph
// escaping rules: backslashes doubled, quotes closed and re-opened around
// an escaped quote, colons escaped, the whole value in single quotes.
func EscapeArg(arg string) string {
	arg = strings.ReplaceAll(arg, `\`, `\\`)
	arg = strings.ReplaceAll(arg, `'`, `'\\\''`)
	arg = strings.ReplaceAll(arg, `:`, `\:`)
	return "'" + arg + "'"
}

func cropFilter(c model.Crop) string {
	var parts []string
	add := func(key string, v *int) {
		if v != nil {
			parts = append(parts, key+"="+strconv.Itoa(*v))
		}
	}
	add("w", c.W)
	add("h", c.H)
	add("x", c.X)
	add("y", c.Y)
	if len(parts) == 0 {
		return ""
	}
	return "crop=" + strings.Join(parts, ":")
}

// subtitleFilters burns the selected subtitle track in. Seeking before
// the input resets timestamps, so a nonzero start shifts PTS back to the
// source timeline for the subtitle renderer and resets it afterwards.
func subtitleFilters(req model.EncodeRequest) []string {
	var out []string
	if req.StartSec != 0 {
		out = append(out, "setpts=PTS+"+num(req.StartSec)+"/TB")
	}
	out = append(out, "subtitles="+EscapeArg(req.InputPath)+":si="+strconv.Itoa(req.SubtitleTrack))
	if req.StartSec != 0 {
		out = append(out, "setpts=PTS-STARTPTS")
	}
	return out
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
