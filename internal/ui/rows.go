package ui

import (
	"fmt"
	"strconv"

	"webmclip/internal/model"
	"webmclip/internal/options"
	"webmclip/internal/tracks"
	"webmclip/internal/util/timecode"
	"webmclip/internal/validate"
)

type rowKind int

const (
	rowText rowKind = iota
	rowCheck
	rowSelect
	rowMark
	rowRaw
)

// row is one editable line of the form.
type row struct {
	group validate.Group
	field string
	label string
	kind  rowKind
}

var formRows = []row{
	{validate.GroupVideoFX, "vtrackn", "Video track", rowSelect},
	{validate.GroupVideoFX, "deinterlace", "Deinterlace", rowCheck},
	{validate.GroupVideoFX, "cropw", "Crop width", rowText},
	{validate.GroupVideoFX, "croph", "Crop height", rowText},
	{validate.GroupVideoFX, "cropx", "Crop x", rowText},
	{validate.GroupVideoFX, "cropy", "Crop y", rowText},
	{validate.GroupVideoFX, "scalew", "Scale width", rowText},
	{validate.GroupVideoFX, "scaleh", "Scale height", rowText},
	{validate.GroupVideoFX, "speed", "Speed", rowText},
	{validate.GroupVideoFX, "burnSubs", "Burn subtitles", rowCheck},
	{validate.GroupVideoFX, "strackn", "Subtitle track", rowSelect},
	{validate.GroupAudioFX, "hasAudio", "Audio", rowCheck},
	{validate.GroupAudioFX, "atrackn", "Audio track", rowSelect},
	{validate.GroupAudioFX, "fadeIn", "Fade in", rowText},
	{validate.GroupAudioFX, "fadeOut", "Fade out", rowText},
	{validate.GroupAudioFX, "amplify", "Amplify", rowText},
	{validate.GroupCodecs, "mstart", "Start marker", rowMark},
	{validate.GroupCodecs, "mend", "End marker", rowMark},
	{validate.GroupCodecs, "start", "Start", rowText},
	{validate.GroupCodecs, "end", "End", rowText},
	{validate.GroupCodecs, "vcodec", "Video codec", rowSelect},
	{validate.GroupCodecs, "modeLimit", "Limit size", rowCheck},
	{validate.GroupCodecs, "modeCRF", "Constant quality", rowCheck},
	{validate.GroupCodecs, "mode2Pass", "Two pass", rowCheck},
	{validate.GroupCodecs, "limit", "Limit", rowText},
	{validate.GroupCodecs, "quality", "Quality", rowText},
	{validate.GroupCodecs, "acodec", "Audio codec", rowSelect},
	{validate.GroupCodecs, "ab", "Audio rate", rowText},
	{validate.GroupCodecs, "rawArgs", "Raw arguments", rowRaw},
}

var groupTitles = map[validate.Group]string{
	validate.GroupVideoFX: "Video FX",
	validate.GroupAudioFX: "Audio FX",
	validate.GroupCodecs:  "Codecs",
}

// checkValue returns the state of a check field.
func checkValue(f options.Fields, field string) bool {
	switch field {
	case "deinterlace":
		return f.Deinterlace
	case "burnSubs":
		return f.BurnSubs
	case "hasAudio":
		return f.HasAudio
	case "modeLimit":
		return f.ModeLimit
	case "modeCRF":
		return f.ModeCRF
	case "mode2Pass":
		return f.TwoPass
	}
	return false
}

// choices lists the values a select field can take, with display labels.
func choices(cat tracks.Catalog, field string) (values, labels []string) {
	addTracks := func(ts []model.Track) {
		for i, t := range ts {
			values = append(values, strconv.Itoa(i))
			labels = append(labels, trackLabel(i, t))
		}
	}
	switch field {
	case "vcodec":
		return []string{string(model.CodecVP9), string(model.CodecVP8)}, []string{"VP9", "VP8"}
	case "acodec":
		return []string{string(model.CodecOpus), string(model.CodecVorbis)}, []string{"Opus", "Vorbis"}
	case "vtrackn":
		addTracks(cat.Video())
	case "atrackn":
		addTracks(cat.Audio())
	case "strackn":
		addTracks(cat.Subtitle())
	}
	return values, labels
}

// selectValue returns the current raw value of a select field.
func selectValue(f options.Fields, field string) string {
	switch field {
	case "vcodec":
		return string(f.VideoCodec)
	case "acodec":
		return string(f.AudioCodec)
	case "vtrackn":
		return strconv.Itoa(f.VideoTrack)
	case "atrackn":
		return strconv.Itoa(f.AudioTrack)
	case "strackn":
		return strconv.Itoa(f.SubtitleTrack)
	}
	return ""
}

// cycle returns the value step positions away from current, wrapping.
func cycle(values []string, current string, step int) (string, bool) {
	if len(values) == 0 {
		return "", false
	}
	idx := -1
	for i, v := range values {
		if v == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		return values[0], true
	}
	next := ((idx+step)%len(values) + len(values)) % len(values)
	return values[next], next != idx
}

func markValue(f options.Fields, field string) string {
	sec := f.MarkStart
	if field == "mend" {
		sec = f.MarkEnd
	}
	if sec == 0 {
		return ""
	}
	return timecode.Format(sec)
}

func trackLabel(i int, t model.Track) string {
	s := fmt.Sprintf("#%d %s", i, t.Codec)
	if t.Channels > 0 {
		s += fmt.Sprintf(" %dch", t.Channels)
	}
	if t.Language != "" {
		s += " " + t.Language
	}
	if t.Title != "" {
		s += " " + strconv.Quote(t.Title)
	}
	return s
}
