// Package options holds the raw field snapshot edited by the user and the
// transition table that rewrites fields when modes change or markers move.
package options

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"webmclip/internal/model"
	"webmclip/internal/tracks"
)

// NoTrack marks an absent track selection.
const NoTrack = -1

// Fields is the raw, possibly invalid option snapshot. Text fields hold
// exactly what the user typed; empty means "use the default".
type Fields struct {
	// Video FX.
	VideoTrack    int    `toml:"vtrackn" json:"vtrackn" yaml:"vtrackn"`
	Deinterlace   bool   `toml:"deinterlace" json:"deinterlace" yaml:"deinterlace"`
	CropW         string `toml:"cropw,omitempty" json:"cropw,omitempty" yaml:"cropw,omitempty"`
	CropH         string `toml:"croph,omitempty" json:"croph,omitempty" yaml:"croph,omitempty"`
	CropX         string `toml:"cropx,omitempty" json:"cropx,omitempty" yaml:"cropx,omitempty"`
	CropY         string `toml:"cropy,omitempty" json:"cropy,omitempty" yaml:"cropy,omitempty"`
	ScaleW        string `toml:"scalew,omitempty" json:"scalew,omitempty" yaml:"scalew,omitempty"`
	ScaleH        string `toml:"scaleh,omitempty" json:"scaleh,omitempty" yaml:"scaleh,omitempty"`
	Speed         string `toml:"speed,omitempty" json:"speed,omitempty" yaml:"speed,omitempty"`
	BurnSubs      bool   `toml:"burnSubs" json:"burnSubs" yaml:"burnSubs"`
	SubtitleTrack int    `toml:"strackn" json:"strackn" yaml:"strackn"`

	// Audio FX.
	HasAudio   bool   `toml:"hasAudio" json:"hasAudio" yaml:"hasAudio"`
	AudioTrack int    `toml:"atrackn" json:"atrackn" yaml:"atrackn"`
	FadeIn     string `toml:"fadeIn,omitempty" json:"fadeIn,omitempty" yaml:"fadeIn,omitempty"`
	FadeOut    string `toml:"fadeOut,omitempty" json:"fadeOut,omitempty" yaml:"fadeOut,omitempty"`
	Amplify    string `toml:"amplify,omitempty" json:"amplify,omitempty" yaml:"amplify,omitempty"`

	// Codecs.
	Start      string           `toml:"start,omitempty" json:"start,omitempty" yaml:"start,omitempty"`
	End        string           `toml:"end,omitempty" json:"end,omitempty" yaml:"end,omitempty"`
	VideoCodec model.VideoCodec `toml:"vcodec" json:"vcodec" yaml:"vcodec"`
	Limit      string           `toml:"limit,omitempty" json:"limit,omitempty" yaml:"limit,omitempty"`
	Quality    string           `toml:"quality,omitempty" json:"quality,omitempty" yaml:"quality,omitempty"`
	AudioCodec model.AudioCodec `toml:"acodec" json:"acodec" yaml:"acodec"`
	AudioRate  string           `toml:"ab,omitempty" json:"ab,omitempty" yaml:"ab,omitempty"`
	TwoPass    bool             `toml:"mode2Pass" json:"mode2Pass" yaml:"mode2Pass"`
	ModeLimit  bool             `toml:"modeLimit" json:"modeLimit" yaml:"modeLimit"`
	ModeCRF    bool             `toml:"modeCRF" json:"modeCRF" yaml:"modeCRF"`

	// Markers in seconds. Zero means unset.
	MarkStart float64 `toml:"-" json:"mstart" yaml:"mstart"`
	MarkEnd   float64 `toml:"-" json:"mend" yaml:"mend"`
}

// Defaults returns the initial snapshot for a source: first video track,
// first audio and subtitle tracks when present, VP9 with Opus, two-pass
// size-limited encoding.
func Defaults(cat tracks.Catalog) Fields {
	f := Fields{
		VideoTrack:    0,
		SubtitleTrack: NoTrack,
		AudioTrack:    NoTrack,
		VideoCodec:    model.CodecVP9,
		AudioCodec:    model.CodecOpus,
		TwoPass:       true,
		ModeLimit:     true,
	}
	if len(cat.Subtitle()) > 0 {
		f.SubtitleTrack = 0
	}
	if len(cat.Audio()) > 0 {
		f.HasAudio = true
		f.AudioTrack = 0
	}
	return f
}

var textFields = map[string]func(*Fields) *string{
	"cropw":   func(f *Fields) *string { return &f.CropW },
	"croph":   func(f *Fields) *string { return &f.CropH },
	"cropx":   func(f *Fields) *string { return &f.CropX },
	"cropy":   func(f *Fields) *string { return &f.CropY },
	"scalew":  func(f *Fields) *string { return &f.ScaleW },
	"scaleh":  func(f *Fields) *string { return &f.ScaleH },
	"speed":   func(f *Fields) *string { return &f.Speed },
	"fadeIn":  func(f *Fields) *string { return &f.FadeIn },
	"fadeOut": func(f *Fields) *string { return &f.FadeOut },
	"amplify": func(f *Fields) *string { return &f.Amplify },
	"start":   func(f *Fields) *string { return &f.Start },
	"end":     func(f *Fields) *string { return &f.End },
	"limit":   func(f *Fields) *string { return &f.Limit },
	"quality": func(f *Fields) *string { return &f.Quality },
	"ab":      func(f *Fields) *string { return &f.AudioRate },
}

var checkFields = map[string]func(*Fields) *bool{
	"deinterlace": func(f *Fields) *bool { return &f.Deinterlace },
	"burnSubs":    func(f *Fields) *bool { return &f.BurnSubs },
	"hasAudio":    func(f *Fields) *bool { return &f.HasAudio },
	"mode2Pass":   func(f *Fields) *bool { return &f.TwoPass },
	"modeLimit":   func(f *Fields) *bool { return &f.ModeLimit },
	"modeCRF":     func(f *Fields) *bool { return &f.ModeCRF },
}

var trackFields = map[string]func(*Fields) *int{
	"vtrackn": func(f *Fields) *int { return &f.VideoTrack },
	"strackn": func(f *Fields) *int { return &f.SubtitleTrack },
	"atrackn": func(f *Fields) *int { return &f.AudioTrack },
}

// TextFields returns the names of the free-text fields, sorted.
func TextFields() []string { return keys(textFields) }

// CheckFields returns the names of the boolean fields, sorted.
func CheckFields() []string { return keys(checkFields) }

// Text returns the current value of a text field.
func (f *Fields) Text(name string) (string, bool) {
	get, ok := textFields[name]
	if !ok {
		return "", false
	}
	return *get(f), true
}

// Set assigns a raw value to the named field. Text fields take the value
// verbatim; checks, track selections and codecs must parse.
func Set(f *Fields, name, value string) error {
	if get, ok := textFields[name]; ok {
		*get(f) = value
		return nil
	}
	if get, ok := checkFields[name]; ok {
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("field %s: %q is not a boolean", name, value)
		}
		*get(f) = b
		return nil
	}
	if get, ok := trackFields[name]; ok {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < NoTrack {
			return fmt.Errorf("field %s: %q is not a track index", name, value)
		}
		*get(f) = n
		return nil
	}
	switch name {
	case "vcodec":
		c := model.VideoCodec(strings.ToLower(strings.TrimSpace(value)))
		if c != model.CodecVP9 && c != model.CodecVP8 {
			return fmt.Errorf("field vcodec: unsupported codec %q (want vp9 or vp8)", value)
		}
		f.VideoCodec = c
		return nil
	case "acodec":
		c := model.AudioCodec(strings.ToLower(strings.TrimSpace(value)))
		if c != model.CodecOpus && c != model.CodecVorbis {
			return fmt.Errorf("field acodec: unsupported codec %q (want opus or vorbis)", value)
		}
		f.AudioCodec = c
		return nil
	}
	return fmt.Errorf("unknown field %q", name)
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
