package pipeline

import (
	"strconv"

	"webmclip/internal/model"
	"webmclip/internal/options"
	"webmclip/internal/tracks"
	"webmclip/internal/validate"
)

// Defaults substituted for empty fields.
const (
	DefaultLimitMiB    = 8
	DefaultBitrateKbps = 1000
	DefaultQuality     = 25
	DefaultOpusKbps    = 128
	DefaultVorbisQ     = 4
)

// Codec-specific bounds.
const (
	minVP8Quality, maxVP8Quality = 4, 63
	minVP9Quality, maxVP9Quality = 0, 63
	minOpusKbps, maxOpusKbps     = 6, 510
	minVorbisQ, maxVorbisQ       = -1, 10
)

// endEpsilon keeps the start strictly inside the source.
const endEpsilon = 0.001

// Resolve validates f against the source and, when every field passes,
// returns the fully defaulted request. Fields are checked in dependency
// order and every failure is collected.
func Resolve(media model.MediaInfo, cat tracks.Catalog, f options.Fields) (model.EncodeRequest, validate.Result) {
	v := validate.New()
	src := media.DurationSec

	// --- Video FX ---
	if _, ok := cat.VideoAt(f.VideoTrack); !ok {
		v.Fail(validate.GroupVideoFX, "vtrackn", noTrack(f.VideoTrack))
	}
	cropW := validate.Field(v, validate.GroupVideoFX, "cropw", validate.Int(f.CropW, 1, validate.NoMax))
	cropH := validate.Field(v, validate.GroupVideoFX, "croph", validate.Int(f.CropH, 1, validate.NoMax))
	cropX := validate.Field(v, validate.GroupVideoFX, "cropx", validate.Int(f.CropX, 0, validate.NoMax))
	cropY := validate.Field(v, validate.GroupVideoFX, "cropy", validate.Int(f.CropY, 0, validate.NoMax))
	scaleW := validate.Field(v, validate.GroupVideoFX, "scalew", validate.Int(f.ScaleW, 1, validate.NoMax))
	scaleH := validate.Field(v, validate.GroupVideoFX, "scaleh", validate.Int(f.ScaleH, 1, validate.NoMax))
	speed := validate.Field(v, validate.GroupVideoFX, "speed", validate.Float(f.Speed, 0.001, validate.NoMax))
	if f.BurnSubs {
		if _, ok := cat.SubtitleAt(f.SubtitleTrack); !ok {
			v.Fail(validate.GroupVideoFX, "strackn", noTrack(f.SubtitleTrack))
		}
	}

	// --- Audio FX ---
	channels := 0
	if f.HasAudio {
		if t, ok := cat.AudioAt(f.AudioTrack); ok {
			channels = t.Channels
		} else {
			v.Fail(validate.GroupAudioFX, "atrackn", noTrack(f.AudioTrack))
		}
	}
	fadeIn := validate.Field(v, validate.GroupAudioFX, "fadeIn", validate.Float(f.FadeIn, 0.001, validate.NoMax))
	fadeOut := validate.Field(v, validate.GroupAudioFX, "fadeOut", validate.Float(f.FadeOut, 0.001, validate.NoMax))
	amplify := validate.Field(v, validate.GroupAudioFX, "amplify", validate.Int(f.Amplify, 1, 64))

	// --- Codecs ---
	start := validate.Field(v, validate.GroupCodecs, "start", func() (*float64, error) {
		raw := f.Start
		if raw == "" {
			return ptr(0.0), nil
		}
		s, err := validate.RequireTime(raw)
		if err != nil {
			return nil, err
		}
		if _, err := validate.RequireRange(s, 0, src-endEpsilon); err != nil {
			return nil, err
		}
		return &s, nil
	})
	duration := validate.Field(v, validate.GroupCodecs, "end", func() (*float64, error) {
		if start == nil {
			return nil, &validate.DependencyError{DependsOn: "start"}
		}
		raw := f.End
		if raw == "" {
			return ptr(src - *start), nil
		}
		e, err := validate.RequireTime(raw)
		if err != nil {
			return nil, err
		}
		if _, err := validate.RequireRange(e, endEpsilon, src); err != nil {
			return nil, err
		}
		d := e - *start
		if d <= 0 {
			return nil, &validate.RangeError{Value: e, Min: *start, Max: src, Reason: "less than start"}
		}
		return &d, nil
	})

	vcodecOK := f.VideoCodec == model.CodecVP9 || f.VideoCodec == model.CodecVP8
	if !vcodecOK {
		v.Fail(validate.GroupCodecs, "vcodec", &validate.FormatError{Value: string(f.VideoCodec), Want: "vp9 or vp8"})
	}
	acodecOK := f.AudioCodec == model.CodecOpus || f.AudioCodec == model.CodecVorbis
	if !acodecOK {
		v.Fail(validate.GroupCodecs, "acodec", &validate.FormatError{Value: string(f.AudioCodec), Want: "opus or vorbis"})
	}

	limit := validate.Field(v, validate.GroupCodecs, "limit", func() (*float64, error) {
		if f.ModeCRF {
			return ptr(0.0), nil
		}
		raw := f.Limit
		if raw == "" {
			if f.ModeLimit {
				return ptr(float64(DefaultLimitMiB)), nil
			}
			return ptr(float64(DefaultBitrateKbps)), nil
		}
		return validate.Float(raw, 0.001, validate.NoMax)()
	})
	quality := validate.Field(v, validate.GroupCodecs, "quality", func() (*int, error) {
		raw := f.Quality
		if raw == "" && f.ModeCRF {
			raw = strconv.Itoa(DefaultQuality)
		}
		lo, hi := minVP9Quality, maxVP9Quality
		if f.VideoCodec == model.CodecVP8 {
			lo, hi = minVP8Quality, maxVP8Quality
		}
		return validate.Int(raw, float64(lo), float64(hi))()
	})
	audioRate := validate.Field(v, validate.GroupCodecs, "ab", func() (*float64, error) {
		raw := f.AudioRate
		if f.AudioCodec == model.CodecVorbis {
			if raw == "" {
				raw = strconv.Itoa(DefaultVorbisQ)
			}
			q, err := validate.Int(raw, minVorbisQ, maxVorbisQ)()
			if err != nil {
				return nil, err
			}
			return ptr(float64(*q)), nil
		}
		if raw == "" {
			raw = strconv.Itoa(DefaultOpusKbps)
		}
		return validate.Float(raw, minOpusKbps, maxOpusKbps)()
	})

	res := v.Result()
	if !res.AllValid {
		return model.EncodeRequest{}, res
	}

	req := model.EncodeRequest{
		InputPath:         media.Path,
		SourceDurationSec: src,
		StartSec:          *start,
		DurationSec:       *duration,
		HasEnd:            f.End != "",
		VideoTrack:        f.VideoTrack,
		Deinterlace:       f.Deinterlace,
		Crop:              model.Crop{W: cropW, H: cropH, X: cropX, Y: cropY},
		Scale:             model.Scale{W: scaleW, H: scaleH},
		BurnSubs:          f.BurnSubs,
		SubtitleTrack:     f.SubtitleTrack,
		Speed:             speed,
		HasAudio:          f.HasAudio,
		AudioTrack:        f.AudioTrack,
		AudioChannels:     channels,
		FadeIn:            fadeIn,
		FadeOut:           fadeOut,
		Amplify:           amplify,
		VideoCodec:        f.VideoCodec,
		RateMode:          rateMode(f),
		TwoPass:           f.TwoPass,
		Limit:             *limit,
		Quality:           quality,
		AudioCodec:        f.AudioCodec,
		AudioRate:         *audioRate,
	}
	return req, res
}

func rateMode(f options.Fields) model.RateMode {
	switch {
	case f.ModeCRF:
		return model.RateCRF
	case f.ModeLimit:
		return model.RateLimit
	default:
		return model.RateBitrate
	}
}

func noTrack(n int) error {
	return &validate.RangeError{Value: float64(n), Min: 0, Max: validate.NoMax, Reason: "no such track"}
}

func ptr[T any](v T) *T { return &v }
