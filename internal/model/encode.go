package model

// VideoCodec names a supported video encoder family.
type VideoCodec string

const (
	CodecVP9 VideoCodec = "vp9"
	CodecVP8 VideoCodec = "vp8"
)

// AudioCodec names a supported audio encoder family.
type AudioCodec string

const (
	CodecOpus   AudioCodec = "opus"
	CodecVorbis AudioCodec = "vorbis"
)

// RateMode selects how the video bitrate is chosen.
type RateMode string

const (
	RateCRF     RateMode = "crf"     // Quality driven, bitrate forced to 0.
	RateLimit   RateMode = "limit"   // Bitrate derived from a size limit in MiB.
	RateBitrate RateMode = "bitrate" // Limit is taken literally as kbps.
)

// Crop holds the optional crop rectangle. Nil members are omitted.
type Crop struct {
	W, H, X, Y *int
}

// Empty reports whether no crop parameter is set.
func (c Crop) Empty() bool {
	return c.W == nil && c.H == nil && c.X == nil && c.Y == nil
}

// Scale holds the optional output dimensions. Nil members keep aspect.
type Scale struct {
	W, H *int
}

// Empty reports whether no scale parameter is set.
func (s Scale) Empty() bool {
	return s.W == nil && s.H == nil
}

// EncodeRequest is the validated, fully defaulted option snapshot the
// argument compiler works from. It is rebuilt on every field edit.
type EncodeRequest struct {
	InputPath         string
	SourceDurationSec float64

	// Trim window.
	StartSec    float64
	DurationSec float64
	HasEnd      bool // End was given explicitly; emit -t.

	// Video.
	VideoTrack    int // Index among non-attached-pic video tracks.
	Deinterlace   bool
	Crop          Crop
	Scale         Scale
	BurnSubs      bool
	SubtitleTrack int // Index among subtitle tracks; meaningful when BurnSubs.
	Speed         *float64

	// Audio.
	HasAudio      bool
	AudioTrack    int // Index among audio tracks; meaningful when HasAudio.
	AudioChannels int
	FadeIn        *float64
	FadeOut       *float64
	Amplify       *int

	// Codecs and rate control.
	VideoCodec VideoCodec
	RateMode   RateMode
	TwoPass    bool
	Limit      float64 // MiB in RateLimit, kbps in RateBitrate, 0 in RateCRF.
	Quality    *int
	AudioCodec AudioCodec
	AudioRate  float64 // Opus kbps or Vorbis quality level.
}
