package bitrate

import (
	"fmt"
	"math"

	"webmclip/internal/model"
)

// vorbisKbps maps libvorbis quality levels to their nominal bitrate.
var vorbisKbps = map[int]int{
	-1: 45,
	0:  64,
	1:  80,
	2:  96,
	3:  112,
	4:  128,
	5:  160,
	6:  192,
	7:  224,
	8:  256,
	9:  320,
	10: 500,
}

// VorbisKbps returns the nominal bitrate for a Vorbis quality level.
// Levels outside -1..10 never pass validation, so they panic here.
func VorbisKbps(q int) int {
	kbps, ok := vorbisKbps[q]
	if !ok {
		panic(fmt.Sprintf("bitrate: no vorbis bitrate for quality %d", q))
	}
	return kbps
}

// AudioKbps returns the audio share of the budget. Opus rates are already
// kbps; Vorbis rates are quality levels and go through the table.
func AudioKbps(hasAudio bool, codec model.AudioCodec, rate float64) float64 {
	if !hasAudio {
		return 0
	}
	if codec == model.CodecVorbis {
		return float64(VorbisKbps(int(rate)))
	}
	return rate
}

// ComputeVideoKbps calculates the video bitrate (kbps) that fits limitMiB
// over durationSec after subtracting audioKbps. The result is never below 1.
func ComputeVideoKbps(limitMiB, durationSec, audioKbps float64) int {
	if durationSec <= 0 {
		return 1
	}
	limitKbits := limitMiB * 8 * 1024
	vb := int(math.Floor(limitKbits/durationSec - audioKbps))
	return Clamp(vb, 1, math.MaxInt)
}

// ForRequest returns the size-limit video bitrate for req.
func ForRequest(req model.EncodeRequest) int {
	ab := AudioKbps(req.HasAudio, req.AudioCodec, req.AudioRate)
	return ComputeVideoKbps(req.Limit, req.DurationSec, ab)
}

// Clamp returns v constrained to [min, max].
func Clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// EstimateBytes returns the expected output size for req, or 0 when the
// size depends on content (constant quality).
func EstimateBytes(req model.EncodeRequest) int64 {
	switch req.RateMode {
	case model.RateLimit:
		return int64(req.Limit * 1024 * 1024)
	case model.RateBitrate:
		ab := AudioKbps(req.HasAudio, req.AudioCodec, req.AudioRate)
		return int64((req.Limit + ab) * 1000 / 8 * req.DurationSec)
	}
	return 0
}
