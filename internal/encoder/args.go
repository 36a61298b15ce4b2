package encoder

import (
	"fmt"
	"strconv"

	"webmclip/internal/filter"
	"webmclip/internal/model"
	"webmclip/internal/util"
	"webmclip/internal/util/bitrate"
)

// Args is an ordered ffmpeg argument list, excluding the binary and the
// output path. Tokens are unquoted.
type Args []string

// String renders the list as a single shell-safe line.
func (a Args) String() string { return util.QuoteArgs(a) }

// InvariantViolation is the panic value raised when Compile receives a
// request that validation should have rejected.
type InvariantViolation struct {
	What  string
	Value string
}

func (v InvariantViolation) Error() string {
	return fmt.Sprintf("encoder: invariant violated: unexpected %s %q", v.What, v.Value)
}

// Compile builds the ffmpeg arguments for a validated request. Identical
// requests always produce identical lists.
func Compile(req model.EncodeRequest) Args {
	var args Args

	// --- Input ---
	if req.StartSec > 0 {
		args = append(args, "-ss", fixed3(req.StartSec))
	}
	args = append(args, "-i", req.InputPath)
	if req.HasEnd {
		// -ss before -i resets timestamps, so the window is always a duration.
		args = append(args, "-t", fixed3(req.DurationSec))
	}

	// --- Streams ---
	args = append(args, "-map", "0:V:"+strconv.Itoa(req.VideoTrack))
	if req.HasAudio {
		args = append(args, "-map", "0:a:"+strconv.Itoa(req.AudioTrack))
	}

	// --- Video ---
	args = append(args, "-threads", "8")
	args = append(args, videoCodecArgs(req.VideoCodec)...)
	args = append(args, "-b:v", videoBitrate(req))
	if req.Quality != nil {
		args = append(args, "-crf", strconv.Itoa(*req.Quality))
	}
	args = append(args,
		"-auto-alt-ref", "1",
		"-lag-in-frames", "25",
		"-g", "128",
		"-pix_fmt", "yuv420p",
	)
	if vf := filter.Video(req); vf != "" {
		args = append(args, "-vf", vf)
	}

	// --- Audio ---
	if req.HasAudio {
		args = append(args, audioCodecArgs(req.AudioCodec, req.AudioRate)...)
		if req.AudioChannels > 2 {
			args = append(args, "-ac", "2")
		}
		if af := filter.Audio(req); af != "" {
			args = append(args, "-af", af)
		}
	}

	return args
}

func videoCodecArgs(c model.VideoCodec) []string {
	switch c {
	case model.CodecVP9:
		return []string{"-c:v", "libvpx-vp9", "-speed", "1", "-tile-columns", "6", "-frame-parallel", "0"}
	case model.CodecVP8:
		return []string{"-c:v", "libvpx", "-speed", "0"}
	}
	panic(InvariantViolation{What: "video codec", Value: string(c)})
}

func audioCodecArgs(c model.AudioCodec, rate float64) []string {
	switch c {
	case model.CodecOpus:
		return []string{"-c:a", "libopus", "-b:a", num(rate) + "k"}
	case model.CodecVorbis:
		return []string{"-c:a", "libvorbis", "-q:a", strconv.Itoa(int(rate))}
	}
	panic(InvariantViolation{What: "audio codec", Value: string(c)})
}

// videoBitrate returns the -b:v value: derived from the size limit,
// taken literally in bitrate mode, or "0" for constant quality.
func videoBitrate(req model.EncodeRequest) string {
	switch req.RateMode {
	case model.RateLimit:
		return strconv.Itoa(bitrate.ForRequest(req)) + "k"
	case model.RateBitrate:
		if req.Limit == 0 {
			return "0"
		}
		return num(req.Limit) + "k"
	case model.RateCRF:
		return "0"
	}
	panic(InvariantViolation{What: "rate mode", Value: string(req.RateMode)})
}

func fixed3(v float64) string { return strconv.FormatFloat(v, 'f', 3, 64) }

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
