package model

// TrackType classifies a source stream.
type TrackType string

const (
	TrackVideo    TrackType = "video"
	TrackAudio    TrackType = "audio"
	TrackSubtitle TrackType = "subtitle"
)

// Track is a single source stream as reported by the prober.
type Track struct {
	ID          int // Absolute stream index in the container.
	Type        TrackType
	Codec       string
	Channels    int // 0 for non-audio tracks.
	Language    string
	Title       string
	AttachedPic bool // Cover art and similar pseudo-video streams.
}

// MediaInfo describes a probed source file.
type MediaInfo struct {
	Path        string
	DurationSec float64
	FormatName  string
	Tracks      []Track
}
