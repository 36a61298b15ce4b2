// Package tracks classifies probed streams into the video, audio and
// subtitle lists the option fields index into.
package tracks

import "webmclip/internal/model"

// Catalog is a read-only view over a source's tracks.
type Catalog struct {
	all []model.Track
}

// New builds a catalog over a copy of ts.
func New(ts []model.Track) Catalog {
	cp := make([]model.Track, len(ts))
	copy(cp, ts)
	return Catalog{all: cp}
}

// Video returns the video tracks, skipping attached pictures.
func (c Catalog) Video() []model.Track {
	return c.filter(func(t model.Track) bool {
		return t.Type == model.TrackVideo && !t.AttachedPic
	})
}

// Audio returns the audio tracks.
func (c Catalog) Audio() []model.Track {
	return c.filter(func(t model.Track) bool { return t.Type == model.TrackAudio })
}

// Subtitle returns the subtitle tracks.
func (c Catalog) Subtitle() []model.Track {
	return c.filter(func(t model.Track) bool { return t.Type == model.TrackSubtitle })
}

// VideoAt returns the n-th video track.
func (c Catalog) VideoAt(n int) (model.Track, bool) { return at(c.Video(), n) }

// AudioAt returns the n-th audio track.
func (c Catalog) AudioAt(n int) (model.Track, bool) { return at(c.Audio(), n) }

// SubtitleAt returns the n-th subtitle track.
func (c Catalog) SubtitleAt(n int) (model.Track, bool) { return at(c.Subtitle(), n) }

func (c Catalog) filter(keep func(model.Track) bool) []model.Track {
	var out []model.Track
	for _, t := range c.all {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func at(ts []model.Track, n int) (model.Track, bool) {
	if n < 0 || n >= len(ts) {
		return model.Track{}, false
	}
	return ts[n], true
}
