package options

import (
	"testing"

	"webmclip/internal/model"
	"webmclip/internal/tracks"
)

func TestDefaults(t *testing.T) {
	tests := []struct {
		name       string
		tracks     []model.Track
		wantAudio  bool
		wantATrack int
		wantSTrack int
	}{
		{
			name:       "video only",
			tracks:     []model.Track{{ID: 0, Type: model.TrackVideo}},
			wantAudio:  false,
			wantATrack: NoTrack,
			wantSTrack: NoTrack,
		},
		{
			name: "audio and subtitles",
			tracks: []model.Track{
				{ID: 0, Type: model.TrackVideo},
				{ID: 1, Type: model.TrackAudio, Channels: 2},
				{ID: 2, Type: model.TrackSubtitle},
			},
			wantAudio:  true,
			wantATrack: 0,
			wantSTrack: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Defaults(tracks.New(tt.tracks))
			if f.HasAudio != tt.wantAudio {
				t.Errorf("HasAudio = %v, want %v", f.HasAudio, tt.wantAudio)
			}
			if f.AudioTrack != tt.wantATrack {
				t.Errorf("AudioTrack = %d, want %d", f.AudioTrack, tt.wantATrack)
			}
			if f.SubtitleTrack != tt.wantSTrack {
				t.Errorf("SubtitleTrack = %d, want %d", f.SubtitleTrack, tt.wantSTrack)
			}
			if f.VideoCodec != model.CodecVP9 || f.AudioCodec != model.CodecOpus {
				t.Errorf("codecs = %s/%s, want vp9/opus", f.VideoCodec, f.AudioCodec)
			}
			if !f.TwoPass || !f.ModeLimit || f.ModeCRF {
				t.Errorf("modes = 2pass:%v limit:%v crf:%v", f.TwoPass, f.ModeLimit, f.ModeCRF)
			}
		})
	}
}

func TestSet(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   string
		check   func(Fields) bool
		wantErr bool
	}{
		{name: "text verbatim", field: "cropw", value: " abc ", check: func(f Fields) bool { return f.CropW == " abc " }},
		{name: "ab alias", field: "ab", value: "96", check: func(f Fields) bool { return f.AudioRate == "96" }},
		{name: "check", field: "modeCRF", value: "true", check: func(f Fields) bool { return f.ModeCRF }},
		{name: "bad check", field: "deinterlace", value: "maybe", wantErr: true},
		{name: "track", field: "atrackn", value: "2", check: func(f Fields) bool { return f.AudioTrack == 2 }},
		{name: "no track", field: "strackn", value: "-1", check: func(f Fields) bool { return f.SubtitleTrack == NoTrack }},
		{name: "bad track", field: "vtrackn", value: "-2", wantErr: true},
		{name: "vcodec", field: "vcodec", value: "VP8", check: func(f Fields) bool { return f.VideoCodec == model.CodecVP8 }},
		{name: "bad vcodec", field: "vcodec", value: "h264", wantErr: true},
		{name: "acodec", field: "acodec", value: "vorbis", check: func(f Fields) bool { return f.AudioCodec == model.CodecVorbis }},
		{name: "bad acodec", field: "acodec", value: "aac", wantErr: true},
		{name: "unknown", field: "fps", value: "30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f Fields
			err := Set(&f, tt.field, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set(%q, %q) error = %v, wantErr %v", tt.field, tt.value, err, tt.wantErr)
			}
			if tt.check != nil && !tt.check(f) {
				t.Errorf("Set(%q, %q) did not apply: %+v", tt.field, tt.value, f)
			}
		})
	}
}

func TestFieldNames(t *testing.T) {
	text := TextFields()
	if len(text) != 15 {
		t.Errorf("TextFields() has %d names, want 15", len(text))
	}
	for i := 1; i < len(text); i++ {
		if text[i-1] >= text[i] {
			t.Fatalf("TextFields() not sorted: %v", text)
		}
	}
	var f Fields
	for _, name := range text {
		if err := Set(&f, name, "x"); err != nil {
			t.Errorf("Set(%q) error: %v", name, err)
		}
		if v, ok := f.Text(name); !ok || v != "x" {
			t.Errorf("Text(%q) = %q, %v", name, v, ok)
		}
	}
	if len(CheckFields()) != 6 {
		t.Errorf("CheckFields() = %v", CheckFields())
	}
}
