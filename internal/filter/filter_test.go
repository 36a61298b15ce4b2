package filter

import (
	"testing"

	"webmclip/internal/model"
)

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

func TestVideo(t *testing.T) {
	tests := []struct {
		name string
		req  model.EncodeRequest
		want string
	}{
		{
			name: "no stages",
			req:  model.EncodeRequest{},
			want: "",
		},
		{
			name: "deinterlace only",
			req:  model.EncodeRequest{Deinterlace: true},
			want: "yadif",
		},
		{
			name: "partial crop",
			req:  model.EncodeRequest{Crop: model.Crop{W: intp(640), Y: intp(0)}},
			want: "crop=w=640:y=0",
		},
		{
			name: "full crop keeps w h x y order",
			req:  model.EncodeRequest{Crop: model.Crop{Y: intp(4), X: intp(3), H: intp(2), W: intp(1)}},
			want: "crop=w=1:h=2:x=3:y=4",
		},
		{
			name: "scale width only keeps aspect",
			req:  model.EncodeRequest{Scale: model.Scale{W: intp(640)}},
			want: "scale=640:-1",
		},
		{
			name: "scale height only keeps aspect",
			req:  model.EncodeRequest{Scale: model.Scale{H: intp(360)}},
			want: "scale=-1:360",
		},
		{
			name: "scale both",
			req:  model.EncodeRequest{Scale: model.Scale{W: intp(1280), H: intp(720)}},
			want: "scale=1280:720",
		},
		{
			name: "subtitles without start",
			req:  model.EncodeRequest{InputPath: "/v/a.mkv", BurnSubs: true, SubtitleTrack: 1},
			want: `subtitles='/v/a.mkv':si=1`,
		},
		{
			name: "subtitles with start wrap pts",
			req:  model.EncodeRequest{InputPath: "/v/a.mkv", BurnSubs: true, StartSec: 12.5},
			want: `setpts=PTS+12.5/TB,subtitles='/v/a.mkv':si=0,setpts=PTS-STARTPTS`,
		},
		{
			name: "speed",
			req:  model.EncodeRequest{Speed: floatp(0.5)},
			want: "setpts=PTS*0.5",
		},
		{
			name: "all stages in order",
			req: model.EncodeRequest{
				InputPath:   "in.mkv",
				Deinterlace: true,
				Crop:        model.Crop{W: intp(100)},
				Scale:       model.Scale{W: intp(50), H: intp(40)},
				BurnSubs:    true,
				StartSec:    10,
				Speed:       floatp(2),
			},
			want: `yadif,crop=w=100,scale=50:40,setpts=PTS+10/TB,subtitles='in.mkv':si=0,setpts=PTS-STARTPTS,setpts=PTS*2`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Video(tt.req); got != tt.want {
				t.Errorf("Video() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAudio(t *testing.T) {
	tests := []struct {
		name string
		req  model.EncodeRequest
		want string
	}{
		{name: "no stages", req: model.EncodeRequest{DurationSec: 10}, want: ""},
		{name: "amplify", req: model.EncodeRequest{Amplify: intp(8)}, want: "acompressor=makeup=8"},
		{name: "fade in", req: model.EncodeRequest{FadeIn: floatp(1.5)}, want: "afade=t=in:d=1.5"},
		{
			name: "fade out lands at end of trimmed output",
			req:  model.EncodeRequest{StartSec: 30, DurationSec: 20, FadeOut: floatp(2)},
			want: "afade=t=out:d=2:st=18.000",
		},
		{
			name: "fade out three decimals",
			req:  model.EncodeRequest{DurationSec: 10.3333, FadeOut: floatp(0.5)},
			want: "afade=t=out:d=0.5:st=9.833",
		},
		{
			name: "amplify before fades",
			req:  model.EncodeRequest{DurationSec: 60, Amplify: intp(2), FadeIn: floatp(1), FadeOut: floatp(3)},
			want: "acompressor=makeup=2,afade=t=in:d=1,afade=t=out:d=3:st=57.000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Audio(tt.req); got != tt.want {
				t.Errorf("Audio() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEscapeArg(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "/media/clip.mkv", want: `'/media/clip.mkv'`},
		{name: "backslash", in: `C\dir`, want: `'C\\dir'`},
		{name: "quote", in: `it's`, want: `'it'\\\''s'`},
		{name: "colon", in: `C:x`, want: `'C\:x'`},
		{name: "backslash quote and colon", in: `a\b'c:d`, want: `'a\\b'\\\''c\:d'`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeArg(tt.in); got != tt.want {
				t.Errorf("EscapeArg(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
