package pipeline

import (
	"strings"
	"sync"
	"testing"

	"webmclip/internal/model"
	"webmclip/internal/options"
	"webmclip/internal/tracks"
	"webmclip/internal/validate"
)

func testMedia(dur float64) model.MediaInfo {
	return model.MediaInfo{
		Path:        "/media/clip.mkv",
		DurationSec: dur,
		Tracks: []model.Track{
			{ID: 0, Type: model.TrackVideo, Codec: "mjpeg", AttachedPic: true},
			{ID: 1, Type: model.TrackVideo, Codec: "h264"},
			{ID: 2, Type: model.TrackAudio, Codec: "ac3", Channels: 6},
			{ID: 3, Type: model.TrackSubtitle, Codec: "ass"},
		},
	}
}

func mustApply(t *testing.T, s *Service, ev options.Event) Result {
	t.Helper()
	res, err := s.Apply(ev)
	if err != nil {
		t.Fatalf("Apply(%+v) error: %v", ev, err)
	}
	return res
}

func argText(res Result) string { return strings.Join(res.Args, " ") }

func TestServiceInitialPass(t *testing.T) {
	s := NewService(WithMedia(testMedia(60)))
	last, ok := s.Last()
	if !ok {
		t.Fatal("Last() reported no result after the initial pass")
	}
	want := "-i /media/clip.mkv -map 0:V:0 -map 0:a:0 -threads 8 -c:v libvpx-vp9"
	if got := argText(last); !strings.HasPrefix(got, want) {
		t.Errorf("initial args = %s, want prefix %s", got, want)
	}
	if !strings.Contains(argText(last), "-b:a 128k -ac 2") {
		t.Errorf("initial args should downmix 5.1: %s", argText(last))
	}
	if s.RawArgs() != last.Text {
		t.Errorf("RawArgs() = %q, want %q", s.RawArgs(), last.Text)
	}
}

func TestServiceStartOnly(t *testing.T) {
	s := NewService(WithMedia(testMedia(60)))
	res := mustApply(t, s, options.Edit("start", "00:00:10"))

	if !res.Valid() {
		t.Fatalf("pass invalid: %+v", res.Validation.Errors)
	}
	if res.Request.StartSec != 10 || res.Request.DurationSec != 50 {
		t.Errorf("window = %v+%v, want 10+50", res.Request.StartSec, res.Request.DurationSec)
	}
	if res.Request.HasEnd {
		t.Error("HasEnd = true with an empty end field")
	}
	if !strings.HasPrefix(argText(res), "-ss 10.000 -i /media/clip.mkv -map") {
		t.Errorf("args = %s", argText(res))
	}
	if res.Fields.MarkStart != 10 || res.Fields.MarkEnd != 60 {
		t.Errorf("markers = %v/%v, want 10/60", res.Fields.MarkStart, res.Fields.MarkEnd)
	}
}

func TestServiceCRFMode(t *testing.T) {
	s := NewService(WithMedia(testMedia(60)))
	mustApply(t, s, options.Edit("limit", "12"))
	res := mustApply(t, s, options.Check("modeCRF", true))

	if res.Fields.Limit != "0" {
		t.Errorf("limit field = %q, want 0", res.Fields.Limit)
	}
	if !res.Valid() {
		t.Fatalf("pass invalid: %+v", res.Validation.Errors)
	}
	if res.Request.Limit != 0 || res.Request.RateMode != model.RateCRF {
		t.Errorf("request limit/mode = %v/%s", res.Request.Limit, res.Request.RateMode)
	}
	if !strings.Contains(argText(res), "-b:v 0 -crf 25") {
		t.Errorf("args = %s", argText(res))
	}

	res = mustApply(t, s, options.Check("modeCRF", false))
	if res.Fields.Limit != "" {
		t.Errorf("leaving CRF left limit = %q", res.Fields.Limit)
	}
	if !strings.Contains(argText(res), "-b:v 964k") {
		t.Errorf("args after leaving CRF = %s", argText(res))
	}
}

func TestServiceAudioCodecSwitchClearsRate(t *testing.T) {
	s := NewService(WithMedia(testMedia(120)))
	mustApply(t, s, options.Edit("ab", "96"))
	res := mustApply(t, s, options.Select("acodec", "vorbis"))

	if res.Fields.AudioRate != "" {
		t.Errorf("ab = %q, want cleared", res.Fields.AudioRate)
	}
	if !res.Valid() {
		t.Fatalf("pass invalid: %+v", res.Validation.Errors)
	}
	// 8 MiB over 120s minus Vorbis q4 (128 kbps).
	if !strings.Contains(argText(res), "-b:v 418k") || !strings.Contains(argText(res), "-q:a 4") {
		t.Errorf("args = %s", argText(res))
	}
}

func TestServiceMarkers(t *testing.T) {
	s := NewService(WithMedia(testMedia(60)))
	mustApply(t, s, options.Mark("mstart", 5))
	res := mustApply(t, s, options.Mark("mend", 20))

	if res.Fields.Start != "00:00:05" || res.Fields.End != "00:00:20" {
		t.Errorf("start/end = %q/%q", res.Fields.Start, res.Fields.End)
	}
	if !strings.HasPrefix(argText(res), "-ss 5.000 -i /media/clip.mkv -t 15.000") {
		t.Errorf("args = %s", argText(res))
	}
	if res.Fields.MarkStart != 5 || res.Fields.MarkEnd != 20 {
		t.Errorf("markers = %v/%v", res.Fields.MarkStart, res.Fields.MarkEnd)
	}

	res = mustApply(t, s, options.Mark("mend", 60))
	if res.Fields.End != "" || res.Fields.MarkEnd != 60 {
		t.Errorf("end marker at source end: end=%q mend=%v", res.Fields.End, res.Fields.MarkEnd)
	}

	// A full-length window clears the end marker.
	res = mustApply(t, s, options.Mark("mstart", 0))
	if res.Fields.Start != "" || res.Fields.MarkStart != 0 || res.Fields.MarkEnd != 0 {
		t.Errorf("full window: start=%q markers=%v/%v", res.Fields.Start, res.Fields.MarkStart, res.Fields.MarkEnd)
	}
}

func TestServiceInvalidPassClearsRawArgs(t *testing.T) {
	s := NewService(WithMedia(testMedia(60)))
	good := mustApply(t, s, options.Edit("cropw", "640"))
	s.SetRawArgs(good.Text + " -an")

	res := mustApply(t, s, options.Edit("start", "abc"))
	if res.Valid() || res.Args != nil || res.Request != nil {
		t.Fatalf("invalid pass exposed arguments: %+v", res)
	}
	last, ok := s.Last()
	if !ok || last.Text != good.Text {
		t.Errorf("Last() = %q, want %q", last.Text, good.Text)
	}
	if s.RawArgs() != "" {
		t.Errorf("RawArgs() = %q after an invalid pass, want empty", s.RawArgs())
	}
	if s.Fields().Start != "abc" {
		t.Errorf("snapshot should keep the typed text, got %q", s.Fields().Start)
	}

	res = mustApply(t, s, options.Edit("start", ""))
	if !res.Valid() || s.RawArgs() != res.Text {
		t.Errorf("valid pass should replace the raw edit: %q", s.RawArgs())
	}
}

func TestServiceValidationErrors(t *testing.T) {
	tests := []struct {
		name      string
		events    []options.Event
		media     model.MediaInfo
		wantGroup validate.Group
		wantField string
		wantKind  func(error) bool
		wantMsg   string
	}{
		{
			name:      "bad start makes end depend on it",
			events:    []options.Event{options.Edit("start", "abc"), options.Edit("end", "00:00:20")},
			wantGroup: validate.GroupCodecs,
			wantField: "end",
			wantKind:  validate.IsDependency,
			wantMsg:   "depends on invalid start",
		},
		{
			name:      "end before start",
			events:    []options.Event{options.Edit("start", "30"), options.Edit("end", "20")},
			wantGroup: validate.GroupCodecs,
			wantField: "end",
			wantKind:  validate.IsRange,
			wantMsg:   "less than start",
		},
		{
			name:      "start past the source",
			events:    []options.Event{options.Edit("start", "60")},
			wantGroup: validate.GroupCodecs,
			wantField: "start",
			wantKind:  validate.IsRange,
		},
		{
			name:      "crop width not an int",
			events:    []options.Event{options.Edit("cropw", "12.5")},
			wantGroup: validate.GroupVideoFX,
			wantField: "cropw",
			wantKind:  validate.IsFormat,
			wantMsg:   "int required",
		},
		{
			name:      "padded number is not an int",
			events:    []options.Event{options.Edit("cropw", " 640 ")},
			wantGroup: validate.GroupVideoFX,
			wantField: "cropw",
			wantKind:  validate.IsFormat,
			wantMsg:   "int required",
		},
		{
			name:      "padded start is not a time",
			events:    []options.Event{options.Edit("start", " 10")},
			wantGroup: validate.GroupCodecs,
			wantField: "start",
			wantKind:  validate.IsFormat,
		},
		{
			name:      "amplify too high",
			events:    []options.Event{options.Edit("amplify", "65")},
			wantGroup: validate.GroupAudioFX,
			wantField: "amplify",
			wantKind:  validate.IsRange,
			wantMsg:   "must be between 1 and 64",
		},
		{
			name:      "vp8 quality floor",
			events:    []options.Event{options.Select("vcodec", "vp8"), options.Edit("quality", "3")},
			wantGroup: validate.GroupCodecs,
			wantField: "quality",
			wantKind:  validate.IsRange,
		},
		{
			name:      "opus bitrate ceiling",
			events:    []options.Event{options.Edit("ab", "600")},
			wantGroup: validate.GroupCodecs,
			wantField: "ab",
			wantKind:  validate.IsRange,
		},
		{
			name:      "vorbis quality must be an int",
			events:    []options.Event{options.Select("acodec", "vorbis"), options.Edit("ab", "4.5")},
			wantGroup: validate.GroupCodecs,
			wantField: "ab",
			wantKind:  validate.IsFormat,
		},
		{
			name:      "missing audio track",
			events:    []options.Event{options.Select("atrackn", "3")},
			wantGroup: validate.GroupAudioFX,
			wantField: "atrackn",
			wantKind:  validate.IsRange,
			wantMsg:   "no such track",
		},
		{
			name:      "cover art is not selectable",
			events:    []options.Event{options.Select("vtrackn", "1")},
			wantGroup: validate.GroupVideoFX,
			wantField: "vtrackn",
			wantKind:  validate.IsRange,
		},
		{
			name:      "burning subtitles needs a subtitle track",
			events:    []options.Event{options.Select("strackn", "-1"), options.Check("burnSubs", true)},
			wantGroup: validate.GroupVideoFX,
			wantField: "strackn",
			wantKind:  validate.IsRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			media := tt.media
			if media.DurationSec == 0 {
				media = testMedia(60)
			}
			s := NewService(WithMedia(media))
			var res Result
			for _, ev := range tt.events {
				res = mustApply(t, s, ev)
			}
			if res.Validation.AllValid {
				t.Fatal("AllValid = true, want false")
			}
			var found *validate.FieldError
			for _, fe := range res.Validation.Group(tt.wantGroup) {
				if fe.Field == tt.wantField {
					fe := fe
					found = &fe
				}
			}
			if found == nil {
				t.Fatalf("no %s error in group %s: %+v", tt.wantField, tt.wantGroup, res.Validation.Errors)
			}
			if !tt.wantKind(found.Err) {
				t.Errorf("%s error = %T (%v)", tt.wantField, found.Err, found.Err)
			}
			if tt.wantMsg != "" && found.Message != tt.wantMsg {
				t.Errorf("%s message = %q, want %q", tt.wantField, found.Message, tt.wantMsg)
			}
		})
	}
}

func TestServiceCollectsAllErrors(t *testing.T) {
	s := NewService(WithMedia(testMedia(60)))
	f := s.Fields()
	f.CropW = "x"
	f.FadeIn = "0"
	f.Limit = "-1"
	res, err := s.Submit(f, options.Edit("quality", "99"))
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if got := res.Validation.Count(); got != 4 {
		t.Errorf("Count() = %d, want 4: %+v", got, res.Validation.Errors)
	}
	for _, g := range validate.Groups {
		if len(res.Validation.Group(g)) == 0 {
			t.Errorf("group %s has no errors", g)
		}
	}
}

func TestServiceScaleKeepsAspect(t *testing.T) {
	s := NewService(WithMedia(testMedia(60)))
	res := mustApply(t, s, options.Edit("scalew", "640"))
	if !strings.Contains(argText(res), "-vf scale=640:-1") {
		t.Errorf("args = %s", argText(res))
	}
}

func TestServiceBurnSubsWithStart(t *testing.T) {
	s := NewService(WithMedia(testMedia(60)))
	mustApply(t, s, options.Edit("start", "2.5"))
	res := mustApply(t, s, options.Check("burnSubs", true))
	want := `-vf setpts=PTS+2.5/TB,subtitles='/media/clip.mkv':si=0,setpts=PTS-STARTPTS`
	if !strings.Contains(argText(res), want) {
		t.Errorf("args = %s\nwant %s", argText(res), want)
	}
}

func TestServiceWithFields(t *testing.T) {
	f := options.Defaults(testMediaCatalog())
	f.VideoCodec = model.CodecVP8
	f.Quality = "10"
	s := NewService(WithMedia(testMedia(60)), WithFields(f))
	last, ok := s.Last()
	if !ok {
		t.Fatal("seeded service produced no result")
	}
	if !strings.Contains(argText(last), "-c:v libvpx -speed 0") || !strings.Contains(argText(last), "-crf 10") {
		t.Errorf("args = %s", argText(last))
	}
}

func TestServiceApplyError(t *testing.T) {
	s := NewService(WithMedia(testMedia(60)))
	before := s.Fields()
	if _, err := s.Apply(options.Select("vcodec", "h264")); err == nil {
		t.Fatal("Apply() accepted an unsupported codec")
	}
	if s.Fields() != before {
		t.Error("failed Apply() changed the snapshot")
	}
}

func TestServiceConcurrentApply(t *testing.T) {
	s := NewService(WithMedia(testMedia(60)))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_, _ = s.Apply(options.Check("deinterlace", j%2 == 0))
				_, _ = s.Last()
			}
		}()
	}
	wg.Wait()
	if _, ok := s.Last(); !ok {
		t.Error("Last() empty after concurrent passes")
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	media := testMedia(60)
	cat := testMediaCatalog()
	f := options.Defaults(cat)
	f.Start = "1.5"
	f.FadeOut = "2"
	a := Evaluate(media, cat, f)
	b := Evaluate(media, cat, f)
	if a.Text != b.Text || a.Text == "" {
		t.Errorf("Evaluate() not deterministic: %q vs %q", a.Text, b.Text)
	}
}

func testMediaCatalog() tracks.Catalog { return tracks.New(testMedia(60).Tracks) }
