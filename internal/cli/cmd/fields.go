package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"webmclip/internal/config"
	"webmclip/internal/dirs"
	"webmclip/internal/model"
	"webmclip/internal/options"
	"webmclip/internal/pipeline"
	"webmclip/internal/preset"
	"webmclip/internal/tracks"
	"webmclip/internal/util/timecode"
)

var textFlagUsage = map[string]string{
	"cropw":   "Crop width in px",
	"croph":   "Crop height in px",
	"cropx":   "Crop left offset in px",
	"cropy":   "Crop top offset in px",
	"scalew":  "Output width in px (height keeps aspect when unset)",
	"scaleh":  "Output height in px (width keeps aspect when unset)",
	"speed":   "Presentation timestamp multiplier (2 = half speed)",
	"fadeIn":  "Audio fade-in length in seconds",
	"fadeOut": "Audio fade-out length in seconds",
	"amplify": "Audio makeup gain for the compressor (1-64)",
	"start":   "Trim start ([[HH:]MM:]SS[.fff])",
	"end":     "Trim end ([[HH:]MM:]SS[.fff])",
	"limit":   "Size limit in MiB, or video bitrate in kbps with --mode bitrate",
	"quality": "CRF value (VP9 0-63, VP8 4-63)",
	"ab":      "Opus bitrate in kbps (6-510) or Vorbis quality (-1-10)",
}

// flagName turns a field name like fadeIn into fade-in.
func flagName(field string) string {
	var b strings.Builder
	for _, r := range field {
		if unicode.IsUpper(r) {
			b.WriteByte('-')
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func bindFieldFlags(fs *pflag.FlagSet) {
	for _, name := range options.TextFields() {
		fs.String(flagName(name), "", textFlagUsage[name])
	}
	fs.String("vcodec", "", "Video codec: vp9, vp8 (default from config)")
	fs.String("acodec", "", "Audio codec: opus, vorbis (default from config)")
	fs.String("mode", "", "Rate control: limit, bitrate, crf (default from config)")
	fs.Int("vtrack", 0, "Video track index (see 'tracks')")
	fs.Int("atrack", 0, "Audio track index")
	fs.Int("strack", 0, "Subtitle track index to burn in")
	fs.Bool("deinterlace", false, "Deinterlace with yadif")
	fs.Bool("burn-subs", false, "Burn the selected subtitle track into the video")
	fs.Bool("no-audio", false, "Drop audio")
	fs.Bool("two-pass", true, "Two-pass encoding")
	fs.String("mark-start", "", "Move the start marker (rewrites --start)")
	fs.String("mark-end", "", "Move the end marker (rewrites --end)")
	fs.String("preset", "", "Load option fields from a preset name or .toml file")
	fs.String("save-preset", "", "Save the resulting fields as a preset")
}

// newSession builds the service for a source: per-source defaults, then
// config, then the preset, then explicit flags as edit events.
func newSession(cmd *cobra.Command, info model.MediaInfo) (*pipeline.Service, pipeline.Result, error) {
	fs := cmd.Flags()
	f := options.Defaults(tracks.New(info.Tracks))
	if err := config.Current().ApplyTo(&f); err != nil {
		return nil, pipeline.Result{}, &ExitError{Code: ExitCLIError, Err: err}
	}
	if name, _ := fs.GetString("preset"); name != "" {
		dir, _ := dirs.PresetDir()
		loaded, err := preset.Load(preset.Path(dir, name), f)
		if err != nil {
			return nil, pipeline.Result{}, &ExitError{Code: ExitCLIError, Err: err}
		}
		f = loaded
	}
	if fs.Changed("mode") {
		mode, _ := fs.GetString("mode")
		if err := config.ApplyRateMode(&f, mode); err != nil {
			return nil, pipeline.Result{}, &ExitError{Code: ExitCLIError, Err: err}
		}
	}

	events, err := flagEvents(fs)
	if err != nil {
		return nil, pipeline.Result{}, &ExitError{Code: ExitCLIError, Err: err}
	}

	svc := pipeline.NewService(
		pipeline.WithMedia(info),
		pipeline.WithFields(f),
		pipeline.WithLogger(loggerFrom(cmd)),
	)
	res := svc.Current()
	for _, ev := range events {
		res, err = svc.Apply(ev)
		if err != nil {
			return nil, pipeline.Result{}, &ExitError{Code: ExitCLIError, Err: err}
		}
	}
	return svc, res, nil
}

// flagEvents converts changed flags into events: selections, then checks,
// then text fields, then markers.
func flagEvents(fs *pflag.FlagSet) ([]options.Event, error) {
	var events []options.Event
	str := func(name string) string {
		v, _ := fs.GetString(name)
		return v
	}
	num := func(name string) string {
		v, _ := fs.GetInt(name)
		return strconv.Itoa(v)
	}
	on := func(name string) bool {
		v, _ := fs.GetBool(name)
		return v
	}

	for _, sel := range []struct{ flag, field string }{
		{"vcodec", "vcodec"}, {"acodec", "acodec"},
	} {
		if fs.Changed(sel.flag) {
			events = append(events, options.Select(sel.field, str(sel.flag)))
		}
	}
	for _, sel := range []struct{ flag, field string }{
		{"vtrack", "vtrackn"}, {"atrack", "atrackn"}, {"strack", "strackn"},
	} {
		if fs.Changed(sel.flag) {
			events = append(events, options.Select(sel.field, num(sel.flag)))
		}
	}

	if fs.Changed("deinterlace") {
		events = append(events, options.Check("deinterlace", on("deinterlace")))
	}
	if fs.Changed("burn-subs") {
		events = append(events, options.Check("burnSubs", on("burn-subs")))
	}
	if fs.Changed("no-audio") {
		events = append(events, options.Check("hasAudio", !on("no-audio")))
	}
	if fs.Changed("two-pass") {
		events = append(events, options.Check("mode2Pass", on("two-pass")))
	}

	for _, name := range options.TextFields() {
		if fs.Changed(flagName(name)) {
			events = append(events, options.Edit(name, str(flagName(name))))
		}
	}

	for _, m := range []struct{ flag, field string }{
		{"mark-start", "mstart"}, {"mark-end", "mend"},
	} {
		if !fs.Changed(m.flag) {
			continue
		}
		sec, err := timecode.Parse(str(m.flag))
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", m.flag, err)
		}
		events = append(events, options.Mark(m.field, sec))
	}
	return events, nil
}

func savePresetIfRequested(cmd *cobra.Command, f options.Fields) error {
	name, _ := cmd.Flags().GetString("save-preset")
	if name == "" {
		return nil
	}
	dir, err := dirs.PresetDir()
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	path := preset.Path(dir, name)
	if err := preset.Save(path, name, f); err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	loggerFrom(cmd).Info("saved preset", "path", path)
	return nil
}
