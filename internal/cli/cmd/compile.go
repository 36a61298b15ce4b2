package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"webmclip/internal/config"
	"webmclip/internal/dirs"
	"webmclip/internal/model"
	"webmclip/internal/options"
	"webmclip/internal/pipeline"
	"webmclip/internal/util"
	"webmclip/internal/util/bitrate"
	"webmclip/internal/util/format"
	"webmclip/internal/util/media"
	"webmclip/internal/validate"
)

const (
	outputText    = "text"
	outputCommand = "command"
	outputJSON    = "json"
	outputYAML    = "yaml"
)

var nullDevice = func() string {
	if runtime.GOOS == "windows" {
		return "NUL"
	}
	return "/dev/null"
}()

type reportError struct {
	Group   string `json:"group" yaml:"group"`
	Field   string `json:"field" yaml:"field"`
	Message string `json:"message" yaml:"message"`
}

type compileReport struct {
	Input         string         `json:"input" yaml:"input"`
	Valid         bool           `json:"valid" yaml:"valid"`
	StartSec      float64        `json:"start_sec,omitempty" yaml:"start_sec,omitempty"`
	DurationSec   float64        `json:"duration_sec,omitempty" yaml:"duration_sec,omitempty"`
	VideoBitrate  string         `json:"video_bitrate,omitempty" yaml:"video_bitrate,omitempty"`
	EstimatedSize string         `json:"estimated_size,omitempty" yaml:"estimated_size,omitempty"`
	Output        string         `json:"output,omitempty" yaml:"output,omitempty"`
	Args          []string       `json:"args,omitempty" yaml:"args,omitempty"`
	Command       string         `json:"command,omitempty" yaml:"command,omitempty"`
	Errors        []reportError  `json:"errors,omitempty" yaml:"errors,omitempty"`
	Fields        options.Fields `json:"fields" yaml:"fields"`
}

func newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <input>",
		Short: "Validate clip options and print the ffmpeg arguments",
		Example: `  webmclip compile movie.mkv --start 1:30 --end 2:00 --limit 4
  webmclip compile movie.mkv --mode crf --quality 30 --no-audio -O command
  webmclip compile --probe-json probe.json movie.mkv -O json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outFmt, _ := cmd.Flags().GetString("output")
			if outFmt == "" {
				outFmt = config.Current().Output
			}
			switch outFmt {
			case outputText, outputCommand, outputJSON, outputYAML:
			default:
				return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("unknown output format %q (text, command, json, yaml)", outFmt)}
			}

			info, err := loadMedia(cmd, args)
			if err != nil {
				return err
			}
			svc, res, err := newSession(cmd, info)
			if err != nil {
				return err
			}

			outDir, _ := cmd.Flags().GetString("out-dir")
			if outDir == "" {
				outDir = config.Current().OutputDir
			}
			if outDir == "" {
				if outDir, err = dirs.DefaultOutputDir(); err != nil {
					return &ExitError{Code: ExitCLIError, Err: err}
				}
			}

			ffmpeg := config.Current().FFmpeg
			if ffmpeg == "" {
				ffmpeg = "ffmpeg"
			}
			rep := buildReport(ffmpeg, info.Path, outDir, res)
			out := cmd.OutOrStdout()
			switch outFmt {
			case outputJSON:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(rep); err != nil {
					return &ExitError{Code: ExitCLIError, Err: err}
				}
			case outputYAML:
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(rep); err != nil {
					return &ExitError{Code: ExitCLIError, Err: err}
				}
				_ = enc.Close()
			default:
				if !res.Valid() {
					fmt.Fprintln(cmd.ErrOrStderr(), renderErrors(res.Validation))
					break
				}
				if outFmt == outputCommand {
					writeCommands(out, ffmpeg, res, rep.Output)
				} else {
					fmt.Fprintln(out, res.Text)
				}
			}

			if !res.Valid() {
				return &ExitError{
					Code: ExitInvalidOptions,
					Err:  fmt.Errorf("%d invalid field(s)", res.Validation.Count()),
				}
			}
			loggerFrom(cmd).Info("compiled",
				"args", len(res.Args),
				"estimated_size", rep.EstimatedSize,
			)
			return savePresetIfRequested(cmd, svc.Fields())
		},
	}

	fs := cmd.Flags()
	bindSourceFlags(fs)
	bindFieldFlags(fs)
	fs.StringP("output", "O", "", "Output format: text, command, json, yaml (default from config)")
	fs.String("out-dir", "", "Directory for the output file named in command/json/yaml output")
	return cmd
}

func buildReport(ffmpeg, input, outDir string, res pipeline.Result) compileReport {
	rep := compileReport{
		Input:  input,
		Valid:  res.Valid(),
		Fields: res.Fields,
	}
	if !rep.Valid {
		rep.Errors = collectErrors(res.Validation)
		return rep
	}
	req := *res.Request
	rep.StartSec = req.StartSec
	rep.DurationSec = req.DurationSec
	rep.Args = res.Args
	rep.Output = media.OutputPath(outDir, req)
	rep.Command = util.QuoteCommand(ffmpeg, append(append([]string{}, res.Args...), rep.Output))
	if n := bitrate.EstimateBytes(req); n > 0 {
		rep.EstimatedSize = format.Size(n)
	}
	switch req.RateMode {
	case model.RateLimit:
		rep.VideoBitrate = format.Kbps(float64(bitrate.ForRequest(req)))
	case model.RateBitrate:
		rep.VideoBitrate = format.Kbps(req.Limit)
	}
	return rep
}

func collectErrors(r validate.Result) []reportError {
	var errs []reportError
	for _, g := range validate.Groups {
		for _, fe := range r.Group(g) {
			errs = append(errs, reportError{Group: string(g), Field: fe.Field, Message: fe.Message})
		}
	}
	return errs
}

func renderErrors(r validate.Result) string {
	var rows [][]string
	for _, e := range collectErrors(r) {
		rows = append(rows, []string{e.Group, e.Field, e.Message})
	}
	return renderTable([]string{"Group", "Field", "Error"}, rows, nil)
}

// writeCommands prints runnable ffmpeg command lines. Two-pass encodes get
// an analysis pass that discards its output.
func writeCommands(w io.Writer, ffmpeg string, res pipeline.Result, output string) {
	base := append([]string{"-hide_banner"}, res.Args...)
	if !res.Request.TwoPass {
		fmt.Fprintln(w, util.QuoteCommand(ffmpeg, append(base, "-y", output)))
		return
	}
	pass1 := append(append([]string{}, base...), "-pass", "1", "-f", "webm", "-y", nullDevice)
	pass2 := append(append([]string{}, base...), "-pass", "2", "-y", output)
	fmt.Fprintln(w, strings.Join([]string{
		util.QuoteCommand(ffmpeg, pass1),
		util.QuoteCommand(ffmpeg, pass2),
	}, " && \\\n  "))
}
