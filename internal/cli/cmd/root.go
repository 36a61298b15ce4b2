package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"webmclip/internal/config"
	"webmclip/internal/logging"
)

const (
	ExitOK             = 0
	ExitCLIError       = 1
	ExitMissingDep     = 2
	ExitProbeError     = 3
	ExitInvalidOptions = 4
)

// ExitError wraps an error with a process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

type ctxKey string

const loggerKey ctxKey = "logger"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "webmclip",
		Short: "Compile ffmpeg WebM encode options for a clip",
		Long: "webmclip turns a source file's tracks and a handful of clip options (trim, crop, scale, " +
			"fades, codec and size limit) into a validated, ordered ffmpeg argument list for VP8/VP9 WebM encodes.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.Init(cmd.Root()); err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			s := config.Current()
			logger, err := logging.New(logging.Options{
				Level:  s.LogLevel,
				Format: s.LogFormat,
				Output: cmd.ErrOrStderr(),
			})
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			cmd.SetContext(context.WithValue(cmd.Context(), loggerKey, logger))
			return nil
		},
	}

	// Persistent flags available to all subcommands
	root.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")
	root.PersistentFlags().String("log-format", "text", "Log format: text, json")
	root.PersistentFlags().String("ffprobe", "", "Path to ffprobe")
	root.PersistentFlags().BoolP("verbose", "v", false, "Show full subprocess commands/output")

	// Subcommands
	root.AddCommand(newCompileCmd())
	root.AddCommand(newEditCmd())
	root.AddCommand(newTracksCmd())
	root.AddCommand(newDoctorCmd())
	root.AddCommand(newCompletionCmd())

	return root
}

// Execute runs the CLI with the provided context.
func Execute(ctx context.Context) error {
	root := newRootCmd()
	return root.ExecuteContext(ctx)
}

// Helpers
func loggerFrom(cmd *cobra.Command) *slog.Logger {
	if l, ok := cmd.Context().Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return logging.NewNop()
}

func getPersistentBool(cmd *cobra.Command, name string, def bool) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return def
	}
	return v
}
