package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"webmclip/internal/ui"
)

func newEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <input>",
		Short: "Edit clip options interactively and print the accepted arguments",
		Long: "edit opens a form over the source's option fields. Every change re-validates the " +
			"whole form; ctrl+s accepts the current argument line and prints it.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stderr.Fd())) {
				return &ExitError{Code: ExitCLIError, Err: errors.New("edit needs an interactive terminal; use 'compile' instead")}
			}
			info, err := loadMedia(cmd, args)
			if err != nil {
				return err
			}
			svc, _, err := newSession(cmd, info)
			if err != nil {
				return err
			}

			line, ok, err := ui.Run(cmd.Context(), svc)
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			if !ok {
				loggerFrom(cmd).Info("edit cancelled")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
			return savePresetIfRequested(cmd, svc.Fields())
		},
	}
	bindSourceFlags(cmd.Flags())
	bindFieldFlags(cmd.Flags())
	return cmd
}
