package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/johnsaigle/repo-showcase/pkg/controller"
	"github.com/johnsaigle/repo-showcase/pkg/tui"
)

func newBrowseCmd(root *rootOptions) *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Interactively browse the account's repositories",
		Long: `Open a terminal browser over the account's repositories.

Keys: / search, tab cycle language, s cycle sort, r refresh or retry, q quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The browser owns the terminal, so logs go to a file or nowhere.
			var logOut io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer f.Close()
				logOut = f
			}

			a, err := root.open(cmd, true, logOut)
			if err != nil {
				return err
			}
			defer a.Close()

			ctrl := controller.New(a.fetcher, a.cfg.Account, controller.WithLogger(a.logger))
			defer ctrl.Close()

			return tui.Run(cmd.Context(), ctrl)
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file while browsing")

	return cmd
}
