package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johnsaigle/repo-showcase/pkg/controller"
	"github.com/johnsaigle/repo-showcase/pkg/formatter"
	"github.com/johnsaigle/repo-showcase/pkg/view"
)

type listOptions struct {
	language    string
	search      string
	sort        string
	format      string
	verbose     bool
	failOnEmpty bool
}

func newListCmd(root *rootOptions) *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the account's repositories",
		Long: `Load the account's repositories (from the session cache when fresh) and
print them filtered by language, searched and sorted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.language, "language", "l", "all", "language filter: all, other or a language name")
	cmd.Flags().StringVarP(&opts.search, "search", "q", "", "case-insensitive search over name, description and topics")
	cmd.Flags().StringVarP(&opts.sort, "sort", "s", string(view.SortUpdated), "sort key: updated, stars or name")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "console", "output format: console, json or markdown")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "show topics and update dates")
	cmd.Flags().BoolVar(&opts.failOnEmpty, "fail-empty", false, "exit with status 1 when nothing matches")

	return cmd
}

func runList(cmd *cobra.Command, root *rootOptions, opts *listOptions) error {
	sortKey, err := view.ParseSortKey(opts.sort)
	if err != nil {
		return err
	}

	fmtr, err := formatter.New(opts.format, formatter.Options{
		Verbose:     opts.verbose,
		FailOnEmpty: opts.failOnEmpty,
	})
	if err != nil {
		return err
	}

	a, err := root.open(cmd, true, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	ctrl := controller.New(a.fetcher, a.cfg.Account,
		controller.WithLogger(a.logger),
		controller.WithCriteria(view.Criteria{
			Language: view.ParseLanguageFilter(opts.language),
			Query:    opts.search,
			Sort:     sortKey,
		}),
	)
	defer ctrl.Close()

	<-ctrl.Mount(cmd.Context())

	state := ctrl.State()
	if state.Status == controller.StatusFailed {
		return &ExitError{Code: 1, Err: errors.New(state.Message)}
	}

	listing := formatter.Listing{
		Account:  state.Account,
		Criteria: state.Criteria,
		Records:  state.Records,
		Total:    state.Total,
	}

	if err := fmtr.Format(cmd.OutOrStdout(), listing); err != nil {
		return fmt.Errorf("write listing: %w", err)
	}

	if code := fmtr.ShouldExit(listing); code != 0 {
		return &ExitError{Code: code}
	}

	return nil
}
