package cmd

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/johnsaigle/repo-showcase/pkg/types"
)

func newCacheCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or manage the cached repository snapshot",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "status",
			Short: "Show the cached snapshot",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runCacheStatus(cmd, root)
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Drop the cached snapshot",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := root.open(cmd, false, nil)
				if err != nil {
					return err
				}
				defer a.Close()

				if err := a.cache.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
				return nil
			},
		},
		&cobra.Command{
			Use:   "warm",
			Short: "Replace the snapshot with a fresh listing",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runCacheWarm(cmd, root)
			},
		},
	)

	return cmd
}

func runCacheStatus(cmd *cobra.Command, root *rootOptions) error {
	a, err := root.open(cmd, false, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	status, err := a.cache.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("read cache status: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Session backend: %s\n", a.cfg.Session.Backend)
	if !status.Present {
		fmt.Fprintln(w, "No cached snapshot.")
		return nil
	}

	state := "fresh"
	if status.Expired {
		state = "expired"
	}
	fmt.Fprintf(w, "Snapshot:        %s\n", state)
	fmt.Fprintf(w, "Records:         %d\n", status.Records)
	fmt.Fprintf(w, "Fetched at:      %s (%s ago)\n", status.FetchedAt.Local().Format(time.RFC3339), status.Age.Truncate(time.Second))
	fmt.Fprintf(w, "Expires at:      %s\n", status.ExpiresAt.Local().Format(time.RFC3339))
	return nil
}

func runCacheWarm(cmd *cobra.Command, root *rootOptions) error {
	a, err := root.open(cmd, true, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if err := a.cache.Clear(ctx); err != nil {
		return err
	}

	records, err := a.fetcher.Fetch(ctx, a.cfg.Account)
	if err != nil {
		return &ExitError{Code: 1, Err: errors.New(types.UserMessage(err))}
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Cached %d repositories for %s\n", len(records), a.cfg.Account)
	writeLanguageStats(w, records)
	return nil
}

// writeLanguageStats prints a per-language breakdown, largest first.
func writeLanguageStats(w io.Writer, records []types.Repository) {
	if len(records) == 0 {
		return
	}

	counts := map[string]int{}
	for _, r := range records {
		lang := r.GetLanguage()
		if lang == "" {
			lang = "(none)"
		}
		counts[lang]++
	}

	type stat struct {
		language string
		count    int
	}
	stats := make([]stat, 0, len(counts))
	for lang, n := range counts {
		stats = append(stats, stat{lang, n})
	}
	slices.SortFunc(stats, func(a, b stat) int {
		if c := cmp.Compare(b.count, a.count); c != 0 {
			return c
		}
		return cmp.Compare(a.language, b.language)
	})

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Languages:")
	for _, s := range stats {
		fmt.Fprintf(w, "  %-14s %3d (%.1f%%)\n", s.language, s.count, float64(s.count)/float64(len(records))*100)
	}
}
