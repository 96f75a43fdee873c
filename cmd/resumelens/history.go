package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/resumelens/internal/model"
	"github.com/amishk599/resumelens/internal/report"
)

var (
	historyLimit int
	historyPrune time.Duration
)

// historyPruner is implemented by stores that can drop old entries.
type historyPruner interface {
	Cleanup(olderThan time.Duration) error
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent analyses",
	Long:  "Prints the most recent results recorded in the local history database. Requires history.enabled in the config.",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of entries to show")
	historyCmd.Flags().DurationVar(&historyPrune, "prune", 0, "first delete entries older than this (e.g. 720h)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	s, err := newSession(io.Discard)
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	if !s.cfg.History.Enabled {
		fmt.Fprintln(out, "History is disabled. Set history.enabled: true in the config to record results.")
		return nil
	}

	if historyPrune > 0 {
		if p, ok := s.history.(historyPruner); ok {
			if err := p.Cleanup(historyPrune); err != nil {
				return fmt.Errorf("prune history: %w", err)
			}
		}
	}

	entries, err := s.history.Recent(historyLimit)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	printHistory(out, entries)
	return nil
}

func printHistory(w io.Writer, entries []model.HistoryEntry) {
	fmt.Fprintf(w, "%-17s %-8s %-25s %-8s %-10s %s\n", "When", "Action", "Resume", "Status", "Similarity", "Summary")
	fmt.Fprintln(w, strings.Repeat("─", 100))

	for _, e := range entries {
		similarity := "-"
		if e.Similarity != nil {
			similarity = report.FormatPercent(*e.Similarity)
		}
		fmt.Fprintf(w, "%-17s %-8s %-25s %-8s %-10s %s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
			e.Action,
			clip(e.ResumeName, 25),
			e.Status,
			similarity,
			clip(e.Summary, 40),
		)
	}

	fmt.Fprintf(w, "\nShowing %d entries\n", len(entries))
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
