package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pscheid92/moodmatch/internal/app"
	"github.com/pscheid92/moodmatch/internal/domain"
)

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var (
		page     int
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded analyses, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, release, err := opts.service(ctx, true)
			if err != nil {
				return err
			}
			defer release()

			p, err := svc.History(ctx, page, pageSize)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CREATED\tTOP\tRELEVANCE\tTEXT")
			for _, e := range p.Entries {
				top, _ := e.Scores.Top()
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.CreatedAt.Local().Format(time.DateTime), top, relevanceLabel(e), app.Preview(e.Text))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "page %d of %d (%d entries)\n", p.Page, max(p.Pages(), 1), p.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page to show")
	cmd.Flags().IntVar(&pageSize, "page-size", 10, "entries per page")
	return cmd
}

func relevanceLabel(e domain.HistoryEntry) string {
	if e.EmojiRelevance == domain.RelevanceNoEmojis {
		return string(e.EmojiRelevance)
	}
	return fmt.Sprintf("%s (%.2f)", e.EmojiRelevance, e.RelevanceScore)
}
