package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pscheid92/moodmatch/internal/app"
)

func newPruneCmd(opts *rootOptions) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete history entries older than a given age",
		Example: `  moodctl prune --older-than 720h`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				return errors.New("--older-than must be a positive duration")
			}

			ctx := cmd.Context()
			history, release, err := opts.history(ctx)
			if err != nil {
				return err
			}
			defer release()

			retention := app.NewRetention(history, olderThan, nil, nil)
			n, err := retention.Prune(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d entries created before %s\n", n, retention.Cutoff().Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "minimum age of entries to delete, e.g. 720h")
	_ = cmd.MarkFlagRequired("older-than")
	return cmd
}
