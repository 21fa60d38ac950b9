package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newSamplesCmd(opts *rootOptions) *cobra.Command {
	var (
		kind   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "samples",
		Short: "Run the built-in sample texts through the pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, release, err := opts.service(ctx, false)
			if err != nil {
				return err
			}
			defer release()

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

			switch kind {
			case "relevance":
				results := svc.RunRelevanceSamples(ctx)
				if asJSON {
					return json.NewEncoder(out).Encode(results)
				}
				fmt.Fprintln(tw, "TEXT\tTOP\tRELEVANCE\tEXPECTED")
				for _, r := range results {
					if r.Error != "" {
						fmt.Fprintf(tw, "%s\terror: %s\t\t%s\n", r.Text, r.Error, r.Description)
						continue
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Text, r.TopEmotion, r.RelevanceStatus, r.Description)
				}
			case "model":
				results := svc.RunModelSamples(ctx)
				if asJSON {
					return json.NewEncoder(out).Encode(results)
				}
				fmt.Fprintln(tw, "TEXT\tTOP\tCONFIDENCE\tRELEVANCE")
				for _, r := range results {
					if r.Error != "" {
						fmt.Fprintf(tw, "%s\terror: %s\t\t\n", r.Text, r.Error)
						continue
					}
					fmt.Fprintf(tw, "%s\t%s\t%.3f\t%s\n", r.Text, r.TopEmotion.Label, r.TopEmotion.Confidence, r.EmojiRelevance)
				}
			default:
				return fmt.Errorf("unknown sample kind %q (want relevance or model)", kind)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "relevance", "sample battery to run: relevance or model")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	return cmd
}
