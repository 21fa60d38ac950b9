package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pscheid92/moodmatch/internal/domain"
)

func newAnalyzeCmd(opts *rootOptions) *cobra.Command {
	var (
		asJSON bool
		save   bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [text...]",
		Short: "Analyze the emotion of a text and the fit of its emoji",
		Long:  `Analyze the text given as arguments, or standard input when there are none.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				in, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				text = string(in)
			}

			ctx := cmd.Context()
			svc, release, err := opts.service(ctx, save)
			if err != nil {
				return err
			}
			defer release()

			var result *domain.AnalysisResult
			if save {
				result, err = svc.Analyze(ctx, text)
			} else {
				result, err = svc.Evaluate(ctx, text)
			}
			if errors.Is(err, domain.ErrEmptyText) {
				return errors.New("no text provided")
			}
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			return printResult(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	cmd.Flags().BoolVar(&save, "save", false, "record the analysis in the history store")
	return cmd
}

func printResult(out io.Writer, r *domain.AnalysisResult) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "Top emotion:\t%s (%.3f)\n", r.TopEmotion.Label, r.TopEmotion.Confidence)
	for _, e := range domain.AllEmotions {
		fmt.Fprintf(tw, "  %s\t%.3f\n", e, r.EmotionScores[e])
	}

	if r.EmojiRelevance == nil {
		fmt.Fprintf(tw, "Emoji relevance:\t%s\n", domain.RelevanceNoEmojis)
	} else {
		fmt.Fprintf(tw, "Emoji relevance:\t%s (%.2f)\n", r.EmojiRelevance.OverallStatus, r.EmojiRelevance.OverallScore)
		for _, a := range r.EmojiAnalysis {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%.2f\n", a.Emoji, a.Emotion, a.Relevance, a.RelevanceScore)
		}
	}

	fmt.Fprintf(tw, "Suggested emoji:\t%s\n", strings.Join(r.SuggestedEmojis, " "))
	if r.HistoryID != nil {
		fmt.Fprintf(tw, "History ID:\t%s\n", *r.HistoryID)
	}
	return tw.Flush()
}
