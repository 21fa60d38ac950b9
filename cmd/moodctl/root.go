package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/pscheid92/moodmatch/internal/app"
	"github.com/pscheid92/moodmatch/internal/bootstrap"
	"github.com/pscheid92/moodmatch/internal/domain"
	"github.com/pscheid92/moodmatch/internal/lexicon"
	"github.com/pscheid92/moodmatch/internal/platform/config"
	"github.com/pscheid92/moodmatch/internal/platform/logging"
	"github.com/pscheid92/moodmatch/internal/platform/version"
)

// env is what the commands need from the outside world.
type env struct {
	loadConfig func() (*config.Config, error)
}

func defaultEnv() env {
	return env{loadConfig: config.Load}
}

type rootOptions struct {
	env       env
	logLevel  string
	heuristic bool
}

func newRootCmd(e env) *cobra.Command {
	opts := &rootOptions{env: e}

	root := &cobra.Command{
		Use:           "moodctl",
		Short:         "Emotion and emoji relevance analysis",
		Long:          `Classify the emotion of text, judge whether its emoji fit, and maintain the analysis history.`,
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), opts.logLevel, "text"))
		},
	}

	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&opts.heuristic, "heuristic", false, "score with the keyword heuristic even when a model is configured")

	root.AddCommand(
		newAnalyzeCmd(opts),
		newSamplesCmd(opts),
		newHistoryCmd(opts),
		newPruneCmd(opts),
	)
	return root
}

func (o *rootOptions) config() (*config.Config, error) {
	cfg, err := o.env.loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if o.heuristic {
		cfg.OpenAIAPIKey = ""
	}
	return cfg, nil
}

// service builds an analysis service. With withHistory the configured history
// store is opened and must be released with the returned func.
func (o *rootOptions) service(ctx context.Context, withHistory bool) (*app.Service, func(), error) {
	cfg, err := o.config()
	if err != nil {
		return nil, nil, err
	}

	lex, err := lexicon.Default()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load lexicon: %w", err)
	}

	deps := app.Deps{
		Lexicon: lex,
		Scorer:  bootstrap.Scorer(ctx, cfg, lex, nil),
	}
	release := func() {}
	if withHistory {
		history, closeHistory, err := bootstrap.History(ctx, cfg, nil)
		if err != nil {
			return nil, nil, err
		}
		deps.History = history
		release = closeHistory
	}
	return app.NewService(deps), release, nil
}

func (o *rootOptions) history(ctx context.Context) (domain.HistoryRepository, func(), error) {
	cfg, err := o.config()
	if err != nil {
		return nil, nil, err
	}
	return bootstrap.History(ctx, cfg, nil)
}
