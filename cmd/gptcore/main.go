package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/zen-systems/gptcore/pkg/config"
	"github.com/zen-systems/gptcore/pkg/cost"
	"github.com/zen-systems/gptcore/pkg/logging"
	"github.com/zen-systems/gptcore/pkg/transport"
)

var (
	configFile string
	modelFlag  string
	logLevel   string
	logFormat  string
	dryRun     bool
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		if hint := errorHint(err); hint != "" {
			fmt.Fprintln(os.Stderr, hint)
		}
		os.Exit(1)
	}
}

// errorHint suggests what to do about failures that are not the caller's fault.
func errorHint(err error) string {
	var te *transport.Error
	switch {
	case errors.As(err, &te) && te.RateLimited():
		return "hint: the API is rate limiting this key; wait and retry, or set openai.rate_limit"
	case transport.Retryable(err):
		return "hint: the failure looks temporary; running the same command again may succeed"
	}
	return ""
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gptcore",
		Short: "Validated, cost-annotated calls to OpenAI models",
		Long: `gptcore checks every option against a built-in model catalog before
	calling the provider, and reports the exact cost of each call.

	The API key is read from OPENAI_API_KEY. Other settings come from
	config.yaml and GPTCORE_* environment variables.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "path to config file")
	root.PersistentFlags().StringVar(&modelFlag, "model", "", "model name (overrides config)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides config)")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "", "text or json")
	root.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "validate and answer from a local stub instead of the API")

	root.AddCommand(modelsCmd())
	root.AddCommand(initCmd())
	root.AddCommand(askCmd())
	root.AddCommand(chatCmd())
	root.AddCommand(embedCmd())
	root.AddCommand(moderateCmd())
	root.AddCommand(speakCmd())
	root.AddCommand(transcribeCmd())
	root.AddCommand(translateCmd())
	root.AddCommand(ratingCmd())

	return root
}

// env is what every calling command needs.
type env struct {
	cfg       *config.Config
	logger    *slog.Logger
	transport transport.Transport
	tracker   *cost.Tracker
}

func setup() (*env, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	logger := logging.New(os.Stderr, level, logFormat)
	slog.SetDefault(logger)

	budget, err := cfg.BudgetCents()
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, logger: logger, tracker: cost.NewTracker(budget)}
	if dryRun {
		logger.Info("dry run, no requests will be sent")
		e.transport = transport.NewStub()
		return e, nil
	}

	t, err := transport.NewOpenAI(cfg.OpenAI.APIKey,
		transport.WithBaseURL(cfg.OpenAI.BaseURL),
		transport.WithRateLimit(cfg.OpenAI.RateLimit),
		transport.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create transport (set OPENAI_API_KEY or use --dry-run): %w", err)
	}
	e.transport = t
	return e, nil
}

// summary prints the accumulated usage and spend to w.
func (e *env) summary(w io.Writer) {
	u := e.tracker.Usage()
	fmt.Fprintf(w, "cost: %s  tokens: %d in (%d cached) / %d out\n",
		cost.Format(e.tracker.Total(), 6), u.InputTokens, u.CachedInputTokens, u.OutputTokens)
}
