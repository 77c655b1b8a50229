package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zen-systems/gptcore/pkg/capability"
	"github.com/zen-systems/gptcore/pkg/cost"
	"github.com/zen-systems/gptcore/pkg/history"
	"github.com/zen-systems/gptcore/pkg/prompt"
	"github.com/zen-systems/gptcore/pkg/service"
)

// chatFlags are shared by ask and chat.
type chatFlags struct {
	effort       string
	instructions string
	maxTokens    int64
	temperature  float64
	searchSize   string
	tools        []string
}

func (f *chatFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.effort, "effort", "", "preferred reasoning effort (none, minimal, low, medium, high, xhigh)")
	cmd.Flags().StringVar(&f.instructions, "instructions", "", "developer message")
	cmd.Flags().Int64Var(&f.maxTokens, "max-tokens", 0, "maximum output tokens")
	cmd.Flags().Float64Var(&f.temperature, "temperature", -1, "sampling temperature")
	cmd.Flags().StringVar(&f.searchSize, "search-context", "", "search context size for search models")
	cmd.Flags().StringSliceVar(&f.tools, "tool", nil, "enable a built-in tool (repeatable)")
}

func (f *chatFlags) builder(e *env) *service.ChatBuilder {
	b := service.NewChatBuilder().
		Apply(e.cfg.Chat).
		Logger(e.logger).
		Tracker(e.tracker)
	if modelFlag != "" {
		b.Model(modelFlag)
	}
	if f.effort != "" {
		b.ReasoningEffort(capability.ReasoningEffort(strings.ToLower(f.effort)))
	}
	if f.instructions != "" {
		b.Instructions(f.instructions)
	}
	if f.maxTokens > 0 {
		b.MaxOutputTokens(f.maxTokens)
	}
	if f.temperature >= 0 {
		b.Temperature(f.temperature)
	}
	if f.searchSize != "" {
		b.SearchContextSize(capability.SearchContextSize(f.searchSize))
	}
	for _, t := range f.tools {
		b.Tools(capability.Tool(t))
	}
	return b
}

func askCmd() *cobra.Command {
	var flags chatFlags
	var previousFlag string

	cmd := &cobra.Command{
		Use:   "ask [prompt]",
		Short: "Send one prompt and print the answer",
		Long: `Sends a single prompt. Use --previous with a resp_ identifier to
	continue a stored conversation on the server.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			svc, err := flags.builder(e).Build(e.transport)
			if err != nil {
				return err
			}

			var p *prompt.ChatPrompt
			if previousFlag != "" {
				p, err = svc.Continue(cmd.Context(), previousFlag, args[0])
			} else {
				p, err = svc.Create(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			fmt.Println(p.Output)
			fmt.Fprintf(os.Stderr, "id: %s  effort: %s\n", p.ID, svc.ReasoningEffort())
			e.summary(os.Stderr)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&previousFlag, "previous", "", "previous response id to continue from")
	return cmd
}

func chatCmd() *cobra.Command {
	var flags chatFlags
	var serverFlag bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive conversation",
		Long: `Reads prompts from stdin, one per line, until EOF or "exit".

	By default the whole conversation is resubmitted on every turn. Use
	--server to continue through stored responses instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			svc, err := flags.builder(e).Build(e.transport)
			if err != nil {
				return err
			}
			budget, err := e.cfg.BudgetCents()
			if err != nil {
				return err
			}
			h := history.New(budget)
			e.logger.Debug("chat session started", "session", h.ID(), "model", svc.Model().Name)

			ctx := cmd.Context()
			in := bufio.NewScanner(os.Stdin)
			for {
				fmt.Fprint(os.Stderr, "> ")
				if !in.Scan() {
					break
				}
				line := strings.TrimSpace(in.Text())
				if line == "" {
					continue
				}
				if line == "exit" || line == "quit" {
					break
				}

				var out string
				if serverFlag && h.LastResponseID() != "" {
					p, err := svc.Continue(ctx, h.LastResponseID(), line)
					if err != nil {
						return err
					}
					h.AppendPrompt(p)
					out = p.Output
				} else if serverFlag {
					p, err := svc.Create(ctx, line)
					if err != nil {
						return err
					}
					h.AppendPrompt(p)
					out = p.Output
				} else {
					p, err := svc.CreateWithHistory(ctx, h, line)
					if err != nil {
						return err
					}
					out = p.Output
				}
				fmt.Println(out)

				if err := h.CheckBudget(); err != nil {
					var be *cost.BudgetError
					if errors.As(err, &be) {
						fmt.Fprintln(os.Stderr, err)
						break
					}
					return err
				}
			}
			if err := in.Err(); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "turns: %d  tokens: %d  cost: %s\n", h.Len(), h.TotalTokens(), cost.Format(h.Cost(), 6))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&serverFlag, "server", false, "continue via stored responses instead of resubmitting history")
	return cmd
}
