package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zen-systems/gptcore/pkg/capability"
	"github.com/zen-systems/gptcore/pkg/prompt"
	"github.com/zen-systems/gptcore/pkg/service"
)

func embedCmd() *cobra.Command {
	var dimensionsFlag int64
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "embed [text]",
		Short: "Embed text as a vector",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			b := service.NewEmbeddingBuilder().Apply(e.cfg.Embedding).Logger(e.logger).Tracker(e.tracker)
			if modelFlag != "" {
				b.Model(modelFlag)
			}
			if dimensionsFlag > 0 {
				b.Dimensions(dimensionsFlag)
			}
			svc, err := b.Build(e.transport)
			if err != nil {
				return err
			}
			p, err := svc.Create(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if jsonFlag {
				data, err := json.Marshal(p.Vector)
				if err != nil {
					return err
				}
				fmt.Println(string(data))
			} else {
				preview := p.Vector
				if len(preview) > 8 {
					preview = preview[:8]
				}
				fmt.Printf("%s dims=%d %v...\n", p.Model, len(p.Vector), preview)
			}
			e.summary(os.Stderr)
			return nil
		},
	}

	cmd.Flags().Int64Var(&dimensionsFlag, "dimensions", 0, "vector length override")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "print the full vector as JSON")
	return cmd
}

func moderateCmd() *cobra.Command {
	var filterFlag string
	var saveFlag string

	cmd := &cobra.Command{
		Use:   "moderate [text]",
		Short: "Classify text against the moderation categories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := prompt.ParseFilter(filterFlag)
			if err != nil {
				return err
			}
			e, err := setup()
			if err != nil {
				return err
			}
			b := service.NewModerationBuilder().Apply(e.cfg.Moderation).Logger(e.logger).Tracker(e.tracker)
			if modelFlag != "" {
				b.Model(modelFlag)
			}
			svc, err := b.Build(e.transport)
			if err != nil {
				return err
			}
			p, err := svc.Create(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Print(p.Rating.Render(filter))

			if saveFlag != "" {
				data, err := p.Rating.MarshalBinary()
				if err != nil {
					return err
				}
				if err := os.WriteFile(saveFlag, data, 0600); err != nil {
					return fmt.Errorf("failed to save rating: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&filterFlag, "filter", "all", "all, positive or negative")
	cmd.Flags().StringVar(&saveFlag, "save", "", "write the binary rating to this file")
	return cmd
}

func ratingCmd() *cobra.Command {
	var filterFlag string

	cmd := &cobra.Command{
		Use:   "rating [file]",
		Short: "Print a rating saved by moderate --save",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := prompt.ParseFilter(filterFlag)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			r, err := prompt.RatingFromBytes(data)
			if err != nil {
				return err
			}
			fmt.Print(r.Render(filter))
			return nil
		},
	}

	cmd.Flags().StringVar(&filterFlag, "filter", "all", "all, positive or negative")
	return cmd
}

func speakCmd() *cobra.Command {
	var voiceFlag, outFlag, formatFlag, instructionsFlag string
	var speedFlag float64

	cmd := &cobra.Command{
		Use:   "speak [text]",
		Short: "Synthesize speech to an audio file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			b := service.NewSpeechBuilder().Apply(e.cfg.Speech).Logger(e.logger).Tracker(e.tracker)
			if modelFlag != "" {
				b.Model(modelFlag)
			}
			if voiceFlag != "" {
				b.Voice(capability.Voice(voiceFlag))
			}
			if formatFlag != "" {
				b.Format(formatFlag)
			}
			if instructionsFlag != "" {
				b.Instructions(instructionsFlag)
			}
			if speedFlag > 0 {
				b.Speed(speedFlag)
			}
			svc, err := b.Build(e.transport)
			if err != nil {
				return err
			}
			p, err := svc.Create(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := outFlag
			if out == "" {
				out = "speech." + svc.Format()
			}
			if err := os.WriteFile(out, p.Audio, 0644); err != nil {
				return fmt.Errorf("failed to write audio: %w", err)
			}
			fmt.Printf("wrote %s (%d bytes, voice %s)\n", out, len(p.Audio), p.Voice)
			if p.Estimated {
				fmt.Fprintln(os.Stderr, "cost estimated from input text; audio output tokens are not reported")
			}
			e.summary(os.Stderr)
			return nil
		},
	}

	cmd.Flags().StringVar(&voiceFlag, "voice", "", "voice name")
	cmd.Flags().StringVar(&outFlag, "out", "", "output file (default speech.<format>)")
	cmd.Flags().StringVar(&formatFlag, "format", "", "mp3, opus, aac, flac, wav or pcm")
	cmd.Flags().StringVar(&instructionsFlag, "instructions", "", "delivery instructions")
	cmd.Flags().Float64Var(&speedFlag, "speed", 0, "playback speed, 0.25 to 4.0")
	return cmd
}

func transcribeCmd() *cobra.Command {
	var languageFlag, promptFlag string

	cmd := &cobra.Command{
		Use:   "transcribe [file]",
		Short: "Transcribe an audio file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			b := service.NewTranscriptionBuilder().Apply(e.cfg.Transcription).Logger(e.logger).Tracker(e.tracker)
			if modelFlag != "" {
				b.Model(modelFlag)
			}
			if languageFlag != "" {
				b.Language(languageFlag)
			}
			if promptFlag != "" {
				b.Prompt(promptFlag)
			}
			svc, err := b.Build(e.transport)
			if err != nil {
				return err
			}
			p, err := svc.CreateFromFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(p.Text)
			e.summary(os.Stderr)
			return nil
		},
	}

	cmd.Flags().StringVar(&languageFlag, "language", "", "ISO-639-1 language of the audio")
	cmd.Flags().StringVar(&promptFlag, "prompt", "", "spelling and style hints")
	return cmd
}

func translateCmd() *cobra.Command {
	var promptFlag string

	cmd := &cobra.Command{
		Use:   "translate [file]",
		Short: "Translate an audio file into English text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			b := service.NewTranslationBuilder().Apply(e.cfg.Translation).Logger(e.logger).Tracker(e.tracker)
			if modelFlag != "" {
				b.Model(modelFlag)
			}
			if promptFlag != "" {
				b.Prompt(promptFlag)
			}
			svc, err := b.Build(e.transport)
			if err != nil {
				return err
			}
			p, err := svc.CreateFromFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(p.Text)
			e.summary(os.Stderr)
			return nil
		},
	}

	cmd.Flags().StringVar(&promptFlag, "prompt", "", "style hints")
	return cmd
}
