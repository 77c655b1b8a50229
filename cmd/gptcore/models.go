package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zen-systems/gptcore/pkg/catalog"
	"github.com/zen-systems/gptcore/pkg/config"
)

var families = []catalog.Family{
	catalog.FamilyChat,
	catalog.FamilyReasoning,
	catalog.FamilySearch,
	catalog.FamilyEmbedding,
	catalog.FamilyModeration,
	catalog.FamilySpeech,
	catalog.FamilyTranscription,
	catalog.FamilyTranslation,
}

func parseFamily(s string) (catalog.Family, error) {
	if s == "" {
		return "", nil
	}
	for _, f := range families {
		if string(f) == strings.ToLower(s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown family %q", s)
}

func modelsCmd() *cobra.Command {
	var familyFlag string
	var yamlFlag bool
	var validateFlag bool

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List catalog models with capabilities and prices",
		Long: `Lists the built-in model catalog.

	Prices are in cents per million units (tokens, characters or seconds).
	Use --yaml for the full descriptor of every model.
	Use --validate to check the catalog tables for inconsistencies.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			family, err := parseFamily(familyFlag)
			if err != nil {
				return err
			}

			if validateFlag {
				errs := catalog.Validate()
				for _, err := range errs {
					fmt.Fprintln(os.Stderr, err)
				}
				if len(errs) > 0 {
					return fmt.Errorf("catalog has %d problems", len(errs))
				}
				fmt.Println("catalog ok")
				return nil
			}

			if yamlFlag {
				return catalog.Export(os.Stdout, family)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "MODEL\tFAMILY\tUNIT\tINPUT\tCACHED\tOUTPUT\tDETAILS")
			for _, v := range catalog.Views(family) {
				cached := v.CachedInputPrice
				if cached == "" {
					cached = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					v.Name, v.Family, v.Unit, v.InputPrice, cached, v.OutputPrice, details(v))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&familyFlag, "family", "", "restrict to one family")
	cmd.Flags().BoolVar(&yamlFlag, "yaml", false, "print full descriptors as YAML")
	cmd.Flags().BoolVar(&validateFlag, "validate", false, "check catalog consistency")

	return cmd
}

func details(v catalog.ModelView) string {
	var parts []string
	if len(v.ReasoningEfforts) > 0 {
		parts = append(parts, "effort="+strings.Join(v.ReasoningEfforts, ","))
	}
	if v.MaxOutputTokens > 0 {
		parts = append(parts, fmt.Sprintf("max_out=%d", v.MaxOutputTokens))
	}
	if v.Dimensions > 0 {
		parts = append(parts, fmt.Sprintf("dims=%d", v.Dimensions))
	}
	if len(v.Voices) > 0 {
		parts = append(parts, fmt.Sprintf("voices=%d", len(v.Voices)))
	}
	if len(v.SearchCallPrices) > 0 {
		parts = append(parts, "search="+v.SearchCallPrices["medium"]+"/call")
	}
	return strings.Join(parts, " ")
}

func initCmd() *cobra.Command {
	var pathFlag string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := pathFlag
			if path == "" {
				path = filepath.Join(config.DefaultDir(), "config.yaml")
			}
			err := config.WriteDefault(path, config.Defaults{
				Chat:          catalog.DefaultChatModel,
				Embedding:     catalog.DefaultEmbeddingModel,
				Moderation:    catalog.DefaultModerationModel,
				Speech:        catalog.DefaultSpeechModel,
				Transcription: catalog.DefaultTranscriptionModel,
				Translation:   catalog.DefaultTranslationModel,
			})
			if err != nil {
				return err
			}
			fmt.Println("wrote", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&pathFlag, "path", "", "destination (default $HOME/.config/gptcore/config.yaml)")
	return cmd
}
