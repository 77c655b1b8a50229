package catalog

import "github.com/zen-systems/gptcore/pkg/capability"

const (
	DefaultEmbeddingModel  = "text-embedding-3-small"
	DefaultModerationModel = "omni-moderation-latest"
)

var embeddingModels = []EmbeddingModel{
	{
		Name:           "text-embedding-3-small",
		Speed:          capability.SpeedFast,
		Performance:    capability.PerformanceAverage,
		Dimensions:     1536,
		MinDimensions:  1,
		MaxDimensions:  1536,
		MaxInputTokens: 8191,
		Pricing:        perMillion("2", "", "0"),
	},
	{
		Name:           "text-embedding-3-large",
		Speed:          capability.SpeedMedium,
		Performance:    capability.PerformanceHigh,
		Dimensions:     3072,
		MinDimensions:  1,
		MaxDimensions:  3072,
		MaxInputTokens: 8191,
		Pricing:        perMillion("13", "", "0"),
	},
	{
		Name:           "text-embedding-ada-002",
		Speed:          capability.SpeedMedium,
		Performance:    capability.PerformanceLow,
		Dimensions:     1536,
		MinDimensions:  1536,
		MaxDimensions:  1536,
		MaxInputTokens: 8191,
		Pricing:        perMillion("10", "", "0"),
	},
}

var moderationModels = []ModerationModel{
	{
		Name:           "omni-moderation-latest",
		Input:          capability.NewSet(capability.ModalityText, capability.ModalityImage),
		MaxInputTokens: 32_768,
		Pricing:        perMillion("0", "", "0"),
	},
	{
		Name:           "text-moderation-latest",
		Input:          capability.NewSet(capability.ModalityText),
		MaxInputTokens: 32_768,
		Pricing:        perMillion("0", "", "0"),
	},
}
