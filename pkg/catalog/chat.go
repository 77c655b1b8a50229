package catalog

import (
	"time"

	"github.com/zen-systems/gptcore/pkg/capability"
)

// DefaultChatModel is used when a chat builder is given no model.
const DefaultChatModel = "gpt-5-mini"

var (
	textImage = capability.NewSet(capability.ModalityText, capability.ModalityImage)
	textOnly  = capability.NewSet(capability.ModalityText)

	allTools = capability.NewSet(
		capability.ToolFunctionCalling,
		capability.ToolWebSearch,
		capability.ToolFileSearch,
		capability.ToolCodeInterpreter,
		capability.ToolImageGeneration,
		capability.ToolMCP,
	)
	noTools = capability.Set[capability.Tool]{}

	effortsGPT5     = capability.NewSet(capability.ReasoningMinimal, capability.ReasoningLow, capability.ReasoningMedium, capability.ReasoningHigh)
	effortsGPT51    = capability.NewSet(capability.ReasoningNone, capability.ReasoningLow, capability.ReasoningMedium, capability.ReasoningHigh)
	effortsGPT52    = capability.NewSet(capability.ReasoningNone, capability.ReasoningLow, capability.ReasoningMedium, capability.ReasoningHigh, capability.ReasoningXHigh)
	effortsOSeries  = capability.NewSet(capability.ReasoningLow, capability.ReasoningMedium, capability.ReasoningHigh)
	effortsHighOnly = capability.NewSet(capability.ReasoningHigh)
	effortsNone     = capability.Set[capability.ReasoningEffort]{}
)

var chatModels = []ChatModel{
	{
		Name:             "gpt-5.2",
		Family:           FamilyChat,
		Speed:            capability.SpeedMedium,
		Performance:      capability.PerformanceHighest,
		Input:            textImage,
		Output:           textOnly,
		Tools:            allTools,
		ReasoningEfforts: effortsGPT52,
		ContextWindow:    400_000,
		MaxOutputTokens:  128_000,
		Pricing:          perMillion("175", "17.5", "1400"),
		KnowledgeCutoff:  cutoff(2025, time.August, 31),
	},
	{
		Name:             "gpt-5.1",
		Family:           FamilyChat,
		Speed:            capability.SpeedMedium,
		Performance:      capability.PerformanceHighest,
		Input:            textImage,
		Output:           textOnly,
		Tools:            allTools,
		ReasoningEfforts: effortsGPT51,
		ContextWindow:    400_000,
		MaxOutputTokens:  128_000,
		Pricing:          perMillion("125", "12.5", "1000"),
		KnowledgeCutoff:  cutoff(2024, time.September, 30),
	},
	{
		Name:             "gpt-5",
		Family:           FamilyChat,
		Speed:            capability.SpeedSlow,
		Performance:      capability.PerformanceHighest,
		Input:            textImage,
		Output:           textOnly,
		Tools:            allTools,
		ReasoningEfforts: effortsGPT5,
		ContextWindow:    400_000,
		MaxOutputTokens:  128_000,
		Pricing:          perMillion("125", "12.5", "1000"),
		KnowledgeCutoff:  cutoff(2024, time.September, 30),
	},
	{
		Name:             "gpt-5-mini",
		Family:           FamilyChat,
		Speed:            capability.SpeedFast,
		Performance:      capability.PerformanceHigh,
		Input:            textImage,
		Output:           textOnly,
		Tools:            allTools,
		ReasoningEfforts: effortsGPT5,
		ContextWindow:    400_000,
		MaxOutputTokens:  128_000,
		Pricing:          perMillion("25", "2.5", "200"),
		KnowledgeCutoff:  cutoff(2024, time.May, 31),
	},
	{
		Name:             "gpt-5-nano",
		Family:           FamilyChat,
		Speed:            capability.SpeedFastest,
		Performance:      capability.PerformanceAverage,
		Input:            textImage,
		Output:           textOnly,
		Tools:            capability.NewSet(capability.ToolFunctionCalling, capability.ToolFileSearch, capability.ToolImageGeneration, capability.ToolCodeInterpreter, capability.ToolMCP),
		ReasoningEfforts: effortsGPT5,
		ContextWindow:    400_000,
		MaxOutputTokens:  128_000,
		Pricing:          perMillion("5", "0.5", "40"),
		KnowledgeCutoff:  cutoff(2024, time.May, 31),
	},
	{
		Name:             "gpt-5-chat-latest",
		Family:           FamilyChat,
		Speed:            capability.SpeedMedium,
		Performance:      capability.PerformanceHigh,
		Input:            textImage,
		Output:           textOnly,
		Tools:            noTools,
		ReasoningEfforts: effortsNone,
		Sampling:         true,
		ContextWindow:    128_000,
		MaxOutputTokens:  16_384,
		Pricing:          perMillion("125", "12.5", "1000"),
		KnowledgeCutoff:  cutoff(2024, time.September, 30),
	},
	{
		Name:             "gpt-4.1",
		Family:           FamilyChat,
		Speed:            capability.SpeedMedium,
		Performance:      capability.PerformanceHigh,
		Input:            textImage,
		Output:           textOnly,
		Tools:            allTools,
		ReasoningEfforts: effortsNone,
		Sampling:         true,
		ContextWindow:    1_047_576,
		MaxOutputTokens:  32_768,
		Pricing:          perMillion("200", "50", "800"),
		KnowledgeCutoff:  cutoff(2024, time.June, 1),
	},
	{
		Name:             "gpt-4.1-mini",
		Family:           FamilyChat,
		Speed:            capability.SpeedFast,
		Performance:      capability.PerformanceAverage,
		Input:            textImage,
		Output:           textOnly,
		Tools:            allTools,
		ReasoningEfforts: effortsNone,
		Sampling:         true,
		ContextWindow:    1_047_576,
		MaxOutputTokens:  32_768,
		Pricing:          perMillion("40", "10", "160"),
		KnowledgeCutoff:  cutoff(2024, time.June, 1),
	},
	{
		Name:             "gpt-4.1-nano",
		Family:           FamilyChat,
		Speed:            capability.SpeedFastest,
		Performance:      capability.PerformanceLow,
		Input:            textImage,
		Output:           textOnly,
		Tools:            capability.NewSet(capability.ToolFunctionCalling, capability.ToolFileSearch, capability.ToolImageGeneration, capability.ToolCodeInterpreter, capability.ToolMCP),
		ReasoningEfforts: effortsNone,
		Sampling:         true,
		ContextWindow:    1_047_576,
		MaxOutputTokens:  32_768,
		Pricing:          perMillion("10", "2.5", "40"),
		KnowledgeCutoff:  cutoff(2024, time.June, 1),
	},
	{
		Name:             "gpt-4o",
		Family:           FamilyChat,
		Speed:            capability.SpeedMedium,
		Performance:      capability.PerformanceAverage,
		Input:            textImage,
		Output:           textOnly,
		Tools:            allTools,
		ReasoningEfforts: effortsNone,
		Sampling:         true,
		ContextWindow:    128_000,
		MaxOutputTokens:  16_384,
		Pricing:          perMillion("250", "125", "1000"),
		KnowledgeCutoff:  cutoff(2023, time.October, 1),
	},
	{
		Name:             "gpt-4o-mini",
		Family:           FamilyChat,
		Speed:            capability.SpeedFast,
		Performance:      capability.PerformanceLow,
		Input:            textImage,
		Output:           textOnly,
		Tools:            allTools,
		ReasoningEfforts: effortsNone,
		Sampling:         true,
		ContextWindow:    128_000,
		MaxOutputTokens:  16_384,
		Pricing:          perMillion("15", "7.5", "60"),
		KnowledgeCutoff:  cutoff(2023, time.October, 1),
	},
}

var reasoningModels = []ChatModel{
	{
		Name:             "o3",
		Family:           FamilyReasoning,
		Speed:            capability.SpeedSlowest,
		Performance:      capability.PerformanceHighest,
		Input:            textImage,
		Output:           textOnly,
		Tools:            allTools,
		ReasoningEfforts: effortsOSeries,
		ContextWindow:    200_000,
		MaxOutputTokens:  100_000,
		Pricing:          perMillion("200", "50", "800"),
		KnowledgeCutoff:  cutoff(2024, time.June, 1),
	},
	{
		Name:             "o3-pro",
		Family:           FamilyReasoning,
		Speed:            capability.SpeedSlowest,
		Performance:      capability.PerformanceHighest,
		Input:            textImage,
		Output:           textOnly,
		Tools:            capability.NewSet(capability.ToolFunctionCalling, capability.ToolWebSearch, capability.ToolFileSearch, capability.ToolImageGeneration, capability.ToolMCP),
		ReasoningEfforts: effortsOSeries,
		ContextWindow:    200_000,
		MaxOutputTokens:  100_000,
		Pricing:          perMillion("2000", "", "8000"),
		KnowledgeCutoff:  cutoff(2024, time.June, 1),
	},
	{
		Name:             "o4-mini",
		Family:           FamilyReasoning,
		Speed:            capability.SpeedMedium,
		Performance:      capability.PerformanceHigh,
		Input:            textImage,
		Output:           textOnly,
		Tools:            allTools,
		ReasoningEfforts: effortsOSeries,
		ContextWindow:    200_000,
		MaxOutputTokens:  100_000,
		Pricing:          perMillion("110", "27.5", "440"),
		KnowledgeCutoff:  cutoff(2024, time.June, 1),
	},
	{
		Name:             "o3-mini",
		Family:           FamilyReasoning,
		Speed:            capability.SpeedMedium,
		Performance:      capability.PerformanceAverage,
		Input:            textOnly,
		Output:           textOnly,
		Tools:            capability.NewSet(capability.ToolFunctionCalling, capability.ToolFileSearch, capability.ToolCodeInterpreter, capability.ToolMCP),
		ReasoningEfforts: effortsOSeries,
		ContextWindow:    200_000,
		MaxOutputTokens:  100_000,
		Pricing:          perMillion("110", "55", "440"),
		KnowledgeCutoff:  cutoff(2023, time.October, 1),
	},
	{
		Name:             "o1",
		Family:           FamilyReasoning,
		Speed:            capability.SpeedSlowest,
		Performance:      capability.PerformanceHigh,
		Input:            textImage,
		Output:           textOnly,
		Tools:            capability.NewSet(capability.ToolFunctionCalling, capability.ToolFileSearch, capability.ToolMCP),
		ReasoningEfforts: effortsOSeries,
		ContextWindow:    200_000,
		MaxOutputTokens:  100_000,
		Pricing:          perMillion("1500", "750", "6000"),
		KnowledgeCutoff:  cutoff(2023, time.October, 1),
	},
	{
		Name:             "gpt-5-pro",
		Family:           FamilyReasoning,
		Speed:            capability.SpeedSlowest,
		Performance:      capability.PerformanceHighest,
		Input:            textImage,
		Output:           textOnly,
		Tools:            capability.NewSet(capability.ToolFunctionCalling, capability.ToolWebSearch, capability.ToolFileSearch, capability.ToolImageGeneration, capability.ToolMCP),
		ReasoningEfforts: effortsHighOnly,
		ContextWindow:    400_000,
		MaxOutputTokens:  272_000,
		Pricing:          perMillion("1500", "", "12000"),
		KnowledgeCutoff:  cutoff(2024, time.September, 30),
	},
}

var searchModels = []ChatModel{
	{
		Name:             "gpt-4o-search-preview",
		Family:           FamilySearch,
		Speed:            capability.SpeedSlow,
		Performance:      capability.PerformanceAverage,
		Input:            textOnly,
		Output:           textOnly,
		Tools:            capability.NewSet(capability.ToolWebSearch),
		ReasoningEfforts: effortsNone,
		ContextWindow:    128_000,
		MaxOutputTokens:  16_384,
		Pricing:          perMillion("250", "", "1000"),
		SearchCallPrices: searchPrices("3000", "3500", "5000"),
		KnowledgeCutoff:  cutoff(2023, time.October, 1),
	},
	{
		Name:             "gpt-4o-mini-search-preview",
		Family:           FamilySearch,
		Speed:            capability.SpeedMedium,
		Performance:      capability.PerformanceLow,
		Input:            textOnly,
		Output:           textOnly,
		Tools:            capability.NewSet(capability.ToolWebSearch),
		ReasoningEfforts: effortsNone,
		ContextWindow:    128_000,
		MaxOutputTokens:  16_384,
		Pricing:          perMillion("15", "", "60"),
		SearchCallPrices: searchPrices("2500", "2750", "3000"),
		KnowledgeCutoff:  cutoff(2023, time.October, 1),
	},
}
