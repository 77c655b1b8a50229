package catalog

import "github.com/zen-systems/gptcore/pkg/capability"

const (
	DefaultSpeechModel        = "gpt-4o-mini-tts"
	DefaultTranscriptionModel = "gpt-4o-mini-transcribe"
	DefaultTranslationModel   = "whisper-1"
)

var (
	classicVoices = capability.NewSet(
		capability.VoiceAlloy,
		capability.VoiceAsh,
		capability.VoiceCoral,
		capability.VoiceEcho,
		capability.VoiceFable,
		capability.VoiceNova,
		capability.VoiceOnyx,
		capability.VoiceSage,
		capability.VoiceShimmer,
	)
	allVoices = capability.NewSet(
		capability.VoiceAlloy,
		capability.VoiceAsh,
		capability.VoiceBallad,
		capability.VoiceCoral,
		capability.VoiceEcho,
		capability.VoiceFable,
		capability.VoiceNova,
		capability.VoiceOnyx,
		capability.VoiceSage,
		capability.VoiceShimmer,
		capability.VoiceVerse,
		capability.VoiceMarin,
		capability.VoiceCedar,
	)
)

var speechModels = []SpeechModel{
	{
		Name:          "gpt-4o-mini-tts",
		Speed:         capability.SpeedFast,
		Performance:   capability.PerformanceHigh,
		Voices:        allVoices,
		Instructions:  true,
		MaxInputChars: 4096,
		Unit:          UnitTokens,
		Pricing:       perMillion("60", "", "1200"),
	},
	{
		Name:          "tts-1",
		Speed:         capability.SpeedFastest,
		Performance:   capability.PerformanceAverage,
		Voices:        classicVoices,
		MaxInputChars: 4096,
		Unit:          UnitCharacters,
		Pricing:       perMillion("1500", "", "0"),
	},
	{
		Name:          "tts-1-hd",
		Speed:         capability.SpeedMedium,
		Performance:   capability.PerformanceHigh,
		Voices:        classicVoices,
		MaxInputChars: 4096,
		Unit:          UnitCharacters,
		Pricing:       perMillion("3000", "", "0"),
	},
}

var whisper = AudioModel{
	Name:        "whisper-1",
	Speed:       capability.SpeedMedium,
	Performance: capability.PerformanceAverage,
	Unit:        UnitSeconds,
	// $0.006 per minute.
	Pricing: perMillion("10000", "", "0"),
}

var transcriptionModels = []AudioModel{
	{
		Name:        "gpt-4o-transcribe",
		Speed:       capability.SpeedMedium,
		Performance: capability.PerformanceHighest,
		Unit:        UnitTokens,
		Pricing:     perMillion("600", "", "1000"),
	},
	{
		Name:        "gpt-4o-mini-transcribe",
		Speed:       capability.SpeedFast,
		Performance: capability.PerformanceHigh,
		Unit:        UnitTokens,
		Pricing:     perMillion("300", "", "500"),
	},
	whisper,
}

var translationModels = []AudioModel{whisper}
