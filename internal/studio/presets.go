package studio

import "strings"

// Preset is a fixed example text offered for quick selection.
type Preset struct {
	Name string
	Text string
}

var presets = []Preset{
	{
		Name: "Greeting",
		Text: "Hello! Welcome to the GLM-TTS text-to-speech service. " +
			"This is a demonstration of natural sounding speech synthesis.",
	},
	{
		Name: "Technology",
		Text: "Artificial intelligence is transforming the way we interact with technology. " +
			"Modern text-to-speech systems can produce remarkably human-like voices.",
	},
	{
		Name: "Weather",
		Text: "The weather today is sunny with a high of 75 degrees. " +
			"Perfect conditions for outdoor activities and enjoying nature's beauty.",
	},
}

// Presets returns the example texts in display order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)

	return out
}

func findPreset(name string) (Preset, bool) {
	for _, preset := range presets {
		if strings.EqualFold(preset.Name, strings.TrimSpace(name)) {
			return preset, true
		}
	}

	return Preset{}, false
}
