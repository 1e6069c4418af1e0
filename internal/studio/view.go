package studio

import (
	"fmt"

	"github.com/book-expert/tts-studio/internal/audio"
)

// Display labels.
const (
	labelGenerate   = "Generate Speech"
	labelGenerating = "Generating..."
	labelPlay       = "▶ Play Audio"
	fmtSpeed        = "Speed: %.1fx"
	fmtPitch        = "Pitch: %.1f"
	fmtVolume       = "Volume: %.1f"
	fmtAudioWAV     = "%s, %s, %d Hz"
)

// View is what the presentation layer renders for the current state.
type View struct {
	Text            string
	SpeedLabel      string
	PitchLabel      string
	VolumeLabel     string
	GenerateLabel   string
	GenerateEnabled bool
	// PlayLabel is empty unless audio is ready.
	PlayLabel string
	AudioURL  string
	AudioInfo string
	Error     error
}

// View builds the display labels for the current state.
func (c *Controller) View() View {
	snapshot := c.Snapshot()
	resource := c.Resource()

	view := View{
		Text:            snapshot.Text,
		SpeedLabel:      fmt.Sprintf(fmtSpeed, snapshot.VoiceSettings.Speed),
		PitchLabel:      fmt.Sprintf(fmtPitch, snapshot.VoiceSettings.Pitch),
		VolumeLabel:     fmt.Sprintf(fmtVolume, snapshot.VoiceSettings.Volume),
		GenerateLabel:   labelGenerate,
		GenerateEnabled: c.CanGenerate(),
		AudioURL:        snapshot.AudioURL,
		Error:           snapshot.LastError,
	}

	if snapshot.IsLoading {
		view.GenerateLabel = labelGenerating
	}

	if snapshot.State == StateReady && resource != nil {
		view.PlayLabel = labelPlay
		view.AudioInfo = describe(resource)
	}

	return view
}

func describe(resource *audio.Resource) string {
	data, err := resource.Bytes()
	if err != nil {
		return ""
	}

	size := audio.FormatFileSize(int64(len(data)))

	info, err := audio.Inspect(data)
	if err != nil {
		return fmt.Sprintf("%s, %s", resource.ContentType(), size)
	}

	return fmt.Sprintf(fmtAudioWAV, audio.FormatDuration(info.Duration), size, info.SampleRate)
}
