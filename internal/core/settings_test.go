package core_test

import (
	"testing"

	"github.com/book-expert/tts-studio/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultVoiceSettings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, core.VoiceSettings{Speed: 1.0, Pitch: 1.0, Volume: 1.0}, core.DefaultVoiceSettings())
}

func TestVoiceSettings_Set(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		field string
		raw   string
		want  core.VoiceSettings
	}{
		{name: "speed", field: "speed", raw: "1.5", want: core.VoiceSettings{Speed: 1.5, Pitch: 1.0, Volume: 1.0}},
		{name: "pitch upper case", field: "PITCH", raw: "0.7", want: core.VoiceSettings{Speed: 1.0, Pitch: 0.7, Volume: 1.0}},
		{name: "volume zero", field: "volume", raw: "0", want: core.VoiceSettings{Speed: 1.0, Pitch: 1.0, Volume: 0}},
		{name: "speed clamped high", field: "speed", raw: "3", want: core.VoiceSettings{Speed: 2.0, Pitch: 1.0, Volume: 1.0}},
		{name: "pitch clamped low", field: "pitch", raw: "0.1", want: core.VoiceSettings{Speed: 1.0, Pitch: 0.5, Volume: 1.0}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			settings := core.DefaultVoiceSettings()

			err := settings.Set(testCase.field, testCase.raw)
			require.NoError(t, err)
			assert.InDelta(t, testCase.want.Speed, settings.Speed, 1e-9)
			assert.InDelta(t, testCase.want.Pitch, settings.Pitch, 1e-9)
			assert.InDelta(t, testCase.want.Volume, settings.Volume, 1e-9)
		})
	}
}

func TestVoiceSettings_SetErrors(t *testing.T) {
	t.Parallel()

	settings := core.DefaultVoiceSettings()

	err := settings.Set("tempo", "1.0")
	require.ErrorIs(t, err, core.ErrUnknownSetting)

	err = settings.Set("speed", "fast")
	require.ErrorIs(t, err, core.ErrInvalidSettingValue)

	assert.Equal(t, core.DefaultVoiceSettings(), settings)
}
