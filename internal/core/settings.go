package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Voice setting names as used by the console and the JSON payload.
const (
	SettingSpeed  = "speed"
	SettingPitch  = "pitch"
	SettingVolume = "volume"
)

var (
	// ErrUnknownSetting is returned for a voice setting name that does not exist.
	ErrUnknownSetting = errors.New("unknown voice setting")
	// ErrInvalidSettingValue is returned when a value does not parse as a number.
	ErrInvalidSettingValue = errors.New("invalid voice setting value")
)

// Range is the slider range of one voice setting.
type Range struct {
	Min  float64
	Max  float64
	Step float64
}

// Clamp pins value to the range bounds.
func (r Range) Clamp(value float64) float64 {
	if value < r.Min {
		return r.Min
	}

	if value > r.Max {
		return r.Max
	}

	return value
}

// SettingRanges lists the slider bounds for every voice setting.
var SettingRanges = map[string]Range{
	SettingSpeed:  {Min: 0.5, Max: 2.0, Step: 0.1},
	SettingPitch:  {Min: 0.5, Max: 1.5, Step: 0.1},
	SettingVolume: {Min: 0.0, Max: 1.0, Step: 0.1},
}

// VoiceSettings holds the adjustable synthesis parameters.
type VoiceSettings struct {
	Speed  float64 `json:"speed"`
	Pitch  float64 `json:"pitch"`
	Volume float64 `json:"volume"`
}

// DefaultVoiceSettings returns speed, pitch and volume at 1.0.
func DefaultVoiceSettings() VoiceSettings {
	return VoiceSettings{Speed: 1.0, Pitch: 1.0, Volume: 1.0}
}

// Set parses raw and replaces the named field. Values outside the slider
// range are clamped; on error the settings are left untouched.
func (v *VoiceSettings) Set(name, raw string) error {
	name = strings.ToLower(strings.TrimSpace(name))

	bounds, ok := SettingRanges[name]
	if !ok {
		return fmt.Errorf("%w: '%s'", ErrUnknownSetting, name)
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fmt.Errorf("%w: '%s'", ErrInvalidSettingValue, raw)
	}

	value = bounds.Clamp(value)

	switch name {
	case SettingSpeed:
		v.Speed = value
	case SettingPitch:
		v.Pitch = value
	case SettingVolume:
		v.Volume = value
	}

	return nil
}
