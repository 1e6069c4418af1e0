// Package core defines the shared types and interfaces for tts-studio.
package core

import "context"

// SpeechGenerator turns text and voice settings into audio bytes.
type SpeechGenerator interface {
	GenerateSpeech(ctx context.Context, text string, settings VoiceSettings) (Audio, error)
	GetAvailableVoices(ctx context.Context) ([]Voice, error)
}

// Player plays a generated clip.
type Player interface {
	Play(ctx context.Context, data []byte, contentType string) error
}

// AudioArchive stores generated clips outside the process.
type AudioArchive interface {
	Save(ctx context.Context, workflowID string, data []byte) (string, error)
}

// Audio is the payload returned by the TTS service.
type Audio struct {
	Data        []byte
	ContentType string
}

// GenerationRequest is the JSON body sent to the speech endpoint.
type GenerationRequest struct {
	Text          string        `json:"text"`
	VoiceSettings VoiceSettings `json:"voice_settings"`
}

// Voice describes one voice offered by the TTS service.
type Voice struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Language    string `json:"language"`
	Gender      string `json:"gender"`
	Description string `json:"description"`
}
