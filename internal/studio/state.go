// Package studio holds the state controller behind the tts-studio console.
//
// The controller owns the editable text, the voice settings and the most
// recent audio resource. It moves between Idle, Generating, Ready and Error
// as speech requests start and finish, and reports failures as typed errors
// so the presentation layer decides how to show them.
package studio

import (
	"errors"
	"fmt"
	"strings"
)

// State is a controller state.
type State int

// Controller states.
const (
	StateIdle State = iota
	StateGenerating
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateGenerating:
		return "generating"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// OverlapPolicy decides what Generate does while a request is in flight.
type OverlapPolicy string

// Overlap policies.
const (
	// PolicyReject refuses a new generation until the pending one finishes.
	PolicyReject OverlapPolicy = "reject"
	// PolicyLastWriterWins lets requests overlap; the last to resolve owns the audio slot.
	PolicyLastWriterWins OverlapPolicy = "last_writer_wins"
	// PolicyCancel cancels the pending request and keeps only the newest result.
	PolicyCancel OverlapPolicy = "cancel"
)

var (
	// ErrEmptyText is returned when generate is invoked with blank text.
	ErrEmptyText = errors.New("text cannot be empty")
	// ErrGenerationInProgress is returned under PolicyReject while a request is pending.
	ErrGenerationInProgress = errors.New("speech generation already in progress")
	// ErrSuperseded is returned under PolicyCancel to the request a newer one replaced.
	ErrSuperseded = errors.New("speech generation superseded by a newer request")
	// ErrNoAudio is returned by Play when no audio is ready.
	ErrNoAudio = errors.New("no generated audio to play")
	// ErrUnknownPreset is returned for a preset name that does not exist.
	ErrUnknownPreset = errors.New("unknown preset")
	// ErrUnknownPolicy is returned for an unrecognised overlap policy.
	ErrUnknownPolicy = errors.New("unknown overlap policy")
)

// ParseOverlapPolicy maps a configuration value to an OverlapPolicy.
func ParseOverlapPolicy(value string) (OverlapPolicy, error) {
	policy := OverlapPolicy(strings.ToLower(strings.TrimSpace(value)))

	switch policy {
	case "":
		return PolicyReject, nil
	case PolicyReject, PolicyLastWriterWins, PolicyCancel:
		return policy, nil
	default:
		return "", fmt.Errorf("%w: '%s'", ErrUnknownPolicy, value)
	}
}

// GenerationError wraps a failed speech request.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return "speech generation failed: " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
