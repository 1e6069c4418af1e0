package studio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/book-expert/logger"
	"github.com/book-expert/tts-studio/internal/audio"
	"github.com/book-expert/tts-studio/internal/core"
)

// Log formats.
const (
	logFmtGenerating      = "Generating speech for %d characters (speed=%.1f pitch=%.1f volume=%.1f)"
	logFmtGenerated       = "Generated %s of audio at %s"
	logFmtGenerateFailed  = "Error generating speech: %v"
	logFmtSuperseded      = "Discarding superseded generation %d"
	logFmtArchived        = "Archived %s as %s"
	logFmtArchiveFailed   = "Failed to archive %s: %v"
	logFmtPlaybackStarted = "Playing %s"
	logMsgNoPlayer        = "No player configured, play ignored"
)

// Options configures a Controller.
type Options struct {
	Policy OverlapPolicy
	// Player is the mounted audio element. Nil makes Play a no-op.
	Player core.Player
	// Archive receives every generated clip when set.
	Archive core.AudioArchive
	// Registry defaults to a fresh registry.
	Registry *audio.Registry
}

// Snapshot is a copy of the controller's UI state.
type Snapshot struct {
	State         State
	Text          string
	IsLoading     bool
	AudioURL      string
	VoiceSettings core.VoiceSettings
	LastError     error
}

// Controller owns the UI state and runs the generate/play state machine.
// It is safe for concurrent use; the speech request runs outside the lock.
type Controller struct {
	generator core.SpeechGenerator
	registry  *audio.Registry
	player    core.Player
	archive   core.AudioArchive
	policy    OverlapPolicy
	log       *logger.Logger

	mu       sync.Mutex
	state    State
	text     string
	settings core.VoiceSettings
	resource *audio.Resource
	lastErr  error
	inFlight int
	sequence uint64
	cancel   context.CancelFunc
}

// NewController creates a controller in the Idle state with default voice settings.
func NewController(generator core.SpeechGenerator, log *logger.Logger, opts Options) *Controller {
	registry := opts.Registry
	if registry == nil {
		registry = audio.NewRegistry()
	}

	policy := opts.Policy
	if policy == "" {
		policy = PolicyReject
	}

	return &Controller{
		generator: generator,
		registry:  registry,
		player:    opts.Player,
		archive:   opts.Archive,
		policy:    policy,
		log:       log,
		state:     StateIdle,
		settings:  core.DefaultVoiceSettings(),
	}
}

// SetText replaces the text unconditionally.
func (c *Controller) SetText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.text = text
	c.dismissLocked()
}

// ApplyPreset overwrites the text with the named preset.
func (c *Controller) ApplyPreset(name string) error {
	preset, ok := findPreset(name)
	if !ok {
		return fmt.Errorf("%w: '%s'", ErrUnknownPreset, name)
	}

	c.SetText(preset.Text)

	return nil
}

// SetVoiceSetting parses raw and replaces one voice setting. It does not
// touch the generate state machine.
func (c *Controller) SetVoiceSetting(name, raw string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	updated := c.settings

	err := updated.Set(name, raw)
	if err != nil {
		return fmt.Errorf("failed to update voice setting: %w", err)
	}

	c.settings = updated

	return nil
}

// CanGenerate reports whether the generate action is enabled.
func (c *Controller) CanGenerate() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return strings.TrimSpace(c.text) != "" && c.inFlight == 0
}

// Dismiss acknowledges a reported failure and returns to Idle.
func (c *Controller) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.dismissLocked()
}

func (c *Controller) dismissLocked() {
	if c.state == StateError {
		c.state = StateIdle
		c.lastErr = nil
	}
}

// Generate submits the current text and voice settings and, on success,
// replaces the audio resource with the returned clip. Failures come back as
// *GenerationError.
func (c *Controller) Generate(ctx context.Context) (*audio.Resource, error) {
	req, err := c.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer req.cancel()

	c.log.Info(logFmtGenerating, len(req.text), req.settings.Speed, req.settings.Pitch, req.settings.Volume)

	result, genErr := c.generator.GenerateSpeech(req.ctx, req.text, req.settings)

	resource, err := c.finish(req.sequence, result, genErr)
	if err != nil {
		return nil, err
	}

	c.archiveClip(ctx, resource, result.Data)

	return resource, nil
}

// pendingRequest is the snapshot a generation runs with.
type pendingRequest struct {
	ctx      context.Context
	cancel   context.CancelFunc
	sequence uint64
	text     string
	settings core.VoiceSettings
}

// begin performs the transition into Generating.
func (c *Controller) begin(ctx context.Context) (pendingRequest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if strings.TrimSpace(c.text) == "" {
		return pendingRequest{}, ErrEmptyText
	}

	if c.inFlight > 0 {
		switch c.policy {
		case PolicyReject:
			return pendingRequest{}, ErrGenerationInProgress
		case PolicyCancel:
			if c.cancel != nil {
				c.cancel()
			}
		case PolicyLastWriterWins:
		}
	}

	reqCtx, cancel := context.WithCancel(ctx)

	c.sequence++
	c.inFlight++
	c.cancel = cancel
	c.lastErr = nil
	c.state = StateGenerating
	c.releaseLocked()

	return pendingRequest{
		ctx:      reqCtx,
		cancel:   cancel,
		sequence: c.sequence,
		text:     c.text,
		settings: c.settings,
	}, nil
}

// finish commits the outcome of request sequence.
func (c *Controller) finish(sequence uint64, result core.Audio, genErr error) (*audio.Resource, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.settleLocked()

	c.inFlight--

	if sequence == c.sequence {
		c.cancel = nil
	}

	if c.policy == PolicyCancel && sequence != c.sequence {
		c.log.Info(logFmtSuperseded, sequence)

		return nil, ErrSuperseded
	}

	if genErr != nil {
		c.log.Error(logFmtGenerateFailed, genErr)

		failure := &GenerationError{Err: genErr}
		c.lastErr = failure

		return nil, failure
	}

	c.releaseLocked()
	c.resource = c.registry.Create(result.Data, result.ContentType)
	c.lastErr = nil

	c.log.Info(logFmtGenerated, audio.FormatFileSize(int64(len(result.Data))), c.resource.URL())

	return c.resource, nil
}

// settleLocked leaves Generating once the last request in flight has
// finished. Audio that is still held keeps the controller playable even when
// a later request failed.
func (c *Controller) settleLocked() {
	if c.inFlight > 0 {
		return
	}

	switch {
	case c.resource != nil:
		c.state = StateReady
		c.lastErr = nil
	case c.lastErr != nil:
		c.state = StateError
	default:
		c.state = StateIdle
	}
}

// releaseLocked revokes the current resource so its memory is freed before
// it is superseded.
func (c *Controller) releaseLocked() {
	if c.resource == nil {
		return
	}

	c.registry.Revoke(c.resource.URL())
	c.resource = nil
}

func (c *Controller) archiveClip(ctx context.Context, resource *audio.Resource, data []byte) {
	if c.archive == nil {
		return
	}

	key, err := c.archive.Save(ctx, resource.URL(), data)
	if err != nil {
		c.log.Warn(logFmtArchiveFailed, resource.URL(), err)

		return
	}

	c.log.Info(logFmtArchived, resource.URL(), key)
}

// Play starts playback of the ready clip. Without a mounted player it does nothing.
func (c *Controller) Play(ctx context.Context) error {
	c.mu.Lock()

	if c.state != StateReady || c.resource == nil {
		c.mu.Unlock()

		return ErrNoAudio
	}

	resource := c.resource
	c.mu.Unlock()

	if c.player == nil {
		c.log.Info(logMsgNoPlayer)

		return nil
	}

	data, err := resource.Bytes()
	if err != nil {
		if errors.Is(err, audio.ErrRevoked) {
			return ErrNoAudio
		}

		return err
	}

	c.log.Info(logFmtPlaybackStarted, resource.URL())

	err = c.player.Play(ctx, data, resource.ContentType())
	if err != nil {
		return fmt.Errorf("failed to play audio: %w", err)
	}

	return nil
}

// Voices lists the voices the TTS service offers.
func (c *Controller) Voices(ctx context.Context) ([]core.Voice, error) {
	voices, err := c.generator.GetAvailableVoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list voices: %w", err)
	}

	return voices, nil
}

// Resource returns the current audio resource, nil when none is ready.
func (c *Controller) Resource() *audio.Resource {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.resource
}

// Snapshot returns a copy of the UI state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := Snapshot{
		State:         c.state,
		Text:          c.text,
		IsLoading:     c.inFlight > 0,
		VoiceSettings: c.settings,
		LastError:     c.lastErr,
	}

	if c.resource != nil {
		snapshot.AudioURL = c.resource.URL()
	}

	return snapshot
}
