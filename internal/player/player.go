// Package player plays generated audio through an external command.
package player

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/book-expert/logger"
	"github.com/book-expert/tts-studio/internal/audio"
)

// ErrCommandEmpty is returned when no player binary is configured.
var ErrCommandEmpty = errors.New("player command cannot be empty")

// CommandPlayer implements core.Player by handing a temp file to a binary
// such as aplay, afplay or ffplay.
type CommandPlayer struct {
	command string
	args    []string
	log     *logger.Logger
}

// NewCommandPlayer creates a player that runs `command args... <file>`.
func NewCommandPlayer(command string, args []string, log *logger.Logger) (*CommandPlayer, error) {
	if command == "" {
		return nil, ErrCommandEmpty
	}

	return &CommandPlayer{
		command: command,
		args:    args,
		log:     log,
	}, nil
}

// Play writes data to a temp file and blocks until the player exits.
func (p *CommandPlayer) Play(ctx context.Context, data []byte, contentType string) error {
	tempFile, err := os.CreateTemp("", "tts-studio-*"+audio.ExtensionFor(contentType))
	if err != nil {
		return fmt.Errorf("failed to create temp file for playback: %w", err)
	}

	defer func() {
		removeErr := os.Remove(tempFile.Name())
		if removeErr != nil {
			p.log.Warn("Failed to remove temp file '%s': %v", tempFile.Name(), removeErr)
		}
	}()

	_, writeErr := tempFile.Write(data)
	closeErr := tempFile.Close()

	if writeErr != nil {
		return fmt.Errorf("failed to write playback file: %w", writeErr)
	}

	if closeErr != nil {
		return fmt.Errorf("failed to close playback file: %w", closeErr)
	}

	args := append(append([]string{}, p.args...), tempFile.Name())

	// #nosec G204 -- the command comes from the operator's own configuration
	cmd := exec.CommandContext(ctx, p.command, args...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("player '%s' failed: %w - output: %s", p.command, err, string(output))
	}

	p.log.Info("Played %s of audio with %s", audio.FormatFileSize(int64(len(data))), p.command)

	return nil
}
