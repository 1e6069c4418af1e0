package player_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/book-expert/logger"
	"github.com/book-expert/tts-studio/internal/player"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()

	log, err := logger.New(t.TempDir(), "player-test.log")
	require.NoError(t, err)

	t.Cleanup(func() { _ = log.Close() })

	return log
}

func TestNewCommandPlayer_EmptyCommand(t *testing.T) {
	t.Parallel()

	_, err := player.NewCommandPlayer("", nil, newTestLogger(t))
	require.ErrorIs(t, err, player.ErrCommandEmpty)
}

func TestCommandPlayer_Play(t *testing.T) {
	t.Parallel()

	// The player appends the clip path last, which sh -c receives as $0.
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	dest := filepath.Join(t.TempDir(), "played.wav")
	audioPlayer, err := player.NewCommandPlayer(
		"sh",
		[]string{"-c", `cp "$0" ` + dest},
		newTestLogger(t),
	)
	require.NoError(t, err)

	err = audioPlayer.Play(context.Background(), []byte("RIFF-audio"), "audio/wav")
	require.NoError(t, err)

	played, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, []byte("RIFF-audio"), played)
}

func TestCommandPlayer_PlayFailure(t *testing.T) {
	t.Parallel()

	audioPlayer, err := player.NewCommandPlayer(
		filepath.Join(t.TempDir(), "no-such-player"),
		nil,
		newTestLogger(t),
	)
	require.NoError(t, err)

	err = audioPlayer.Play(context.Background(), []byte("audio"), "audio/wav")
	require.Error(t, err)
}
