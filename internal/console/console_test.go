package console_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/book-expert/logger"
	"github.com/book-expert/tts-studio/internal/console"
	"github.com/book-expert/tts-studio/internal/core"
	"github.com/book-expert/tts-studio/internal/studio"
	"github.com/book-expert/tts-studio/internal/tts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestLogger(t *testing.T) *logger.Logger {
	t.Helper()

	log, err := logger.New(t.TempDir(), "console-test.log")
	require.NoError(t, err)

	t.Cleanup(func() { _ = log.Close() })

	return log
}

// runConsole feeds script to a console backed by a mock TTS server.
func runConsole(t *testing.T, handler http.HandlerFunc, script string) (*studio.Controller, string) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	log := createTestLogger(t)
	controller := studio.NewController(tts.NewHTTPClient(server.URL, 5*time.Second), log, studio.Options{})

	var out bytes.Buffer

	err := console.New(controller, strings.NewReader(script), &out, log).Run(context.Background())
	require.NoError(t, err)

	return controller, out.String()
}

func TestConsole_GenerateFailureAlertsOnce(t *testing.T) {
	t.Parallel()

	controller, output := runConsole(t,
		func(responseWriter http.ResponseWriter, _ *http.Request) {
			responseWriter.WriteHeader(http.StatusInternalServerError)
		},
		"text Hello world\ngenerate\n",
	)

	assert.Equal(t, 1, strings.Count(output, console.AlertGenerateFailed))

	snapshot := controller.Snapshot()
	assert.False(t, snapshot.IsLoading)
	assert.Empty(t, snapshot.AudioURL)
	assert.Equal(t, studio.StateIdle, snapshot.State)
}

func TestConsole_GenerateAndShow(t *testing.T) {
	t.Parallel()

	controller, output := runConsole(t,
		func(responseWriter http.ResponseWriter, _ *http.Request) {
			responseWriter.Header().Set("Content-Type", "audio/wav")
			_, _ = responseWriter.Write([]byte("audio-bytes"))
		},
		"preset weather\nspeed 1.5\ngenerate\nplay\nquit\ntext never reached\n",
	)

	assert.Contains(t, output, "Speed: 1.5x | Pitch: 1.0 | Volume: 1.0")
	assert.Contains(t, output, "[▶ Play Audio]")
	assert.Contains(t, output, "Generated audio: blob:tts-studio/")
	assert.Contains(t, output, "Bye.")
	assert.NotContains(t, output, console.AlertGenerateFailed)

	snapshot := controller.Snapshot()
	assert.Equal(t, studio.StateReady, snapshot.State)
	assert.True(t, strings.HasPrefix(snapshot.Text, "The weather today is sunny"))
}

func TestConsole_Messages(t *testing.T) {
	t.Parallel()

	_, output := runConsole(t,
		func(responseWriter http.ResponseWriter, request *http.Request) {
			if request.URL.Path == "/api/voices" {
				_, _ = responseWriter.Write([]byte(`[{"id":"female","name":"Female Voice","language":"English","gender":"Female","description":"Natural female voice"}]`))

				return
			}

			responseWriter.WriteHeader(http.StatusNotFound)
		},
		"generate\nplay\nvoices\npresets\npitch high\ndance\nhelp\n",
	)

	assert.Contains(t, output, "Enter the text you want to convert to speech first.")
	assert.Contains(t, output, "No audio generated yet.")
	assert.Contains(t, output, "Female Voice")
	assert.Contains(t, output, "Technology")
	assert.Contains(t, output, "invalid voice setting value")
	assert.Contains(t, output, `Unknown command "dance"`)
	assert.Contains(t, output, "Commands:")
	assert.Contains(t, output, "(disabled)")
}

func TestConsole_StopsWhenContextCancelled(t *testing.T) {
	t.Parallel()

	reader, writer := io.Pipe()
	t.Cleanup(func() { _ = writer.Close() })

	log := createTestLogger(t)
	controller := studio.NewController(tts.NewHTTPClient("http://127.0.0.1:1", time.Second), log, studio.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out bytes.Buffer

	done := make(chan error, 1)

	go func() {
		done <- console.New(controller, reader, &out, log).Run(ctx)
	}()

	// The write returns once the console has read the line; the reader then
	// blocks on the pipe waiting for the next one.
	_, err := io.WriteString(writer, "text Hello\n")
	require.NoError(t, err)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("console kept waiting for input after the context was cancelled")
	}
}

// pairedGenerator holds every request until two are in flight.
type pairedGenerator struct {
	mu          sync.Mutex
	calls       int
	bothStarted chan struct{}
}

func (g *pairedGenerator) GenerateSpeech(ctx context.Context, _ string, _ core.VoiceSettings) (core.Audio, error) {
	g.mu.Lock()
	g.calls++

	if g.calls == 2 {
		close(g.bothStarted)
	}
	g.mu.Unlock()

	select {
	case <-g.bothStarted:
	case <-ctx.Done():
		return core.Audio{}, ctx.Err()
	}

	return core.Audio{Data: []byte("clip"), ContentType: "audio/wav"}, nil
}

func (g *pairedGenerator) GetAvailableVoices(_ context.Context) ([]core.Voice, error) {
	return nil, nil
}

func TestConsole_GenerateRunsInBackground(t *testing.T) {
	t.Parallel()

	generator := &pairedGenerator{bothStarted: make(chan struct{})}
	log := createTestLogger(t)
	controller := studio.NewController(generator, log, studio.Options{Policy: studio.PolicyLastWriterWins})

	var out bytes.Buffer

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := console.New(controller, strings.NewReader("text Hello\ngenerate\ngenerate\n"), &out, log).Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(out.String(), "Generated audio: blob:tts-studio/"))
	assert.NotContains(t, out.String(), console.AlertGenerateFailed)
	assert.Equal(t, studio.StateReady, controller.Snapshot().State)
}
