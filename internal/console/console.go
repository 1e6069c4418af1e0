// Package console renders the studio controller in a terminal and turns
// typed commands into controller actions.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/book-expert/logger"
	"github.com/book-expert/tts-studio/internal/core"
	"github.com/book-expert/tts-studio/internal/studio"
)

// User-facing messages.
const (
	AlertGenerateFailed = "Error generating speech. Please try again."
	msgPrompt           = "> "
	msgBusy             = "Speech generation is already in progress."
	msgEmptyText        = "Enter the text you want to convert to speech first."
	msgNoAudio          = "No audio generated yet."
	msgUnknownCommand   = "Unknown command %q. Type 'help' for the list of commands."
	msgVoicesFailed     = "Could not load voices. Please try again."
	msgPlayFailed       = "Could not play audio: %v"
	msgGenerated        = "Generated audio: %s"
	msgBye              = "Bye."
)

const helpText = `Commands:
  text <words>       set the text to convert
  preset <name>      use an example text (see 'presets')
  presets            list the example texts
  speed <0.5-2.0>    set the speaking rate
  pitch <0.5-1.5>    set the pitch
  volume <0.0-1.0>   set the volume
  generate           convert the text to speech
  play               play the generated audio
  voices             list voices offered by the service
  show               show the current state
  help               show this help
  quit               exit`

// Console reads commands from in and writes the rendered state to out.
// Generations run in the background, so the controller's overlap policy
// decides what a second generate does while the first is pending.
type Console struct {
	controller *studio.Controller
	in         io.Reader
	out        io.Writer
	log        *logger.Logger

	outMu   sync.Mutex
	pending sync.WaitGroup
}

// New creates a console bound to controller.
func New(controller *studio.Controller, in io.Reader, out io.Writer, log *logger.Logger) *Console {
	return &Console{
		controller: controller,
		in:         in,
		out:        out,
		log:        log,
	}
}

// Run processes commands until quit, end of input or ctx is done. It returns
// once every generation it started has finished.
func (c *Console) Run(ctx context.Context) error {
	readCtx, stop := context.WithCancel(ctx)
	defer stop()

	lines := make(chan string)
	readDone := make(chan error, 1)

	go c.readLines(readCtx, lines, readDone)

	c.render()

	for {
		c.print(msgPrompt)

		select {
		case <-ctx.Done():
			c.pending.Wait()
			c.println("")

			return nil
		case line, ok := <-lines:
			if !ok {
				c.pending.Wait()

				err := <-readDone
				if err != nil {
					return fmt.Errorf("failed to read console input: %w", err)
				}

				return nil
			}

			if !c.Execute(ctx, line) {
				c.pending.Wait()
				c.println(msgBye)

				return nil
			}
		}
	}
}

// readLines feeds lines from in until end of input or ctx is done. A read
// that is blocked when ctx ends stays blocked until in returns.
func (c *Console) readLines(ctx context.Context, lines chan<- string, done chan<- error) {
	defer close(lines)

	scanner := bufio.NewScanner(c.in)

	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
		case <-ctx.Done():
			done <- nil

			return
		}
	}

	done <- scanner.Err()
}

// Execute runs a single command line and reports whether the console should
// continue. generate returns at once; Run waits for it before returning.
func (c *Console) Execute(ctx context.Context, line string) bool {
	command, argument := splitCommand(line)

	switch command {
	case "":
	case "quit", "exit":
		return false
	case "help":
		c.println(helpText)
	case "text":
		c.controller.SetText(argument)
		c.render()
	case "preset":
		c.applyPreset(argument)
	case "presets":
		c.listPresets()
	case core.SettingSpeed, core.SettingPitch, core.SettingVolume:
		c.setVoice(command, argument)
	case "generate":
		c.pending.Go(func() { c.generate(ctx) })
	case "play":
		c.play(ctx)
	case "voices":
		c.listVoices(ctx)
	case "show":
		c.render()
	default:
		c.printf(msgUnknownCommand+"\n", command)
	}

	return true
}

func (c *Console) applyPreset(name string) {
	err := c.controller.ApplyPreset(name)
	if err != nil {
		c.println(err.Error())

		return
	}

	c.render()
}

func (c *Console) listPresets() {
	for _, preset := range studio.Presets() {
		c.printf("  %-11s %s\n", preset.Name, preset.Text)
	}
}

func (c *Console) setVoice(name, raw string) {
	err := c.controller.SetVoiceSetting(name, raw)
	if err != nil {
		c.println(err.Error())

		return
	}

	c.renderSettings()
}

func (c *Console) generate(ctx context.Context) {
	resource, err := c.controller.Generate(ctx)

	switch {
	case err == nil:
		c.printf(msgGenerated+"\n", resource.URL())
		c.render()
	case errors.Is(err, studio.ErrEmptyText):
		c.println(msgEmptyText)
	case errors.Is(err, studio.ErrGenerationInProgress):
		c.println(msgBusy)
	case errors.Is(err, studio.ErrSuperseded), ctx.Err() != nil:
	default:
		c.println(AlertGenerateFailed)
		c.controller.Dismiss()
	}
}

func (c *Console) play(ctx context.Context) {
	err := c.controller.Play(ctx)

	switch {
	case err == nil:
	case errors.Is(err, studio.ErrNoAudio):
		c.println(msgNoAudio)
	default:
		c.log.Error("Error playing audio: %v", err)
		c.printf(msgPlayFailed+"\n", err)
	}
}

func (c *Console) listVoices(ctx context.Context) {
	voices, err := c.controller.Voices(ctx)
	if err != nil {
		c.log.Error("Error fetching voices: %v", err)
		c.println(msgVoicesFailed)

		return
	}

	for _, voice := range voices {
		c.printf("  %-10s %-14s %-8s %-8s %s\n",
			voice.ID, voice.Name, voice.Language, voice.Gender, voice.Description)
	}
}

func (c *Console) render() {
	view := c.controller.View()

	text := view.Text
	if strings.TrimSpace(text) == "" {
		text = "(empty)"
	}

	var screen strings.Builder

	_, _ = fmt.Fprintf(&screen, "Text: %s\n", text)
	screen.WriteString(settingsLine(view) + "\n")
	screen.WriteString("[" + view.GenerateLabel + "]")

	if !view.GenerateEnabled {
		screen.WriteString(" (disabled)")
	}

	if view.PlayLabel != "" {
		screen.WriteString("  [" + view.PlayLabel + "]")
	}

	screen.WriteString("\n")

	if view.AudioURL != "" {
		_, _ = fmt.Fprintf(&screen, "Generated Audio: %s %s\n", view.AudioURL, view.AudioInfo)
	}

	c.print(screen.String())
}

func (c *Console) renderSettings() {
	c.println(settingsLine(c.controller.View()))
}

func settingsLine(view studio.View) string {
	return fmt.Sprintf("%s | %s | %s", view.SpeedLabel, view.PitchLabel, view.VolumeLabel)
}

func (c *Console) print(text string) {
	c.outMu.Lock()
	defer c.outMu.Unlock()

	_, _ = io.WriteString(c.out, text)
}

func (c *Console) println(text string) {
	c.print(text + "\n")
}

func (c *Console) printf(format string, args ...any) {
	c.print(fmt.Sprintf(format, args...))
}

// splitCommand separates the first word from the rest of the line.
func splitCommand(line string) (string, string) {
	trimmed := strings.TrimSpace(line)

	command, argument, _ := strings.Cut(trimmed, " ")

	return strings.ToLower(command), strings.TrimSpace(argument)
}
