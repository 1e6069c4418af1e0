// main package for tts-studio
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/book-expert/logger"
	"github.com/book-expert/tts-studio/internal/archive"
	"github.com/book-expert/tts-studio/internal/config"
	"github.com/book-expert/tts-studio/internal/console"
	"github.com/book-expert/tts-studio/internal/core"
	"github.com/book-expert/tts-studio/internal/player"
	"github.com/book-expert/tts-studio/internal/studio"
	"github.com/book-expert/tts-studio/internal/tts"
	"github.com/nats-io/nats.go"
)

// Flag names and descriptions.
const (
	flagConfig     = "config"
	flagAPIURL     = "api-url"
	flagPolicy     = "policy"
	flagText       = "text"
	flagPreset     = "preset"
	flagOutput     = "output"
	flagConfigDesc = "Path to a TOML config file (defaults to the central configurator)"
	flagAPIURLDesc = "TTS service base URL, overrides the configuration"
	flagPolicyDesc = "What generate does while a request is pending: reject, last_writer_wins or cancel"
	flagTextDesc   = "Generate this text once and exit instead of starting the console"
	flagPresetDesc = "Generate an example text once (Greeting, Technology, Weather) and exit"
	flagOutputDesc = "Output file for one-shot generation"
)

const (
	logFileName       = "tts-studio.log"
	bootstrapLogName  = "tts-studio-bootstrap.log"
	defaultOutputFile = "generated_speech.wav"
	filePermissions   = 0o600
)

var errTextAndPreset = errors.New("cannot specify both --text and --preset")

// appFlags holds the parsed command-line flag values.
type appFlags struct {
	config string
	apiURL string
	policy string
	text   string
	preset string
	output string
}

func parseFlags(args []string) (appFlags, error) {
	var flags appFlags

	flagSet := flag.NewFlagSet("tts-studio", flag.ContinueOnError)
	flagSet.StringVar(&flags.config, flagConfig, "", flagConfigDesc)
	flagSet.StringVar(&flags.apiURL, flagAPIURL, "", flagAPIURLDesc)
	flagSet.StringVar(&flags.policy, flagPolicy, "", flagPolicyDesc)
	flagSet.StringVar(&flags.text, flagText, "", flagTextDesc)
	flagSet.StringVar(&flags.preset, flagPreset, "", flagPresetDesc)
	flagSet.StringVar(&flags.output, flagOutput, defaultOutputFile, flagOutputDesc)

	err := flagSet.Parse(args)
	if err != nil {
		return appFlags{}, fmt.Errorf("failed to parse flags: %w", err)
	}

	if flags.text != "" && flags.preset != "" {
		return appFlags{}, errTextAndPreset
	}

	return flags, nil
}

func setupLogger(logPath, fileName string) (*logger.Logger, error) {
	log, err := logger.New(logPath, fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return log, nil
}

func loadConfig(flags appFlags, log *logger.Logger) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)

	if flags.config != "" {
		cfg, err = config.LoadFile(flags.config)
	} else {
		cfg, err = config.Load(log)
	}

	if err != nil {
		return nil, err
	}

	if flags.apiURL != "" {
		cfg.API.BaseURL = flags.apiURL
	}

	if flags.policy != "" {
		cfg.Studio.OverlapPolicy = flags.policy
	}

	return cfg, nil
}

// buildController wires the API client, player and archive from cfg. The
// returned cleanup closes the NATS connection when one was opened.
func buildController(cfg *config.Config, log *logger.Logger) (*studio.Controller, func(), error) {
	policy, err := studio.ParseOverlapPolicy(cfg.Studio.OverlapPolicy)
	if err != nil {
		return nil, nil, err
	}

	client := tts.NewHTTPClient(cfg.API.BaseURL, time.Duration(cfg.API.TimeoutSeconds)*time.Second)
	opts := studio.Options{Policy: policy}
	cleanup := func() {}

	if cfg.Player.Command != "" {
		audioPlayer, playerErr := player.NewCommandPlayer(cfg.Player.Command, cfg.Player.Args, log)
		if playerErr != nil {
			return nil, nil, fmt.Errorf("failed to create player: %w", playerErr)
		}

		opts.Player = audioPlayer
	}

	if cfg.ArchiveEnabled() {
		natsConnection, audioArchive, archiveErr := connectArchive(cfg.Archive)
		if archiveErr != nil {
			return nil, nil, archiveErr
		}

		opts.Archive = audioArchive
		cleanup = natsConnection.Close

		log.Info("Archiving generated audio to bucket %s on %s", cfg.Archive.Bucket, cfg.Archive.NATSURL)
	}

	return studio.NewController(client, log, opts), cleanup, nil
}

func connectArchive(cfg config.ArchiveConfig) (*nats.Conn, core.AudioArchive, error) {
	natsConnection, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS at %s: %w", cfg.NATSURL, err)
	}

	jetstreamContext, err := natsConnection.JetStream()
	if err != nil {
		natsConnection.Close()

		return nil, nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	audioArchive, err := archive.New(natsConnection, jetstreamContext, cfg.Bucket, cfg.Subject)
	if err != nil {
		natsConnection.Close()

		return nil, nil, fmt.Errorf("failed to open audio archive: %w", err)
	}

	return natsConnection, audioArchive, nil
}

// generateOnce runs a single generation and writes the clip to outputPath.
func generateOnce(
	ctx context.Context,
	controller *studio.Controller,
	flags appFlags,
	out io.Writer,
) error {
	if flags.preset != "" {
		err := controller.ApplyPreset(flags.preset)
		if err != nil {
			return err
		}
	} else {
		controller.SetText(flags.text)
	}

	resource, err := controller.Generate(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate speech: %w", err)
	}

	data, err := resource.Bytes()
	if err != nil {
		return fmt.Errorf("failed to read generated audio: %w", err)
	}

	err = os.MkdirAll(filepath.Dir(flags.output), 0o750)
	if err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	err = os.WriteFile(flags.output, data, filePermissions)
	if err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}

	_, _ = fmt.Fprintf(out, "Generated: %s\n", flags.output)

	return nil
}

func run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	flags, err := parseFlags(args)
	if err != nil {
		return err
	}

	// 1. Create a temporary logger for the bootstrap process
	bootstrapLog, err := setupLogger(os.TempDir(), bootstrapLogName)
	if err != nil {
		return err
	}

	defer func() {
		_ = bootstrapLog.Close()
	}()

	// 2. Load configuration
	cfg, err := loadConfig(flags, bootstrapLog)
	if err != nil {
		bootstrapLog.Error("Failed to load configuration: %v", err)

		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 3. Initialize the final logger based on the loaded configuration
	finalLog, err := setupLogger(cfg.Paths.BaseLogsDir, logFileName)
	if err != nil {
		bootstrapLog.Error("Failed to create final logger: %v", err)

		return fmt.Errorf("failed to create final logger: %w", err)
	}

	defer func() {
		closeErr := finalLog.Close()
		if closeErr != nil {
			fmt.Fprintf(os.Stderr, "error closing final logger: %v\n", closeErr)
		}
	}()

	controller, cleanup, err := buildController(cfg, finalLog)
	if err != nil {
		finalLog.Error("Failed to initialize studio: %v", err)

		return err
	}
	defer cleanup()

	finalLog.System("tts-studio initialized against %s (overlap policy: %s)",
		cfg.API.BaseURL, cfg.Studio.OverlapPolicy)

	if flags.text != "" || flags.preset != "" {
		return generateOnce(ctx, controller, flags, out)
	}

	return console.New(controller, in, out, finalLog).Run(ctx)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout)
	if err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "tts-studio exited with error: %v\n", err)
		os.Exit(1)
	}
}
