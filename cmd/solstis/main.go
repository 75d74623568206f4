package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/pflag"

	"solstis/internal/audio"
	"solstis/internal/config"
	"solstis/internal/convo"
	"solstis/internal/ipc"
	"solstis/internal/kit"
	"solstis/internal/led"
	"solstis/internal/lid"
	"solstis/internal/proxy"
	"solstis/internal/speech"
	"solstis/internal/wake"
	"solstis/pkg/stt"
)

func main() {
	var (
		envFile   = pflag.String("env", ".env", "environment file to load")
		logLevel  = pflag.String("log", "info", "log level (debug, info, warn, error)")
		proxyAddr = pflag.String("proxy", "", "SOCKS5 proxy for cloud API calls (host:port)")
		socket    = pflag.String("socket", ipc.DefaultSocketPath, "control socket path")
	)
	pflag.Parse()

	log := newLogger(*logLevel)

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("env file not loaded", "path", *envFile, "err", err)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := run(cfg, *proxyAddr, *socket, log); err != nil &&
		!errors.Is(err, context.Canceled) {
		log.Error("daemon exited", "err", err)
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      lvl,
		TimeFormat: time.Kitchen,
	}))
}

func run(cfg config.Config, proxyAddr, socket string, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var httpc *http.Client
	if proxyAddr != "" {
		var err error
		httpc, err = proxy.HTTPClient(proxyAddr, 30*time.Second)
		if err != nil {
			return err
		}
		log.Info("using SOCKS5 proxy", "addr", proxyAddr)
	}

	player, err := audio.NewPlayer(cfg.OutputSampleRate)
	if err != nil {
		return err
	}
	defer player.Close()

	var chime *audio.Chime
	if cfg.ChimePath != "" {
		chime, err = audio.LoadChime(cfg.ChimePath, player)
		if err != nil {
			log.Warn("chime not loaded", "path", cfg.ChimePath, "err", err)
		}
	}

	engine, err := wake.NewEngine(wake.Options{
		AccessKey:        cfg.PicovoiceAccessKey,
		WakewordPath:     cfg.WakewordPath,
		StepCompletePath: cfg.StepCompletePath,
		BuiltinKeyword:   cfg.Wakeword,
		CobraThreshold:   cfg.CobraVADThreshold,
		SpeechThreshold:  cfg.SpeechThreshold,
		VADCompletion:    cfg.VADCompletion,
		MaxSpeech:        cfg.MaxSpeechDuration,
		MicDevice:        cfg.MicDevice,
	}, log)
	if err != nil {
		return err
	}
	defer engine.Close()

	var offline *stt.Transcriber
	if cfg.WhisperModelPath != "" {
		offline, err = stt.NewTranscriber(cfg.WhisperModelPath)
		if err != nil {
			log.Warn("offline transcription unavailable", "err", err)
		} else {
			defer offline.Close()
		}
	}

	voice := speech.NewElevenLabs(speech.VoiceOptions{
		APIKey:          cfg.ElevenLabsAPIKey,
		VoiceID:         cfg.VoiceID,
		ModelID:         cfg.VoiceModelID,
		Stability:       cfg.Stability,
		SimilarityBoost: cfg.SimilarityBoost,
		OutputRate:      cfg.OutputSampleRate,
	}, httpc, log)
	chat := speech.NewChatClient(cfg.OpenAIAPIKey, cfg.Model, httpc)
	services := speech.NewServices(voice, chat, offline, true, log)

	var lights convo.Illuminator = led.Disabled{}
	if cfg.LEDEnabled {
		strip, err := led.NewStrip(led.Options{
			Pin:        cfg.LEDPin,
			Count:      cfg.LEDCount,
			Brightness: cfg.LEDBrightness,
		}, log)
		if err != nil {
			log.Warn("led strip unavailable", "err", err)
		} else {
			defer strip.Close()
			lights = strip
		}
	}

	var lidSensor convo.LidSensor = lid.AlwaysOpen{}
	if cfg.ReedEnabled {
		reed, err := lid.NewReed("", cfg.ReedPin, cfg.ReedDebounce, log)
		if err != nil {
			log.Warn("reed switch unavailable, assuming lid open", "err", err)
		} else {
			defer reed.Close()
			lidSensor = reed
		}
	}

	machine := convo.NewMachine(convo.Config{
		UserName:      cfg.UserName,
		SystemPrompt:  speech.BuildSystemPrompt(cfg.UserName, kit.Catalog()),
		ShortTimeout:  cfg.ShortTimeout,
		NormalTimeout: cfg.NormalTimeout,
		LongTimeout:   cfg.LongTimeout,
	}, log, chimedMic{engine: engine, chime: chime}, services, player, lights, lidSensor)

	ctl, err := ipc.NewServer(socket, controlHandler(machine), log)
	if err != nil {
		return err
	}
	go func() {
		if err := ctl.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("control server stopped", "err", err)
		}
	}()

	log.Info("solstis ready", "user", cfg.UserName, "socket", socket)
	return machine.Run(ctx)
}

func controlHandler(m *convo.Machine) ipc.Handler {
	return func(cmd ipc.Command) ipc.Reply {
		switch cmd.Op {
		case "state":
			return ipc.Reply{OK: true, State: m.State().String()}
		case "reset":
			m.RequestReset()
			return ipc.Reply{OK: true}
		case "items":
			catalog := kit.Catalog()
			ids := make([]string, len(catalog))
			for i, it := range catalog {
				ids[i] = it.ID
			}
			return ipc.Reply{OK: true, Items: ids}
		case "lit":
			return ipc.Reply{OK: true, Items: m.LitItems()}
		default:
			return ipc.Reply{Error: "unknown op " + cmd.Op}
		}
	}
}

// chimedMic plays the wake chime as soon as the keyword fires, before
// the spoken prompt catches up.
type chimedMic struct {
	engine *wake.Engine
	chime  *audio.Chime
}

func (m chimedMic) WaitForWakeWord(ctx context.Context) (convo.WakeWord, error) {
	w, err := m.engine.WaitForWakeWord(ctx)
	if err == nil && w == convo.WakeSolstis && m.chime != nil {
		m.chime.Play()
	}
	return w, err
}

func (m chimedMic) ListenForSpeech(ctx context.Context, wait time.Duration) ([]byte, error) {
	return m.engine.ListenForSpeech(ctx, wait)
}
