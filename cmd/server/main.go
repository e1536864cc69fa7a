package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	braindump "github.com/garysheng/braindump"
	"github.com/garysheng/braindump/config"
	"github.com/garysheng/braindump/draft"
	"github.com/garysheng/braindump/providers"
	"github.com/garysheng/braindump/providers/anthropic"
	"github.com/garysheng/braindump/providers/deepgram"
	"github.com/garysheng/braindump/providers/gemini"
	"github.com/garysheng/braindump/providers/google"
	"github.com/garysheng/braindump/store"
	"github.com/garysheng/braindump/transcription"
)

// speechBackend is a transcriber that can also validate its keys.
type speechBackend interface {
	providers.Transcriber
	providers.KeyChecker
}

func main() {
	cfg := config.LoadServer()
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "Address to listen on")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the SQLite database")
	flag.StringVar(&cfg.STTBackend, "stt", cfg.STTBackend, "Speech backend: deepgram or google")
	flag.Parse()

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	var stt speechBackend
	switch cfg.STTBackend {
	case "google":
		stt = google.NewProvider()
	default:
		stt = deepgram.NewProvider(cfg.DeepgramModel)
	}

	claude := anthropic.NewProvider(cfg.AnthropicModel)
	gem := gemini.NewProvider(cfg.GeminiModel)

	s := braindump.New(braindump.Options{
		Addr:       cfg.Addr,
		Store:      st,
		Dispatcher: transcription.NewDispatcher(stt, cfg.Language),
		Generator:  draft.NewGenerator(claude, gem),
		Checkers: map[string]providers.KeyChecker{
			"speech":    stt,
			"anthropic": claude,
			"gemini":    gem,
		},
		RequestTimeout: cfg.RequestTimeout,
	})

	log.Printf("Serving on %s with %s transcription, data in %s\n", cfg.Addr, stt.Name(), cfg.DBPath)

	go func() {
		if err := s.Start(); err != nil {
			log.Fatalf("Server failed to start: %v\n", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	if err := s.Stop(); err != nil {
		log.Printf("Error during server shutdown: %v\n", err)
	}
}
