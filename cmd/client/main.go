package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gordonklaus/portaudio"

	"github.com/garysheng/braindump/config"
	"github.com/garysheng/braindump/keystore"
	"github.com/garysheng/braindump/providers"
	"github.com/garysheng/braindump/recorder"
)

const usage = `Usage:
  client [flags]                      record a session in the terminal
  client keys set <provider> <key>    validate and store an API key
  client keys rm <provider>           remove a stored key
  client keys list                    list providers with a stored key
  client autoadvance on|off           move to the next question after each answer

Providers: speech, anthropic, gemini

Flags:
`

func main() {
	cfg := config.LoadClient()

	flag.StringVar(&cfg.ServerURL, "url", cfg.ServerURL, "Server base URL")
	flag.StringVar(&cfg.UserID, "user", cfg.UserID, "User ID that owns the sessions")
	flag.StringVar(&cfg.KeysPath, "keys", cfg.KeysPath, "Path to the key store")
	logPath := flag.String("log", "", "Write debug logs to this file")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	cfg.ServerURL = strings.TrimRight(cfg.ServerURL, "/")

	api := newAPIClient(cfg.ServerURL, cfg.UserID)

	checkers := make(map[keystore.Provider]providers.KeyChecker, len(keystore.Providers))
	for _, p := range keystore.Providers {
		checkers[p] = remoteChecker{api: api, provider: string(p)}
	}
	keys, err := keystore.Open(cfg.KeysPath, checkers)
	if err != nil {
		log.Fatalf("Failed to open key store: %v", err)
	}
	defer keys.Close()

	if args := flag.Args(); len(args) > 0 {
		if err := runCommand(keys, args); err != nil {
			fmt.Fprintln(os.Stderr, err)
			keys.Close()
			os.Exit(1)
		}
		return
	}

	if *logPath != "" {
		f, err := tea.LogToFile(*logPath, "braindump")
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer f.Close()
	}

	if err := portaudio.Initialize(); err != nil {
		log.Fatalf("portaudio.Initialize: %v", err)
	}
	defer portaudio.Terminate()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	nav := &navigator{}
	notifier := &teaNotifier{}
	ctrl := recorder.NewController(
		portaudioMic{},
		desktopPlatform{},
		uploader{api: api, keys: keys, nav: nav},
		nav,
		preferences{keys: keys},
		notifier,
		recorder.Config{
			MaxDuration: cfg.MaxRecording,
			StopDelay:   cfg.StopDelay,
			SampleRate:  cfg.SampleRate,
		},
	)
	defer ctrl.Close()

	p := tea.NewProgram(NewModel(ctx, api, keys, ctrl, nav), tea.WithAltScreen())
	notifier.attach(p)

	if _, err := p.Run(); err != nil {
		log.Printf("Error running client: %v\n", err)
	}
}

// runCommand handles the non-interactive subcommands.
func runCommand(keys *keystore.Store, args []string) error {
	switch args[0] {
	case "keys":
		return runKeys(keys, args[1:])
	case "autoadvance":
		if len(args) != 2 || (args[1] != "on" && args[1] != "off") {
			return fmt.Errorf("usage: client autoadvance on|off")
		}
		return keys.SetAutoAdvance(args[1] == "on")
	}
	return fmt.Errorf("unknown command %q", args[0])
}

func runKeys(keys *keystore.Store, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: client keys set|rm|list")
	}

	switch args[0] {
	case "list":
		stored, err := keys.List()
		if err != nil {
			return err
		}
		if len(stored) == 0 {
			fmt.Println("No keys stored.")
		}
		for _, p := range stored {
			fmt.Println(p)
		}
		return nil

	case "set":
		if len(args) != 3 {
			return fmt.Errorf("usage: client keys set <provider> <key>")
		}
		p, err := keystore.ParseProvider(args[1])
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := keys.Set(ctx, p, args[2]); err != nil {
			return fmt.Errorf("%s key not saved: %w", p, err)
		}
		fmt.Printf("%s key saved.\n", p)
		return nil

	case "rm":
		if len(args) != 2 {
			return fmt.Errorf("usage: client keys rm <provider>")
		}
		p, err := keystore.ParseProvider(args[1])
		if err != nil {
			return err
		}
		if err := keys.Remove(p); err != nil {
			return err
		}
		fmt.Printf("%s key removed.\n", p)
		return nil
	}
	return fmt.Errorf("unknown keys command %q", args[0])
}
