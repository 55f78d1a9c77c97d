package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"midimon/config"
	"midimon/debug"
	"midimon/midi"
	"midimon/monitor"
	"midimon/theme"
	"midimon/tui"
)

func main() {
	configPath := flag.String("config", "", "config file (default ~/.config/midimon/config.json)")
	debugLog := flag.Bool("debug", false, "write a debug log to ~/.config/midimon/debug.log")
	replay := flag.String("replay", "", "read raw USB-MIDI packets from a file instead of MIDI ports")
	flag.Parse()

	if err := run(*configPath, *debugLog, *replay); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, debugLog bool, replay string) error {
	// Load config
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	if debugLog || cfg.Debug {
		if err := debug.Enable(""); err != nil {
			return fmt.Errorf("enable debug log: %w", err)
		}
		defer debug.Disable()
	}

	// Load theme
	th := theme.Default()
	if cfg.Palette != "" {
		palette, err := theme.LoadGPL(cfg.Palette)
		if err != nil {
			return err
		}
		th = theme.New(palette)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := midi.MillisClock()
	dec := midi.NewDecoder(clock)
	mon := monitor.New(monitor.Options{
		QueueSize:  cfg.QueueSize,
		SysExLimit: cfg.SysExLimit,
		Clock:      clock,
	})
	go mon.Run(ctx)

	var deviceMgr *midi.DeviceManager
	var m tui.Model

	if replay != "" {
		f, err := os.Open(replay)
		if err != nil {
			return fmt.Errorf("open replay: %w", err)
		}
		src := midi.NewReaderSource(replay, f)
		defer src.Close()

		m = tui.NewModel(ctx, mon, nil, dec, th).WithSource(replay)
		mon.Post(ctx, monitor.USBStatusEvent{Connected: true})
		go func() {
			mon.Feed(ctx, src, dec)
			if err := src.Err(); err != nil {
				debug.Log("replay", "%v", err)
			}
		}()
	} else {
		// Create MIDI device manager (handles hot-plug)
		deviceMgr = midi.NewDeviceManager(midi.MatchAny(cfg.AutoConnectMatches()...), cfg.PollInterval())
		go deviceMgr.Run(ctx)
		m = tui.NewModel(ctx, mon, deviceMgr, dec, th)
	}

	debug.Log("main", "starting (replay=%q)", replay)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
