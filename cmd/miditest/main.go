package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"midimon/midi"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	var err error
	switch os.Args[1] {
	case "list":
		listPorts()
	case "decode":
		err = decodeArgs(os.Args[2:])
	case "replay":
		if len(os.Args) < 3 {
			usage()
			return
		}
		err = replayFile(os.Args[2])
	case "listen":
		match := ""
		if len(os.Args) > 2 {
			match = os.Args[2]
		}
		err = listen(match)
	default:
		usage()
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list             - List all MIDI input ports")
	fmt.Println("  decode <hex>...  - Decode USB-MIDI packets, e.g. 09903C64")
	fmt.Println("  replay <file>    - Decode a raw packet dump")
	fmt.Println("  listen [match]   - Print messages from the first matching input port")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	ins, ok := midi.ListInPorts(3 * time.Second)
	if !ok {
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
		return
	}
	for i, p := range ins {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
}

// parsePacket parses an 8 hex digit packet, spaces allowed ("09 90 3C 64")
func parsePacket(s string) (midi.Packet, error) {
	var p midi.Packet
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		return p, fmt.Errorf("packet %q: %w", s, err)
	}
	if len(b) != midi.PacketSize {
		return p, fmt.Errorf("packet %q: %w", s, midi.ErrShortPacket)
	}
	copy(p[:], b)
	return p, nil
}

func decodeArgs(args []string) error {
	dec := midi.NewDecoder(nil)
	for _, a := range args {
		p, err := parsePacket(a)
		if err != nil {
			return err
		}
		printPacket(dec, p)
	}
	return nil
}

func printPacket(dec *midi.Decoder, p midi.Packet) (midi.Message, bool) {
	msg, ok := dec.Decode(p)
	if !ok {
		fmt.Printf("% X  cin=%X  (dropped)\n", p[:], p.CIN())
		return msg, false
	}
	fmt.Printf("% X  cin=%X  %s\n", p[:], p.CIN(), midi.Format(msg))
	return msg, true
}

func replayFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	src := midi.NewReaderSource(path, f)
	defer src.Close()

	dec := midi.NewDecoder(nil)
	asm := midi.NewSysExAssembler(0)
	for p := range src.Packets() {
		if msg, ok := printPacket(dec, p); ok {
			data, err := asm.Feed(msg)
			if err != nil {
				fmt.Printf("  sysex: %v\n", err)
			} else if data != nil {
				fmt.Printf("  sysex: % X\n", data)
			}
		}
	}
	return src.Err()
}

func listen(match string) error {
	ins, ok := midi.ListInPorts(3 * time.Second)
	if !ok {
		return fmt.Errorf("port scan timed out")
	}

	matcher := midi.MatchAny(match)
	for i, in := range ins {
		if !matcher(in.String()) {
			continue
		}

		src, err := midi.NewPortSource(in.String(), uint8(i&0x0F), in)
		if err != nil {
			return err
		}
		defer src.Close()

		fmt.Printf("Listening on %s. Ctrl+C to exit.\n", in.String())

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt)

		dec := midi.NewDecoder(nil)
		for {
			select {
			case p, ok := <-src.Packets():
				if !ok {
					return nil
				}
				printPacket(dec, p)
			case <-sig:
				return nil
			}
		}
	}

	return fmt.Errorf("no input port matching %q", match)
}
