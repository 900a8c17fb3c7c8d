// Package interactive provides the interactive compact codec shell.
package interactive

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/viss-compact/viss-go/pkg/compact"
	"github.com/viss-compact/viss-go/pkg/log"
)

// Shell reads JSON messages or commands and shows their compact form.
type Shell struct {
	codec *compact.Codec
	rl    *readline.Instance
	out   io.Writer
}

// New creates a shell on the terminal.
func New(codec *compact.Codec) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "compact> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Shell{codec: codec, rl: rl, out: rl.Stdout()}, nil
}

// Stdout returns a writer that properly coordinates with the readline input.
func (s *Shell) Stdout() io.Writer {
	return s.rl.Stdout()
}

// Run starts the interactive command loop. It returns on EOF or quit.
func (s *Shell) Run() {
	defer s.rl.Close()

	s.printHelp()
	for {
		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.out, "Exiting...")
			return
		}
		if !s.Execute(line) {
			fmt.Fprintln(s.out, "Exiting...")
			return
		}
	}
}

// Execute runs one input line. It returns false when the shell should exit.
func (s *Shell) Execute(line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return true
	}
	if strings.HasPrefix(input, "{") {
		s.cmdEncode(input)
		return true
	}

	cmd, rest, _ := strings.Cut(input, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(cmd) {
	case "help", "?":
		s.printHelp()
	case "enc", "e":
		s.cmdEncode(rest)
	case "dec", "d":
		s.cmdDecode(rest)
	case "keywords", "k":
		s.cmdKeywords()
	case "paths", "p":
		s.cmdPaths(rest)
	case "quit", "exit", "q":
		return false
	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

// cmdEncode encodes a message and decodes it again to show the round trip.
func (s *Shell) cmdEncode(msg string) {
	if msg == "" {
		fmt.Fprintln(s.out, "Usage: enc <json>")
		return
	}
	packed, err := s.codec.Encode([]byte(msg))
	if err != nil {
		s.printError(err)
		return
	}
	stats := log.MessageEvent{CompactSize: len(packed), JSONSize: len(msg)}
	fmt.Fprintf(s.out, "  Compact: % x\n", packed)
	fmt.Fprintf(s.out, "  Size:    %d -> %d bytes (%.0f%%)\n", stats.JSONSize, stats.CompactSize, stats.Ratio())

	back, err := s.codec.Decode(packed)
	if err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintf(s.out, "  Decoded: %s\n", back)
	if !sameJSON([]byte(msg), back) {
		fmt.Fprintln(s.out, "  Warning: round trip changed the message")
	}
}

func (s *Shell) cmdDecode(arg string) {
	if arg == "" {
		fmt.Fprintln(s.out, "Usage: dec <hex>")
		return
	}
	packed, err := hex.DecodeString(strings.Join(strings.Fields(arg), ""))
	if err != nil {
		fmt.Fprintf(s.out, "Error: invalid hex: %v\n", err)
		return
	}
	msg, err := s.codec.Decode(packed)
	if err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintf(s.out, "  %s\n", msg)
}

func (s *Shell) cmdKeywords() {
	dict := s.codec.Dictionary()
	for code := 0; code < dict.Len(); code++ {
		kw, err := dict.Lookup(byte(code))
		if err != nil {
			continue
		}
		fmt.Fprintf(s.out, "  0x%02x  %-16s %s\n", kw.ControlByte(), kw.Name, kw.Kind)
	}
}

func (s *Shell) cmdPaths(prefix string) {
	shown := 0
	for i, p := range s.codec.Paths().Paths() {
		if prefix != "" && !strings.HasPrefix(p, prefix) {
			continue
		}
		fmt.Fprintf(s.out, "  %5d  %s\n", i, p)
		shown++
	}
	if shown == 0 {
		fmt.Fprintln(s.out, "  (no paths)")
	}
}

func (s *Shell) printError(err error) {
	if kind := compact.ErrorKind(err); kind != "" {
		fmt.Fprintf(s.out, "Error [%s]: %v\n", kind, err)
		return
	}
	fmt.Fprintf(s.out, "Error: %v\n", err)
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `
Compact Codec Commands:
  {...}              - Encode a JSON message and decode it again
  enc <json>         - Same as above
  dec <hex>          - Decode a compact message (spaces allowed)
  keywords           - List the keyword dictionary
  paths [prefix]     - List leaf paths with their index

  General:
  help               - Show this help
  quit               - Exit the shell`)
}

// sameJSON reports whether a and b hold the same JSON value.
func sameJSON(a, b []byte) bool {
	var ca, cb bytes.Buffer
	if json.Compact(&ca, a) != nil || json.Compact(&cb, b) != nil {
		return false
	}
	return bytes.Equal(ca.Bytes(), cb.Bytes())
}
