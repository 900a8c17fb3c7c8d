// Command viss-compact encodes and decodes compact VISS messages and
// inspects codec event logs.
//
// Usage:
//
//	viss-compact <command> [flags] [file]
//
// Commands:
//
//	encode   Encode JSON messages (one per line) into compact form
//	decode   Decode compact messages into JSON lines
//	shell    Interactive encode/decode shell
//	view     View an event log in human-readable format
//	filter   Filter an event log and write to a new file
//	stats    Show statistics about an event log
//
// Examples:
//
//	# Encode a request and print it as hex
//	echo '{"action":"get","path":"Vehicle.Speed"}' | viss-compact encode
//
//	# Decode framed messages, capturing codec events
//	viss-compact decode -format framed -event-log codec.clog capture.bin
//
//	# Show only codec errors from an event log
//	viss-compact view -category error codec.clog
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/viss-compact/viss-go/cmd/viss-compact/commands"
	"github.com/viss-compact/viss-go/cmd/viss-compact/interactive"
)

const usage = `viss-compact - VISS Compact Message Codec

Usage:
  viss-compact <command> [flags] [file]

Commands:
  encode   Encode JSON messages (one per line) into compact form
  decode   Decode compact messages into JSON lines
  shell    Interactive encode/decode shell
  view     View an event log in human-readable format
  filter   Filter an event log and write to a new file
  stats    Show statistics about an event log

Use "viss-compact <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "encode":
		runCodec("encode", args)
	case "decode":
		runCodec("decode", args)
	case "shell":
		runShell(args)
	case "view":
		runView(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func newFlagSet(name, synopsis, args string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `viss-compact %s - %s

Usage:
  viss-compact %s [flags] %s

Flags:
`, name, synopsis, name, args)
		fs.PrintDefaults()
	}
	return fs
}

// sessionFlags registers the catalog and logging flags.
func sessionFlags(fs *flag.FlagSet) *commands.Options {
	opts := &commands.Options{}
	fs.StringVar(&opts.Config, "config", "", "YAML configuration file")
	fs.StringVar(&opts.Keywords, "keywords", "", "Keyword preset (reference, server) or catalog file")
	fs.StringVar(&opts.Paths, "paths", "", "Leaf path file, or \"sample\"")
	fs.StringVar(&opts.EventLog, "event-log", "", "Append codec events to this file")
	fs.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	return opts
}

// filterFlags registers the event filter flags.
func filterFlags(fs *flag.FlagSet) *commands.FilterFlags {
	f := &commands.FilterFlags{}
	fs.StringVar(&f.Session, "session", "", "Filter by session ID")
	fs.StringVar(&f.Layer, "layer", "", "Filter by layer (transport, codec)")
	fs.StringVar(&f.Direction, "direction", "", "Filter by direction (in, out)")
	fs.StringVar(&f.Category, "category", "", "Filter by category (message, error)")
	fs.StringVar(&f.Kind, "kind", "", "Filter by error kind (e.g. PATH_NOT_FOUND)")
	fs.StringVar(&f.Action, "action", "", "Filter messages by request type (get, set, ...)")
	fs.StringVar(&f.Path, "path", "", "Filter messages by leaf path")
	fs.StringVar(&f.Since, "since", "", "Only events at or after this RFC 3339 time")
	fs.StringVar(&f.Until, "until", "", "Only events before this RFC 3339 time")
	return f
}

func runCodec(name string, args []string) {
	synopsis := "Encode JSON messages into compact form"
	if name == "decode" {
		synopsis = "Decode compact messages into JSON lines"
	}
	fs := newFlagSet(name, synopsis, "[file]")
	opts := sessionFlags(fs)
	format := fs.String("format", "hex", "Compact stream format (hex, raw, framed)")
	output := fs.String("o", "", "Output file (default: stdout)")
	quiet := fs.Bool("q", false, "Do not print the summary")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	streamFormat, err := commands.ParseStreamFormat(*format)
	if err != nil {
		fatal(err)
	}

	var in io.Reader = os.Stdin
	if fs.NArg() > 0 {
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			fatal(err)
		}
		defer f.Close()
		in = f
	}

	var out io.Writer = os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fatal(err)
		}
		defer f.Close()
		out = f
	}

	session, err := commands.OpenSession(*opts, os.Stderr)
	if err != nil {
		fatal(err)
	}
	defer session.Close()

	run := commands.RunEncode
	if name == "decode" {
		run = commands.RunDecode
	}
	sum, err := run(session, in, out, streamFormat)
	if !*quiet {
		fmt.Fprintln(os.Stderr, sum)
	}
	if err != nil {
		session.Close()
		fatal(err)
	}
}

func runShell(args []string) {
	fs := newFlagSet("shell", "Interactive encode/decode shell", "")
	opts := sessionFlags(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	session, err := commands.OpenSession(*opts, os.Stderr)
	if err != nil {
		fatal(err)
	}
	defer session.Close()

	shell, err := interactive.New(session.Codec)
	if err != nil {
		fatal(err)
	}
	shell.Run()
}

func logPathArg(fs *flag.FlagSet) string {
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func runView(args []string) {
	fs := newFlagSet("view", "View an event log in human-readable format", "<file.clog>")
	flags := filterFlags(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := logPathArg(fs)

	filter, err := flags.Filter()
	if err != nil {
		fatal(err)
	}
	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fatal(err)
	}
}

func runFilter(args []string) {
	fs := newFlagSet("filter", "Filter an event log and write to a new file", "<file.clog>")
	flags := filterFlags(fs)
	output := fs.String("o", "", "Output file (required)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := logPathArg(fs)

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	filter, err := flags.Filter()
	if err != nil {
		fatal(err)
	}
	n, err := commands.RunFilter(path, filter, *output)
	if err != nil {
		fatal(err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %d events to %s\n", n, *output)
}

func runStats(args []string) {
	fs := newFlagSet("stats", "Show statistics about an event log", "<file.clog>")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := logPathArg(fs)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fatal(err)
	}
}
