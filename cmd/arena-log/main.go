// Command arena-log is a tool for viewing and analyzing Arena protocol
// log files.
//
// Log files are created by running arena-cli with the -protocol-log
// flag.
//
// Usage:
//
//	arena-log <command> [flags] <file.alog>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSONL or CSV format
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View all events
//	arena-log view session.alog
//
//	# View only wire-layer events
//	arena-log view -layer wire session.alog
//
//	# View only outgoing messages
//	arena-log view -direction out session.alog
//
//	# View only login traffic
//	arena-log view -tag auth.login session.alog
//
//	# Export to JSONL
//	arena-log export -format jsonl session.alog
//
//	# Show statistics
//	arena-log stats session.alog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/arena-protocol/arena-go/cmd/arena-log/commands"
	"github.com/arena-protocol/arena-go/pkg/log"
)

const usage = `arena-log - Arena Protocol Log Analyzer

Usage:
  arena-log <command> [flags] <file.alog>

Commands:
  view     View log file in human-readable format
  export   Export log file to JSONL or CSV format
  stats    Show statistics about the log file

Use "arena-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
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

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `arena-log view - View log file in human-readable format

Usage:
  arena-log view [flags] <file.alog>

Flags:
`)
		fs.PrintDefaults()
	}

	layer := fs.String("layer", "", "Filter by layer (transport, wire, session)")
	direction := fs.String("direction", "", "Filter by direction (in, out)")
	category := fs.String("category", "", "Filter by category (message, state, error)")
	tag := fs.String("tag", "", "Filter by command tag (e.g. auth.login)")
	connID := fs.String("conn-id", "", "Filter by connection ID")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	filter := log.Filter{ConnectionID: *connID, Tag: *tag}
	var err error
	if *layer != "" {
		if filter.Layer, err = commands.ParseLayerFlag(*layer); err != nil {
			fatal(err)
		}
	}
	if *direction != "" {
		if filter.Direction, err = commands.ParseDirectionFlag(*direction); err != nil {
			fatal(err)
		}
	}
	if *category != "" {
		if filter.Category, err = commands.ParseCategoryFlag(*category); err != nil {
			fatal(err)
		}
	}

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fatal(err)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `arena-log export - Export log file to JSONL or CSV format

Usage:
  arena-log export [flags] <file.alog>

Flags:
`)
		fs.PrintDefaults()
	}

	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fatal(err)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `arena-log stats - Show statistics about the log file

Usage:
  arena-log stats <file.alog>
`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fatal(err)
	}
}

func requirePath(fs *flag.FlagSet) string {
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
