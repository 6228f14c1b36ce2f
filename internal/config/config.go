// Package config handles command line options and logger setup
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/retroenv/retrogolib/log"
)

// DefaultScale is the window size multiplier for the 64x32 display.
const DefaultScale = 10

// ErrNoProgram is returned when the terminal host is requested without
// a program, as it has no way to ask for one.
var ErrNoProgram = errors.New("no program given")

// Options holds the parsed command line.
type Options struct {
	Program string
	Term    bool
	Scale   int
	Debug   bool
	Quiet   bool
	Seed    int64
	Version bool
}

// ParseFlags parses the program arguments. The program may be passed with
// -rom or as the first positional argument.
func ParseFlags(args []string, output io.Writer) (Options, error) {
	var opts Options

	flags := flag.NewFlagSet("chip8", flag.ContinueOnError)
	flags.SetOutput(output)
	flags.Usage = func() {
		fmt.Fprintf(output, "usage: chip8 [options] [program.ch8|program.asm]\n\n")
		flags.PrintDefaults()
	}

	flags.StringVar(&opts.Program, "rom", "", "program image or assembly source to run")
	flags.BoolVar(&opts.Term, "term", false, "run in the terminal instead of a window")
	flags.IntVar(&opts.Scale, "scale", DefaultScale, "window pixels per CHIP-8 pixel")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debug logging")
	flags.BoolVar(&opts.Quiet, "q", false, "only log errors")
	flags.Int64Var(&opts.Seed, "seed", 0, "seed for the RND instruction, 0 seeds from the clock")
	flags.BoolVar(&opts.Version, "version", false, "print the version and exit")

	if err := flags.Parse(args); err != nil {
		return opts, fmt.Errorf("parsing flags: %w", err)
	}

	if opts.Program == "" && flags.NArg() > 0 {
		opts.Program = flags.Arg(0)
	}
	if flags.NArg() > 1 {
		return opts, fmt.Errorf("unexpected arguments: %v", flags.Args()[1:])
	}
	if opts.Scale < 1 {
		return opts, fmt.Errorf("invalid scale %d", opts.Scale)
	}
	if opts.Term && opts.Program == "" && !opts.Version {
		return opts, fmt.Errorf("terminal mode: %w", ErrNoProgram)
	}

	return opts, nil
}

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
