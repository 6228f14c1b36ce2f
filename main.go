package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"runtime"

	"github.com/afoley/chip8/chip8"
	"github.com/afoley/chip8/internal/config"
	"github.com/afoley/chip8/internal/emulator"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func init() {
	// SDL must only be called from the main thread
	runtime.LockOSThread()
}

func main() {
	ctx := app.Context()

	opts, err := config.ParseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}

		logger := config.CreateLogger(false, false)
		logger.Error("Invalid options", log.Err(err))
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	printBanner(logger, opts)
	if opts.Version {
		return
	}

	var vmOpts []chip8.Option
	if opts.Seed != 0 {
		vmOpts = append(vmOpts, chip8.WithSeed(opts.Seed))
	}

	emu := emulator.New(logger, vmOpts...)

	if opts.Term {
		err = runTerm(ctx, emu, logger, opts)
	} else {
		err = runSDL(ctx, emu, logger, opts)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Emulation failed", log.Err(err))
		os.Exit(1)
	}
}

func printBanner(logger *log.Logger, opts config.Options) {
	if opts.Quiet {
		return
	}

	logger.Info("chip8", log.String("version", buildinfo.Version(version, commit, date)))
}
