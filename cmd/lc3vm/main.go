// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"

	"github.com/lassandro/lc3vm/pkg/encoding"
	"github.com/lassandro/lc3vm/pkg/machine"
	"github.com/lassandro/lc3vm/pkg/tracer"
)

const (
	exitHalt      = 0
	exitLoad      = 1
	exitUsage     = 2
	exitDecode    = 3
	exitHost      = 4
	exitInterrupt = 130
)

type options struct {
	Images   []string `arg:"" optional:"" name:"image-file" help:"LC-3 object images, loaded in order."`
	Input    string   `help:"Read keyboard input from FILE instead of the terminal." placeholder:"FILE" env:"LC3VM_INPUT"`
	LogLevel string   `help:"Log level (trace, debug, info, warn, error)." default:"warn" env:"LC3VM_LOG_LEVEL"`
	Trace    bool     `help:"Log every executed instruction." env:"LC3VM_TRACE"`
	Watch    []string `help:"Log accesses to a hex address; prefix with r: or w: to watch only reads or writes." placeholder:"[r:|w:]ADDR" env:"LC3VM_WATCH"`
	Dump     bool     `help:"Print registers and memory around PC after an illegal instruction." env:"LC3VM_DUMP"`
	Profile  string   `help:"Write a cpu or mem profile to the working directory." placeholder:"KIND" env:"LC3VM_PROFILE"`
}

func init() {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
}

func configureLogger(opts *options) (*logrus.Logger, error) {
	log := logrus.StandardLogger()

	level, err := logrus.ParseLevel(opts.LogLevel)

	if err != nil {
		return nil, err
	}

	log.SetLevel(level)

	if opts.Trace {
		log.SetLevel(logrus.TraceLevel)
	} else if len(opts.Watch) > 0 && !log.IsLevelEnabled(logrus.InfoLevel) {
		log.SetLevel(logrus.InfoLevel)
	}

	return log, nil
}

func watchpoints(addrs []string) ([]tracer.Watchpoint, error) {
	var result []tracer.Watchpoint

	for _, s := range addrs {
		kind := tracer.ReadWriteWatch

		if mode, rest, found := strings.Cut(s, ":"); found {
			switch mode {
			case "r":
				kind = tracer.ReadWatch
			case "w":
				kind = tracer.WriteWatch
			case "rw":
			default:
				return nil, fmt.Errorf("unknown watch mode %q", mode)
			}

			s = rest
		}

		addr, err := encoding.DecodeHex(s)

		if err != nil {
			return nil, err
		}

		result = append(result, tracer.Watchpoint{Addr: addr, Type: kind})
	}

	return result, nil
}

func startProfile(kind string) (interface{ Stop() }, error) {
	switch kind {
	case "":
		return nil, nil
	case "cpu":
		return profile.Start(
			profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook,
		), nil
	case "mem":
		return profile.Start(
			profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook,
		), nil
	}

	return nil, errors.New("profile must be cpu or mem")
}

func lc3vm(args []string) int {
	var opts options

	parser := kong.Must(&opts,
		kong.Name("lc3vm"),
		kong.Description("Runs LC-3 object images."),
		kong.UsageOnError(),
	)

	kctx, err := parser.Parse(args)

	if err != nil {
		parser.Errorf("%s", err)
		return exitUsage
	}

	if len(opts.Images) == 0 {
		_ = kctx.PrintUsage(true)
		return exitUsage
	}

	log, err := configureLogger(&opts)

	if err != nil {
		parser.Errorf("%s", err)
		return exitUsage
	}

	watch, err := watchpoints(opts.Watch)

	if err != nil {
		parser.Errorf("--watch: %s", err)
		return exitUsage
	}

	prof, err := startProfile(opts.Profile)

	if err != nil {
		parser.Errorf("--profile: %s", err)
		return exitUsage
	}

	if prof != nil {
		defer prof.Stop()
	}

	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	term, err := openTerminal(ctx, opts.Input, log)

	if err != nil {
		log.Error(err)
		return exitUsage
	}

	defer term.Close()

	mc := machine.New(term)
	mc.Log = log

	if opts.Trace || len(watch) > 0 {
		mc.Observer = &tracer.Tracer{
			Log:          log,
			Instructions: opts.Trace,
			Watchpoints:  watch,
		}
	}

	for _, path := range opts.Images {
		if err := mc.LoadImageFile(path); err != nil {
			log.Error(err)
			return exitLoad
		}
	}

	if err := term.EnableRawMode(); err != nil {
		log.WithError(err).Warn("Could not enable raw mode")
	}

	err = mc.Run(ctx)

	var decodeErr *machine.DecodeError

	switch {
	case err == nil:
		return exitHalt
	case errors.Is(err, context.Canceled):
		log.Info("Interrupted")
		return exitInterrupt
	case errors.As(err, &decodeErr):
		log.Error(err)

		if opts.Dump {
			dump(os.Stderr, mc)
		}

		return exitDecode
	default:
		log.Error(err)
		return exitHost
	}
}

func main() {
	os.Exit(lc3vm(os.Args[1:]))
}
