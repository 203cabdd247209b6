// Command poolstat reports worker thread-pool stats from a running
// application server's control channel, and can trigger its phased-restart
// and halt lifecycle commands.
//
//	poolstat /var/run/app                     # discover socket in state dir
//	poolstat unix:///var/run/app/control.sock
//	poolstat -config deploy.yml production
//	poolstat -config deploy.yml -all
//	poolstat -watch 2s tcp://127.0.0.1:9293
//	poolstat -config deploy.yml -restart production
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"

	"github.com/inconshreveable/log15"

	"poolstat"
	"poolstat/internal/config"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "poolstat: %s\n", describe(err))
		os.Exit(1)
	}
}

// describe names the error kind for the operator, since connection
// failures and parse failures call for different fixes.
func describe(err error) string {
	var cerr *poolstat.ConnectionError
	var perr *poolstat.ParseError
	switch {
	case errors.As(err, &cerr):
		return fmt.Sprintf("connection error: %v", err)
	case errors.As(err, &perr):
		return fmt.Sprintf("parse error: %v", err)
	}
	return err.Error()
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("poolstat", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath = fs.String("config", "", "instance inventory file")
		all        = fs.Bool("all", false, "report every configured instance")
		watch      = fs.Duration("watch", 0, "re-report at this interval until interrupted")
		restart    = fs.Bool("restart", false, "request a phased restart instead of reporting")
		halt       = fs.Bool("halt", false, "request a halt instead of reporting")
		verbose    = fs.Bool("v", false, "verbose diagnostics on stderr")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	l := log15.New()
	if *verbose {
		l.SetHandler(log15.StreamHandler(stderr, log15.LogfmtFormat()))
	} else {
		l.SetHandler(log15.DiscardHandler())
	}
	reporter := poolstat.New(poolstat.WithLogger(l))

	var cfg *config.Config
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			return err
		}
		if err := config.Validate(cfg); err != nil {
			return err
		}
	}

	if *all {
		if cfg == nil {
			return errors.New("-all requires -config")
		}
		instances, err := fleetInstances(l, cfg)
		if err != nil {
			return err
		}
		return reporter.ReportFleet(context.Background(), stdout, instances)
	}

	if fs.NArg() != 1 {
		return errors.New("usage: poolstat [flags] <locator|instance>")
	}
	inst, err := resolveTarget(l, cfg, fs.Arg(0))
	if err != nil {
		return err
	}

	switch {
	case *restart:
		if inst.RestartLock != "" {
			return reporter.PhasedRestartLocked(inst.Locator, inst.RestartLock)
		}
		return reporter.PhasedRestart(inst.Locator)
	case *halt:
		return reporter.Halt(inst.Locator)
	case *watch > 0:
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		w := poolstat.NewWatcher(reporter, inst.Locator, *watch, stdout)
		if err := w.Run(ctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	default:
		return reporter.Report(stdout, inst.Locator)
	}
}

// resolveTarget maps a command-line target to an instance: a configured
// instance name, a state directory to discover the socket in, or a raw
// locator.
func resolveTarget(l log15.Logger, cfg *config.Config, target string) (poolstat.Instance, error) {
	if cfg != nil {
		if ci, ok := cfg.Instances[target]; ok {
			loc, err := resolveControl(l, ci.Control)
			if err != nil {
				return poolstat.Instance{}, err
			}
			return poolstat.Instance{Name: target, Locator: loc, RestartLock: ci.RestartLock}, nil
		}
	}
	loc, err := resolveControl(l, target)
	if err != nil {
		return poolstat.Instance{}, err
	}
	return poolstat.Instance{Name: target, Locator: loc}, nil
}

func resolveControl(l log15.Logger, control string) (poolstat.Locator, error) {
	if fi, err := os.Stat(control); err == nil && fi.IsDir() {
		return poolstat.DiscoverControlSock(l, control)
	}
	return poolstat.ParseLocator(control)
}

func fleetInstances(l log15.Logger, cfg *config.Config) ([]poolstat.Instance, error) {
	names := make([]string, 0, len(cfg.Instances))
	for name := range cfg.Instances {
		names = append(names, name)
	}
	sort.Strings(names)

	instances := make([]poolstat.Instance, 0, len(names))
	for _, name := range names {
		inst, err := resolveTarget(l, cfg, name)
		if err != nil {
			return nil, err
		}
		instances = append(instances, inst)
	}
	return instances, nil
}
