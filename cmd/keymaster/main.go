package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/TanaroSch/keymaster/internal/app"
	"github.com/TanaroSch/keymaster/internal/config"
	"github.com/TanaroSch/keymaster/internal/doctor"
	"github.com/TanaroSch/keymaster/internal/logging"
	"github.com/TanaroSch/keymaster/internal/ui"
)

var version = "dev"

type cliOptions struct {
	command    string
	configPath string
	display    string
	tray       bool
	watch      bool
	logLevel   string
	logFile    string
}

// parseArgs accepts an optional leading subcommand ("doctor" or "version")
// followed by flags.
func parseArgs(args []string, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions
	if len(args) > 0 && (args[0] == "doctor" || args[0] == "version") {
		opts.command = args[0]
		args = args[1:]
	}

	fs := flag.NewFlagSet("keymaster", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "config file path (default: $KEYMASTER_CONFIG or the user config dir)")
	fs.StringVar(&opts.display, "display", "", "X display to connect to (default: config file, then $DISPLAY)")
	fs.BoolVar(&opts.tray, "tray", false, "show a system tray icon")
	fs.BoolVar(&opts.watch, "watch", true, "reload bindings when the config file changes")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides config)")
	fs.StringVar(&opts.logFile, "log-file", "", "append logs to this file (overrides config)")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: keymaster [doctor|version] [flags]\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	return opts, nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseArgs(args, os.Stderr)
	if err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	if opts.command == "version" {
		fmt.Println("keymaster", version)
		return 0
	}

	configPath := opts.configPath
	if configPath == "" {
		if configPath, err = config.DefaultPath(); err != nil {
			fmt.Fprintf(os.Stderr, "Error locating config: %v\n", err)
			return 1
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		if opts.tray {
			ui.ShowErrorDialog("keymaster", fmt.Sprintf("Error loading config: %v", err))
		}
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}

	if opts.command == "doctor" {
		return doctor.Run(doctor.Options{
			Out:     os.Stdout,
			Display: firstNonEmpty(opts.display, cfg.Display),
			Config:  cfg,
		})
	}

	logger, err := logging.Init(logging.Options{
		Level: firstNonEmpty(opts.logLevel, cfg.LogLevel),
		File:  firstNonEmpty(opts.logFile, cfg.LogFile),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		return 1
	}
	defer logging.Close()

	logger.Info().Str("version", version).Str("config", configPath).Msg("keymaster starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Fatal error")
			os.Exit(1)
		}
	}()

	application := app.New(cfg, app.Options{
		Version: version,
		Display: opts.display,
		Tray:    opts.tray,
		Watch:   opts.watch,
		Logger:  logger,
	})
	if err := application.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("keymaster stopped")
		if opts.tray {
			ui.ShowErrorDialog("keymaster", err.Error())
		}
		return 1
	}
	return 0
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
