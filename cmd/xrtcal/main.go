// Xrtcal queries the Hinode/XRT channel calibration data: it lists and
// describes channels, resolves filter names, exports FITS tables and
// serves the catalog over HTTP.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/robert-malhotra/go-xrt/internal/cli"
	"github.com/robert-malhotra/go-xrt/internal/config"
	"github.com/robert-malhotra/go-xrt/xrt"
)

func main() {
	var (
		configPath = pflag.StringP("config", "c", "", "Path to config file (.yaml, .yml or .toml)")
		dataFile   = pflag.StringP("data", "d", "", "Calibration file (overrides data.file)")
		logLevel   = pflag.String("log-level", "", "Log level (overrides logging.level)")
		jsonOut    = pflag.Bool("json", false, "Output JSON instead of formatted text")
	)
	pflag.CommandLine.SetInterspersed(false)
	pflag.Usage = usage
	pflag.Parse()

	if pflag.NArg() < 1 {
		usage()
		os.Exit(2)
	}
	cmd := pflag.Arg(0)
	subArgs := pflag.Args()[1:]

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(err)
	}
	if *dataFile != "" {
		cfg.Data.File = *dataFile
	}
	if err := cfg.Logging.SetLevel(*logLevel); err != nil {
		fatal(err)
	}
	log := cfg.Logging.Logger(os.Stderr)

	// Commands that do not need the calibration file.
	switch cmd {
	case "resolve":
		if len(subArgs) == 0 {
			fatal(fmt.Errorf("resolve: no filter names given"))
		}
		if err := cli.Resolve(os.Stdout, subArgs, *jsonOut); err != nil {
			os.Exit(1)
		}
		return
	case "mkconf":
		if err := cli.MkConf(os.Stdout, cfg); err != nil {
			fatal(err)
		}
		return
	case "help":
		usage()
		return
	}

	cat, err := xrt.Load(cfg.Data.File, xrt.WithLogger(log), xrt.WithVariable(cfg.Data.Variable))
	if err != nil {
		fatal(err)
	}

	switch cmd {
	case "channels":
		err = cli.Channels(os.Stdout, cat, *jsonOut)

	case "info":
		err = cli.Info(os.Stdout, cat, *jsonOut)

	case "show":
		if len(subArgs) != 1 {
			fatal(fmt.Errorf("show: expected one channel name"))
		}
		err = cli.Show(os.Stdout, cat, subArgs[0], *jsonOut)

	case "export":
		var opts cli.ExportOptions
		fs := pflag.NewFlagSet("export", pflag.ContinueOnError)
		fs.StringVar(&opts.Dir, "dir", "", "Output directory (default: export.dir)")
		fs.StringVar(&opts.Format, "format", "", "fits, yaml or json (default: export.format)")
		if err := fs.Parse(subArgs); err != nil {
			os.Exit(2)
		}
		opts.Channels = fs.Args()
		err = cli.Export(os.Stdout, cat, cfg, opts)

	case "serve":
		bind := cfg.Server.Bind
		fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
		fs.StringVar(&bind, "bind", bind, "HTTP bind address (default: server.bind)")
		if err := fs.Parse(subArgs); err != nil {
			os.Exit(2)
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		err = cli.Serve(ctx, cat, bind, log)

	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Error().Msg(err.Error())
	os.Exit(1)
}

func usage() {
	fmt.Print(`
  xrtcal - Hinode/XRT channel calibration

  USAGE
    xrtcal [flags] <command> [command-flags] [args]

  COMMANDS
    channels            List the 14 channels
    show NAME           Show every property of one channel
    resolve NAME...     Print the canonical form of filter names
    info                Show the calibration file header and fingerprint
    export [NAME...]    Write channel files (default: export.channels)
    serve               Serve the catalog over HTTP
    mkconf              Print the effective configuration as YAML

  GLOBAL FLAGS
    -c, --config PATH   Config file (.yaml, .yml or .toml)
    -d, --data PATH     Calibration file, may be gzip compressed
        --log-level L   trace, debug, info, warn or error
        --json          Output JSON instead of formatted text

  COMMAND FLAGS
    export:
        --dir DIR           Output directory
        --format FMT        fits, yaml or json

    serve:
        --bind ADDR         HTTP bind address

  ENVIRONMENT
    XRTCAL_DATA_FILE, XRTCAL_SERVER_BIND, ... override config keys.

  FILTER NAMES
    Ti_poly, Open/Ti_poly, Open-Ti poly and Be-thin are all accepted.

`)
}
