package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/metagraph/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// pathList collects a repeatable string flag.
type pathList []string

func (p *pathList) String() string { return strings.Join(*p, ",") }

func (p *pathList) Set(v string) error {
	*p = append(*p, v)
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
//
// Flags given on the command line override the values of a --config file;
// positional arguments are added to its schema paths.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("metagraph", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
metagraph - Load, validate and describe HCL metamodels.

Usage:
  metagraph [options] [SCHEMA_PATH...]

Arguments:
  SCHEMA_PATH
    Path to a single .hcl file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	var schemas pathList
	flagSet.Var(&schemas, "schema", "Path to a metamodel file or directory. May be repeated.")
	configFlag := flagSet.String("config", "", "Path to a YAML configuration file.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	strictFlag := flagSet.Bool("strict", false, "Treat metamodel warnings as errors.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	var cfg app.Config
	if *configFlag != "" {
		fileCfg, err := app.LoadConfigFile(*configFlag)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		cfg = fileCfg
		slog.Debug("Configuration file loaded.", "path", *configFlag)
	}

	explicit := map[string]bool{}
	flagSet.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
	if explicit["log-format"] || cfg.LogFormat == "" {
		cfg.LogFormat = strings.ToLower(*logFormatFlag)
	}
	if explicit["log-level"] || cfg.LogLevel == "" {
		cfg.LogLevel = strings.ToLower(*logLevelFlag)
	}
	if explicit["strict"] {
		cfg.Strict = *strictFlag
	}
	cfg.SchemaPaths = append(cfg.SchemaPaths, schemas...)
	cfg.SchemaPaths = append(cfg.SchemaPaths, flagSet.Args()...)
	slog.Debug("Schema paths determined.", "paths", cfg.SchemaPaths)

	if len(cfg.SchemaPaths) == 0 {
		slog.Debug("No schema path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
