package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/specialistvlad/bagelgo/internal/app"
	"github.com/specialistvlad/bagelgo/internal/interval"
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

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("bagel", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
Bagel - evaluate dataflow graphs and search them for infinities and NaNs.

Usage:
  bagel [options] [GRAPH_PATH]

Arguments:
  GRAPH_PATH
    Path to a graph file (.yml, .yaml or .hcl).

Options:
`)
		flagSet.PrintDefaults()
	}

	graphFlag := flagSet.String("graph", "", "Path to the graph file.")
	gFlag := flagSet.String("g", "", "Path to the graph file (shorthand).")
	modeFlag := flagSet.String("mode", app.ModeEvaluate, "What to do with the graph. Options: 'evaluate', 'search', 'dot', 'convert'.")
	inputsFlag := flagSet.String("inputs", "", "Comma-separated input values, e.g. '3,5' or '1,-inf'.")
	stepsFlag := flagSet.Int("steps", 1, "Number of evaluation passes.")
	boundsFlag := flagSet.String("bounds", "", "Comma-separated search bounds per input, e.g. '-1:1,-inf:inf'. Default is unbounded.")
	resolutionFlag := flagSet.Float64("resolution", app.DefaultResolution, "Search resolution.")
	outFlag := flagSet.String("out", "", "Output file for 'convert' and 'dot'.")
	loadPathFlag := flagSet.String("load-path", "", "Directory relative graph and subgraph paths are resolved against. ${VAR} is expanded.")
	envFileFlag := flagSet.String("env-file", "", "A .env file loaded into the environment before paths are expanded.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	publishURLFlag := flagSet.String("publish-url", "", "socket.io server that receives the outputs of every step.")
	publishNSFlag := flagSet.String("publish-namespace", "/", "socket.io namespace for -publish-url.")
	publishInsecureFlag := flagSet.Bool("publish-insecure", false, "Skip TLS certificate verification for -publish-url.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *graphFlag != "" {
		path = *graphFlag
	} else if *gFlag != "" {
		path = *gFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Graph path determined.", "path", path)

	if path == "" {
		slog.Debug("No graph path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, usageError("invalid log-format: must be 'text' or 'json'")
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, usageError("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}

	inputs, err := ParseValues(*inputsFlag)
	if err != nil {
		return nil, false, usageError("invalid inputs: %v", err)
	}
	bounds, err := ParseBounds(*boundsFlag)
	if err != nil {
		return nil, false, usageError("invalid bounds: %v", err)
	}

	if *envFileFlag != "" {
		if err := godotenv.Load(*envFileFlag); err != nil {
			return nil, false, usageError("failed to load env file %s: %v", *envFileFlag, err)
		}
		slog.Debug("Environment file loaded.", "path", *envFileFlag)
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		GraphPath:        path,
		LoadPath:         *loadPathFlag,
		Mode:             strings.ToLower(*modeFlag),
		Inputs:           inputs,
		Steps:            *stepsFlag,
		Bounds:           bounds,
		Resolution:       *resolutionFlag,
		OutPath:          *outFlag,
		LogFormat:        logFormat,
		LogLevel:         logLevel,
		HealthcheckPort:  *healthPortFlag,
		PublishURL:       *publishURLFlag,
		PublishNamespace: *publishNSFlag,
		PublishInsecure:  *publishInsecureFlag,
	})
	if err != nil {
		return nil, false, usageError("%s", err.Error())
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

// ParseValues parses a comma-separated list of numbers. inf, -inf and nan
// are accepted. An empty string yields nil.
func ParseValues(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("value %d: %q is not a number", i+1, strings.TrimSpace(p))
		}
		out[i] = v
	}
	return out, nil
}

// ParseBounds parses a comma-separated list of lo:hi intervals.
func ParseBounds(s string) ([]interval.Interval, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]interval.Interval, len(parts))
	for i, p := range parts {
		lohi := strings.Split(strings.TrimSpace(p), ":")
		if len(lohi) != 2 {
			return nil, fmt.Errorf("bound %d: %q is not of the form lo:hi", i+1, p)
		}
		vals, err := ParseValues(lohi[0] + "," + lohi[1])
		if err != nil || len(vals) != 2 {
			return nil, fmt.Errorf("bound %d: %q is not of the form lo:hi", i+1, p)
		}
		if vals[0] != vals[0] || vals[1] != vals[1] {
			return nil, fmt.Errorf("bound %d: NaN is not a valid bound", i+1)
		}
		if vals[0] > vals[1] {
			return nil, fmt.Errorf("bound %d: lower bound %g exceeds upper bound %g", i+1, vals[0], vals[1])
		}
		out[i] = interval.New(vals[0], vals[1])
	}
	return out, nil
}
