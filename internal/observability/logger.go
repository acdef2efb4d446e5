package observability

import (
	"fmt"
	"os"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/fulmenhq/gofulmen/logging"
)

var (
	// CLILogger is used for CLI commands (SIMPLE profile)
	CLILogger *logging.Logger

	// ServerLogger is used for the HTTP scan service (STRUCTURED profile)
	ServerLogger *logging.Logger
)

// InitCLILogger initializes the CLI logger with SIMPLE profile
func InitCLILogger(serviceName string, verbose bool) {
	logger, err := logging.NewCLI(serviceName)
	if err != nil {
		exitWithCodeStderr(foundry.ExitConfigInvalid, "Failed to initialize CLI logger", err)
	}

	if verbose {
		logger.SetLevel(logging.DEBUG)
	}

	CLILogger = logger
}

// InitServerLogger initializes the server logger with STRUCTURED profile
func InitServerLogger(serviceName string, logLevel string) {
	config := &logging.LoggerConfig{
		Profile:      logging.ProfileStructured,
		DefaultLevel: parseLogLevel(logLevel),
		Service:      serviceName,
		Environment:  "production",
		Middleware: []logging.MiddlewareConfig{
			{
				Name:    "correlation",
				Enabled: true,
				Order:   100,
				Config:  make(map[string]any),
			},
		},
		Sinks: []logging.SinkConfig{
			{
				Type:   "console",
				Format: "json",
				Console: &logging.ConsoleSinkConfig{
					Stream:   "stderr",
					Colorize: false,
				},
			},
		},
		EnableCaller:     true,
		EnableStacktrace: true,
	}

	logger, err := logging.New(config)
	if err != nil {
		exitWithCodeStderr(foundry.ExitConfigInvalid, "Failed to initialize server logger", err)
	}

	ServerLogger = logger
}

// parseLogLevel converts string log level to logging severity string
func parseLogLevel(levelStr string) string {
	switch levelStr {
	case "trace":
		return "TRACE"
	case "debug":
		return "DEBUG"
	case "info":
		return "INFO"
	case "warn", "warning":
		return "WARN"
	case "error":
		return "ERROR"
	default:
		return "INFO"
	}
}

// exitWithCodeStderr exits with a semantic exit code, writing to stderr.
// Local helper for logger initialization failures before any logger exists.
func exitWithCodeStderr(exitCode foundry.ExitCode, msg string, err error) {
	info, ok := foundry.GetExitCodeInfo(exitCode)
	if !ok {
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: %s: %v (exit code: %d)\n", msg, err, exitCode)
		} else {
			fmt.Fprintf(os.Stderr, "FATAL: %s (exit code: %d)\n", msg, exitCode)
		}
		os.Exit(int(exitCode))
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %s: %v\n", msg, err)
	} else {
		fmt.Fprintf(os.Stderr, "FATAL: %s\n", msg)
	}
	fmt.Fprintf(os.Stderr, "Exit Code: %d (%s) - %s\n", info.Code, info.Name, info.Description)

	os.Exit(info.Code)
}
