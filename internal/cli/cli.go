package cli

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/specialistvlad/fsctx/internal/app"
	"github.com/spf13/cobra"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func usageError(err error) *ExitError {
	return &ExitError{Code: 2, Message: err.Error(), Err: err}
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	if args == nil {
		// cobra falls back to os.Args for a nil slice.
		args = []string{}
	}

	var (
		cfg *app.Config
		ran bool

		logFormat  string
		logLevel   string
		outputFmt  string
		healthPort int
		watch      bool
		debounce   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "fsctx [flags] LOCATION...",
		Short: "Bootstrap a component context from definition files",
		Long: `fsctx loads component definitions from the given locations, merges them
(later locations override earlier ones) and prints the result.

Locations are relative to the working directory; a leading "/" is ignored.
Use the "file:" prefix for a real absolute path. Locations may contain
glob patterns ("conf/**/*.hcl") and ${NAME} or ${NAME:default} placeholders.`,
		Example: `  # Merge a base file with an override
  fsctx base.hcl override.yaml

  # Keep serving health and metrics, rebuilding on change
  fsctx --watch --healthcheck-port 8080 'conf/*.hcl'`,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, locations []string) error {
			ran = true
			if len(locations) == 0 {
				slog.Debug("No locations provided, printing usage and exiting.")
				return cmd.Usage()
			}

			c, err := app.NewConfig(app.Config{
				Locations:       locations,
				LogFormat:       strings.ToLower(logFormat),
				LogLevel:        strings.ToLower(logLevel),
				Output:          strings.ToLower(outputFmt),
				HealthcheckPort: healthPort,
				Watch:           watch,
				Debounce:        debounce,
			})
			if err != nil {
				return err
			}
			cfg = c
			return nil
		},
	}
	cmd.SetArgs(args)
	cmd.SetOut(output)
	cmd.SetErr(output)

	flags := cmd.Flags()
	flags.StringVar(&logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	flags.StringVar(&logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flags.StringVarP(&outputFmt, "output", "o", "text", "Definitions output format. Options: 'text' or 'json'.")
	flags.IntVar(&healthPort, "healthcheck-port", 0, "Port for the HTTP health check and metrics server. 0 is disabled.")
	flags.BoolVarP(&watch, "watch", "w", false, "Keep running and rebuild the context when a loaded file changes.")
	flags.DurationVar(&debounce, "debounce", 200*time.Millisecond, "Quiet period after a change before rebuilding.")

	if err := cmd.Execute(); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return nil, false, exitErr
		}
		return nil, false, usageError(err)
	}
	if !ran || cfg == nil {
		return nil, true, nil
	}

	slog.Debug("CLI parser finished successfully.", "locations", cfg.Locations)
	return cfg, false, nil
}
