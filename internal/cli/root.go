// Package cli implements the cobra command tree for labelschema.
package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/labelschema/internal/config"
	"github.com/thenoetrevino/labelschema/internal/database"
	"github.com/thenoetrevino/labelschema/internal/loader"
	"github.com/thenoetrevino/labelschema/internal/logging"
	"github.com/thenoetrevino/labelschema/internal/schema"
	"github.com/thenoetrevino/labelschema/internal/services/editor"
	"github.com/thenoetrevino/labelschema/internal/transport"
)

// CodedError wraps an error with a specific process exit code.
type CodedError struct {
	Code int
	Err  error
	Hint string
}

func (e *CodedError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}

	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *CodedError) Unwrap() error { return e.Err }

// Execute builds the command tree, runs it, and returns the exit code.
func Execute() int {
	return execute(NewRootCommand(), os.Args[1:], os.Stdout, os.Stderr)
}

func execute(cmd *cobra.Command, args []string, stdout, stderr io.Writer) int {
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	jsonOut, _ := cmd.PersistentFlags().GetBool("json")
	f := &OutputFormatter{JSON: jsonOut, Out: stdout, Err: stderr}

	code, hint := classify(err)
	if fmtErr := f.ErrorWithSuggestion(exitCodeNames[code], err.Error(), hint); fmtErr != nil {
		slog.Error("writing error output", "error", fmtErr)
	}
	return code
}

// classify picks the exit code and suggestion for err
func classify(err error) (int, string) {
	var exitErr *CodedError
	if errors.As(err, &exitErr) {
		return exitErr.Code, exitErr.Hint
	}

	var updateErr *transport.UpdateError
	switch {
	case errors.As(err, &updateErr):
		return ExitSync, updateErr.Hint
	case errors.Is(err, editor.ErrEmptyName),
		errors.Is(err, editor.ErrEmptyGroupName),
		errors.Is(err, editor.ErrEmptyClassName),
		errors.Is(err, editor.ErrInvalidColour),
		errors.Is(err, editor.ErrNoFieldsToApply):
		return ExitValidation, ""
	case errors.Is(err, editor.ErrUnknownScheme),
		errors.Is(err, schema.ErrGroupNotFound),
		errors.Is(err, schema.ErrLabelClassNotFound),
		errors.Is(err, schema.ErrColourSchemeNotFound),
		errors.Is(err, database.ErrDraftNotFound),
		errors.Is(err, fs.ErrNotExist):
		return ExitNotFound, ""
	case errors.Is(err, loader.ErrUnknownFormat),
		errors.Is(err, loader.ErrNoEmbeddedState),
		errors.Is(err, schema.ErrNullEntry):
		return ExitDataErr, ""
	default:
		return ExitError, ""
	}
}

// NewRootCommand constructs the top-level cobra.Command with all
// subcommands attached.
func NewRootCommand() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "labelschema",
		Short: "Edit labelling schemas and sync them to the server",
		Long: `labelschema edits the labelling schema of an image annotation tool:
colour schemes, groups of label classes, and the colour of every class in
every scheme.

The schema is read from a JSON or YAML file, or from the page that hosts the
schema editor. Every edit is sent to the update endpoint after a short quiet
period, and the ids the server assigns to new entities are applied locally.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd, cfgFile)
			if err != nil {
				return &CodedError{Code: ExitUsage, Err: err}
			}

			logger := logging.SetupWithWriter(cfg, cmd.ErrOrStderr())

			ctx := cmd.Context()
			ctx = config.NewContext(ctx, cfg)
			ctx = logging.NewContext(ctx, logger)
			cmd.SetContext(ctx)

			logger.Debug("configuration loaded",
				slog.String("configFile", cfg.ConfigFile),
				slog.String("logLevel", cfg.LogLevel),
				slog.String("updateURL", cfg.UpdateURL),
			)

			return nil
		},
	}

	d := config.Default()

	// Global persistent flags.
	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: .labelschema.yaml)")
	pf.String("update-url", "", "update endpoint (default: the one advertised by the hosting page)")
	pf.Duration("debounce", d.Debounce, "quiet period after the last edit before an update is sent")
	pf.Int("max-retries", d.MaxRetries, "attempts per update for network and 5xx failures")
	pf.Duration("retry-delay", d.RetryDelay, "base delay between retries")
	pf.Duration("request-timeout", d.RequestTimeout, "timeout of a single update request")
	pf.String("csrf-token", "", "CSRF token sent with every update")
	pf.String("db-path", "", "local draft database (default: ~/.labelschema/drafts.db)")
	pf.String("log-level", d.LogLevel, "log level: debug, info, warn, error")
	pf.String("log-format", d.LogFormat, "log format: text, json")
	pf.String("log-file", "", "log file used by the editor (default: ~/.labelschema/logs/labelschema.log)")
	pf.String("theme", d.Theme, "editor colour theme")
	pf.BoolP("quiet", "q", false, "suppress non-essential output")
	pf.Bool("json", false, "output in JSON format")

	// Flag parsing errors return exit code 2.
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &CodedError{Code: ExitUsage, Err: err}
	})

	cmd.AddCommand(
		newVersionCommand(),
		newEditCommand(),
		newShowCommand(),
		newDiffCommand(),
		newPushCommand(),
		newSchemeCommand(),
		newGroupCommand(),
		newClassCommand(),
		newColourCommand(),
		newWatchCommand(),
		newHistoryCommand(),
		newConfigCommand(),
	)

	return cmd
}

// formatter builds the output formatter for cmd from the loaded config
func formatter(cmd *cobra.Command) *OutputFormatter {
	jsonOut, _ := cmd.Flags().GetBool("json")
	cfg := config.FromContext(cmd.Context())
	return &OutputFormatter{
		JSON:  jsonOut,
		Quiet: cfg != nil && cfg.Quiet,
		Out:   cmd.OutOrStdout(),
		Err:   cmd.ErrOrStderr(),
	}
}
