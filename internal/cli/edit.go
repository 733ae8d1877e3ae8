package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/labelschema/internal/config"
	"github.com/thenoetrevino/labelschema/internal/loader"
	"github.com/thenoetrevino/labelschema/internal/logging"
	"github.com/thenoetrevino/labelschema/internal/tui"
	"github.com/thenoetrevino/labelschema/internal/updater"
)

// resultBuffer is how many unread update results the editor tolerates
const resultBuffer = 16

func newEditCommand() *cobra.Command {
	var (
		offline bool
		resume  bool
	)

	cmd := &cobra.Command{
		Use:   "edit <schema.json|schema.yaml|page.html|URL>",
		Short: "Open the interactive schema editor",
		Long: `Open the interactive schema editor.

Edits are sent to the update endpoint after the debounce period. Pending
edits are sent when the editor exits, and local JSON or YAML files are
rewritten with the ids the server assigned.

Examples:
  # Edit a local schema, syncing to the server
  labelschema edit schema.yaml --update-url=https://labels.example.com/schema/update/

  # Edit the schema embedded in its hosting page
  labelschema edit https://labels.example.com/schema/

  # Edit offline and continue where you left off
  labelschema edit schema.yaml --offline --resume
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, args[0], offline, resume)
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "do not send updates; only save locally")
	cmd.Flags().BoolVar(&resume, "resume", false, "start from the saved draft instead of the source")

	return cmd
}

func runEdit(cmd *cobra.Command, location string, offline, resume bool) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)

	// The editor owns the terminal, so logs go to a file
	logger, closer, err := logging.SetupFile(cfg)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer closer.Close()
	ctx = logging.NewContext(ctx, logger)

	s, err := openSession(ctx, location, sessionOptions{sync: !offline, resume: resume})
	if err != nil {
		return err
	}
	defer s.Close()

	var (
		syncer  tui.Syncer = offlineSyncer{}
		results <-chan updater.Result
	)
	if s.updater != nil {
		syncer = s.updater
		results = s.updater.Results(resultBuffer)
	}

	title := filepath.Base(location)
	if s.src.Format == loader.FormatHTML {
		title = location
	}

	model := tui.New(ctx, cfg, s.doc, syncer, results, title)
	program := tea.NewProgram(model, tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("editor failed: %w", err)
	}

	// Whatever was not sent on quit was reported inside the editor
	s.takeResults()

	return s.save(ctx)
}

// offlineSyncer stands in for the updater when no updates are sent
type offlineSyncer struct{}

var errOffline = errors.New("offline: edits are only saved locally")

func (offlineSyncer) Enable()                    {}
func (offlineSyncer) Disable()                   {}
func (offlineSyncer) Pending() bool              { return false }
func (offlineSyncer) Flush()                     {}
func (offlineSyncer) Push(context.Context) error { return errOffline }
