package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/labelschema/internal/loader"
	"github.com/thenoetrevino/labelschema/internal/logging"
	"github.com/thenoetrevino/labelschema/internal/watch"
)

func newWatchCommand() *cobra.Command {
	opts := watch.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "watch <schema.json|schema.yaml>",
		Short: "Send updates whenever a schema file changes",
		Long: `Watch a schema file and send the changed subtrees to the update
endpoint every time the file is saved. When the server assigns ids to new
entities the file is rewritten with them.

Press Ctrl+C to stop watching.

Examples:
  labelschema watch schema.yaml --update-url=https://labels.example.com/schema/update/
  labelschema watch schema.yaml --debounce-file=1s
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := openSession(ctx, args[0], sessionOptions{sync: true})
			if err != nil {
				return err
			}
			defer s.Close()
			if !s.writable() {
				return &CodedError{
					Code: ExitUsage,
					Err:  fmt.Errorf("cannot watch %s: only local JSON and YAML files can be watched", args[0]),
				}
			}

			opts.Path = args[0]
			opts.Logger = logging.FromContext(ctx)
			opts.Out = cmd.ErrOrStderr()

			return watch.Run(ctx, opts, s.reload)
		},
	}

	cmd.Flags().DurationVar(&opts.Debounce, "debounce-file", opts.Debounce, "quiet period after a file change before reloading")

	return cmd
}

// reload applies a changed file to the document and sends the subtrees
// that differ. A file matching the document is ignored, which also covers
// the rewrite that follows an id remap.
func (s *session) reload(ctx context.Context, src *loader.Source) error {
	current := s.doc.State()
	schemesChanged := !equalJSON(current.ColourSchemes, src.State.ColourSchemes)
	groupsChanged := !equalJSON(current.Groups, src.State.Groups)

	if !schemesChanged && !groupsChanged {
		s.logger.Debug("file matches document, nothing to send", "path", src.Origin)
		return nil
	}
	if schemesChanged {
		s.doc.ReplaceColourSchemes(src.State.ColourSchemes)
	}
	if groupsChanged {
		s.doc.ReplaceGroups(src.State.Groups)
	}

	remapped, syncErr := s.sync()
	if remapped > 0 {
		if err := s.save(ctx); err != nil {
			return err
		}
	}
	return syncErr
}

func equalJSON(a, b any) bool {
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	return errA == nil && errB == nil && bytes.Equal(ja, jb)
}
