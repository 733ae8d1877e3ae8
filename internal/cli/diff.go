package cli

import (
	"bytes"
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/labelschema/internal/loader"
	"github.com/thenoetrevino/labelschema/internal/schema"
)

// diffContext is the number of unchanged lines shown around each change
const diffContext = 3

func newDiffCommand() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "diff <schema.json|schema.yaml|page.html|URL>",
		Short: "Show how the saved draft differs from the source",
		Long: `Print a unified diff between the schema source and the draft saved by
the last edit session, both rendered as YAML. The draft is what --resume
would load.

Examples:
  labelschema diff schema.yaml
  labelschema diff https://labels.example.com/schema/ --no-color
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f := formatter(cmd)

			s, err := openSession(ctx, args[0], sessionOptions{})
			if err != nil {
				return err
			}
			defer s.Close()

			draft, err := s.repo.LoadDraft(ctx, s.key)
			if err != nil {
				return &CodedError{
					Code: ExitNotFound,
					Err:  fmt.Errorf("%w for %s", err, args[0]),
					Hint: "Drafts are saved by edit, push and the one-shot edit commands",
				}
			}

			unified, err := schemaDiff(s.src.State, draft.State, args[0], "draft")
			if err != nil {
				return err
			}

			data := map[string]any{
				"has_differences": unified != "",
				"draft_saved_at":  draft.SavedAt,
				"unified":         unified,
			}
			if unified == "" {
				return f.Success(data, "No differences found.", "0")
			}
			human := strings.TrimRight(unified, "\n")
			if !noColor {
				human = colorDiff(human)
			}
			return f.Success(data, human, "1")
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "print the diff without colours")

	return cmd
}

// schemaDiff renders both states as YAML and returns their unified diff,
// or "" when they are identical.
func schemaDiff(from, to schema.State, fromLabel, toLabel string) (string, error) {
	a, err := encodeYAML(from)
	if err != nil {
		return "", err
	}
	b, err := encodeYAML(to)
	if err != nil {
		return "", err
	}

	unified, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: fromLabel,
		ToFile:   toLabel,
		Context:  diffContext,
	})
	if err != nil {
		return "", fmt.Errorf("computing diff: %w", err)
	}
	return unified, nil
}

func encodeYAML(state schema.State) (string, error) {
	var buf bytes.Buffer
	if err := loader.Encode(&buf, state, loader.FormatYAML); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func colorDiff(unified string) string {
	var (
		header  = lipgloss.NewStyle().Bold(true)
		hunk    = lipgloss.NewStyle().Foreground(lipgloss.Color("#7E9CD8"))
		removed = lipgloss.NewStyle().Foreground(lipgloss.Color("#E82424"))
		added   = lipgloss.NewStyle().Foreground(lipgloss.Color("#98BB6C"))
	)

	lines := strings.Split(unified, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
			lines[i] = header.Render(line)
		case strings.HasPrefix(line, "@@"):
			lines[i] = hunk.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = removed.Render(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = added.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
