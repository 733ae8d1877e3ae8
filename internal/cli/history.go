package cli

import (
	"fmt"
	"strconv"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/labelschema/internal/config"
	"github.com/thenoetrevino/labelschema/internal/database"
)

func newHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <schema.json|schema.yaml|page.html|URL>",
		Short: "List recent updates sent for a schema",
		Long: `List the most recent updates sent for a schema, newest first, with
their outcome.

Examples:
  labelschema history schema.yaml
  labelschema history schema.yaml --limit=5 --json
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f := formatter(cmd)

			repo, err := openRepository(ctx, config.FromContext(ctx))
			if err != nil {
				return err
			}
			defer repo.Close()

			records, err := repo.RecentSyncs(ctx, draftKey(args[0]), limit)
			if err != nil {
				return err
			}

			if f.JSON {
				return f.Success(records, "", "")
			}
			if len(records) == 0 {
				return f.Success(records, "No updates recorded for "+args[0], "")
			}
			return f.Success(records, renderHistory(records), strconv.Itoa(len(records)))
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "number of updates to list")

	return cmd
}

func renderHistory(records []*database.SyncRecord) string {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	failed := cellStyle.Foreground(lipgloss.Color("#E82424"))

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("TIME", "ACTION", "RESULT", "REMAPPED", "MESSAGE").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case col == 2 && !records[row].Succeeded:
				return failed
			default:
				return cellStyle
			}
		})

	for _, r := range records {
		result := "ok"
		if !r.Succeeded {
			result = r.ErrorCode
		}
		t.Row(
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			r.Action,
			result,
			fmt.Sprint(r.Remapped),
			r.Message,
		)
	}

	return t.String()
}
