package cli

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/labelschema/internal/loader"
	"github.com/thenoetrevino/labelschema/internal/models"
	"github.com/thenoetrevino/labelschema/internal/schema"
)

// defaultWrap is the word wrap width of rendered markdown
const defaultWrap = 100

// Cache glamour renderers by width to avoid expensive re-creation
var rendererCache sync.Map // map[int]*glamour.TermRenderer

func getRenderer(width int) (*glamour.TermRenderer, error) {
	if cached, ok := rendererCache.Load(width); ok {
		return cached.(*glamour.TermRenderer), nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}

	rendererCache.Store(width, renderer)
	return renderer, nil
}

func newShowCommand() *cobra.Command {
	var (
		raw    bool
		asYAML bool
		resume bool
		width  int
	)

	cmd := &cobra.Command{
		Use:   "show <schema.json|schema.yaml|page.html|URL>",
		Short: "Print a summary of a schema",
		Long: `Print the colour schemes, groups and label classes of a schema.

Examples:
  # Rendered summary
  labelschema show schema.yaml

  # Markdown, for pasting into docs
  labelschema show schema.yaml --raw

  # Convert the embedded state of a page to YAML
  labelschema show https://labels.example.com/schema/ --yaml > schema.yaml
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f := formatter(cmd)

			s, err := openSession(ctx, args[0], sessionOptions{resume: resume})
			if err != nil {
				return err
			}
			defer s.Close()

			state := s.doc.State()
			out := cmd.OutOrStdout()

			switch {
			case f.JSON:
				return loader.Encode(out, state, loader.FormatJSON)
			case asYAML:
				return loader.Encode(out, state, loader.FormatYAML)
			}

			md := RenderMarkdown(s.src.Origin, state)
			if raw {
				_, err := fmt.Fprint(out, md)
				return err
			}

			renderer, err := getRenderer(width)
			if err != nil {
				return fmt.Errorf("failed to create markdown renderer: %w", err)
			}
			rendered, err := renderer.Render(md)
			if err != nil {
				return fmt.Errorf("failed to render markdown: %w", err)
			}
			_, err = fmt.Fprint(out, rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print markdown without rendering")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print the schema state as YAML")
	cmd.Flags().BoolVar(&resume, "resume", false, "show the saved draft instead of the source")
	cmd.Flags().IntVar(&width, "width", defaultWrap, "word wrap width")

	return cmd
}

// RenderMarkdown summarises state as a markdown document.
func RenderMarkdown(origin string, state schema.State) string {
	var b strings.Builder

	b.WriteString("# Label schema\n\n")
	if origin != "" {
		fmt.Fprintf(&b, "Source: `%s`\n\n", origin)
	}

	schemeNames := make([]string, 0, len(state.ColourSchemes)+1)
	schemeNames = append(schemeNames, models.DefaultSchemeName)

	b.WriteString("## Colour schemes\n\n")
	if len(state.ColourSchemes) == 0 {
		b.WriteString("_No colour schemes._\n\n")
	} else {
		b.WriteString("| Name | Display name | Active | Id |\n|---|---|---|---|\n")
		for _, s := range state.ColourSchemes {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				cell(s.Name), cell(s.HumanName), yesNo(s.Active), cell(s.ID.String()))
			schemeNames = append(schemeNames, s.Name)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Groups\n\n")
	if len(state.Groups) == 0 {
		b.WriteString("_No groups._\n")
	}
	for _, g := range state.Groups {
		status := ""
		if !g.Active {
			status = " (inactive)"
		}
		fmt.Fprintf(&b, "### %s%s\n\n", g.GroupName, status)

		if len(g.GroupClasses) == 0 {
			b.WriteString("_No label classes._\n\n")
			continue
		}

		b.WriteString("| Class | Display name | Active")
		for _, name := range schemeNames {
			fmt.Fprintf(&b, " | %s", cell(name))
		}
		b.WriteString(" |\n|---|---|---")
		for range schemeNames {
			b.WriteString("|---")
		}
		b.WriteString("|\n")

		for _, c := range g.GroupClasses {
			fmt.Fprintf(&b, "| %s | %s | %s", cell(c.Name), cell(c.HumanName), yesNo(c.Active))
			for _, name := range schemeNames {
				fmt.Fprintf(&b, " | `%s`", c.Colour(name))
			}
			b.WriteString(" |\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}

func cell(s string) string {
	if s == "" {
		return " "
	}
	return strings.ReplaceAll(s, "|", `\|`)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
