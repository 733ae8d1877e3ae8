package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/labelschema/internal/services/editor"
)

func newSchemeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "scheme",
		Aliases: []string{"schemes"},
		Short:   "Manage colour schemes",
	}

	cmd.AddCommand(newSchemeAddCommand())
	cmd.AddCommand(newSchemeSetCommand())

	return cmd
}

func newSchemeAddCommand() *cobra.Command {
	var (
		flags     editFlags
		humanName string
	)

	cmd := &cobra.Command{
		Use:   "add <schema> <name>",
		Short: "Add a colour scheme",
		Long: `Add a colour scheme. Every existing label class gets the default colour
#808080 in the new scheme.

Examples:
  labelschema scheme add schema.yaml natural --human-name="Natural"

  # JSON output for agents
  labelschema scheme add schema.yaml artistic --json
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchemaEdit(cmd, args[0], flags, func(s *session, svc editor.Service) (editResult, error) {
				scheme, err := svc.CreateColourScheme(editor.CreateColourSchemeRequest{
					Name:      args[1],
					HumanName: humanName,
				})
				if err != nil {
					return editResult{}, err
				}
				return editResult{
					human: fmt.Sprintf("✓ Colour scheme '%s' added", scheme.Name),
					current: func() (any, string) {
						schemes := s.doc.ColourSchemes()
						added := schemes[len(schemes)-1]
						return added, added.ID.String()
					},
				}, nil
			})
		},
	}

	cmd.Flags().StringVar(&humanName, "human-name", "", "display name (default: derived from the name)")
	flags.register(cmd)

	return cmd
}

func newSchemeSetCommand() *cobra.Command {
	var flags editFlags

	cmd := &cobra.Command{
		Use:   "set <schema> <name>",
		Short: "Change a colour scheme",
		Long: `Change the display name or active flag of a colour scheme.

Examples:
  labelschema scheme set schema.yaml natural --active=false
  labelschema scheme set schema.yaml natural --human-name="Natural colours"
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchemaEdit(cmd, args[0], flags, func(s *session, svc editor.Service) (editResult, error) {
				index, err := s.doc.FindColourScheme(args[1])
				if err != nil {
					return editResult{}, fmt.Errorf("%w: %s", err, args[1])
				}
				err = svc.UpdateColourScheme(editor.UpdateColourSchemeRequest{
					Index:     index,
					Active:    optionalBool(cmd, "active"),
					HumanName: optionalString(cmd, "human-name"),
				})
				if err != nil {
					return editResult{}, err
				}
				return editResult{
					data:  s.doc.ColourSchemes()[index],
					human: fmt.Sprintf("✓ Colour scheme '%s' updated", args[1]),
				}, nil
			})
		},
	}

	cmd.Flags().Bool("active", true, "whether the scheme is offered")
	cmd.Flags().String("human-name", "", "new display name")
	flags.register(cmd)

	return cmd
}
