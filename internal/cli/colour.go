package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/labelschema/internal/services/editor"
)

func newColourCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "colour",
		Aliases: []string{"color"},
		Short:   "Manage label class colours",
	}

	cmd.AddCommand(newColourSetCommand())

	return cmd
}

func newColourSetCommand() *cobra.Command {
	var flags editFlags

	cmd := &cobra.Command{
		Use:   "set <schema> <class name> <scheme> <#RRGGBB>",
		Short: "Set the colour of a label class in one scheme",
		Long: `Set the colour of a label class in one colour scheme. The scheme
"default" always exists.

Examples:
  labelschema colour set schema.yaml car natural "#ff0000"
  labelschema colour set schema.yaml car default "#00ff00" --offline
`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			className, scheme, colour := args[1], args[2], args[3]

			return runSchemaEdit(cmd, args[0], flags, func(s *session, svc editor.Service) (editResult, error) {
				ref, err := findClass(s.doc, className)
				if err != nil {
					return editResult{}, err
				}
				err = svc.SetColour(editor.SetColourRequest{Class: ref, Scheme: scheme, Colour: colour})
				if err != nil {
					return editResult{}, err
				}
				lcls := s.doc.Groups()[ref.Group].GroupClasses[ref.Class]
				return editResult{
					data:  lcls,
					human: fmt.Sprintf("✓ '%s' is now %s in '%s'", className, lcls.Colour(scheme), scheme),
					quiet: lcls.Colour(scheme),
				}, nil
			})
		},
	}

	flags.register(cmd)

	return cmd
}
