package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/labelschema/internal/schema"
	"github.com/thenoetrevino/labelschema/internal/services/editor"
)

func newClassCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "class",
		Aliases: []string{"classes"},
		Short:   "Manage label classes",
	}

	cmd.AddCommand(newClassAddCommand())
	cmd.AddCommand(newClassSetCommand())

	return cmd
}

func newClassAddCommand() *cobra.Command {
	var (
		flags     editFlags
		humanName string
	)

	cmd := &cobra.Command{
		Use:   "add <schema> <group name> <class name>",
		Short: "Add a label class to a group",
		Long: `Add an active label class to a group. The class gets the default colour
#808080 in every colour scheme.

Examples:
  labelschema class add schema.yaml Vehicles car
  labelschema class add schema.yaml Vehicles road_sign --human-name="Road sign"
`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchemaEdit(cmd, args[0], flags, func(s *session, svc editor.Service) (editResult, error) {
				groupIndex, err := s.doc.FindGroup(args[1])
				if err != nil {
					return editResult{}, fmt.Errorf("%w: %s", err, args[1])
				}
				lcls, err := svc.CreateLabelClass(editor.CreateLabelClassRequest{
					GroupIndex: groupIndex,
					Name:       args[2],
					HumanName:  humanName,
				})
				if err != nil {
					return editResult{}, err
				}
				return editResult{
					human: fmt.Sprintf("✓ Label class '%s' added to '%s'", lcls.Name, args[1]),
					current: func() (any, string) {
						classes := s.doc.Groups()[groupIndex].GroupClasses
						added := classes[len(classes)-1]
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

func newClassSetCommand() *cobra.Command {
	var flags editFlags

	cmd := &cobra.Command{
		Use:   "set <schema> <class name>",
		Short: "Change a label class",
		Long: `Change the display name or active flag of a label class. The first class
with the given name is changed.

Examples:
  labelschema class set schema.yaml car --human-name="Passenger car"
  labelschema class set schema.yaml car --active=false
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchemaEdit(cmd, args[0], flags, func(s *session, svc editor.Service) (editResult, error) {
				ref, err := findClass(s.doc, args[1])
				if err != nil {
					return editResult{}, err
				}
				err = svc.UpdateLabelClass(editor.UpdateLabelClassRequest{
					Class:     ref,
					Active:    optionalBool(cmd, "active"),
					HumanName: optionalString(cmd, "human-name"),
				})
				if err != nil {
					return editResult{}, err
				}
				return editResult{
					data:  s.doc.Groups()[ref.Group].GroupClasses[ref.Class],
					human: fmt.Sprintf("✓ Label class '%s' updated", args[1]),
				}, nil
			})
		},
	}

	cmd.Flags().Bool("active", true, "whether the class is offered to annotators")
	cmd.Flags().String("human-name", "", "new display name")
	flags.register(cmd)

	return cmd
}

func findClass(doc *schema.Document, name string) (schema.ClassRef, error) {
	ref, err := doc.FindLabelClass(name)
	if err != nil {
		return schema.ClassRef{}, fmt.Errorf("%w: %s", err, name)
	}
	return ref, nil
}
