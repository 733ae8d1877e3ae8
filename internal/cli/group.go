package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/labelschema/internal/services/editor"
)

func newGroupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "group",
		Aliases: []string{"groups"},
		Short:   "Manage label class groups",
	}

	cmd.AddCommand(newGroupAddCommand())
	cmd.AddCommand(newGroupSetCommand())

	return cmd
}

func newGroupAddCommand() *cobra.Command {
	var flags editFlags

	cmd := &cobra.Command{
		Use:   "add <schema> <group name>",
		Short: "Add an empty label class group",
		Long: `Add an empty, active label class group.

Examples:
  labelschema group add schema.yaml Vehicles

  # Quiet mode for bash capture
  GROUP_ID=$(labelschema group add schema.yaml Vehicles --quiet)
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchemaEdit(cmd, args[0], flags, func(s *session, svc editor.Service) (editResult, error) {
				group, err := svc.CreateGroup(editor.CreateGroupRequest{GroupName: args[1]})
				if err != nil {
					return editResult{}, err
				}
				return editResult{
					human: fmt.Sprintf("✓ Group '%s' added", group.GroupName),
					current: func() (any, string) {
						groups := s.doc.Groups()
						added := groups[len(groups)-1]
						return added, added.ID.String()
					},
				}, nil
			})
		},
	}

	flags.register(cmd)

	return cmd
}

func newGroupSetCommand() *cobra.Command {
	var flags editFlags

	cmd := &cobra.Command{
		Use:   "set <schema> <group name>",
		Short: "Rename or toggle a label class group",
		Long: `Change the name or active flag of a label class group.

Examples:
  labelschema group set schema.yaml Vehicles --rename=Traffic
  labelschema group set schema.yaml Vehicles --active=false
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchemaEdit(cmd, args[0], flags, func(s *session, svc editor.Service) (editResult, error) {
				index, err := s.doc.FindGroup(args[1])
				if err != nil {
					return editResult{}, fmt.Errorf("%w: %s", err, args[1])
				}
				err = svc.UpdateGroup(editor.UpdateGroupRequest{
					Index:     index,
					Active:    optionalBool(cmd, "active"),
					GroupName: optionalString(cmd, "rename"),
				})
				if err != nil {
					return editResult{}, err
				}
				return editResult{
					data:  s.doc.Groups()[index],
					human: fmt.Sprintf("✓ Group '%s' updated", args[1]),
				}, nil
			})
		},
	}

	cmd.Flags().Bool("active", true, "whether the group is offered")
	cmd.Flags().String("rename", "", "new group name")
	flags.register(cmd)

	return cmd
}
