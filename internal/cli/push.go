package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPushCommand() *cobra.Command {
	var resume bool

	cmd := &cobra.Command{
		Use:   "push <schema.json|schema.yaml|page.html|URL>",
		Short: "Send the whole schema to the update endpoint now",
		Long: `Send both the colour schemes and the groups to the update endpoint,
without waiting for the debounce period. Local JSON and YAML files are
rewritten with the ids the server assigned.

Examples:
  labelschema push schema.yaml --update-url=https://labels.example.com/schema/update/

  # Push the draft left behind by an offline edit session
  labelschema push schema.yaml --resume
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := openSession(ctx, args[0], sessionOptions{sync: true, resume: resume})
			if err != nil {
				return err
			}
			defer s.Close()

			remapped, pushErr := s.push(ctx)
			if err := s.save(ctx); err != nil {
				return err
			}
			if pushErr != nil {
				return pushErr
			}

			return formatter(cmd).Success(
				map[string]any{"update_url": s.updateURL(), "remapped": remapped},
				fmt.Sprintf("✓ Schema pushed to %s (%d ids remapped)", s.updateURL(), remapped),
				fmt.Sprint(remapped),
			)
		},
	}

	cmd.Flags().BoolVar(&resume, "resume", false, "push the saved draft instead of the source")

	return cmd
}
