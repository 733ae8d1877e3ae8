package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/labelschema/internal/services/editor"
)

// editFlags are shared by every command that changes the schema
type editFlags struct {
	offline bool
	resume  bool
}

func (f *editFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.offline, "offline", false, "do not send the update; only save locally")
	cmd.Flags().BoolVar(&f.resume, "resume", false, "edit the saved draft instead of the source")
}

// editResult is what an edit reports back to the user
type editResult struct {
	data  any
	human string
	quiet string

	// current re-reads data and quiet after the update, when the server
	// may have replaced a placeholder id
	current func() (any, string)
}

// runSchemaEdit opens location, applies edit through the editor service,
// sends the resulting update and saves the schema.
func runSchemaEdit(
	cmd *cobra.Command,
	location string,
	flags editFlags,
	edit func(s *session, svc editor.Service) (editResult, error),
) error {
	ctx := cmd.Context()

	s, err := openSession(ctx, location, sessionOptions{sync: !flags.offline, resume: flags.resume})
	if err != nil {
		return err
	}
	defer s.Close()

	res, err := edit(s, editor.NewService(s.doc))
	if err != nil {
		return err
	}

	return finishEdit(ctx, cmd, s, res)
}

// finishEdit sends pending updates, saves, and reports res. The schema is
// saved even when the update failed so the edit is not lost.
func finishEdit(ctx context.Context, cmd *cobra.Command, s *session, res editResult) error {
	remapped, syncErr := s.sync()
	if err := s.save(ctx); err != nil {
		return err
	}
	if syncErr != nil {
		return syncErr
	}

	if res.current != nil {
		res.data, res.quiet = res.current()
	}

	human := res.human
	switch {
	case s.updater == nil:
		human += " (saved locally)"
	case remapped > 0:
		human += fmt.Sprintf(" (%d ids assigned by the server)", remapped)
	}
	return formatter(cmd).Success(res.data, human, res.quiet)
}

// optionalBool returns a pointer to the flag value when the flag was set
func optionalBool(cmd *cobra.Command, name string) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetBool(name)
	return &v
}

// optionalString returns a pointer to the flag value when the flag was set
func optionalString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}
