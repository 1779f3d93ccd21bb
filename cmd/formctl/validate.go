package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yanizio/formhook/internal/form"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <submission.json>",
		Short: "Validate a submission and print the normalized record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sf, err := readSubmission(args[0])
			if err != nil {
				return err
			}
			vf, err := form.Validate(sf)
			return report(cmd.OutOrStdout(), vf, err)
		},
	}
}

// readSubmission decodes path.  Avatar paths are taken relative to the
// working directory.
func readSubmission(path string) (form.SubmittedForm, error) {
	f, err := os.Open(path)
	if err != nil {
		return form.SubmittedForm{}, err
	}
	defer f.Close()
	return form.DecodeJSON(f, form.OpenLocalFile)
}

// report prints {"data": …} or {"errors": …}.  Validation failures become
// errInvalid; other errors are returned unchanged.
func report(w io.Writer, vf form.ValidatedForm, err error) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err != nil {
		if errs := form.ErrorsOf(err); errs != nil {
			if encErr := enc.Encode(map[string]any{"errors": errs.Messages()}); encErr != nil {
				return encErr
			}
			return errInvalid
		}
		return err
	}
	if err := enc.Encode(map[string]any{"data": vf}); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}
