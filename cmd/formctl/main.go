// cmd/formctl/main.go
//
// formctl – command-line front end for the profile form pipeline.
//
// Commands
// --------
//
//	formctl validate <submission.json>   normalise and print, nothing stored
//	formctl submit   <submission.json>   validate, then upload the avatar
//
// A submission file mirrors the web form:
//
//	{
//	  "avatar":   "./me.png",
//	  "name":     "ana souza",
//	  "email":    "ana@gmail.com",
//	  "password": "secret1",
//	  "techs":    [{"title": "Go", "knowledge": 80}, {"title": "SQL", "knowledge": "55"}]
//	}
//
// Exit codes
// ----------
//
//	0 – accepted
//	1 – field validation failed (errors printed as JSON)
//	2 – anything else (bad file, config, upload failure)
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	exitInvalid = 1
	exitFailure = 2
)

// errInvalid marks a run whose input failed validation.  The ErrorSet has
// already been printed.
var errInvalid = errors.New("submission invalid")

var verbose bool

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "formctl",
		Short:         "Validate and submit profile forms from JSON files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !verbose {
				return nil
			}
			l, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			zap.ReplaceGlobals(l)
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline events to stderr")
	root.AddCommand(newValidateCmd(), newSubmitCmd())
	return root
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd()
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errInvalid):
		return exitInvalid
	default:
		fmt.Fprintln(os.Stderr, "formctl:", err)
		return exitFailure
	}
}
