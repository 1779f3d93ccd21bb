package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yanizio/formhook/internal/config"
	"github.com/yanizio/formhook/internal/form"
	"github.com/yanizio/formhook/internal/storage"
	"github.com/yanizio/formhook/internal/vault"
)

func newSubmitCmd() *cobra.Command {
	var bucket string

	cmd := &cobra.Command{
		Use:   "submit <submission.json>",
		Short: "Validate a submission and upload its avatar to the configured backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			sf, err := readSubmission(args[0])
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			resolved, err := vault.ResolveConfig(ctx, *cfg, zap.S())
			if err != nil {
				return err
			}
			if bucket != "" {
				resolved.Storage.Bucket = bucket
			}

			store, closeStore, err := storage.New(ctx, resolved.Storage, resolved.Storage.Key)
			if err != nil {
				return err
			}
			defer func() { _ = closeStore() }()

			sub := form.NewSubmitter(store, resolved.Storage.Bucket)
			vf, err := sub.Submit(ctx, sf)
			if errors.Is(err, storage.ErrUploadFailed) {
				return fmt.Errorf("avatar not stored: %w", err)
			}
			return report(cmd.OutOrStdout(), vf, err)
		},
	}
	cmd.Flags().StringVar(&bucket, "bucket", "", "override storage.bucket")
	return cmd
}
