package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wealthtracker-dev/wealthtracker/internal/backup"
)

func newBackupCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Snapshot the database and exports, with optional git commit and S3 upload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()

			var uploader backup.Uploader
			if a.cfg.Backup.S3Bucket != "" {
				up, err := backup.NewS3Uploader(ctx, a.cfg.Backup.S3Bucket, a.cfg.Backup.S3Region)
				if err != nil {
					return err
				}
				uploader = up
			}

			svc := backup.NewService(a.db, a.exporter(), a.dataDir, a.cfg.Backup, a.cfg.Git, uploader, a.log)
			res, err := svc.Run(ctx)
			if err != nil {
				return err
			}

			a.recordActivity("backup", res.Dir, res.Checksum)
			fmt.Printf("Backup written to %s\n", res.Dir)
			fmt.Printf("  checksum %s\n", res.Checksum)
			if res.Pruned > 0 {
				fmt.Printf("  pruned %d old snapshots\n", res.Pruned)
			}
			if res.Commit != "" {
				fmt.Printf("  committed %s\n", res.Commit)
			}
			if res.Uploaded {
				fmt.Printf("  uploaded to s3://%s\n", a.cfg.Backup.S3Bucket)
			}
			return nil
		},
	}
}
