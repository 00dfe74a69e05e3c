package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/koustreak/litedb/internal/backup"
	"github.com/koustreak/litedb/internal/errs"
	"github.com/koustreak/litedb/internal/filestore"
	"github.com/koustreak/litedb/internal/filestore/minio"
)

var (
	storeCfg    = filestore.FromEnv()
	storeBucket string
	storeKey    string
	restoreDest string
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Upload a snapshot of the database to object storage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		w, err := connect(ctx)
		if err != nil {
			return err
		}
		defer w.Close()

		store, err := minio.New(ctx, storeCfg)
		if err != nil {
			return err
		}
		defer store.Close()

		key := storeKey
		if key == "" {
			key = filepath.Base(w.Path())
		}

		info, err := backup.Upload(ctx, w, store, storeCfg.Bucket(storeBucket), key)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "uploaded %s (%d bytes, etag %s)\n", info.Key, info.Size, info.ETag)
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Download a snapshot from object storage to a new database file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if storeKey == "" {
			return errs.New(errs.ErrKindInvalidInput, "restore: --key is required")
		}
		ctx := cmd.Context()

		store, err := minio.New(ctx, storeCfg)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := backup.Restore(ctx, store, storeCfg.Bucket(storeBucket), storeKey, restoreDest); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "restored %s to %s\n", storeKey, restoreDest)
		return nil
	},
}

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots [PREFIX]",
	Short: "List the snapshots stored in object storage, newest first",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prefix := ""
		if len(args) == 1 {
			prefix = args[0]
		}
		ctx := cmd.Context()

		store, err := minio.New(ctx, storeCfg)
		if err != nil {
			return err
		}
		defer store.Close()

		objects, err := backup.List(ctx, store, storeCfg.Bucket(storeBucket), prefix)
		if err != nil {
			return err
		}
		for _, o := range objects {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%s\n", o.LastModified.UTC().Format(time.RFC3339), o.Size, o.Key)
		}
		return nil
	},
}

func initBackupCommands() {
	rootCmd.AddCommand(backupCmd, restoreCmd, snapshotsCmd)

	for _, c := range []*cobra.Command{backupCmd, restoreCmd, snapshotsCmd} {
		f := c.Flags()
		f.StringVar(&storeCfg.Endpoint, "endpoint", storeCfg.Endpoint, "object storage host:port (env "+filestore.EnvEndpoint+")")
		f.StringVar(&storeCfg.AccessKey, "access-key", storeCfg.AccessKey, "access key (env "+filestore.EnvAccessKey+")")
		f.StringVar(&storeCfg.SecretKey, "secret-key", storeCfg.SecretKey, "secret key (env "+filestore.EnvSecretKey+")")
		f.BoolVar(&storeCfg.UseSSL, "ssl", false, "use TLS")
		f.StringVar(&storeBucket, "bucket", "", "bucket (env "+filestore.EnvBucket+")")
		f.StringVar(&storeKey, "key", "", "object key (backup defaults to the database file name)")
	}
	restoreCmd.Flags().StringVar(&restoreDest, "dest", "", "path of the database file to create")
	_ = restoreCmd.MarkFlagRequired("dest")
}
