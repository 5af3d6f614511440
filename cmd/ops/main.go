package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"weeklytrack/internal/config"
	"weeklytrack/internal/export"
	"weeklytrack/internal/ops"
	"weeklytrack/internal/serverapp"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "weeklytrack-ops",
		Short:         "Operational tooling for WeeklyTrack data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var configPath string
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "weeklytrack.yml", "path to config file")

	rootCmd.AddCommand(
		newExportCmd(&configPath),
		newBackupCmd(&configPath),
		newRestoreCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func openApp(configPath string) (*serverapp.App, *config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	quiet := log.New(io.Discard, "", 0)
	app, err := serverapp.NewApp(cfg, quiet)
	if err != nil {
		return nil, nil, err
	}
	return app, cfg, nil
}

func newExportCmd(configPath *string) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the task collection as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, _, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			rows := export.Rows(app.Tasks.Snapshot(), time.Now())
			if err := export.WriteCSV(w, rows); err != nil {
				return err
			}
			if out != "" {
				fmt.Fprintln(cmd.OutOrStdout(), out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newBackupCmd(configPath *string) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Archive the data dir as tar.gz",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if out == "" {
				ts := time.Now().UTC().Format("20060102T150405Z")
				out = filepath.Join("backups", "weeklytrack-"+ts+".tar.gz")
			}
			if err := ops.BackupDataDir(cfg.Storage.DataDir, out); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output archive path (.tar.gz)")
	return cmd
}

func newRestoreCmd() *cobra.Command {
	var archive string
	var target string

	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Unpack a backup archive into a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if archive == "" {
				return fmt.Errorf("--archive is required")
			}
			return ops.RestoreDataDir(archive, target)
		},
	}

	cmd.Flags().StringVar(&archive, "archive", "", "input backup archive (.tar.gz)")
	cmd.Flags().StringVar(&target, "target-dir", "data-restored", "restore target directory")
	return cmd
}
