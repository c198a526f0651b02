package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	convsync "github.com/NextMind-AI/conversation-sync"
	"github.com/NextMind-AI/conversation-sync/config"
	"github.com/NextMind-AI/conversation-sync/processor"
)

const (
	cliName    = "convsync"
	cliVersion = "0.3.0"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           cliName,
		Short:         "Sync Intercom conversations into Caplena",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch recent conversations, write them to CSV and optionally upload them",
		RunE:  runSync,
	}
	syncCmd.Flags().Int("hours", 0, "lookback window in hours (default LOOKBACK_HOURS)")
	syncCmd.Flags().Bool("upload", false, "upload the transcripts to Caplena")
	syncCmd.Flags().String("csv", "", "CSV export path (default CSV_PATH)")
	syncCmd.Flags().String("project", "", "Caplena project id (default CAPLENA_PROJECT_ID)")

	dedupCmd := &cobra.Command{
		Use:   "dedup",
		Short: "Delete duplicate rows from the Caplena project",
		RunE:  runDedup,
	}
	dedupCmd.Flags().Bool("dry-run", false, "only report duplicates")
	dedupCmd.Flags().String("project", "", "Caplena project id (default CAPLENA_PROJECT_ID)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  runServe,
	}
	serveCmd.Flags().String("port", "", "listen port (default PORT)")
	serveCmd.Flags().Duration("interval", 0, "run a sync every interval, 0 disables scheduling")
	serveCmd.Flags().Bool("upload", true, "upload scheduled syncs to Caplena")

	rootCmd.AddCommand(syncCmd, dedupCmd, serveCmd, &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s v%s\n", cliName, cliVersion)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command) (*convsync.App, *config.Config, error) {
	cfg := config.Load()
	convsync.SetupLogging(cfg.LogLevel, cfg.LogFormat)

	if path, _ := cmd.Flags().GetString("csv"); path != "" {
		cfg.CSVPath = path
	}

	app, err := convsync.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("init: %w", err)
	}
	return app, cfg, nil
}

func runSync(cmd *cobra.Command, args []string) error {
	app, _, err := setup(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	hours, _ := cmd.Flags().GetInt("hours")
	upload, _ := cmd.Flags().GetBool("upload")
	project, _ := cmd.Flags().GetString("project")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := app.Sync(ctx, processor.SyncRequest{
		LookbackHours: hours,
		Upload:        upload,
		ProjectID:     project,
	})
	if err != nil {
		return err
	}

	if err := printJSON(result); err != nil {
		return err
	}
	if !result.Success {
		return errors.New(result.Message)
	}
	return nil
}

func runDedup(cmd *cobra.Command, args []string) error {
	app, _, err := setup(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	project, _ := cmd.Flags().GetString("project")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := app.Dedup(ctx, processor.DedupRequest{ProjectID: project, DryRun: dryRun})
	if err != nil {
		return err
	}

	if err := printJSON(result); err != nil {
		return err
	}
	if !result.Success {
		return errors.New(result.Message)
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	app, cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	port, _ := cmd.Flags().GetString("port")
	interval, _ := cmd.Flags().GetDuration("interval")
	upload, _ := cmd.Flags().GetBool("upload")
	if interval > 0 && interval < time.Minute {
		return fmt.Errorf("interval %s is shorter than one minute", interval)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.Serve(ctx, port, interval, processor.SyncRequest{
		LookbackHours: cfg.LookbackHours,
		Upload:        upload,
	})
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
