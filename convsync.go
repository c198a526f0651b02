// Package convsync wires the Intercom fetcher, the Caplena clients and the
// optional Redis and S3 backends into a single application.
package convsync

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/NextMind-AI/conversation-sync/aws"
	"github.com/NextMind-AI/conversation-sync/caplena"
	"github.com/NextMind-AI/conversation-sync/config"
	"github.com/NextMind-AI/conversation-sync/dedup"
	"github.com/NextMind-AI/conversation-sync/execution"
	"github.com/NextMind-AI/conversation-sync/intercom"
	"github.com/NextMind-AI/conversation-sync/processor"
	"github.com/NextMind-AI/conversation-sync/redis"
	"github.com/NextMind-AI/conversation-sync/server"
	"github.com/NextMind-AI/conversation-sync/uploader"
)

// App holds the long-lived clients of one process.
type App struct {
	config     *config.Config
	processor  *processor.Processor
	executions *execution.Manager
	redis      *redis.Client
}

// SetupLogging configures the global logger. Unknown levels fall back to
// info.
func SetupLogging(level, format string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339

	if format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// New creates every client once and injects them into the pipeline. Redis
// and S3 are only used when configured.
func New(cfg *config.Config) (*App, error) {
	httpClient := &http.Client{Timeout: intercom.RequestTimeout}

	intercomClient := intercom.NewClient(
		cfg.IntercomAccessToken,
		cfg.IntercomBaseURL,
		cfg.IntercomVersion,
		httpClient,
	)
	caplenaClient := caplena.NewClient(
		cfg.CaplenaAPIKey,
		cfg.CaplenaBaseURL,
		httpClient,
	)

	app := &App{
		config:     cfg,
		executions: execution.NewManager(),
	}

	var archiver processor.Archiver
	if cfg.S3Bucket != "" {
		awsClient, err := aws.NewClient(cfg.S3Region, cfg.S3Bucket)
		if err != nil {
			return nil, err
		}
		archiver = awsClient
	}

	var history processor.RunHistory
	if cfg.RedisAddr != "" {
		redisClient, err := redis.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		app.redis = redisClient
		history = redisClient
	}

	app.processor = processor.NewProcessor(
		intercom.NewFetcher(intercomClient, cfg.FetchContacts),
		uploader.New(caplenaClient),
		caplenaClient,
		dedup.New(caplenaClient),
		archiver,
		history,
		processor.Options{
			CSVPath:       cfg.CSVPath,
			ProjectID:     cfg.CaplenaProjectID,
			ProjectName:   cfg.CaplenaProjectName,
			LookbackHours: cfg.LookbackHours,
		},
	)

	log.Info().
		Bool("fetch_contacts", cfg.FetchContacts).
		Bool("run_history", history != nil).
		Bool("s3_archive", archiver != nil).
		Msg("Application initialized")

	return app, nil
}

var ErrAlreadyRunning = errors.New("a run of the same kind is already in progress")

// Sync runs one sync through the run guard.
func (a *App) Sync(ctx context.Context, req processor.SyncRequest) (processor.SyncResult, error) {
	release, ok := a.executions.TryStart(execution.KindSync)
	if !ok {
		return processor.SyncResult{}, ErrAlreadyRunning
	}
	defer release()

	return a.processor.Sync(ctx, req), nil
}

// Dedup runs one dedup through the run guard.
func (a *App) Dedup(ctx context.Context, req processor.DedupRequest) (processor.DedupResult, error) {
	release, ok := a.executions.TryStart(execution.KindDedup)
	if !ok {
		return processor.DedupResult{}, ErrAlreadyRunning
	}
	defer release()

	return a.processor.Dedup(ctx, req), nil
}

// Serve starts the HTTP server and, when interval is positive, runs
// scheduled every interval. It returns once ctx is cancelled or the server
// fails.
func (a *App) Serve(ctx context.Context, port string, interval time.Duration, scheduled processor.SyncRequest) error {
	if port == "" {
		port = a.config.Port
	}

	var history processor.RunHistory
	if a.redis != nil {
		history = a.redis
	}
	srv := server.New(a.processor, a.executions, history)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(port)
	}()

	if interval > 0 {
		go a.schedule(ctx, interval, scheduled)
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		return srv.Shutdown()
	}
}

func (a *App) schedule(ctx context.Context, interval time.Duration, req processor.SyncRequest) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info().Dur("interval", interval).Msg("Periodic sync enabled")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			result, err := a.Sync(ctx, req)
			if err != nil {
				log.Warn().Err(err).Msg("Skipping scheduled sync")
				continue
			}
			log.Info().
				Str("run_id", result.RunID).
				Bool("success", result.Success).
				Int("conversations", result.Stats.ConversationCount).
				Msg("Scheduled sync finished")
		}
	}
}

func (a *App) Close() error {
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}
