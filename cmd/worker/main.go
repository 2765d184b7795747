package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/streamtube/backend/internal/config"
	"github.com/streamtube/backend/internal/database"
	"github.com/streamtube/backend/internal/logging"
	"github.com/streamtube/backend/internal/metrics"
	"github.com/streamtube/backend/internal/queue"
	"github.com/streamtube/backend/internal/storage"
	"github.com/streamtube/backend/pkg/models"
)

// Worker re-runs the cleanup cascade for deleted videos. The API does
// the same steps inline on delete; this path covers crashes and
// transient failures. Every step is idempotent so redelivery is safe.
type Worker struct {
	repo    *database.Repository
	storage *storage.Storage
	logger  *logging.Logger
}

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	repo := database.NewRepository(db)

	stor, err := storage.New(cfg.Storage, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize storage: %v", err)
	}

	q, err := queue.New(cfg.Queue)
	if err != nil {
		logger.Fatalf("Failed to connect to queue: %v", err)
	}
	defer q.Close()

	worker := &Worker{
		repo:    repo,
		storage: stor,
		logger:  logger,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := q.ConsumeCleanupTasks(ctx, worker.processTask); err != nil {
		logger.Fatalf("Failed to start consuming: %v", err)
	}

	go reportQueueDepth(ctx, q)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.MetricsPort)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
			logger.Errorf("Metrics server stopped: %v", err)
		}
	}()

	logger.Info("Cleanup worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	cancel()
}

// reportQueueDepth keeps the queue depth gauge current while the
// worker runs
func reportQueueDepth(ctx context.Context, q *queue.Queue) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			depth, err := q.GetQueueDepth()
			if err != nil {
				continue
			}
			metrics.CleanupQueueDepth.Set(float64(depth))
		}
	}
}

// processTask re-runs the full cascade for one deleted video. Returning
// an error requeues the task.
func (w *Worker) processTask(task *models.CleanupTask) error {
	ctx := context.Background()
	logger := w.logger.WithVideoID(task.VideoID)

	if task.VideoStorageID != "" {
		if err := w.storage.Delete(ctx, task.VideoStorageID); err != nil {
			logger.ErrorWithErr("Failed to delete video blob", err)
			metrics.RecordCleanupTask("failed")
			return err
		}
	}

	if task.ThumbnailStorageID != "" {
		if err := w.storage.Delete(ctx, task.ThumbnailStorageID); err != nil {
			logger.ErrorWithErr("Failed to delete thumbnail blob", err)
			metrics.RecordCleanupTask("failed")
			return err
		}
	}

	if err := w.repo.DeleteLikesOnVideo(ctx, task.VideoID); err != nil {
		logger.ErrorWithErr("Failed to delete video likes", err)
		metrics.RecordCleanupTask("failed")
		return err
	}

	if err := w.repo.DeleteCommentsOnVideo(ctx, task.VideoID); err != nil {
		logger.ErrorWithErr("Failed to delete video comments", err)
		metrics.RecordCleanupTask("failed")
		return err
	}

	if err := w.repo.RemoveVideoFromAllPlaylists(ctx, task.VideoID); err != nil {
		logger.ErrorWithErr("Failed to remove video from playlists", err)
		metrics.RecordCleanupTask("failed")
		return err
	}

	if err := w.repo.RemoveVideoFromWatchHistories(ctx, task.VideoID); err != nil {
		logger.ErrorWithErr("Failed to prune watch history", err)
		metrics.RecordCleanupTask("failed")
		return err
	}

	logger.Info("Cleanup task completed")
	metrics.RecordCleanupTask("completed")
	return nil
}
