package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"pawtraits/internal/core/application/usecases/commands"
)

// DownloadExpiryJob manages the scheduled expiry of digital download grants.
// Runs every minute to mark orders whose download window has closed.
type DownloadExpiryJob struct {
	handler commands.ExpireDownloadsCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewDownloadExpiryJob creates a new job for expiring downloads.
// Uses ExpireDownloadsCommandHandler to process the sweep every minute.
func NewDownloadExpiryJob(handler commands.ExpireDownloadsCommandHandler, logger *slog.Logger) *DownloadExpiryJob {
	return &DownloadExpiryJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "download_expiry_job"),
	}
}

// Start begins the download expiry job to run every minute.
func (j *DownloadExpiryJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		ctx := context.Background()

		cmd, cmdErr := commands.NewExpireDownloadsCommand(time.Now().UTC())
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Download expiry command construction failed", "error", cmdErr)
			return
		}

		expired, handleErr := j.handler.Handle(ctx, cmd)
		if handleErr != nil {
			j.logger.ErrorContext(ctx, "Download expiry job failed", "error", handleErr)
			return
		}

		if expired > 0 {
			j.logger.InfoContext(ctx, "Expired lapsed downloads", "orders", expired)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Download expiry job started (running every minute)")
	return nil
}

// Stop stops the download expiry job.
func (j *DownloadExpiryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Download expiry job stopped")
}
