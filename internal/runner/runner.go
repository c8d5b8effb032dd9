// Package runner executes download jobs off the request path: it owns the
// submission dedup check, assigns job ids, relays progress into the
// registry, and reconciles completed jobs into the history store.
package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rmartinelli/ytgrab/internal/config"
	"github.com/rmartinelli/ytgrab/internal/constants"
	"github.com/rmartinelli/ytgrab/internal/domain"
	"github.com/rmartinelli/ytgrab/internal/history"
	"github.com/rmartinelli/ytgrab/internal/library"
	"github.com/rmartinelli/ytgrab/internal/logger"
	"github.com/rmartinelli/ytgrab/internal/registry"
	"github.com/rmartinelli/ytgrab/internal/tagging"
)

// Extractor is the external collaborator that fetches a URL and converts it
// to an MP3 in the downloads directory, or fails.
type Extractor interface {
	Info(ctx context.Context, url string) (*domain.VideoInfo, error)
	Download(ctx context.Context, url string, progress func(float64)) (*domain.DownloadResult, error)
}

type Runner struct {
	registry *registry.Registry
	history  *history.Store
	library  *library.Library
	ext      Extractor
	cfg      *config.Config
	log      *logger.Logger
	bucket   *tokenBucket
	sem      chan struct{}
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
}

func New(reg *registry.Registry, hist *history.Store, lib *library.Library, ext Extractor, cfg *config.Config, log *logger.Logger) *Runner {
	if log == nil {
		log = logger.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Runner{
		registry: reg,
		history:  hist,
		library:  lib,
		ext:      ext,
		cfg:      cfg,
		log:      log.WithComponent("runner"),
		bucket:   newTokenBucket(cfg.RatePerMinute),
		sem:      make(chan struct{}, cfg.MaxConcurrent),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Submit starts a job for the URL and returns its id without waiting for
// completion. A URL that already produced a download is rejected with a
// DuplicateError; the check is point-in-time, so two concurrent submissions
// of the same URL can both pass it.
func (r *Runner) Submit(url string) (string, error) {
	if url == "" {
		return "", domain.ErrNoURL
	}

	if existing, ok := r.library.FindBySourceURL(url); ok {
		r.log.Info("Rejecting duplicate submission", "url", url, "existing_file", existing.Filename)
		return "", &domain.DuplicateError{ExistingFile: existing.Filename}
	}

	if !r.bucket.take() {
		r.log.Warn("Submission rejected by rate limit", "url", url)
		return "", domain.ErrTooManyRequests
	}

	id := uuid.New().String()
	r.registry.Create(id, url)

	r.wg.Add(1)
	go r.run(id, url)

	r.log.Info("Job started", "job_id", id, "url", url)
	return id, nil
}

func (r *Runner) run(id, url string) {
	defer r.wg.Done()
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("Panic in job", "job_id", id, "panic", rec)
			r.registry.Fail(id, fmt.Sprintf("internal error: %v", rec))
		}
	}()

	log := r.log.WithJob(id, url)

	// Bounded worker pool: jobs beyond the limit queue here until a slot
	// frees up or the runner shuts down.
	select {
	case r.sem <- struct{}{}:
	case <-r.ctx.Done():
		r.registry.Fail(id, "server shutting down")
		return
	}
	defer func() { <-r.sem }()

	ctx, cancel := context.WithTimeout(r.ctx, constants.DownloadTimeout)
	defer cancel()

	result, err := r.ext.Download(ctx, url, func(p float64) {
		r.registry.SetProgress(id, p)
	})
	if err != nil {
		log.Error("Download failed", "error", err)
		r.registry.Fail(id, err.Error())
		return
	}

	path := filepath.Join(r.cfg.DownloadsDir, result.Filename)
	if err := tagging.TagFile(path, result.Title, result.Uploader, url); err != nil {
		log.Warn("Failed to tag file", "filename", result.Filename, "error", err)
	}

	r.history.Append(domain.HistoryEntry{
		Filename:  result.Filename,
		Title:     result.Title,
		URL:       url,
		Timestamp: time.Now().Unix(),
		Duration:  result.Duration,
		FileSize:  fileSize(path),
	})
	r.registry.Complete(id, result.Filename, result.Title, result.Duration)

	log.Info("Download completed", "filename", result.Filename)
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// Stop cancels the runner context and waits for in-flight jobs to wind down.
func (r *Runner) Stop() {
	r.log.Info("Stopping runner")
	r.cancel()
	r.wg.Wait()
}
