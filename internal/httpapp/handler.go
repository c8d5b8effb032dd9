// Package httpapp exposes the download service over HTTP: submission,
// progress polling, library listing, file streaming, deletion and stats.
package httpapp

import (
	"context"

	"github.com/go-chi/chi/v5"

	"github.com/rmartinelli/ytgrab/internal/domain"
	"github.com/rmartinelli/ytgrab/internal/library"
	"github.com/rmartinelli/ytgrab/internal/logger"
	"github.com/rmartinelli/ytgrab/internal/registry"
)

// Submitter starts download jobs; implemented by the runner.
type Submitter interface {
	Submit(url string) (string, error)
}

// InfoFetcher retrieves video metadata without downloading.
type InfoFetcher interface {
	Info(ctx context.Context, url string) (*domain.VideoInfo, error)
}

type Handler struct {
	Runner   Submitter
	Info     InfoFetcher
	Registry *registry.Registry
	Library  *library.Library
	Log      *logger.Logger
}

func NewHandler(runner Submitter, info InfoFetcher, reg *registry.Registry, lib *library.Library, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Default()
	}
	return &Handler{
		Runner:   runner,
		Info:     info,
		Registry: reg,
		Library:  lib,
		Log:      log.WithComponent("http"),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/download", h.StartDownload)
	r.Get("/progress/{id}", h.Progress)
	r.Get("/downloads", h.ListDownloads)
	r.Post("/info", h.VideoInfo)
	r.Get("/download-file/{filename}", h.DownloadFile)
	r.Get("/play-audio/{filename}", h.PlayAudio)
	r.Delete("/delete/{filename}", h.DeleteFile)
	r.Get("/stats", h.Stats)
	r.Get("/health", h.Health)
}
