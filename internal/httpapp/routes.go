package httpapp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/rmartinelli/ytgrab/internal/constants"
	"github.com/rmartinelli/ytgrab/internal/domain"
	"github.com/rmartinelli/ytgrab/internal/format"
)

type urlRequest struct {
	URL string `json:"url"`
}

// filenameParam extracts the filename route parameter. chi matches on the
// escaped path, so the value may still be percent-encoded.
func filenameParam(r *http.Request) string {
	raw := chi.URLParam(r, "filename")
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

func (h *Handler) StartDownload(w http.ResponseWriter, r *http.Request) {
	var req urlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusOK, "invalid request body")
		return
	}

	id, err := h.Runner.Submit(req.URL)
	if err != nil {
		var dup *domain.DuplicateError
		if errors.As(err, &dup) {
			h.respondJSON(w, http.StatusOK, map[string]any{
				"success":       false,
				"error":         dup.Error(),
				"existing_file": dup.ExistingFile,
			})
			return
		}
		h.respondError(w, http.StatusOK, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"download_id": id,
		"message":     "Download started",
	})
}

func (h *Handler) Progress(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	job := h.Registry.Get(id)
	h.respondJSON(w, http.StatusOK, job)
}

func (h *Handler) ListDownloads(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"downloads": h.Library.List(),
	})
}

func (h *Handler) VideoInfo(w http.ResponseWriter, r *http.Request) {
	var req urlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusOK, "invalid request body")
		return
	}
	if req.URL == "" {
		h.respondError(w, http.StatusOK, domain.ErrNoURL.Error())
		return
	}

	if existing, ok := h.Library.FindBySourceURL(req.URL); ok {
		h.respondJSON(w, http.StatusOK, map[string]any{
			"success":            true,
			"already_downloaded": true,
			"existing_file":      existing.Filename,
			"title":              existing.Name,
			"duration":           existing.DurationFormatted,
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), constants.InfoTimeout)
	defer cancel()

	info, err := h.Info.Info(ctx, req.URL)
	if err != nil {
		h.Log.Warn("Failed to fetch video info", "url", req.URL, "error", err)
		h.respondError(w, http.StatusOK, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"title":      info.Title,
		"duration":   format.Duration(info.Duration),
		"thumbnail":  info.Thumbnail,
		"uploader":   info.Uploader,
		"view_count": info.ViewCount,
	})
}

func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	filename := filenameParam(r)
	path, err := h.Library.FilePath(filename)
	if err != nil {
		h.respondError(w, http.StatusNotFound, "File not found")
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+filepath.Base(path)+`"`)
	w.Header().Set("Content-Type", constants.MimeTypeMP3)
	http.ServeFile(w, r, path)
}

func (h *Handler) PlayAudio(w http.ResponseWriter, r *http.Request) {
	filename := filenameParam(r)
	path, err := h.Library.FilePath(filename)
	if err != nil {
		h.respondError(w, http.StatusNotFound, "File not found")
		return
	}

	w.Header().Set("Content-Type", constants.MimeTypeMP3)
	http.ServeFile(w, r, path)
}

func (h *Handler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	filename := filenameParam(r)
	if err := h.Library.Delete(filename); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "File not found")
			return
		}
		h.Log.Error("Failed to delete file", "filename", filename, "error", err)
		h.respondError(w, http.StatusOK, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "File deleted successfully",
	})
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"stats":   h.Library.Stats(),
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"active_jobs": h.Registry.ActiveCount(),
	})
}
