// Package library is the read model over the storage directory: it joins
// on-disk MP3 files with history metadata, backs the dedup check, and owns
// file deletion. The disk is the source of truth for existence; history is
// supplementary and may lag behind it.
package library

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rmartinelli/ytgrab/internal/constants"
	"github.com/rmartinelli/ytgrab/internal/domain"
	"github.com/rmartinelli/ytgrab/internal/format"
	"github.com/rmartinelli/ytgrab/internal/history"
	"github.com/rmartinelli/ytgrab/internal/logger"
)

type Library struct {
	dir     string
	history *history.Store
	log     *logger.Logger
}

func New(dir string, hist *history.Store, log *logger.Logger) *Library {
	if log == nil {
		log = logger.Default()
	}
	return &Library{
		dir:     dir,
		history: hist,
		log:     log.WithComponent("library"),
	}
}

// List enumerates the MP3 files in the storage directory, newest first. Each
// record carries file stats plus history-derived fields, defaulted when no
// history entry matches. List has no side effects and is safe to call often.
func (l *Library) List() []domain.DownloadInfo {
	downloads := []domain.DownloadInfo{}

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			l.log.Warn("Failed to read downloads directory", "dir", l.dir, "error", err)
		}
		return downloads
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != constants.ExtMP3 {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			l.log.Warn("Failed to stat download", "filename", entry.Name(), "error", err)
			continue
		}
		downloads = append(downloads, l.buildInfo(entry.Name(), info.Size(), info.ModTime()))
	}

	sort.Slice(downloads, func(i, j int) bool {
		return downloads[i].Modified > downloads[j].Modified
	})
	return downloads
}

func (l *Library) buildInfo(filename string, size int64, modified time.Time) domain.DownloadInfo {
	info := domain.DownloadInfo{
		Filename:          filename,
		Name:              filename[:len(filename)-len(constants.ExtMP3)],
		Size:              size,
		SizeFormatted:     format.FileSize(size),
		Modified:          modified.Unix(),
		ModifiedFormatted: modified.Format("2006-01-02 15:04:05"),
		URL:               "/download-file/" + filename,
		PlayURL:           "/play-audio/" + filename,
		DurationFormatted: "Unknown",
	}

	if entry, ok := l.history.FindByFilename(filename); ok {
		info.SourceURL = entry.URL
		info.Duration = entry.Duration
		info.DurationFormatted = format.Duration(entry.Duration)
	}
	return info
}

// FindBySourceURL scans the current listing for a download whose source URL
// matches. This is the dedup check: a point-in-time read with no locking
// across the subsequent job start.
func (l *Library) FindBySourceURL(url string) (domain.DownloadInfo, bool) {
	for _, d := range l.List() {
		if d.SourceURL == url {
			return d, true
		}
	}
	return domain.DownloadInfo{}, false
}

// FilePath resolves a client-supplied filename to a path inside the storage
// directory. The name is reduced to its base to block path traversal.
func (l *Library) FilePath(filename string) (string, error) {
	base := filepath.Base(filename)
	path := filepath.Join(l.dir, base)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return path, nil
}

// Delete removes the file and drops its history entry. A filename absent
// from disk reports ErrNotFound and leaves history untouched. File removal
// and the history rewrite are not transactionally coupled.
func (l *Library) Delete(filename string) error {
	base := filepath.Base(filename)
	path := filepath.Join(l.dir, base)

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return domain.ErrNotFound
		}
		return err
	}

	l.history.Remove(base)
	l.log.Info("File deleted", "filename", base)
	return nil
}

// Stats aggregates the current listing with the history entry count.
func (l *Library) Stats() domain.Stats {
	downloads := l.List()

	var totalSize int64
	for _, d := range downloads {
		totalSize += d.Size
	}
	return domain.Stats{
		TotalDownloads:     len(downloads),
		TotalSize:          totalSize,
		TotalSizeFormatted: format.FileSize(totalSize),
		HistoryEntries:     l.history.Len(),
	}
}
