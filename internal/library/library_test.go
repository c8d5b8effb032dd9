package library

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rmartinelli/ytgrab/internal/domain"
	"github.com/rmartinelli/ytgrab/internal/history"
	"github.com/rmartinelli/ytgrab/internal/logger"
)

func setupLibrary(t *testing.T) (*Library, *history.Store, string) {
	t.Helper()
	dir := t.TempDir()
	hist := history.NewStore(filepath.Join(dir, "history.json"), logger.Default())
	hist.Load()
	return New(dir, hist, logger.Default()), hist, dir
}

func writeMP3(t *testing.T, dir, name string, size int) {
	t.Helper()
	data := make([]byte, size)
	if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}

func TestLibrary_ListEmptyDir(t *testing.T) {
	lib, _, _ := setupLibrary(t)

	downloads := lib.List()
	if len(downloads) != 0 {
		t.Errorf("expected empty listing, got %d records", len(downloads))
	}
}

func TestLibrary_ListMissingDir(t *testing.T) {
	hist := history.NewStore(filepath.Join(t.TempDir(), "history.json"), logger.Default())
	hist.Load()
	lib := New(filepath.Join(t.TempDir(), "does-not-exist"), hist, logger.Default())

	if got := lib.List(); len(got) != 0 {
		t.Errorf("expected empty listing for missing dir, got %d records", len(got))
	}
}

func TestLibrary_ListJoinsHistory(t *testing.T) {
	lib, hist, dir := setupLibrary(t)
	writeMP3(t, dir, "known.mp3", 1536)
	writeMP3(t, dir, "orphan.mp3", 100)
	writeMP3(t, dir, "ignored.txt", 10)

	hist.Append(domain.HistoryEntry{
		Filename: "known.mp3",
		Title:    "Known",
		URL:      "https://example.com/watch?v=known",
		Duration: 125,
	})

	downloads := lib.List()
	if len(downloads) != 2 {
		t.Fatalf("expected 2 mp3 records, got %d", len(downloads))
	}

	byName := map[string]domain.DownloadInfo{}
	for _, d := range downloads {
		byName[d.Filename] = d
	}

	known := byName["known.mp3"]
	if known.SourceURL != "https://example.com/watch?v=known" {
		t.Errorf("expected source url from history, got %q", known.SourceURL)
	}
	if known.Duration != 125 || known.DurationFormatted != "02:05" {
		t.Errorf("expected joined duration, got %d / %q", known.Duration, known.DurationFormatted)
	}
	if known.SizeFormatted != "1.50 KB" {
		t.Errorf("expected formatted size 1.50 KB, got %q", known.SizeFormatted)
	}
	if known.Name != "known" {
		t.Errorf("expected name without extension, got %q", known.Name)
	}
	if known.URL != "/download-file/known.mp3" || known.PlayURL != "/play-audio/known.mp3" {
		t.Errorf("unexpected templated urls: %q %q", known.URL, known.PlayURL)
	}

	orphan := byName["orphan.mp3"]
	if orphan.SourceURL != "" {
		t.Errorf("expected empty source url for orphan, got %q", orphan.SourceURL)
	}
	if orphan.DurationFormatted != "Unknown" {
		t.Errorf("expected duration Unknown for orphan, got %q", orphan.DurationFormatted)
	}
}

func TestLibrary_ListSortsNewestFirst(t *testing.T) {
	lib, _, dir := setupLibrary(t)
	writeMP3(t, dir, "old.mp3", 10)
	writeMP3(t, dir, "new.mp3", 10)

	past := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(filepath.Join(dir, "old.mp3"), past, past); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}

	downloads := lib.List()
	if len(downloads) != 2 {
		t.Fatalf("expected 2 records, got %d", len(downloads))
	}
	if downloads[0].Filename != "new.mp3" {
		t.Errorf("expected new.mp3 first, got %s", downloads[0].Filename)
	}
}

func TestLibrary_FindBySourceURL(t *testing.T) {
	lib, hist, dir := setupLibrary(t)
	writeMP3(t, dir, "song.mp3", 10)
	hist.Append(domain.HistoryEntry{Filename: "song.mp3", URL: "https://example.com/a"})

	if d, ok := lib.FindBySourceURL("https://example.com/a"); !ok || d.Filename != "song.mp3" {
		t.Errorf("expected match for known url, got %v %v", d, ok)
	}
	if _, ok := lib.FindBySourceURL("https://example.com/other"); ok {
		t.Error("expected no match for unknown url")
	}
}

func TestLibrary_FindBySourceURLIgnoresStaleHistory(t *testing.T) {
	lib, hist, _ := setupLibrary(t)
	// History entry with no backing file: the disk is the source of truth.
	hist.Append(domain.HistoryEntry{Filename: "gone.mp3", URL: "https://example.com/gone"})

	if _, ok := lib.FindBySourceURL("https://example.com/gone"); ok {
		t.Error("expected no dedup match when the file is gone from disk")
	}
}

func TestLibrary_Delete(t *testing.T) {
	lib, hist, dir := setupLibrary(t)
	writeMP3(t, dir, "song.mp3", 10)
	hist.Append(domain.HistoryEntry{Filename: "song.mp3", URL: "https://example.com/a"})

	if err := lib.Delete("song.mp3"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "song.mp3")); !os.IsNotExist(err) {
		t.Error("expected file removed from disk")
	}
	if _, ok := hist.FindByFilename("song.mp3"); ok {
		t.Error("expected history entry removed")
	}
	if len(lib.List()) != 0 {
		t.Error("expected empty listing after delete")
	}
}

func TestLibrary_DeleteMissing(t *testing.T) {
	lib, hist, _ := setupLibrary(t)
	hist.Append(domain.HistoryEntry{Filename: "phantom.mp3", URL: "https://example.com/p"})

	err := lib.Delete("phantom.mp3")
	if err != domain.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	// History is not mutated when the file is absent.
	if _, ok := hist.FindByFilename("phantom.mp3"); !ok {
		t.Error("expected history entry untouched for missing file")
	}
}

func TestLibrary_DeleteSanitizesPath(t *testing.T) {
	lib, _, dir := setupLibrary(t)
	writeMP3(t, dir, "song.mp3", 10)

	if err := lib.Delete("../../song.mp3"); err != nil {
		t.Fatalf("Delete with traversal prefix failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "song.mp3")); !os.IsNotExist(err) {
		t.Error("expected base-named file removed")
	}
}

func TestLibrary_FilePath(t *testing.T) {
	lib, _, dir := setupLibrary(t)
	writeMP3(t, dir, "song.mp3", 10)

	path, err := lib.FilePath("nested/dir/song.mp3")
	if err != nil {
		t.Fatalf("FilePath failed: %v", err)
	}
	if path != filepath.Join(dir, "song.mp3") {
		t.Errorf("unexpected path %q", path)
	}

	if _, err := lib.FilePath("missing.mp3"); err != domain.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLibrary_Stats(t *testing.T) {
	lib, hist, dir := setupLibrary(t)
	writeMP3(t, dir, "a.mp3", 1024)
	writeMP3(t, dir, "b.mp3", 512)
	hist.Append(domain.HistoryEntry{Filename: "a.mp3", URL: "https://example.com/a"})

	stats := lib.Stats()
	if stats.TotalDownloads != 2 {
		t.Errorf("expected 2 downloads, got %d", stats.TotalDownloads)
	}
	if stats.TotalSize != 1536 {
		t.Errorf("expected total size 1536, got %d", stats.TotalSize)
	}
	if stats.TotalSizeFormatted != "1.50 KB" {
		t.Errorf("expected 1.50 KB, got %q", stats.TotalSizeFormatted)
	}
	if stats.HistoryEntries != 1 {
		t.Errorf("expected 1 history entry, got %d", stats.HistoryEntries)
	}
}
