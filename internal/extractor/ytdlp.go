// Package extractor shells out to yt-dlp (with ffmpeg for the MP3
// conversion) as the extraction collaborator. The tool is a black box: given
// a URL it either produces an MP3 in the downloads directory or fails.
package extractor

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/rmartinelli/ytgrab/internal/config"
	"github.com/rmartinelli/ytgrab/internal/constants"
	"github.com/rmartinelli/ytgrab/internal/domain"
	"github.com/rmartinelli/ytgrab/internal/logger"
	"github.com/rmartinelli/ytgrab/internal/storage"
)

type YtDlp struct {
	binPath        string
	ffmpegLocation string
	downloadsDir   string
	log            *logger.Logger
}

func New(cfg *config.Config, log *logger.Logger) *YtDlp {
	if log == nil {
		log = logger.Default()
	}
	return &YtDlp{
		binPath:        resolveBinary(cfg.YtDlpPath),
		ffmpegLocation: cfg.FFmpegLocation,
		downloadsDir:   cfg.DownloadsDir,
		log:            log.WithComponent("extractor"),
	}
}

// resolveBinary prefers a binary dropped next to the server over one on PATH
// when nothing more specific is configured.
func resolveBinary(configured string) string {
	if configured != "" && configured != constants.DefaultYtDlpPath {
		return configured
	}
	if _, err := os.Stat("./yt-dlp"); err == nil {
		return "./yt-dlp"
	}
	return constants.DefaultYtDlpPath
}

type rawInfo struct {
	Title     string  `json:"title"`
	Duration  float64 `json:"duration"`
	Thumbnail string  `json:"thumbnail"`
	Uploader  string  `json:"uploader"`
	ViewCount int64   `json:"view_count"`
}

// Info fetches video metadata without downloading.
func (y *YtDlp) Info(ctx context.Context, url string) (*domain.VideoInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.InfoTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, y.binPath, "-J", "--no-warnings", "--skip-download", url)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, &domain.ExtractionError{Stage: "info", Err: commandError(err, stderr.String())}
	}

	var raw rawInfo
	if err := json.Unmarshal(stdout.Bytes(), &raw); err != nil {
		return nil, &domain.ExtractionError{Stage: "info", Err: fmt.Errorf("metadata parse error: %w", err)}
	}

	info := &domain.VideoInfo{
		Title:     raw.Title,
		Duration:  int(raw.Duration),
		Thumbnail: raw.Thumbnail,
		Uploader:  raw.Uploader,
		ViewCount: raw.ViewCount,
	}
	if info.Title == "" {
		info.Title = "Unknown"
	}
	if info.Uploader == "" {
		info.Uploader = "Unknown"
	}
	return info, nil
}

// Download fetches the best audio stream and converts it to MP3, relaying
// percentage lines from the tool's stdout into the progress callback. The
// callback may fire zero or more times; the 100% signal arrives when the raw
// download finishes, before the conversion stage.
func (y *YtDlp) Download(ctx context.Context, url string, progress func(float64)) (*domain.DownloadResult, error) {
	info, err := y.Info(ctx, url)
	if err != nil {
		return nil, err
	}
	expected := storage.Sanitize(info.Title + constants.ExtMP3)

	args := []string{
		"-f", "bestaudio/best",
		"-x", "--audio-format", "mp3",
		"--audio-quality", constants.AudioQuality,
		"-o", filepath.Join(y.downloadsDir, "%(title)s.%(ext)s"),
		"--newline",
		"--no-warnings",
		"--no-playlist",
	}
	if y.ffmpegLocation != "" {
		args = append(args, "--ffmpeg-location", y.ffmpegLocation)
	}
	args = append(args, url)

	cmd := exec.CommandContext(ctx, y.binPath, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &domain.ExtractionError{Stage: "download", Err: err}
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	y.log.Info("Starting extraction", "url", url, "expected", expected)
	if err := cmd.Start(); err != nil {
		return nil, &domain.ExtractionError{Stage: "download", Err: err}
	}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		relayProgress(scanner.Text(), progress)
	}

	if err := cmd.Wait(); err != nil {
		return nil, &domain.ExtractionError{Stage: "download", Err: commandError(err, stderr.String())}
	}

	filename, err := y.resolveOutput(expected)
	if err != nil {
		return nil, err
	}

	return &domain.DownloadResult{
		Filename: filename,
		Title:    info.Title,
		Uploader: info.Uploader,
		Duration: info.Duration,
	}, nil
}

var percentRe = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)%`)

// relayProgress parses one stdout line. Unparseable percentages are dropped,
// leaving the last known progress unchanged. The conversion stage marker
// pins progress to 100.
func relayProgress(line string, progress func(float64)) {
	if progress == nil {
		return
	}
	switch {
	case strings.HasPrefix(line, "[ExtractAudio]"):
		progress(100)
	case strings.HasPrefix(line, "[download]"):
		m := percentRe.FindStringSubmatch(line)
		if m == nil {
			return
		}
		pct, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return
		}
		progress(pct)
	}
}

// resolveOutput confirms the expected MP3 exists; yt-dlp applies its own
// filename sanitization, so fall back to the newest MP3 in the directory
// when the prediction missed.
func (y *YtDlp) resolveOutput(expected string) (string, error) {
	if _, err := os.Stat(filepath.Join(y.downloadsDir, expected)); err == nil {
		return expected, nil
	}

	entries, err := os.ReadDir(y.downloadsDir)
	if err != nil {
		return "", &domain.ExtractionError{Stage: "download", Err: err}
	}

	var newest string
	var newestMod int64
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != constants.ExtMP3 {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().UnixNano() > newestMod {
			newest = entry.Name()
			newestMod = info.ModTime().UnixNano()
		}
	}
	if newest == "" {
		return "", &domain.ExtractionError{Stage: "download", Err: errors.New("no MP3 files were created")}
	}

	y.log.Info("Expected output missing, using newest MP3", "expected", expected, "actual", newest)
	return newest, nil
}

// commandError folds the tool's stderr into the exec error, keeping only the
// last line, which is where yt-dlp puts the actual reason.
func commandError(err error, stderr string) error {
	msg := strings.TrimSpace(stderr)
	if msg == "" {
		return err
	}
	lines := strings.Split(msg, "\n")
	return fmt.Errorf("%w: %s", err, strings.TrimSpace(lines[len(lines)-1]))
}
