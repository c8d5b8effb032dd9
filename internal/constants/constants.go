// Package constants contains application-wide constants to avoid magic numbers and strings.
package constants

import "time"

// Application defaults
const (
	DefaultPort          = "8080"
	DefaultDownloadsDir  = "downloads"
	DefaultHistoryPath   = "download_history.json"
	DefaultYtDlpPath     = "yt-dlp"
	DefaultConcurrency   = 3
	DefaultRatePerMinute = 10
)

// Timeouts for calls into the external extraction tool
const (
	InfoTimeout     = 45 * time.Second
	DownloadTimeout = 30 * time.Minute
)

// Audio output
const (
	ExtMP3       = ".mp3"
	MimeTypeMP3  = "audio/mpeg"
	AudioQuality = "192K"
)

// File Permissions
const (
	DirPermissions  = 0755
	FilePermissions = 0644
)

// Filenames longer than this are truncated before the extension.
const MaxFilenameLength = 100

// Characters to sanitize from filesystem paths
const InvalidPathChars = "<>:\"/\\|?*"
