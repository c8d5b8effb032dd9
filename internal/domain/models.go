package domain

// JobStatus is the lifecycle state of a download job.
type JobStatus string

const (
	JobStatusDownloading JobStatus = "downloading"
	JobStatusCompleted   JobStatus = "completed"
	JobStatusError       JobStatus = "error"
	// JobStatusUnknown is never stored; it is returned when a job id is not
	// present in the registry.
	JobStatusUnknown JobStatus = "unknown"
)

// Terminal reports whether a job in this status can no longer change.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusError
}

// Job tracks one in-flight or finished request to fetch a source URL and
// convert it to a stored MP3. The wire shape matches the progress endpoint.
type Job struct {
	ID       string    `json:"-"`
	URL      string    `json:"-"`
	Status   JobStatus `json:"status"`
	Progress float64   `json:"progress"`
	Filename string    `json:"filename,omitempty"`
	Title    string    `json:"title,omitempty"`
	Duration int       `json:"duration,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// HistoryEntry is the durable record of one completed download, keyed by
// output filename. URL is the dedup key for resubmission checks.
type HistoryEntry struct {
	Filename  string `json:"filename"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Timestamp int64  `json:"timestamp"`
	Duration  int    `json:"duration"`
	FileSize  int64  `json:"file_size"`
}

// DownloadInfo is the listing read model: on-disk file stats joined with the
// matching history entry. Recomputed on every listing call, never stored.
type DownloadInfo struct {
	Filename          string `json:"filename"`
	Name              string `json:"name"`
	Size              int64  `json:"size"`
	SizeFormatted     string `json:"size_formatted"`
	Modified          int64  `json:"modified"`
	ModifiedFormatted string `json:"modified_formatted"`
	URL               string `json:"url"`
	PlayURL           string `json:"play_url"`
	SourceURL         string `json:"source_url"`
	Duration          int    `json:"duration"`
	DurationFormatted string `json:"duration_formatted"`
}

// VideoInfo is metadata fetched without downloading.
type VideoInfo struct {
	Title     string `json:"title"`
	Duration  int    `json:"duration"`
	Thumbnail string `json:"thumbnail"`
	Uploader  string `json:"uploader"`
	ViewCount int64  `json:"view_count"`
}

// DownloadResult is what the extraction collaborator reports on success.
type DownloadResult struct {
	Filename string
	Title    string
	Uploader string
	Duration int
}

// Stats aggregates the download library.
type Stats struct {
	TotalDownloads     int    `json:"total_downloads"`
	TotalSize          int64  `json:"total_size"`
	TotalSizeFormatted string `json:"total_size_formatted"`
	HistoryEntries     int    `json:"history_entries"`
}
