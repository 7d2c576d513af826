package database

import (
	"fmt"
	"time"
)

// SharedFile represents one uploaded file and its sharing constraints.
// Optional columns (password hash, expiry, description) are nil when unset.
type SharedFile struct {
	ID               int64
	OriginalFileName string
	StoredFileName   string
	ShareToken       string
	PasswordHash     *string // nil when no password set
	FileSize         int64
	ContentType      string
	UploadTime       time.Time
	ExpiryTime       *time.Time // nil means never expires
	MaxDownloads     int        // 0 means unlimited
	CurrentDownloads int
	UploaderIP       string
	Description      *string
	Active           bool
}

// IsExpired reports whether the share's expiry time has passed.
// Shares without an expiry never expire.
func (f *SharedFile) IsExpired(now time.Time) bool {
	return f.ExpiryTime != nil && now.After(*f.ExpiryTime)
}

// IsDownloadLimitReached reports whether the download cap has been hit.
// A cap of zero means unlimited.
func (f *SharedFile) IsDownloadLimitReached() bool {
	return f.MaxDownloads > 0 && f.CurrentDownloads >= f.MaxDownloads
}

// IsAccessible is the single predicate deciding whether a share can still
// be served: active, unexpired, and under its download cap.
func (f *SharedFile) IsAccessible(now time.Time) bool {
	return f.Active && !f.IsExpired(now) && !f.IsDownloadLimitReached()
}

// FormattedSize renders the file size for display: bytes below 1 KiB,
// otherwise one decimal place in the largest binary unit up to GB.
func (f *SharedFile) FormattedSize() string {
	return FormatFileSize(f.FileSize)
}

// FormatFileSize formats a byte count using 1024-based thresholds.
func FormatFileSize(size int64) string {
	switch {
	case size < 1024:
		return fmt.Sprintf("%d B", size)
	case size < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(size)/1024.0)
	case size < 1024*1024*1024:
		return fmt.Sprintf("%.1f MB", float64(size)/(1024.0*1024.0))
	default:
		return fmt.Sprintf("%.1f GB", float64(size)/(1024.0*1024.0*1024.0))
	}
}
