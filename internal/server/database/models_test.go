package database

import (
	"testing"
	"time"
)

func TestFormatFileSize(t *testing.T) {
	cases := []struct {
		size int64
		want string
	}{
		{0, "0 B"},
		{10, "10 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1024 * 1024, "1.0 MB"},
		{10 * 1024 * 1024, "10.0 MB"},
		{1024 * 1024 * 1024, "1.0 GB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}
	for _, tc := range cases {
		if got := FormatFileSize(tc.size); got != tc.want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", tc.size, got, tc.want)
		}
	}
}

func TestSharedFilePredicates(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	t.Run("no expiry never expires", func(t *testing.T) {
		f := &SharedFile{Active: true}
		if f.IsExpired(now) {
			t.Error("share without expiry should not expire")
		}
	})

	t.Run("past expiry expires", func(t *testing.T) {
		f := &SharedFile{Active: true, ExpiryTime: &past}
		if !f.IsExpired(now) {
			t.Error("share with past expiry should be expired")
		}
		if f.IsAccessible(now) {
			t.Error("expired share should not be accessible")
		}
	})

	t.Run("zero max downloads is unlimited", func(t *testing.T) {
		f := &SharedFile{Active: true, CurrentDownloads: 1_000_000}
		if f.IsDownloadLimitReached() {
			t.Error("cap of zero should mean unlimited")
		}
	})

	t.Run("limit reached at cap", func(t *testing.T) {
		f := &SharedFile{Active: true, MaxDownloads: 2, CurrentDownloads: 2}
		if !f.IsDownloadLimitReached() {
			t.Error("counter at cap should hit the limit")
		}
		if f.IsAccessible(now) {
			t.Error("capped share should not be accessible")
		}
	})

	t.Run("under cap is accessible", func(t *testing.T) {
		f := &SharedFile{Active: true, MaxDownloads: 2, CurrentDownloads: 1, ExpiryTime: &future}
		if !f.IsAccessible(now) {
			t.Error("active, unexpired, under-cap share should be accessible")
		}
	})

	t.Run("inactive share is never accessible", func(t *testing.T) {
		f := &SharedFile{Active: false, ExpiryTime: &future}
		if f.IsAccessible(now) {
			t.Error("inactive share should not be accessible")
		}
	})
}
