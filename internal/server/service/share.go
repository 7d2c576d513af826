package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"droplink/internal/server/config"
	"droplink/internal/server/database"
	"droplink/internal/server/storage"
)

// Sentinel errors for the share service. The error text is the exact
// message clients see in the JSON result envelope.
var (
	ErrFileEmpty        = errors.New("File is empty")
	ErrFileTooLarge     = errors.New("File size exceeds 100MB limit")
	ErrNotFound         = errors.New("File not found")
	ErrExpired          = errors.New("File has expired")
	ErrLimitReached     = errors.New("Download limit reached")
	ErrUnavailable      = errors.New("File is no longer available")
	ErrPasswordRequired = errors.New("Password required")
	ErrInvalidPassword  = errors.New("Invalid password")
	ErrFileMissing      = errors.New("File not found on disk")
)

// shareTokenLength is the fixed length of public share tokens.
const shareTokenLength = 32

// ShareRepository is the persistence surface the service needs.
// *database.Repository satisfies it; tests substitute an in-memory double.
type ShareRepository interface {
	Create(ctx context.Context, file *database.SharedFile) error
	GetByShareToken(ctx context.Context, token string) (*database.SharedFile, error)
	ListByUploaderIP(ctx context.Context, uploaderIP string) ([]*database.SharedFile, error)
	CountByUploaderIP(ctx context.Context, uploaderIP string) (int64, error)
	IncrementDownloadCount(ctx context.Context, id int64) error
}

// UploadRequest carries one inbound upload through validation and storage.
type UploadRequest struct {
	FileName     string
	Size         int64
	Content      io.Reader
	ContentType  string
	Password     string
	MaxDownloads int
	ExpiryHours  int
	Description  string
	UploaderIP   string
}

// UploadResult is returned after a successful upload.
type UploadResult struct {
	ShareToken   string  `json:"shareToken"`
	ShareURL     string  `json:"shareUrl"`
	FileName     string  `json:"fileName"`
	FileSize     string  `json:"fileSize"`
	UploadTime   string  `json:"uploadTime"`
	HasPassword  bool    `json:"hasPassword"`
	MaxDownloads int     `json:"maxDownloads"`
	ExpiryTime   *string `json:"expiryTime"`
}

// FileInfo is the display metadata for a single share.
type FileInfo struct {
	FileName         string  `json:"fileName"`
	FileSize         string  `json:"fileSize"`
	ContentType      string  `json:"contentType"`
	UploadTime       string  `json:"uploadTime"`
	HasPassword      bool    `json:"hasPassword"`
	Description      *string `json:"description"`
	CurrentDownloads int     `json:"currentDownloads"`
	MaxDownloads     int     `json:"maxDownloads"`
	ExpiryTime       *string `json:"expiryTime"`
}

// UserFile is one entry in an uploader's file listing.
type UserFile struct {
	ShareToken       string  `json:"shareToken"`
	FileName         string  `json:"fileName"`
	FileSize         string  `json:"fileSize"`
	UploadTime       string  `json:"uploadTime"`
	CurrentDownloads int     `json:"currentDownloads"`
	MaxDownloads     int     `json:"maxDownloads"`
	ExpiryTime       *string `json:"expiryTime"`
	IsExpired        bool    `json:"isExpired"`
	IsActive         bool    `json:"isActive"`
	HasPassword      bool    `json:"hasPassword"`
	Description      *string `json:"description"`
}

// DownloadResult hands the caller an open stream over the file bytes plus
// what it needs to serve them as an attachment. The caller owns Content.
type DownloadResult struct {
	Content     io.ReadCloser
	FileName    string
	ContentType string
}

// ShareService contains the business logic for uploading and serving shares.
type ShareService struct {
	repo  ShareRepository
	store storage.Store
	cfg   *config.Config
}

// NewShareService creates a new share service.
func NewShareService(repo ShareRepository, store storage.Store, cfg *config.Config) *ShareService {
	return &ShareService{
		repo:  repo,
		store: store,
		cfg:   cfg,
	}
}

// Upload validates the file, writes it to blob storage under a generated
// name, and creates the share record. Validation failures come back as
// sentinel errors; nothing is persisted unless every step succeeds.
func (s *ShareService) Upload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	if req.Size == 0 || req.Content == nil {
		return nil, ErrFileEmpty
	}
	if req.Size > s.cfg.MaxFileSize {
		return nil, ErrFileTooLarge
	}

	if err := s.store.EnsureDir(); err != nil {
		return nil, fmt.Errorf("Failed to store file: %v", err)
	}

	shareToken, err := generateShareToken(shareTokenLength)
	if err != nil {
		return nil, fmt.Errorf("Upload failed: %v", err)
	}

	now := time.Now().UTC()
	storedName, err := generateStoredFileName(req.FileName, now)
	if err != nil {
		return nil, fmt.Errorf("Upload failed: %v", err)
	}

	var passwordHash *string
	if trimmed := strings.TrimSpace(req.Password); trimmed != "" {
		h := hashPassword(trimmed)
		passwordHash = &h
	}

	file := &database.SharedFile{
		OriginalFileName: req.FileName,
		StoredFileName:   storedName,
		ShareToken:       shareToken,
		PasswordHash:     passwordHash,
		FileSize:         req.Size,
		ContentType:      req.ContentType,
		UploadTime:       now,
		UploaderIP:       req.UploaderIP,
		Active:           true,
	}
	if req.MaxDownloads > 0 {
		file.MaxDownloads = req.MaxDownloads
	}
	if req.ExpiryHours > 0 {
		expiry := now.Add(time.Duration(req.ExpiryHours) * time.Hour)
		file.ExpiryTime = &expiry
	}
	if desc := strings.TrimSpace(req.Description); desc != "" {
		file.Description = &desc
	}

	if _, err := s.store.Save(storedName, req.Content); err != nil {
		return nil, fmt.Errorf("Failed to store file: %v", err)
	}

	if err := s.repo.Create(ctx, file); err != nil {
		// Don't leave an orphaned blob behind.
		if delErr := s.store.Delete(storedName); delErr != nil {
			slog.Error("failed to remove orphaned blob", "stored_name", storedName, "error", delErr)
		}
		return nil, fmt.Errorf("Upload failed: %v", err)
	}

	slog.Info("file uploaded",
		"share_token", shareToken,
		"file_name", file.OriginalFileName,
		"stored_name", storedName,
		"size", file.FileSize,
		"uploader_ip", file.UploaderIP,
	)

	return &UploadResult{
		ShareToken:   shareToken,
		ShareURL:     "/download/" + shareToken,
		FileName:     file.OriginalFileName,
		FileSize:     file.FormattedSize(),
		UploadTime:   file.UploadTime.Format(time.RFC3339),
		HasPassword:  passwordHash != nil,
		MaxDownloads: file.MaxDownloads,
		ExpiryTime:   formatOptionalTime(file.ExpiryTime),
	}, nil
}

// GetInfo returns display metadata for an accessible share.
func (s *ShareService) GetInfo(ctx context.Context, shareToken string) (*FileInfo, error) {
	file, err := s.repo.GetByShareToken(ctx, shareToken)
	if err != nil {
		if errors.Is(err, database.ErrFileNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("Error retrieving file info: %v", err)
	}

	now := time.Now().UTC()
	if !file.IsAccessible(now) {
		return nil, accessibilityError(file, now)
	}

	return &FileInfo{
		FileName:         file.OriginalFileName,
		FileSize:         file.FormattedSize(),
		ContentType:      file.ContentType,
		UploadTime:       file.UploadTime.Format(time.RFC3339),
		HasPassword:      file.PasswordHash != nil,
		Description:      file.Description,
		CurrentDownloads: file.CurrentDownloads,
		MaxDownloads:     file.MaxDownloads,
		ExpiryTime:       formatOptionalTime(file.ExpiryTime),
	}, nil
}

// Download checks accessibility and the share password, opens the blob,
// and increments the download counter. The returned stream is open; the
// caller must close it.
func (s *ShareService) Download(ctx context.Context, shareToken, password string) (*DownloadResult, error) {
	file, err := s.repo.GetByShareToken(ctx, shareToken)
	if err != nil {
		if errors.Is(err, database.ErrFileNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("Download failed: %v", err)
	}

	now := time.Now().UTC()
	if !file.IsAccessible(now) {
		return nil, accessibilityError(file, now)
	}

	if file.PasswordHash != nil {
		trimmed := strings.TrimSpace(password)
		if trimmed == "" {
			return nil, ErrPasswordRequired
		}
		if hashPassword(trimmed) != *file.PasswordHash {
			return nil, ErrInvalidPassword
		}
	}

	content, err := s.store.Open(file.StoredFileName)
	if err != nil {
		return nil, ErrFileMissing
	}

	if err := s.repo.IncrementDownloadCount(ctx, file.ID); err != nil {
		content.Close()
		return nil, fmt.Errorf("Download failed: %v", err)
	}

	slog.Info("file downloaded",
		"share_token", shareToken,
		"file_name", file.OriginalFileName,
		"downloads", file.CurrentDownloads+1,
	)

	return &DownloadResult{
		Content:     content,
		FileName:    file.OriginalFileName,
		ContentType: file.ContentType,
	}, nil
}

// UserFiles lists all shares uploaded from the given address, newest
// first. Internal failures degrade to an empty list; callers of the
// my-files endpoint rely on it never failing.
func (s *ShareService) UserFiles(ctx context.Context, uploaderIP string) []*UserFile {
	files, err := s.repo.ListByUploaderIP(ctx, uploaderIP)
	if err != nil {
		slog.Error("failed to list user files", "uploader_ip", uploaderIP, "error", err)
		return []*UserFile{}
	}

	now := time.Now().UTC()
	out := make([]*UserFile, 0, len(files))
	for _, file := range files {
		out = append(out, &UserFile{
			ShareToken:       file.ShareToken,
			FileName:         file.OriginalFileName,
			FileSize:         file.FormattedSize(),
			UploadTime:       file.UploadTime.Format(time.RFC3339),
			CurrentDownloads: file.CurrentDownloads,
			MaxDownloads:     file.MaxDownloads,
			ExpiryTime:       formatOptionalTime(file.ExpiryTime),
			IsExpired:        file.IsExpired(now),
			IsActive:         file.IsAccessible(now),
			HasPassword:      file.PasswordHash != nil,
			Description:      file.Description,
		})
	}
	return out
}

// --- Helpers ---

// accessibilityError picks the most specific reason a share can't be
// served: expired beats limit-reached beats the generic message.
func accessibilityError(file *database.SharedFile, now time.Time) error {
	switch {
	case file.IsExpired(now):
		return ErrExpired
	case file.IsDownloadLimitReached():
		return ErrLimitReached
	default:
		return ErrUnavailable
	}
}

// generateShareToken produces a cryptographically secure random string
// over the 62-character alphanumeric alphabet.
func generateShareToken(length int) (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	result := make([]byte, length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", fmt.Errorf("crypto/rand failure: %w", err)
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}

// generateStoredFileName builds the on-disk name for an upload:
// <millisecond-timestamp>_<8-char-random><original extension>.
// Decoupling it from the client's filename prevents collisions and
// path traversal.
func generateStoredFileName(originalName string, now time.Time) (string, error) {
	suffix, err := generateShareToken(8)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d_%s%s", now.UnixMilli(), suffix, fileExtension(originalName)), nil
}

// fileExtension returns the dot-prefixed suffix after the last '.' when
// it occurs past the first character, else the empty string. A leading
// dot (".gitignore") is a hidden-file name, not an extension.
func fileExtension(name string) string {
	if idx := strings.LastIndex(name, "."); idx > 0 {
		return name[idx:]
	}
	return ""
}

// hashPassword computes the stored form of a share password: one SHA-256
// pass over the trimmed UTF-8 bytes, lowercase hex. Unsalted by contract;
// the stored format is part of the observable behavior.
func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
