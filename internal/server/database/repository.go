package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

var (
	ErrFileNotFound = errors.New("shared file not found")
)

const sharedFileColumns = `id, original_file_name, stored_file_name, share_token,
	password_hash, file_size, content_type, upload_time, expiry_time,
	max_downloads, current_downloads, uploader_ip, description, active`

// Repository provides CRUD operations for shared files.
type Repository struct {
	db *DB
}

// NewRepository creates a new Repository.
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new shared file record and fills in its assigned ID.
func (r *Repository) Create(ctx context.Context, file *SharedFile) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO shared_files (
			original_file_name, stored_file_name, share_token, password_hash,
			file_size, content_type, upload_time, expiry_time,
			max_downloads, current_downloads, uploader_ip, description, active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`,
		file.OriginalFileName,
		file.StoredFileName,
		file.ShareToken,
		file.PasswordHash,
		file.FileSize,
		file.ContentType,
		file.UploadTime,
		file.ExpiryTime,
		file.MaxDownloads,
		file.CurrentDownloads,
		file.UploaderIP,
		file.Description,
		file.Active,
	).Scan(&file.ID)
	if err != nil {
		return fmt.Errorf("failed to create shared file: %w", err)
	}
	return nil
}

// GetByShareToken retrieves a shared file by its public share token.
func (r *Repository) GetByShareToken(ctx context.Context, token string) (*SharedFile, error) {
	row := r.db.Pool.QueryRow(ctx,
		"SELECT "+sharedFileColumns+" FROM shared_files WHERE share_token = $1", token)

	file, err := scanSharedFile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to get shared file: %w", err)
	}
	return file, nil
}

// ListByUploaderIP returns all shares uploaded from the given address,
// newest first.
func (r *Repository) ListByUploaderIP(ctx context.Context, uploaderIP string) ([]*SharedFile, error) {
	rows, err := r.db.Pool.Query(ctx,
		"SELECT "+sharedFileColumns+` FROM shared_files
		 WHERE uploader_ip = $1 ORDER BY upload_time DESC`, uploaderIP)
	if err != nil {
		return nil, fmt.Errorf("failed to query shared files: %w", err)
	}
	defer rows.Close()

	var files []*SharedFile
	for rows.Next() {
		file, err := scanSharedFile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shared file: %w", err)
		}
		files = append(files, file)
	}
	return files, rows.Err()
}

// CountByUploaderIP returns the number of shares uploaded from the given address.
func (r *Repository) CountByUploaderIP(ctx context.Context, uploaderIP string) (int64, error) {
	var count int64
	err := r.db.Pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM shared_files WHERE uploader_ip = $1", uploaderIP).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count shared files: %w", err)
	}
	return count, nil
}

// IncrementDownloadCount bumps the download counter for a share.
// The accessibility check happens before this runs, so two concurrent
// downloads can both pass the check and push the counter past the cap.
func (r *Repository) IncrementDownloadCount(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx,
		"UPDATE shared_files SET current_downloads = current_downloads + 1 WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to increment download count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrFileNotFound
	}
	return nil
}

func scanSharedFile(row pgx.Row) (*SharedFile, error) {
	file := &SharedFile{}
	err := row.Scan(
		&file.ID,
		&file.OriginalFileName,
		&file.StoredFileName,
		&file.ShareToken,
		&file.PasswordHash,
		&file.FileSize,
		&file.ContentType,
		&file.UploadTime,
		&file.ExpiryTime,
		&file.MaxDownloads,
		&file.CurrentDownloads,
		&file.UploaderIP,
		&file.Description,
		&file.Active,
	)
	if err != nil {
		return nil, err
	}
	return file, nil
}
