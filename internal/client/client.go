// Package client is a small HTTP client for the droplink API, used by
// the command-line uploader.
package client

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Client talks to a droplink server. Login stores the session token for
// subsequent calls.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// UploadOptions are the optional share constraints for an upload.
type UploadOptions struct {
	Password     string
	MaxDownloads int
	ExpiryHours  int
	Description  string
}

// ShareResult is the server's answer to a successful upload.
type ShareResult struct {
	ShareToken   string  `json:"shareToken"`
	ShareURL     string  `json:"shareUrl"`
	FileName     string  `json:"fileName"`
	FileSize     string  `json:"fileSize"`
	UploadTime   string  `json:"uploadTime"`
	HasPassword  bool    `json:"hasPassword"`
	MaxDownloads int     `json:"maxDownloads"`
	ExpiryTime   *string `json:"expiryTime"`
}

type resultEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Token   string `json:"token"`
	ShareResult
}

// New creates a client for the given server base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Minute},
	}
}

// Login authenticates against the demo credential pair and keeps the
// issued session token for later requests.
func (c *Client) Login(username, password string) error {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	resp, err := c.http.PostForm(c.baseURL+"/api/auth/login", form)
	if err != nil {
		return fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	var env resultEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode login response: %w", err)
	}
	if env.Status != "success" {
		return fmt.Errorf("login rejected: %s", env.Message)
	}

	c.token = env.Token
	return nil
}

// Upload sends the file as a multipart form and returns the share result.
func (c *Client) Upload(path string, opts UploadOptions) (*ShareResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		part, err := writer.CreateFormFile("file", filepath.Base(path))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, file); err != nil {
			pw.CloseWithError(err)
			return
		}
		if opts.Password != "" {
			writer.WriteField("password", opts.Password)
		}
		if opts.MaxDownloads > 0 {
			writer.WriteField("maxDownloads", strconv.Itoa(opts.MaxDownloads))
		}
		if opts.ExpiryHours > 0 {
			writer.WriteField("expiryHours", strconv.Itoa(opts.ExpiryHours))
		}
		if opts.Description != "" {
			writer.WriteField("description", opts.Description)
		}
		pw.CloseWithError(writer.Close())
	}()

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/api/files/upload", pr)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Auth-Token", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upload rejected with HTTP %d", resp.StatusCode)
	}

	var env resultEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}
	if env.Status != "success" {
		return nil, fmt.Errorf("upload rejected: %s", env.Message)
	}

	result := env.ShareResult
	return &result, nil
}
