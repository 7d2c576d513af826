package api

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"

	"droplink/internal/server/config"
	"droplink/internal/server/database"
	"droplink/internal/server/service"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// Handler contains the HTTP handlers for the droplink API.
type Handler struct {
	svc      *service.ShareService
	sessions service.SessionStore
	db       *database.DB
	cfg      *config.Config
}

// NewHandler creates a new handler with its service dependencies.
func NewHandler(svc *service.ShareService, sessions service.SessionStore, db *database.DB, cfg *config.Config) *Handler {
	return &Handler{svc: svc, sessions: sessions, db: db, cfg: cfg}
}

type uploadResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	*service.UploadResult
}

type infoResponse struct {
	Status string `json:"status"`
	*service.FileInfo
}

// HandleLogin handles POST /api/auth/login.
// Issues a session token for the demo credential pair.
func (h *Handler) HandleLogin(c echo.Context) error {
	username := strings.TrimSpace(c.FormValue("username"))
	password := strings.TrimSpace(c.FormValue("password"))

	if username == "" || password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"status":  "error",
			"message": "Username and password are required",
		})
	}

	if username == h.cfg.DemoUsername &&
		bcrypt.CompareHashAndPassword(h.cfg.DemoPasswordHash, []byte(password)) == nil {
		token := h.sessions.Issue(username)
		return c.JSON(http.StatusOK, echo.Map{
			"status":  "success",
			"message": "Login successful",
			"token":   token,
			"user": echo.Map{
				"username": h.cfg.DemoUsername,
				"role":     "demo-admin",
				"ip":       clientIP(c),
			},
		})
	}

	return c.JSON(http.StatusUnauthorized, echo.Map{
		"status":  "error",
		"message": "Invalid credentials",
	})
}

// HandleUpload handles POST /api/files/upload.
// Accepts a multipart form with a "file" field and optional "password",
// "maxDownloads", "expiryHours" and "description" fields. The response
// is always 200; the body carries the status.
func (h *Handler) HandleUpload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return errorResult(c, service.ErrFileEmpty.Error())
	}

	src, err := fileHeader.Open()
	if err != nil {
		return errorResult(c, "Upload failed: "+err.Error())
	}
	defer src.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	result, err := h.svc.Upload(c.Request().Context(), service.UploadRequest{
		FileName:     fileHeader.Filename,
		Size:         fileHeader.Size,
		Content:      src,
		ContentType:  contentType,
		Password:     c.FormValue("password"),
		MaxDownloads: formInt(c, "maxDownloads"),
		ExpiryHours:  formInt(c, "expiryHours"),
		Description:  c.FormValue("description"),
		UploaderIP:   clientIP(c),
	})
	if err != nil {
		return errorResult(c, err.Error())
	}

	return c.JSON(http.StatusOK, uploadResponse{
		Status:       "success",
		Message:      "File uploaded successfully!",
		UploadResult: result,
	})
}

// HandleInfo handles GET /api/files/info/:shareToken.
// Returns share metadata without serving the file. Always 200.
func (h *Handler) HandleInfo(c echo.Context) error {
	info, err := h.svc.GetInfo(c.Request().Context(), c.Param("shareToken"))
	if err != nil {
		return errorResult(c, err.Error())
	}

	return c.JSON(http.StatusOK, infoResponse{
		Status:   "success",
		FileInfo: info,
	})
}

// HandleMyFiles handles GET /api/files/my-files.
// Lists the caller's uploads, grouped by client IP, newest first.
func (h *Handler) HandleMyFiles(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.UserFiles(c.Request().Context(), clientIP(c)))
}

// HandleDownloadFile handles POST /api/files/download/:shareToken.
// Streams the file as an attachment, or answers 400 with an empty body
// on any failure.
func (h *Handler) HandleDownloadFile(c echo.Context) error {
	result, err := h.svc.Download(c.Request().Context(), c.Param("shareToken"), c.FormValue("password"))
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}
	defer result.Content.Close()

	contentType := result.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, result.FileName))
	return c.Stream(http.StatusOK, contentType, result.Content)
}

// HandleHealth handles GET /health.
// Reports server and database status.
func (h *Handler) HandleHealth(c echo.Context) error {
	status := "healthy"
	dbStatus := "connected"

	if err := h.db.HealthCheck(c.Request().Context()); err != nil {
		status = "degraded"
		dbStatus = fmt.Sprintf("error: %v", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":   status,
		"database": dbStatus,
	})
}

// errorResult writes the uniform error envelope with a 200 status; the
// upload and info routes report failure in the body, not the status code.
func errorResult(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "error",
		"message": message,
	})
}

// formInt reads an optional integer form field; anything unparsable
// counts as absent.
func formInt(c echo.Context, name string) int {
	n, err := strconv.Atoi(c.FormValue(name))
	if err != nil {
		return 0
	}
	return n
}

// clientIP resolves the uploader identity: first X-Forwarded-For entry,
// then X-Real-IP, then the transport-level peer address.
func clientIP(c echo.Context) string {
	if xff := c.Request().Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	if realIP := c.Request().Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	if host, _, err := net.SplitHostPort(c.Request().RemoteAddr); err == nil {
		return host
	}
	return c.Request().RemoteAddr
}
