package api

import (
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Minimal human-facing pages. The JSON API is the real surface; these
// exist so a shared link opens something usable in a browser.

var loginPage = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><title>droplink — Login</title></head>
<body>
  <h1>droplink</h1>
  <p>Login to access file sharing.</p>
  <form method="post" action="/api/auth/login">
    <input name="username" placeholder="Username" required>
    <input name="password" type="password" placeholder="Password" required>
    <button type="submit">Login</button>
  </form>
</body>
</html>
`))

var fileSharePage = template.Must(template.New("file-share").Parse(`<!DOCTYPE html>
<html>
<head><title>droplink — File Sharing</title></head>
<body>
  <h1>File Sharing</h1>
  <form method="post" action="/api/files/upload" enctype="multipart/form-data">
    <input type="file" name="file" required>
    <input name="password" type="password" placeholder="Password (optional)">
    <input name="maxDownloads" type="number" placeholder="Max downloads (optional)">
    <input name="expiryHours" type="number" placeholder="Expiry hours (optional)">
    <input name="description" placeholder="Description (optional)">
    <button type="submit">Upload</button>
  </form>
</body>
</html>
`))

var downloadPage = template.Must(template.New("download").Parse(`<!DOCTYPE html>
<html>
<head><title>droplink — Download</title></head>
<body>
  <h1>Download File</h1>
  <form method="post" action="/api/files/download/{{.ShareToken}}">
    <input name="password" type="password" placeholder="Password (if required)">
    <button type="submit">Download</button>
  </form>
</body>
</html>
`))

// HandleHome handles GET / (and /index, /index.html).
func (h *Handler) HandleHome(c echo.Context) error {
	return renderPage(c, loginPage, nil)
}

// HandleFileSharePage handles GET /file-share.
func (h *Handler) HandleFileSharePage(c echo.Context) error {
	return renderPage(c, fileSharePage, nil)
}

// HandleDownloadPage handles GET /download/:shareToken.
func (h *Handler) HandleDownloadPage(c echo.Context) error {
	return renderPage(c, downloadPage, struct{ ShareToken string }{c.Param("shareToken")})
}

func renderPage(c echo.Context, tmpl *template.Template, data any) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return tmpl.Execute(c.Response(), data)
}
