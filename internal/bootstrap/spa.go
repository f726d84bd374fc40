package bootstrap

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/threaddit/backend/pkg/logger"
)

const indexFile = "index.html"

// SPA serves the compiled browser client out of a static root.
type SPA struct {
	root string
}

// NewSPA serves files below root.
func NewSPA(root string) *SPA {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return &SPA{root: root}
}

// Index serves the shell for GET /.
func (s *SPA) Index(c *gin.Context) {
	s.shell(c, http.StatusOK)
}

// Fallback handles every request no route claims. GET and HEAD get the
// requested file when it exists, otherwise the shell with 200 so the client
// router can take over. Any other method gets the shell with 404.
func (s *SPA) Fallback(c *gin.Context) {
	switch c.Request.Method {
	case http.MethodGet, http.MethodHead:
		if file, ok := s.resolve(c.Request.URL.Path); ok {
			c.File(file)
			return
		}
		s.shell(c, http.StatusOK)
	default:
		s.shell(c, http.StatusNotFound)
	}
}

// resolve maps a URL path to a regular file under root. The path is cleaned
// as an absolute path first, so ".." can never climb above root.
func (s *SPA) resolve(urlPath string) (string, bool) {
	clean := path.Clean("/" + urlPath)
	if clean == "/" {
		return "", false
	}
	full := filepath.Join(s.root, filepath.FromSlash(clean))
	info, err := os.Stat(full)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return full, true
}

// shell writes index.html with status code. c.File would force 200.
func (s *SPA) shell(c *gin.Context, code int) {
	data, err := os.ReadFile(filepath.Join(s.root, indexFile))
	if err != nil {
		logger.For(c).WithError(err).Error("❌ SPA shell missing")
		c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
		return
	}
	c.Data(code, "text/html; charset=utf-8", data)
}
