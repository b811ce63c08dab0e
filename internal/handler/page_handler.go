package handler

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	stylesheetTag     = `<link rel="stylesheet" href="/assets/css/style.css">`
	themeScriptTag    = `<script src="/assets/js/theme.js"></script>`
	languageScriptTag = `<script src="/assets/js/language.js"></script>`
)

type PageHandler struct {
	publicDir string
	logger    *zap.Logger
}

func NewPageHandler(publicDir string, logger *zap.Logger) *PageHandler {
	return &PageHandler{
		publicDir: publicDir,
		logger:    logger,
	}
}

// Page serves publicDir/file with the site stylesheet and scripts injected.
func (h *PageHandler) Page(file string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !h.servePage(c, file) {
			return c.Status(fiber.StatusNotFound).SendString("File not found")
		}
		return nil
	}
}

// RedirectHTML turns GET /foo.html into a 301 to /foo when the file exists.
// An index.html redirects to its directory.
func (h *PageHandler) RedirectHTML(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodGet || !strings.HasSuffix(c.Path(), ".html") {
		return c.Next()
	}

	reqPath := path.Clean("/" + c.Path())
	if !h.isFile(reqPath) {
		return c.Status(fiber.StatusNotFound).SendString("File not found")
	}

	target := strings.TrimSuffix(reqPath, ".html")
	if path.Base(reqPath) == "index.html" {
		target = path.Dir(reqPath)
		if target != "/" {
			target += "/"
		}
	}

	original := c.OriginalURL()
	if i := strings.IndexAny(original, "?#"); i >= 0 {
		target += original[i:]
	}
	return c.Redirect(target, fiber.StatusMovedPermanently)
}

// CleanURL serves the extensionless form of a page: /foo from foo.html and
// /docs/ from docs/index.html. Anything else falls through to static files.
func (h *PageHandler) CleanURL(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodGet || path.Ext(c.Path()) != "" {
		return c.Next()
	}

	file := path.Clean("/"+c.Path()) + ".html"
	if strings.HasSuffix(c.Path(), "/") {
		file = path.Join(path.Clean("/"+c.Path()), "index.html")
	}

	if !h.isFile(file) || !h.servePage(c, file) {
		return c.Next()
	}
	return nil
}

func (h *PageHandler) isFile(rel string) bool {
	info, err := os.Stat(filepath.Join(h.publicDir, filepath.FromSlash(rel)))
	return err == nil && !info.IsDir()
}

// servePage writes the injected page and reports whether the file could be read.
func (h *PageHandler) servePage(c *fiber.Ctx, rel string) bool {
	html, err := os.ReadFile(filepath.Join(h.publicDir, filepath.FromSlash(rel)))
	if err != nil {
		if !os.IsNotExist(err) {
			h.logger.Error("failed to read page", zap.String("file", rel), zap.Error(err))
		}
		return false
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	_ = c.SendString(InjectAssets(string(html)))
	return true
}

// InjectAssets adds the stylesheet before </head> and the theme and language
// scripts before </body>, skipping whatever the page already references.
func InjectAssets(html string) string {
	if !strings.Contains(html, "style.css") && strings.Contains(html, "</head>") {
		html = strings.Replace(html, "</head>", "  "+stylesheetTag+"\n  </head>", 1)
	}
	if !strings.Contains(html, "theme.js") && strings.Contains(html, "</body>") {
		html = strings.Replace(html, "</body>", "  "+themeScriptTag+"\n  </body>", 1)
	}
	if !strings.Contains(html, "language.js") && strings.Contains(html, "</body>") {
		html = strings.Replace(html, "</body>", "  "+languageScriptTag+"\n  </body>", 1)
	}
	return html
}
