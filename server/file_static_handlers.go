package server

import (
	"bytes"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

//go:embed static/*
var staticFiles embed.FS

// Cache lifetimes for embedded assets. Stylesheets and scripts change with
// every release, so they revalidate sooner than images and fonts.
const (
	assetMaxAge = 5 * time.Minute
	mediaMaxAge = time.Hour
)

var (
	staticETags   = map[string]string{}
	staticETagsMu sync.Mutex
)

func StaticFilesFS() fs.FS {
	subFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic("Failed to create sub filesystem: " + err.Error())
	}

	return subFS
}

// StreamFile serves an embedded asset with its cache headers. A request whose
// If-None-Match carries the asset's ETag is answered 304.
func StreamFile(w http.ResponseWriter, r *http.Request, fileName string) error {
	data, err := fs.ReadFile(StaticFilesFS(), fileName)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", fileName, err)
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	ctype := mime.TypeByExtension(ext)
	if ctype == "" {
		ctype = http.DetectContentType(data)
	}
	if strings.HasPrefix(ctype, "text/") && !strings.Contains(strings.ToLower(ctype), "charset=") {
		ctype += "; charset=utf-8"
	}

	w.Header().Set("Content-Type", ctype)
	w.Header().Set("ETag", staticETag(fileName, data))
	if maxAge, ok := cacheLifetime(ext); ok {
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d, must-revalidate", int(maxAge.Seconds())))
	}
	// Embedded files carry no modification time; the ETag drives revalidation.
	http.ServeContent(w, r, fileName, time.Time{}, bytes.NewReader(data))
	return nil
}

func cacheLifetime(ext string) (time.Duration, bool) {
	switch ext {
	case ".css", ".js":
		return assetMaxAge, true
	case ".png", ".svg", ".ico", ".woff2":
		return mediaMaxAge, true
	}
	return 0, false
}

// staticETag hashes an asset once per process; embedded content never changes.
func staticETag(fileName string, data []byte) string {
	staticETagsMu.Lock()
	defer staticETagsMu.Unlock()
	if tag, ok := staticETags[fileName]; ok {
		return tag
	}
	sum := sha256.Sum256(data)
	tag := `"` + hex.EncodeToString(sum[:8]) + `"`
	staticETags[fileName] = tag
	return tag
}
