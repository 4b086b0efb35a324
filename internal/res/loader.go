// Package res loads the external resources a print needs: stylesheets,
// images and fonts, from files, http(s) URLs or data URLs.
package res

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/h2non/filetype"
	"go.uber.org/zap"
)

// ResourceType represents the type of resource
type ResourceType int

const (
	// ResourceTypeUnknown is an unknown resource type
	ResourceTypeUnknown ResourceType = iota
	// ResourceTypeImage is an image resource
	ResourceTypeImage
	// ResourceTypeFont is a font resource
	ResourceTypeFont
	// ResourceTypeCSS is a CSS resource
	ResourceTypeCSS
	// ResourceTypeOther is any other resource
	ResourceTypeOther
)

// Resource represents a loaded resource
type Resource struct {
	URL      string
	Type     ResourceType
	Data     []byte
	MimeType string
}

// Loader handles loading resources. It is safe for concurrent use.
type Loader struct {
	// Base URL or file path for resolving relative URLs
	BaseURL string

	cache     map[string]*Resource
	cacheLock sync.RWMutex

	searchPaths []string

	client *http.Client
	log    *zap.Logger
}

// NewLoader creates a new resource loader
func NewLoader(baseURL string, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		BaseURL:     baseURL,
		cache:       make(map[string]*Resource),
		searchPaths: []string{},
		client:      &http.Client{},
		log:         log.Named("res"),
	}
}

// SetHTTPClient replaces the client used for remote resources.
func (l *Loader) SetHTTPClient(c *http.Client) {
	l.client = c
}

// AddSearchPath adds a directory to search for local resources
func (l *Loader) AddSearchPath(path string) {
	l.searchPaths = append(l.searchPaths, path)
}

// Load loads a resource from a URL or file path
func (l *Loader) Load(ctx context.Context, urlStr string) (*Resource, error) {
	l.cacheLock.RLock()
	if res, ok := l.cache[urlStr]; ok {
		l.cacheLock.RUnlock()
		return res, nil
	}
	l.cacheLock.RUnlock()

	var res *Resource
	var err error
	if strings.HasPrefix(urlStr, "data:") {
		res, err = parseDataURL(urlStr)
	} else {
		var resolved string
		resolved, err = l.Resolve(urlStr)
		if err != nil {
			return nil, err
		}
		if isRemote(resolved) {
			res, err = l.loadRemote(ctx, resolved)
		} else {
			res, err = l.loadLocal(resolved)
		}
	}
	if err != nil {
		return nil, err
	}
	l.log.Debug("Loaded resource", zap.String("url", res.URL), zap.Int("bytes", len(res.Data)))

	l.cacheLock.Lock()
	l.cache[urlStr] = res
	l.cacheLock.Unlock()
	return res, nil
}

func isRemote(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// parseDataURL parses a data URL (RFC 2397) and returns a Resource.
// Examples:
//
//	data:image/png;base64,<base64>
//	data:text/plain,Hello%20World
func parseDataURL(u string) (*Resource, error) {
	s, ok := strings.CutPrefix(u, "data:")
	if !ok {
		return nil, fmt.Errorf("not a data URL")
	}
	meta, dataPart, ok := strings.Cut(s, ",")
	if !ok {
		return nil, fmt.Errorf("invalid data URL")
	}

	mime := "application/octet-stream"
	isBase64 := false
	if meta != "" {
		// meta can be like: image/png;base64 or text/plain;charset=utf-8
		comps := strings.Split(meta, ";")
		if comps[0] != "" {
			mime = comps[0]
		}
		for _, c := range comps[1:] {
			if strings.EqualFold(strings.TrimSpace(c), "base64") {
				isBase64 = true
			}
		}
	}

	var data []byte
	if isBase64 {
		d, err := base64.StdEncoding.DecodeString(dataPart)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 data URL: %w", err)
		}
		data = d
	} else if d, err := url.PathUnescape(dataPart); err == nil {
		data = []byte(d)
	} else {
		data = []byte(dataPart)
	}

	r := &Resource{URL: u, Data: data, MimeType: mime}
	r.Type = determineResourceType(mime, "")
	return r, nil
}

// Resolve resolves a URL or path relative to the base URL.
func (l *Loader) Resolve(urlStr string) (string, error) {
	if isRemote(urlStr) || filepath.IsAbs(urlStr) || strings.HasPrefix(urlStr, "data:") {
		return urlStr, nil
	}

	if !isRemote(l.BaseURL) {
		if l.BaseURL == "" {
			return urlStr, nil
		}
		base := l.BaseURL
		if fi, err := os.Stat(base); err != nil || !fi.IsDir() {
			base = filepath.Dir(base)
		}
		return filepath.Join(base, urlStr), nil
	}

	baseURL, err := url.Parse(l.BaseURL)
	if err != nil {
		return "", err
	}
	relURL, err := url.Parse(urlStr)
	if err != nil {
		return "", err
	}
	return baseURL.ResolveReference(relURL).String(), nil
}

// loadRemote loads a resource from a remote URL
func (l *Loader) loadRemote(ctx context.Context, urlStr string) (*Resource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: HTTP error: %s", urlStr, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	res := &Resource{
		URL:      urlStr,
		Data:     data,
		MimeType: resp.Header.Get("Content-Type"),
	}
	if mt, _, _ := strings.Cut(res.MimeType, ";"); mt == "" || mt == "application/octet-stream" {
		res.MimeType = determineMimeType(urlStr, data)
	}
	res.Type = determineResourceType(res.MimeType, urlStr)
	return res, nil
}

// loadLocal loads a resource from a local file
func (l *Loader) loadLocal(path string) (*Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return l.loadFromSearchPaths(path)
		}
		return nil, err
	}
	return newLocalResource(path, data), nil
}

func newLocalResource(path string, data []byte) *Resource {
	res := &Resource{URL: path, Data: data}
	res.MimeType = determineMimeType(path, data)
	res.Type = determineResourceType(res.MimeType, path)
	return res
}

// loadFromSearchPaths tries to load a resource from the search paths
func (l *Loader) loadFromSearchPaths(filename string) (*Resource, error) {
	baseFilename := filepath.Base(filename)

	for _, searchPath := range l.searchPaths {
		path := filepath.Join(searchPath, baseFilename)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		return newLocalResource(path, data), nil
	}

	return nil, fmt.Errorf("resource not found: %s: %w", filename, os.ErrNotExist)
}

// textTypes covers the extensions filetype has no matcher for.
var textTypes = map[string]string{
	"svg":  "image/svg+xml",
	"css":  "text/css",
	"html": "text/html",
	"htm":  "text/html",
	"json": "application/json",
}

// determineMimeType derives the MIME type from the extension, falling back
// to sniffing the content.
func determineMimeType(path string, data []byte) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if mt, ok := textTypes[ext]; ok {
		return mt
	}
	switch ext {
	case "jpeg":
		ext = "jpg"
	case "tif":
		ext = "tiff"
	}
	if kind := filetype.GetType(ext); ext != "" && kind != filetype.Unknown {
		return kind.MIME.Value
	}
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		return kind.MIME.Value
	}
	return "application/octet-stream"
}

// determineResourceType classifies a resource by MIME type. Servers often
// send generic types, so the extension of path is consulted for those.
func determineResourceType(mimeType, path string) ResourceType {
	mimeType, _, _ = strings.Cut(mimeType, ";")
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return ResourceTypeImage
	case strings.HasPrefix(mimeType, "font/"), strings.HasPrefix(mimeType, "application/font-"):
		return ResourceTypeFont
	case mimeType == "text/css":
		return ResourceTypeCSS
	}
	if path != "" && filepath.Ext(path) != "" {
		if byExt := determineMimeType(path, nil); byExt != "application/octet-stream" && byExt != mimeType {
			return determineResourceType(byExt, "")
		}
	}
	return ResourceTypeOther
}

// LoadImage loads an image resource
func (l *Loader) LoadImage(ctx context.Context, urlStr string) (*Resource, error) {
	res, err := l.Load(ctx, urlStr)
	if err != nil {
		return nil, err
	}
	if res.Type != ResourceTypeImage {
		return nil, fmt.Errorf("resource is not an image: %s", urlStr)
	}
	return res, nil
}

// LoadCSS loads a CSS resource
func (l *Loader) LoadCSS(ctx context.Context, urlStr string) (*Resource, error) {
	res, err := l.Load(ctx, urlStr)
	if err != nil {
		return nil, err
	}
	if res.Type != ResourceTypeCSS {
		return nil, fmt.Errorf("resource is not CSS: %s", urlStr)
	}
	return res, nil
}

// LoadHTML loads an HTML resource
func (l *Loader) LoadHTML(ctx context.Context, urlStr string) (*Resource, error) {
	return l.Load(ctx, urlStr)
}

// GetReader returns a reader for a resource
func (r *Resource) GetReader() *bytes.Reader {
	return bytes.NewReader(r.Data)
}

// GetString returns the resource data as a string
func (r *Resource) GetString() string {
	return string(r.Data)
}
