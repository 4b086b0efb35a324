package res

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ManifestName is the font manifest file looked up under a font path.
const ManifestName = "fonts.json"

// ErrNotFont is returned when a manifest entry does not hold TrueType or
// OpenType data, either raw or base64 encoded.
var ErrNotFont = errors.New("not a TrueType or OpenType font")

// ManifestEntry is one font of a manifest. Key is the name the font is
// registered under, "<family> <weight> <style>".
type ManifestEntry struct {
	Key  string `json:"key"`
	File string `json:"file"`
}

// Font is a fetched font file.
type Font struct {
	Key  string
	Data []byte
}

// JoinPath joins a file name to a directory or URL.
func JoinPath(base, name string) string {
	if isRemote(base) {
		return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(name, "/")
	}
	if strings.HasPrefix(base, "data:") {
		return name
	}
	if isRemote(name) || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(base, filepath.FromSlash(path.Clean("/" + name))[1:])
}

// FetchFonts reads the manifest under fontPath and fetches every listed font
// concurrently. The first failure cancels the remaining fetches.
func (l *Loader) FetchFonts(ctx context.Context, fontPath string) ([]Font, error) {
	manifest, err := l.Load(ctx, JoinPath(fontPath, ManifestName))
	if err != nil {
		return nil, fmt.Errorf("load font manifest: %w", err)
	}
	var entries []ManifestEntry
	if err := json.Unmarshal(manifest.Data, &entries); err != nil {
		return nil, fmt.Errorf("parse font manifest %s: %w", manifest.URL, err)
	}

	for i, e := range entries {
		if e.Key == "" || e.File == "" {
			return nil, fmt.Errorf("font manifest entry %d: key and file are required", i)
		}
	}

	fonts := make([]Font, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	for i, e := range entries {
		g.Go(func() error {
			r, err := l.Load(gctx, JoinPath(fontPath, e.File))
			if err != nil {
				return fmt.Errorf("font %q: %w", e.Key, err)
			}
			data, err := DecodeFont(r.Data)
			if err != nil {
				return fmt.Errorf("font %q (%s): %w", e.Key, e.File, err)
			}
			fonts[i] = Font{Key: e.Key, Data: data}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	l.log.Debug("Fetched fonts", zap.String("path", fontPath), zap.Int("count", len(fonts)))
	return fonts, nil
}

// DecodeFont returns the raw font bytes of data, decoding base64 text when
// needed.
func DecodeFont(data []byte) ([]byte, error) {
	if isFont(data) {
		return data, nil
	}
	text := bytes.Join(bytes.Fields(data), nil)
	raw := make([]byte, base64.StdEncoding.DecodedLen(len(text)))
	n, err := base64.StdEncoding.Decode(raw, text)
	if err != nil {
		return nil, ErrNotFont
	}
	raw = raw[:n]
	if !isFont(raw) {
		return nil, ErrNotFont
	}
	return raw, nil
}

func isFont(data []byte) bool {
	return filetype.Is(data, "ttf") || filetype.Is(data, "otf")
}
