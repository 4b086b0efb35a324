package res

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"go.uber.org/zap/zaptest"
)

var ttf = []byte{0x00, 0x01, 0x00, 0x00, 0x00, 0x0c, 0x00, 0x80, 0x00, 0x03}

func TestParseDataURL(t *testing.T) {
	tests := []struct {
		in   string
		data string
		mime string
		typ  ResourceType
	}{
		{"data:text/css,a%20%7B%7D", "a {}", "text/css", ResourceTypeCSS},
		{"data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png")), "png", "image/png", ResourceTypeImage},
		{"data:,hello", "hello", "application/octet-stream", ResourceTypeOther},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r, err := parseDataURL(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if string(r.Data) != tt.data || r.MimeType != tt.mime || r.Type != tt.typ {
				t.Errorf("got %q %q %v", r.Data, r.MimeType, r.Type)
			}
		})
	}
	if _, err := parseDataURL("data:image/png;base64"); err == nil {
		t.Error("expected error for missing comma")
	}
}

func TestLoadLocalAndSearchPaths(t *testing.T) {
	dir := t.TempDir()
	assets := filepath.Join(dir, "assets")
	if err := os.MkdirAll(assets, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "site.css"), []byte("p{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(assets, "logo.png"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(filepath.Join(dir, "index.html"), zaptest.NewLogger(t))
	l.AddSearchPath(assets)
	ctx := context.Background()

	css, err := l.LoadCSS(ctx, "site.css")
	if err != nil {
		t.Fatalf("LoadCSS() error = %v", err)
	}
	if css.GetString() != "p{}" {
		t.Errorf("css = %q", css.GetString())
	}

	img, err := l.LoadImage(ctx, "img/logo.png")
	if err != nil {
		t.Fatalf("LoadImage() error = %v", err)
	}
	if img.URL != filepath.Join(assets, "logo.png") {
		t.Errorf("url = %q", img.URL)
	}

	if _, err := l.LoadImage(ctx, "site.css"); err == nil {
		t.Error("css loaded as an image")
	}
	if _, err := l.Load(ctx, "missing.png"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v", err)
	}
}

func TestLoadRemoteCaches(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/css/site.css":
			w.Header().Set("Content-Type", "text/css; charset=utf-8")
			w.Write([]byte("body{}"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	l := NewLoader(srv.URL+"/pages/index.html", zaptest.NewLogger(t))
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		r, err := l.LoadCSS(ctx, "../css/site.css")
		if err != nil {
			t.Fatalf("LoadCSS() error = %v", err)
		}
		if r.GetString() != "body{}" {
			t.Errorf("body = %q", r.GetString())
		}
	}
	if hits.Load() != 1 {
		t.Errorf("hits = %d, want 1", hits.Load())
	}
	if _, err := l.Load(ctx, "/nope"); err == nil {
		t.Error("expected an error for a 404")
	}
}

func TestResolve(t *testing.T) {
	l := NewLoader("https://example.com/a/b.html", nil)
	got, err := l.Resolve("c/d.png")
	if err != nil || got != "https://example.com/a/c/d.png" {
		t.Errorf("Resolve() = %q, %v", got, err)
	}
	if got, _ := NewLoader("", nil).Resolve("x.css"); got != "x.css" {
		t.Errorf("Resolve() without base = %q", got)
	}
}

func TestJoinPath(t *testing.T) {
	tests := []struct{ base, name, want string }{
		{"https://cdn.example.com/fonts/", "a.ttf", "https://cdn.example.com/fonts/a.ttf"},
		{"https://cdn.example.com/fonts", "/a.ttf", "https://cdn.example.com/fonts/a.ttf"},
		{"fonts", "sub/a.ttf", filepath.Join("fonts", "sub", "a.ttf")},
		{"fonts", "../../etc/a.ttf", filepath.Join("fonts", "etc", "a.ttf")},
	}
	for _, tt := range tests {
		if got := JoinPath(tt.base, tt.name); got != tt.want {
			t.Errorf("JoinPath(%q, %q) = %q, want %q", tt.base, tt.name, got, tt.want)
		}
	}
}

func TestDecodeFont(t *testing.T) {
	if got, err := DecodeFont(ttf); err != nil || len(got) != len(ttf) {
		t.Errorf("raw: %v, %v", got, err)
	}
	enc := base64.StdEncoding.EncodeToString(ttf)
	wrapped := enc[:4] + "\n" + enc[4:] + "\n"
	if got, err := DecodeFont([]byte(wrapped)); err != nil || string(got) != string(ttf) {
		t.Errorf("base64: %v, %v", got, err)
	}
	if _, err := DecodeFont([]byte("not a font")); !errors.Is(err, ErrNotFont) {
		t.Errorf("text: err = %v", err)
	}
	if _, err := DecodeFont([]byte(base64.StdEncoding.EncodeToString([]byte("hello")))); !errors.Is(err, ErrNotFont) {
		t.Errorf("base64 text: err = %v", err)
	}
}

func fontServer(t *testing.T, manifest string, files map[string][]byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/fonts/fonts.json" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(manifest))
			return
		}
		data, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write(data)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchFonts(t *testing.T) {
	srv := fontServer(t, `[
		{"key": "Roboto 400 normal", "file": "roboto.ttf"},
		{"key": "Roboto 700 normal", "file": "roboto-bold.b64"}
	]`, map[string][]byte{
		"/fonts/roboto.ttf":      ttf,
		"/fonts/roboto-bold.b64": []byte(base64.StdEncoding.EncodeToString(ttf)),
	})

	l := NewLoader("", zaptest.NewLogger(t))
	fonts, err := l.FetchFonts(context.Background(), srv.URL+"/fonts")
	if err != nil {
		t.Fatalf("FetchFonts() error = %v", err)
	}
	if len(fonts) != 2 {
		t.Fatalf("fonts = %d", len(fonts))
	}
	if fonts[0].Key != "Roboto 400 normal" || fonts[1].Key != "Roboto 700 normal" {
		t.Errorf("keys = %q, %q", fonts[0].Key, fonts[1].Key)
	}
	for _, f := range fonts {
		if string(f.Data) != string(ttf) {
			t.Errorf("%s: data = %v", f.Key, f.Data)
		}
	}
}

func TestFetchFontsFailures(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		files    map[string][]byte
		notFont  bool
	}{
		{"missing file", `[{"key":"A 400 normal","file":"a.ttf"}]`, nil, false},
		{"bad manifest", `{"key":`, nil, false},
		{"entry without file", `[{"key":"A 400 normal"}]`, nil, false},
		{"not a font", `[{"key":"A 400 normal","file":"a.ttf"}]`, map[string][]byte{"/fonts/a.ttf": []byte("<html>")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := fontServer(t, tt.manifest, tt.files)
			l := NewLoader("", zaptest.NewLogger(t))
			fonts, err := l.FetchFonts(context.Background(), srv.URL+"/fonts/")
			if err == nil {
				t.Fatalf("expected an error, got %d fonts", len(fonts))
			}
			if tt.notFont && !errors.Is(err, ErrNotFont) {
				t.Errorf("err = %v, want ErrNotFont", err)
			}
		})
	}
}

func TestFetchFontsLocal(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ManifestName), []byte(`[{"key":"Mono 400 normal","file":"mono.ttf"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "mono.ttf"), ttf, 0o644); err != nil {
		t.Fatal(err)
	}
	fonts, err := NewLoader("", zaptest.NewLogger(t)).FetchFonts(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(fonts) != 1 || fonts[0].Key != "Mono 400 normal" {
		t.Errorf("fonts = %+v", fonts)
	}
}

func TestDetermineTypes(t *testing.T) {
	tests := []struct {
		path string
		data []byte
		mime string
		typ  ResourceType
	}{
		{"a.PNG", nil, "image/png", ResourceTypeImage},
		{"a.jpeg", nil, "image/jpeg", ResourceTypeImage},
		{"logo.svg", nil, "image/svg+xml", ResourceTypeImage},
		{"site.css", nil, "text/css", ResourceTypeCSS},
		{"fonts.json", nil, "application/json", ResourceTypeOther},
		{"roboto.ttf", nil, "application/font-sfnt", ResourceTypeFont},
		{"noext", ttf, "application/font-sfnt", ResourceTypeFont},
		{"noext", []byte("plain"), "application/octet-stream", ResourceTypeOther},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			mime := determineMimeType(tt.path, tt.data)
			if mime != tt.mime {
				t.Errorf("determineMimeType() = %q, want %q", mime, tt.mime)
			}
			if got := determineResourceType(mime, tt.path); got != tt.typ {
				t.Errorf("determineResourceType() = %v, want %v", got, tt.typ)
			}
		})
	}
	// a generic server type is refined by the extension
	if got := determineResourceType("text/plain", "https://x/site.css"); got != ResourceTypeCSS {
		t.Errorf("determineResourceType(text/plain, .css) = %v", got)
	}
}
