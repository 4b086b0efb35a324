package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/gompdf/boxpdf/pkg/api"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "boxpdf.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}

	got := cfg.PrinterOptions(nil)
	want := api.DefaultOptions()
	if got.Selector != want.Selector || got.GroupSelector != want.GroupSelector || got.BreakSelector != want.BreakSelector {
		t.Errorf("selectors = %q %q %q", got.Selector, got.GroupSelector, got.BreakSelector)
	}
	if got.Filename != want.Filename || got.PageBottom != want.PageBottom || got.DisplayMode != want.DisplayMode {
		t.Errorf("options = %+v", got)
	}
	if got.PageNumber != want.PageNumber {
		t.Errorf("PageNumber = %+v, want %+v", got.PageNumber, want.PageNumber)
	}
	if got.Backend != want.Backend || got.ViewportWidth != want.ViewportWidth {
		t.Errorf("Backend = %+v, viewport = %v", got.Backend, got.ViewportWidth)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	path := writeConfig(t, `version: 1
fonts:
  path: https://cdn.example.com/fonts
document:
  filename: invoice
  format: Letter
  orientation: landscape
  page_top: 1.5
  page_bottom: 20
  resource_paths: ["./assets"]
  page_number:
    format: "{page} of {pages}"
    align: right
  metadata:
    title: Invoice 42
logging:
  console:
    level: debug
`)

	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	log := zaptest.NewLogger(t)
	o := cfg.PrinterOptions(log)

	if o.FontPath != "https://cdn.example.com/fonts" || o.Filename != "invoice" {
		t.Errorf("FontPath = %q, Filename = %q", o.FontPath, o.Filename)
	}
	if o.Backend.Format != "Letter" || o.Backend.Orientation != api.OrientationLandscape {
		t.Errorf("Backend = %+v", o.Backend)
	}
	if o.PageTop != 1.5 || o.PageBottom != 20 {
		t.Errorf("page = %v..%v", o.PageTop, o.PageBottom)
	}
	// unset fields keep their defaults
	if o.PageNumber.Format != "{page} of {pages}" || o.PageNumber.Align != api.AlignRight || o.PageNumber.X != 10.5 {
		t.Errorf("PageNumber = %+v", o.PageNumber)
	}
	if o.Selector != ".hp-export" || o.DisplayMode != "fullheight" {
		t.Errorf("defaults lost: %q %q", o.Selector, o.DisplayMode)
	}
	if len(o.ResourcePaths) != 1 || o.Title != "Invoice 42" || o.Logger != log {
		t.Errorf("options = %+v", o)
	}
	if cfg.Logging.ConsoleLogger.Level != "debug" {
		t.Errorf("console level = %q", cfg.Logging.ConsoleLogger.Level)
	}
}

func TestLoadConfiguration_Invalid(t *testing.T) {
	tests := []struct {
		name, content, want string
	}{
		{"unknown field", "version: 1\nbogus: true\n", "field bogus not found"},
		{"version", "version: 2\n", "Version"},
		{"format", "version: 1\ndocument:\n  format: B5\n", "Format"},
		{"orientation", "version: 1\ndocument:\n  orientation: upside\n", "Orientation"},
		{"page bottom above top", "version: 1\ndocument:\n  page_top: 5\n  page_bottom: 4\n", "PageBottom"},
		{"display mode", "version: 1\ndocument:\n  display_mode: zoom\n", "DisplayMode"},
		{"align", "version: 1\ndocument:\n  page_number:\n    align: justify\n", "Align"},
		{"log level", "version: 1\nlogging:\n  console:\n    level: loud\n", "Level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfiguration(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadConfiguration_MissingFile(t *testing.T) {
	if _, err := LoadConfiguration(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestDumpRoundTrip(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Fonts.Path = "/srv/fonts"
	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	loaded, err := LoadConfiguration(writeConfig(t, string(data)))
	if err != nil {
		t.Fatalf("LoadConfiguration(dump) error = %v", err)
	}
	if loaded.Fonts.Path != "/srv/fonts" {
		t.Errorf("Fonts.Path = %q", loaded.Fonts.Path)
	}
	if !strings.Contains(string(Prepare()), "page_bottom: 29.7") {
		t.Error("default configuration is missing page_bottom")
	}
}

func TestLoggerPrepare(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "logs", "boxpdf.log")
	conf := LoggingConfig{
		ConsoleLogger: LoggerConfig{Level: "none"},
		FileLogger:    LoggerConfig{Level: "normal", Destination: dest, Mode: "overwrite"},
	}
	log, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	log.Debug("hidden")
	log.Info("visible")
	if err := log.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "visible") || strings.Contains(string(data), "hidden") {
		t.Errorf("log file = %q", data)
	}

	conf.FileLogger.Destination = ""
	if _, err := conf.Prepare(); err == nil {
		t.Error("expected an error for a file log without destination")
	}
}

func TestEnableColorOutput(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if EnableColorOutput(f) {
		t.Error("a regular file is not a terminal")
	}
}
