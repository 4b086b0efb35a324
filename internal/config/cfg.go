// Package config loads the YAML configuration of the boxpdf command and turns
// it into printer options.
package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"github.com/gompdf/boxpdf/internal/geom"
	"github.com/gompdf/boxpdf/pkg/api"
)

//go:embed config.yaml
var defaultConfig []byte

type (
	FontsConfig struct {
		Path string `yaml:"path"`
	}

	PageNumberConfig struct {
		Format string  `yaml:"format"`
		X      float64 `yaml:"x" validate:"gte=0"`
		Y      float64 `yaml:"y" validate:"gte=0"`
		Align  string  `yaml:"align" validate:"oneof=left center right"`
	}

	MetadataConfig struct {
		Title    string `yaml:"title"`
		Author   string `yaml:"author"`
		Subject  string `yaml:"subject"`
		Keywords string `yaml:"keywords"`
	}

	DocumentConfig struct {
		Selector      string           `yaml:"selector" validate:"required"`
		GroupSelector string           `yaml:"group_selector" validate:"required"`
		BreakSelector string           `yaml:"break_selector" validate:"required"`
		Filename      string           `yaml:"filename" validate:"required"`
		Format        string           `yaml:"format" validate:"required,pageformat"`
		Orientation   string           `yaml:"orientation" validate:"oneof=portrait landscape"`
		PageTop       float64          `yaml:"page_top" validate:"gte=0"`
		PageBottom    float64          `yaml:"page_bottom" validate:"gt=0,gtfield=PageTop"`
		DisplayMode   string           `yaml:"display_mode" validate:"oneof=fullheight fullpage fullwidth real default"`
		ViewportWidth float64          `yaml:"viewport_width" validate:"gt=0"`
		Debug         bool             `yaml:"debug"`
		ResourcePaths []string         `yaml:"resource_paths" validate:"dive,required"`
		PageNumber    PageNumberConfig `yaml:"page_number"`
		Metadata      MetadataConfig   `yaml:"metadata"`
	}

	Config struct {
		Version  int            `yaml:"version" validate:"eq=1"`
		Fonts    FontsConfig    `yaml:"fonts"`
		Document DocumentConfig `yaml:"document"`
		Logging  LoggingConfig  `yaml:"logging"`
	}
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("pageformat", func(fl validator.FieldLevel) bool {
		_, ok := geom.LookupFormat(fl.Field().String())
		return ok
	})
	return v
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// only fields we defined are accepted
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := validate.Struct(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of the embedded defaults and validates the
// result. An empty path returns the defaults.
func LoadConfiguration(path string) (*Config, error) {
	haveFile := len(path) > 0

	cfg, err := unmarshalConfig(defaultConfig, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process default configuration: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare returns the default configuration file.
func Prepare() []byte {
	return bytes.Clone(defaultConfig)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}

// PrinterOptions converts the configuration into printer options.
func (c *Config) PrinterOptions(log *zap.Logger) api.Options {
	d := c.Document
	o := api.DefaultOptions()
	o.FontPath = c.Fonts.Path
	o.Selector = d.Selector
	o.GroupSelector = d.GroupSelector
	o.BreakSelector = d.BreakSelector
	o.Filename = d.Filename
	o.PageTop = d.PageTop
	o.PageBottom = d.PageBottom
	o.DisplayMode = d.DisplayMode
	o.PageNumber = api.PageNumber{
		Format: d.PageNumber.Format,
		X:      geom.Doc(d.PageNumber.X),
		Y:      geom.Doc(d.PageNumber.Y),
		Align:  api.Align(d.PageNumber.Align),
	}
	o.Debug = d.Debug
	o.Backend = api.Backend{
		Format:      d.Format,
		Orientation: api.Orientation(d.Orientation),
	}
	o.ViewportWidth = d.ViewportWidth
	o.ResourcePaths = append([]string{}, d.ResourcePaths...)
	o.Title = d.Metadata.Title
	o.Author = d.Metadata.Author
	o.Subject = d.Metadata.Subject
	o.Keywords = d.Metadata.Keywords
	o.Logger = log
	return o
}
