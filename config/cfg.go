package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"github.com/c2h5oh/datasize"
	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	InputConfig struct {
		MaxSize  datasize.ByteSize `yaml:"max_size" validate:"gt=0"`
		CodePage string            `yaml:"code_page,omitempty"`
	}

	ConversionConfig struct {
		Dedupe         bool `yaml:"dedupe"`
		SortDomains    bool `yaml:"sort_domains"`
		MergeSelectors bool `yaml:"merge_selectors"`
	}

	UserCSSConfig struct {
		NameTemplate string `yaml:"name_template" validate:"required"`
		Namespace    string `yaml:"namespace" validate:"required"`
		Version      string `yaml:"version" validate:"required"`
		Description  string `yaml:"description"`
		Author       string `yaml:"author"`
		License      string `yaml:"license"`
		GlobalName   string `yaml:"global_name" validate:"required"`
	}

	StylusConfig struct {
		GlobalName string `yaml:"global_name" validate:"required"`
	}

	OutputConfig struct {
		// Directory replaces "last used folder" of interactive tools, it is
		// used when no destination is given on the command line.
		Directory             string `yaml:"directory,omitempty"`
		FileNameTransliterate bool   `yaml:"file_name_transliterate"`
		FixZip                bool   `yaml:"fix_zip"`
		ArchiveNameTemplate   string `yaml:"archive_name_template" validate:"required"`
		JSONNameTemplate      string `yaml:"json_name_template" validate:"required"`
	}

	Config struct {
		Version    int              `yaml:"version" validate:"eq=1"`
		Input      InputConfig      `yaml:"input"`
		Conversion ConversionConfig `yaml:"conversion"`
		UserCSS    UserCSSConfig    `yaml:"usercss"`
		Stylus     StylusConfig     `yaml:"stylus"`
		Output     OutputConfig     `yaml:"output"`
		Logging    LoggingConfig    `yaml:"logging"`
		Reporting  ReporterConfig   `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field names above, templates there are expanded
	// at conversion time, not when configuration is loaded
	UserStyleNameTemplateFieldName TemplateFieldName = "name_template"
	ArchiveNameTemplateFieldName   TemplateFieldName = "archive_name_template"
	JSONNameTemplateFieldName      TemplateFieldName = "json_name_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(UserStyleNameTemplateFieldName)),
	gencfg.WithDoNotExpandField(string(ArchiveNameTemplateFieldName)),
	gencfg.WithDoNotExpandField(string(JSONNameTemplateFieldName)),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
