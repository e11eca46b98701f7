// Package config loads the start-time settings of the service: pipeline
// constants, the model server, the label set and the REST server.
package config

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/juruen/quickdraw/classifier"
	"github.com/juruen/quickdraw/log"
	"github.com/juruen/quickdraw/preprocess"
)

const (
	EnvConfig   = "QUICKDRAW_CONFIG"
	defaultName = "config.yaml"
	appDir      = "quickdraw"
)

// DefaultLabels is used when no labels file is configured.
var DefaultLabels = classifier.LabelSet{"apple", "car", "cat", "dog", "house", "tree"}

type Size struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

type Classifier struct {
	URL     string        `yaml:"url" env:"QUICKDRAW_CLASSIFIER_URL"`
	Model   string        `yaml:"model" env:"QUICKDRAW_CLASSIFIER_MODEL"`
	Timeout time.Duration `yaml:"timeout"`
}

type Server struct {
	Port       int    `yaml:"port" env:"QUICKDRAW_PORT"`
	AuthSecret string `yaml:"auth_secret" env:"QUICKDRAW_AUTH_SECRET"`
}

type Config struct {
	Canvas         Size       `yaml:"canvas"`
	Target         Size       `yaml:"target"`
	LineWidth      Range      `yaml:"line_width"`
	MedianKernel   int        `yaml:"median_kernel"`
	GaussianKernel int        `yaml:"gaussian_kernel"`
	MinContentArea int        `yaml:"min_content_area"`
	StrokeGap      float64    `yaml:"stroke_gap"`
	Classifier     Classifier `yaml:"classifier"`
	LabelsFile     string     `yaml:"labels_file" env:"QUICKDRAW_LABELS"`
	Server         Server     `yaml:"server"`
	Concurrency    int64      `yaml:"concurrency"`
}

func Default() Config {
	p := preprocess.DefaultParams()
	return Config{
		Canvas:         Size{Width: p.CanvasWidth, Height: p.CanvasHeight},
		Target:         Size{Width: p.TargetWidth, Height: p.TargetHeight},
		LineWidth:      Range{Min: p.MinLineWidth, Max: p.MaxLineWidth},
		MedianKernel:   p.MedianKernel,
		GaussianKernel: p.GaussianKernel,
		MinContentArea: p.MinContentArea,
		StrokeGap:      p.StrokeGap,
		Classifier:     Classifier{Model: "quickdraw", Timeout: 10 * time.Second},
		Server:         Server{Port: 8000},
		Concurrency:    3,
	}
}

// DefaultPath is $QUICKDRAW_CONFIG, or config.yaml under the user config dir.
func DefaultPath() string {
	if path := os.Getenv(EnvConfig); path != "" {
		return path
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		log.Warning.Printf("can't determine config dir: %v", err)
		return defaultName
	}
	return filepath.Join(dir, appDir, defaultName)
}

// Load reads path on top of the defaults and applies environment overrides.
// A missing file is only an error when required is set.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()

	_, statErr := os.Stat(path)
	switch {
	case statErr == nil:
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, errors.Wrapf(err, "can't read config %s", path)
		}
		log.Trace.Printf("config: loaded %s", path)
	case os.IsNotExist(statErr) && !required:
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, errors.Wrap(err, "can't read environment")
		}
		log.Trace.Printf("config: %s not found, using defaults", path)
	default:
		return nil, errors.Wrapf(statErr, "can't read config %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	switch {
	case c.Server.Port <= 0 || c.Server.Port > 65535:
		return errors.Errorf("invalid config: port %d out of range", c.Server.Port)
	case c.Concurrency <= 0:
		return errors.Errorf("invalid config: concurrency must be positive, got %d", c.Concurrency)
	case c.Classifier.Timeout < 0:
		return errors.Errorf("invalid config: negative classifier timeout %s", c.Classifier.Timeout)
	}
	return nil
}

// Params converts the pipeline settings.
func (c *Config) Params() preprocess.Params {
	return preprocess.Params{
		CanvasWidth:    c.Canvas.Width,
		CanvasHeight:   c.Canvas.Height,
		TargetWidth:    c.Target.Width,
		TargetHeight:   c.Target.Height,
		MinLineWidth:   c.LineWidth.Min,
		MaxLineWidth:   c.LineWidth.Max,
		MedianKernel:   c.MedianKernel,
		GaussianKernel: c.GaussianKernel,
		MinContentArea: c.MinContentArea,
		StrokeGap:      c.StrokeGap,
	}
}

// Labels loads the configured label set. A relative labels_file is resolved
// against dir, usually the directory of the config file.
func (c *Config) Labels(dir string) (classifier.LabelSet, error) {
	if c.LabelsFile == "" {
		return DefaultLabels, nil
	}
	path := c.LabelsFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	return classifier.LoadLabels(path)
}

// Write dumps the configuration as YAML.
func (c *Config) Write(w io.Writer) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "can't encode config")
	}
	_, err = w.Write(data)
	return err
}
