// Package config loads printer and output settings.
//
// Defaults are overridden by an optional YAML file, which is in turn
// overridden by SEEDLABEL_* environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"janouch.name/seedlabel/label"
	"janouch.name/seedlabel/output"
)

const (
	DefaultPrinterIP   = "192.168.1.232"
	DefaultModel       = "QL-810W"
	DefaultLabelSizeMM = 62
)

// Config holds everything about a run that isn't the label itself.
type Config struct {
	PrinterIP   string `yaml:"printer_ip"`
	Model       string `yaml:"model"`
	LabelSizeMM int    `yaml:"label_size"`

	// OutputDir is where dry runs save their images.
	OutputDir string `yaml:"output_dir"`

	DialTimeout   time.Duration `yaml:"dial_timeout"`
	StatusTimeout time.Duration `yaml:"status_timeout"`

	// LogLevel is one of logrus' level names.
	LogLevel string `yaml:"log_level"`

	Fonts label.FontSet `yaml:"fonts"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		PrinterIP:     DefaultPrinterIP,
		Model:         DefaultModel,
		LabelSizeMM:   DefaultLabelSizeMM,
		OutputDir:     ".",
		DialTimeout:   10 * time.Second,
		StatusTimeout: 5 * time.Second,
		LogLevel:      "info",
	}
}

// Load returns the configuration. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	setString("SEEDLABEL_PRINTER_IP", &c.PrinterIP)
	setString("SEEDLABEL_MODEL", &c.Model)
	setString("SEEDLABEL_OUTPUT_DIR", &c.OutputDir)
	setString("SEEDLABEL_LOG_LEVEL", &c.LogLevel)
	setString("SEEDLABEL_FONT_BOLD", &c.Fonts.Bold)
	setString("SEEDLABEL_FONT_REGULAR", &c.Fonts.Regular)
	setString("SEEDLABEL_FONT_ITALIC", &c.Fonts.Italic)

	if v := os.Getenv("SEEDLABEL_LABEL_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SEEDLABEL_LABEL_SIZE: %w", err)
		}
		c.LabelSizeMM = n
	}
	for key, dst := range map[string]*time.Duration{
		"SEEDLABEL_DIAL_TIMEOUT":   &c.DialTimeout,
		"SEEDLABEL_STATUS_TIMEOUT": &c.StatusTimeout,
	} {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = d
		}
	}
	return nil
}

// Target returns the printer to submit jobs to.
func (c *Config) Target() output.Target {
	return output.Target{
		Address:     c.PrinterIP,
		Model:       c.Model,
		LabelSizeMM: c.LabelSizeMM,
	}
}
