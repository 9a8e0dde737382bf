package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"janouch.name/seedlabel/config"
	"janouch.name/seedlabel/output"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{"SEEDLABEL_PRINTER_IP", "SEEDLABEL_MODEL",
		"SEEDLABEL_LABEL_SIZE", "SEEDLABEL_OUTPUT_DIR", "SEEDLABEL_LOG_LEVEL",
		"SEEDLABEL_DIAL_TIMEOUT", "SEEDLABEL_STATUS_TIMEOUT",
		"SEEDLABEL_FONT_BOLD", "SEEDLABEL_FONT_REGULAR", "SEEDLABEL_FONT_ITALIC"} {
		t.Setenv(key, "")
	}
}

// TestLoad_defaults verifies the built-in values when nothing overrides them.
func TestLoad_defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load("")

	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)
	require.Equal(t, output.Target{
		Address: "192.168.1.232", Model: "QL-810W", LabelSizeMM: 62,
	}, cfg.Target())
	require.Equal(t, ".", cfg.OutputDir)
	require.Equal(t, "info", cfg.LogLevel)
}

// TestLoad_file verifies that a YAML file overrides defaults it mentions.
func TestLoad_file(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "seedlabel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
printer_ip: 10.0.0.5
label_size: 29
status_timeout: 2s
fonts:
  bold: /usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf
`), 0o644))

	cfg, err := config.Load(path)

	require.NoError(t, err)
	require.Equal(t, "10.0.0.5", cfg.PrinterIP)
	require.Equal(t, "QL-810W", cfg.Model)
	require.Equal(t, 29, cfg.LabelSizeMM)
	require.Equal(t, 2*time.Second, cfg.StatusTimeout)
	require.Equal(t, 10*time.Second, cfg.DialTimeout)
	require.Equal(t, "/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
		cfg.Fonts.Bold)
	require.Empty(t, cfg.Fonts.Regular)
}

// TestLoad_env verifies that environment variables take precedence over the file.
func TestLoad_env(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "seedlabel.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: QL-700\n"), 0o644))
	t.Setenv("SEEDLABEL_MODEL", "QL-820NWB")
	t.Setenv("SEEDLABEL_LABEL_SIZE", "38")
	t.Setenv("SEEDLABEL_DIAL_TIMEOUT", "250ms")
	t.Setenv("SEEDLABEL_OUTPUT_DIR", "/tmp/labels")

	cfg, err := config.Load(path)

	require.NoError(t, err)
	require.Equal(t, "QL-820NWB", cfg.Model)
	require.Equal(t, 38, cfg.LabelSizeMM)
	require.Equal(t, 250*time.Millisecond, cfg.DialTimeout)
	require.Equal(t, "/tmp/labels", cfg.OutputDir)
}

// TestLoad_errors verifies that malformed input is reported.
func TestLoad_errors(t *testing.T) {
	clearEnv(t)

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	t.Setenv("SEEDLABEL_LABEL_SIZE", "wide")
	_, err = config.Load("")
	require.ErrorContains(t, err, "SEEDLABEL_LABEL_SIZE")

	t.Setenv("SEEDLABEL_LABEL_SIZE", "")
	t.Setenv("SEEDLABEL_STATUS_TIMEOUT", "soon")
	_, err = config.Load("")
	require.ErrorContains(t, err, "SEEDLABEL_STATUS_TIMEOUT")
}
