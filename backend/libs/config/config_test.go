package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleConfig struct {
	HTTP struct {
		Port string `yaml:"port" env:"SAMPLE_HTTP_PORT"`
	} `yaml:"http"`
	Report struct {
		TopDrivers int      `yaml:"topDrivers"`
		Origins    []string `yaml:"origins" env:"SAMPLE_ORIGINS"`
		Strict     bool     `yaml:"strict"`
	} `yaml:"report"`
	Ignored string `env:"-"`
}

func TestLoadConfigFileAppliesYAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	yml := "http:\n  port: \"9000\"\nreport:\n  topDrivers: 5\n  origins: [\"http://a\"]\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	t.Setenv("SAMPLE_HTTP_PORT", "9100")
	t.Setenv("REPORT_STRICT", "true")

	var cfg sampleConfig
	require.NoError(t, LoadConfigFile(path, &cfg))

	assert.Equal(t, "9100", cfg.HTTP.Port)
	assert.Equal(t, 5, cfg.Report.TopDrivers)
	assert.Equal(t, []string{"http://a"}, cfg.Report.Origins)
	assert.True(t, cfg.Report.Strict)
}

func TestLoadConfigSplitsStringSlices(t *testing.T) {
	t.Setenv(PathEnv, "")
	t.Setenv("SAMPLE_ORIGINS", "http://a, http://b ,,")

	var cfg sampleConfig
	require.NoError(t, LoadConfig(&cfg))
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.Report.Origins)
}

func TestLoadConfigRejectsBadInput(t *testing.T) {
	var cfg sampleConfig
	assert.Error(t, LoadConfigFile("", cfg))
	assert.Error(t, LoadConfigFile("", nil))

	t.Setenv("REPORT_TOPDRIVERS", "many")
	err := LoadConfigFile("", &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REPORT_TOPDRIVERS")
}

func TestLoadConfigFileMissingFile(t *testing.T) {
	var cfg sampleConfig
	err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.yml"), &cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
