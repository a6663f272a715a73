package importer

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so yaml values like "30s" or "5m" decode.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	td, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(td)
	return nil
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type FileConfig struct {
	SpoolDir string `yaml:"spool_dir"`
	DB       string `yaml:"db"`

	// Files whose name contains this marker are skipped entirely.
	QuarantineMarker string `yaml:"quarantine_marker"`

	// Fallback interval for poll and watch modes.
	PollInterval Duration `yaml:"poll_interval"`

	// Prometheus listen address for resident modes ("" disables).
	MetricsAddr string `yaml:"metrics_addr"`

	Logging LoggingConfig `yaml:"logging"`
}

func LoadConfig(path string) (*FileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg FileConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
