package importer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
spool_dir: /var/spool/printlog
db: /var/lib/printlog/import.db
quarantine_marker: erro
poll_interval: 45s
metrics_addr: ":9321"
logging:
  level: notice
  format: text
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/spool/printlog", cfg.SpoolDir)
	assert.Equal(t, "/var/lib/printlog/import.db", cfg.DB)
	assert.Equal(t, "erro", cfg.QuarantineMarker)
	assert.Equal(t, 45*time.Second, time.Duration(cfg.PollInterval))
	assert.Equal(t, ":9321", cfg.MetricsAddr)
	assert.Equal(t, "notice", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoadConfig_BadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("poll_interval: soon\n"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
