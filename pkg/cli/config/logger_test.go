package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/secmon-lab/oprisk/pkg/cli/config"
	"github.com/secmon-lab/oprisk/pkg/utils/logging"
)

func TestLoggerConfigure(t *testing.T) {
	prev := logging.Default()
	t.Cleanup(func() { logging.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "oprisk.log")
	closer, err := config.NewLoggerForTest("debug", "json", path).Configure()
	gt.NoError(t, err).Required()

	type credential struct {
		Token string `masq:"secret"`
	}
	logging.Default().Debug("hello", "cred", credential{Token: "s3cr3t"})
	closer()

	data, err := os.ReadFile(path)
	gt.NoError(t, err).Required()
	gt.String(t, string(data)).NotContains("s3cr3t")

	var record map[string]any
	line := strings.TrimSpace(string(data))
	gt.NoError(t, json.Unmarshal([]byte(line), &record)).Required()
	gt.Value(t, record["msg"]).Equal("hello")
	gt.Value(t, record["level"]).Equal("DEBUG")
}

func TestLoggerConfigureInvalid(t *testing.T) {
	t.Run("level", func(t *testing.T) {
		_, err := config.NewLoggerForTest("verbose", "json", "stderr").Configure()
		gt.Error(t, err).Is(config.ErrInvalidLogLevel)
	})

	t.Run("format", func(t *testing.T) {
		_, err := config.NewLoggerForTest("info", "xml", "stderr").Configure()
		gt.Error(t, err).Is(config.ErrInvalidLogFormat)
	})
}
