package config_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/urfave/cli/v3"

	"github.com/secmon-lab/oprisk/pkg/cli/config"
	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"github.com/secmon-lab/oprisk/pkg/service/api"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "oprisk.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o600)).Required()
	return path
}

func TestLoadFile(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := writeConfig(t, `
[api]
base_url = "https://risk.example.com/api/v1"

[api.headers]
X-Tenant = "acme"
`)
		file, err := config.LoadFile(path)
		gt.NoError(t, err).Required()
		gt.Value(t, file.API.BaseURL).Equal("https://risk.example.com/api/v1")
		gt.Value(t, file.API.Headers).Equal(map[string]string{"X-Tenant": "acme"})
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
		gt.Error(t, err).Is(config.ErrConfigNotFound)
	})

	t.Run("broken toml", func(t *testing.T) {
		path := writeConfig(t, `[api`)
		_, err := config.LoadFile(path)
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})
}

func TestAPIBaseURLPrecedence(t *testing.T) {
	filePath := writeConfig(t, `
[api]
base_url = "https://file.example.com/api/v1"
`)

	testCases := []struct {
		name       string
		flag       string
		configPath string
		want       string
	}{
		{name: "default", want: api.DefaultBaseURL},
		{name: "file wins over default", configPath: filePath, want: "https://file.example.com/api/v1"},
		{name: "flag wins over file", flag: "https://flag.example.com/v1", configPath: filePath, want: "https://flag.example.com/v1"},
		{name: "flag alone", flag: "http://localhost:8081/api/v1/", want: "http://localhost:8081/api/v1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client, err := config.NewAPIForTest(tc.flag, tc.configPath).Configure()
			gt.NoError(t, err).Required()
			gt.Value(t, client.BaseURL()).Equal(tc.want)
		})
	}
}

func TestAPIInvalidBaseURL(t *testing.T) {
	_, err := config.NewAPIForTest("not a url", "").Configure()
	gt.Error(t, err).Is(api.ErrInvalidBaseURL)
}

func TestAPIHeadersFromFile(t *testing.T) {
	var gotTenant string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTenant = r.Header.Get("X-Tenant")
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	path := writeConfig(t, `
[api]
base_url = "`+srv.URL+`"

[api.headers]
X-Tenant = "acme"
`)

	store, err := config.NewAPIForTest("", path).NewStore()
	gt.NoError(t, err).Required()
	gt.NoError(t, store.FetchRisks(context.Background(), model.RiskQuery{}))
	gt.Value(t, gotTenant).Equal("acme")
}

func TestAPITimeoutFlag(t *testing.T) {
	parse := func(t *testing.T, args ...string) *config.API {
		t.Helper()
		var cfg config.API
		cmd := &cli.Command{
			Name:   "oprisk",
			Flags:  cfg.Flags(),
			Action: func(ctx context.Context, c *cli.Command) error { return nil },
		}
		gt.NoError(t, cmd.Run(context.Background(), append([]string{"oprisk"}, args...))).Required()
		return &cfg
	}

	t.Run("no timeout unless set", func(t *testing.T) {
		gt.Value(t, parse(t).TimeoutForTest()).Equal(time.Duration(0))
	})

	t.Run("opt in", func(t *testing.T) {
		gt.Value(t, parse(t, "--api-timeout", "2s").TimeoutForTest()).Equal(2 * time.Second)
	})
}
