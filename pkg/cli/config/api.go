package config

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/secmon-lab/oprisk/pkg/service/api"
	"github.com/secmon-lab/oprisk/pkg/usecase"
	"github.com/secmon-lab/oprisk/pkg/utils/logging"
)

// File is the layout of the TOML configuration file.
//
//	[api]
//	base_url = "https://example.com/api/v1"
//	[api.headers]
//	X-Tenant = "acme"
type File struct {
	API FileAPI `toml:"api"`
}

type FileAPI struct {
	BaseURL string            `toml:"base_url"`
	Headers map[string]string `toml:"headers"`
}

// LoadFile reads and parses a TOML configuration file.
func LoadFile(path string) (*File, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, err.Error(), goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	var file File
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, err.Error(), goerr.V(ConfigPathKey, path))
	}
	return &file, nil
}

// API holds the settings of the remote risk API.
type API struct {
	baseURL    string
	configPath string
	timeout    time.Duration
}

func (x *API) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "api-base-url",
			Usage:       "Base URL of the risk API (default: " + api.DefaultBaseURL + ")",
			Category:    "API",
			Sources:     cli.EnvVars("OPRISK_API_BASE_URL"),
			Destination: &x.baseURL,
		},
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to TOML configuration file",
			Category:    "API",
			Sources:     cli.EnvVars("OPRISK_CONFIG"),
			Destination: &x.configPath,
		},
		&cli.DurationFlag{
			Name:        "api-timeout",
			Usage:       "Timeout of a single API request (default: no timeout)",
			Category:    "API",
			Sources:     cli.EnvVars("OPRISK_API_TIMEOUT"),
			Destination: &x.timeout,
		},
	}
}

func (x API) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("base_url", x.baseURL),
		slog.String("config", x.configPath),
		slog.Duration("timeout", x.timeout),
	)
}

// Configure creates the API client. The base URL is taken from the flag,
// then the config file, then api.DefaultBaseURL.
func (x *API) Configure() (*api.Client, error) {
	var file File
	if x.configPath != "" {
		loaded, err := LoadFile(x.configPath)
		if err != nil {
			return nil, err
		}
		file = *loaded
	}

	baseURL := api.DefaultBaseURL
	switch {
	case x.baseURL != "":
		baseURL = x.baseURL
	case file.API.BaseURL != "":
		baseURL = file.API.BaseURL
	}

	var opts []api.Option
	if x.timeout > 0 {
		opts = append(opts, api.WithHTTPClient(&http.Client{Timeout: x.timeout}))
	}
	for key, value := range file.API.Headers {
		opts = append(opts, api.WithHeader(key, value))
	}

	client, err := api.New(baseURL, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create API client", goerr.V(BaseURLKey, baseURL))
	}

	logging.Default().Debug("API client configured", "base_url", client.BaseURL())
	return client, nil
}

// NewStore creates the API client and a store backed by it.
func (x *API) NewStore(opts ...usecase.Option) (*usecase.Store, error) {
	client, err := x.Configure()
	if err != nil {
		return nil, err
	}
	return usecase.New(api.NewRisksAPI(client), api.NewOpportunitiesAPI(client), opts...), nil
}
