package config

import "time"

// NewAPIForTest creates an API config for testing purposes
func NewAPIForTest(baseURL, configPath string) *API {
	return &API{
		baseURL:    baseURL,
		configPath: configPath,
		timeout:    5 * time.Second,
	}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}

// NewSentryForTest creates a Sentry config for testing purposes
func NewSentryForTest(dsn, env string) *Sentry {
	return &Sentry{
		dsn: dsn,
		env: env,
	}
}

// TimeoutForTest returns the configured API request timeout
func (x *API) TimeoutForTest() time.Duration {
	return x.timeout
}
