package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.WriteTimeout)
	assert.Equal(t, "caseworks", cfg.ServiceName)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, int64(1*1024*1024), cfg.MaxRequestBodyBytes)
	assert.Equal(t, float64(5), cfg.AutosaveRatePerSec)
	assert.Equal(t, 30, cfg.AutosaveBurst)
	assert.NotEmpty(t, cfg.DatabaseURL)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CASEWORKS_PORT", "9090")
	t.Setenv("CASEWORKS_READ_TIMEOUT", "15s")
	t.Setenv("DATABASE_URL", "postgres://user:pass@db:5432/caseworks")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "otel-collector:4318")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "true")
	t.Setenv("CASEWORKS_LOG_LEVEL", "debug")
	t.Setenv("CASEWORKS_AUTOSAVE_RATE", "2.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 15*time.Second, cfg.ReadTimeout)
	assert.Equal(t, "postgres://user:pass@db:5432/caseworks", cfg.DatabaseURL)
	assert.Equal(t, "otel-collector:4318", cfg.OTELEndpoint)
	assert.True(t, cfg.OTELInsecure)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 2.5, cfg.AutosaveRatePerSec)
}

func TestLoadMalformedValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("CASEWORKS_PORT", "not-a-number")
	t.Setenv("CASEWORKS_READ_TIMEOUT", "soon")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "yep")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.ReadTimeout)
	assert.False(t, cfg.OTELInsecure)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Port:                8080,
		DatabaseURL:         "postgres://localhost/caseworks",
		MaxRequestBodyBytes: 1024,
		AutosaveRatePerSec:  5,
		AutosaveBurst:       30,
	}
	require.NoError(t, valid.Validate())

	noDB := valid
	noDB.DatabaseURL = ""
	assert.Error(t, noDB.Validate())

	badPort := valid
	badPort.Port = 70000
	assert.Error(t, badPort.Validate())

	zeroBody := valid
	zeroBody.MaxRequestBodyBytes = 0
	assert.Error(t, zeroBody.Validate())

	zeroBurst := valid
	zeroBurst.AutosaveBurst = 0
	assert.Error(t, zeroBurst.Validate())
}
