package config

import (
	"testing"

	"github.com/akeren/waitlist-foundry/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOTLPEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		hostport string
		path     string
		insecure bool
		wantErr  bool
	}{
		{name: "http default path", raw: "http://collector:4318", hostport: "collector:4318", path: "/v1/traces", insecure: true},
		{name: "https custom path", raw: " https://otel.example.com/ingest/traces ", hostport: "otel.example.com", path: "/ingest/traces"},
		{name: "bare host port", raw: "localhost:4318", hostport: "localhost:4318", path: "/v1/traces", insecure: true},
		{name: "empty", raw: "  ", wantErr: true},
		{name: "grpc scheme", raw: "grpc://collector:4317", wantErr: true},
		{name: "path without scheme", raw: "collector:4318/v1/traces", wantErr: true},
		{name: "missing host", raw: "http:///v1/traces", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hostport, path, insecure, err := parseOTLPEndpoint(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.hostport, hostport)
			assert.Equal(t, tt.path, path)
			assert.Equal(t, tt.insecure, insecure)
		})
	}
}

func TestSetupTracing_DisabledByDefault(t *testing.T) {
	t.Setenv("OTEL_TRACES_ENABLED", "")

	shutdown, err := SetupTracing(log.NewNopLogger())

	require.NoError(t, err)
	assert.Nil(t, shutdown)
}

func TestSetupTracing_RejectsBadEndpoint(t *testing.T) {
	t.Setenv("OTEL_TRACES_ENABLED", "true")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "grpc://collector:4317")

	shutdown, err := SetupTracing(log.NewNopLogger())

	assert.Error(t, err)
	assert.Nil(t, shutdown)
}
