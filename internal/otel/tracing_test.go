package otel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/submittal-review/internal/common"
)

func TestInit_Disabled(t *testing.T) {
	shutdown, err := Init(context.Background(), common.TelemetryConfig{Disabled: true}, nil)
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInit_UnsupportedProtocolDegrades(t *testing.T) {
	shutdown, err := Init(context.Background(), common.TelemetryConfig{ServiceName: "test", Protocol: "carrier-pigeon"}, nil)
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSampler(t *testing.T) {
	cases := map[string]string{
		"always_on":                "AlwaysOnSampler",
		"always_off":               "AlwaysOffSampler",
		"traceidratio":             "TraceIDRatioBased{0.25}",
		"parentbased_traceidratio": "ParentBased{root:TraceIDRatioBased{0.25}",
		"":                         "ParentBased{root:AlwaysOnSampler",
	}
	for name, want := range cases {
		assert.Contains(t, Sampler(name, "0.25").Description(), want, name)
	}
}
