package telemetry_test

import (
	"net/http"
	"net/http/httptest"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewProfiler_Disabled(t *testing.T) {
	profiler, err := telemetry.NewProfiler(config.TelemetryConfig{
		ProfilingEnabled:       false,
		ProfilingServerAddress: "http://localhost:4040",
		ServiceName:            "storefront-test",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NotNil(t, profiler)

	assert.False(t, profiler.IsEnabled())
	assert.NoError(t, profiler.Stop())
}

func TestNewProfiler_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.TelemetryConfig
		wantErr string
	}{
		{
			name:    "missing server address",
			cfg:     config.TelemetryConfig{ProfilingEnabled: true, ServiceName: "storefront-test"},
			wantErr: "server address is required",
		},
		{
			name:    "missing application name",
			cfg:     config.TelemetryConfig{ProfilingEnabled: true, ProfilingServerAddress: "http://localhost:4040"},
			wantErr: "application name is required",
		},
		{
			name: "unknown profile type",
			cfg: config.TelemetryConfig{
				ProfilingEnabled:       true,
				ProfilingServerAddress: "http://localhost:4040",
				ServiceName:            "storefront-test",
				ProfilingTypes:         []string{"cpu", "heap"},
			},
			wantErr: `unknown profile type "heap"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profiler, err := telemetry.NewProfiler(tt.cfg, zaptest.NewLogger(t))
			require.Error(t, err)
			assert.Nil(t, profiler)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewProfiler_PushesToServer(t *testing.T) {
	var uploads atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uploads.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	previous := runtime.SetMutexProfileFraction(-1)
	t.Cleanup(func() { runtime.SetMutexProfileFraction(previous) })

	profiler, err := telemetry.NewProfiler(config.TelemetryConfig{
		ProfilingEnabled:       true,
		ProfilingServerAddress: server.URL,
		ServiceName:            "storefront-test",
		ProfilingTypes:         []string{"cpu", "inuse_space", "mutex_count"},
		ProfilingMutexFraction: 3,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.True(t, profiler.IsEnabled())
	assert.Equal(t, 3, runtime.SetMutexProfileFraction(-1))

	require.NoError(t, profiler.Stop())
	assert.Positive(t, uploads.Load(), "stop flushes pending profiles")
	assert.NoError(t, profiler.Stop(), "second stop is a no-op")
}

func TestProfiler_StopConcurrent(t *testing.T) {
	profiler, err := telemetry.NewProfiler(config.TelemetryConfig{}, zaptest.NewLogger(t))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, profiler.Stop())
		}()
	}
	wg.Wait()
}
