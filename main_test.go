package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakhrymubarak/weather-locator/internal/config"
	"github.com/fakhrymubarak/weather-locator/internal/handler"
	"github.com/fakhrymubarak/weather-locator/internal/model"
	"github.com/fakhrymubarak/weather-locator/internal/preference"
	"github.com/fakhrymubarak/weather-locator/internal/service"
)

func TestNewServer(t *testing.T) {
	srv := newServer(http.NotFoundHandler())

	assert.Equal(t, ":8080", srv.Addr)
	assert.Equal(t, 15*time.Second, srv.ReadHeaderTimeout)
	assert.Equal(t, 15*time.Second, srv.ReadTimeout)
	assert.Equal(t, 10*time.Second, srv.WriteTimeout)
	assert.Equal(t, 30*time.Second, srv.IdleTimeout)
	assert.NotNil(t, srv.ErrorLog)
}

func TestServerStartup(t *testing.T) {
	prefs, closer := preference.Open(context.Background())
	defer closer.Close()
	// config_test.yaml selects the in-memory backend
	assert.IsType(t, &preference.MemoryStore{}, prefs)

	svc := service.NewWeatherService(service.Deps{Prefs: prefs})
	server := httptest.NewServer(newServer(handler.NewRouter(handler.NewWeatherHandler(svc))).Handler)
	defer server.Close()

	resp, err := http.Get(server.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body model.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "pong", body.Message)
}

func TestEnvironmentVariables(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	assert.Equal(t, "9090", config.GetServerPort())
	assert.Equal(t, ":9090", newServer(http.NotFoundHandler()).Addr)
}

func BenchmarkRouterSetup(b *testing.B) {
	h := handler.NewWeatherHandler(service.NewWeatherService(service.Deps{Prefs: preference.NewMemoryStore()}))
	for i := 0; i < b.N; i++ {
		_ = handler.NewRouter(h)
	}
}
