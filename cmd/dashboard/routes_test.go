package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pltcm-dashboard/internal/config"
	"pltcm-dashboard/internal/service"
	genexcel "pltcm-dashboard/internal/service/generate-excel"
	"pltcm-dashboard/internal/storage"
)

type stubStorage struct{}

func (stubStorage) GetProduction(ctx context.Context) ([]storage.Coil, error) {
	end := time.Date(2019, 5, 2, 8, 0, 0, 0, time.UTC)
	return []storage.Coil{{CoilIDOut: "C1", AlloyCode: "CR4", ExitThick: 0.7, ExitWeight: 20000, EndRolling: &end}}, nil
}

func (stubStorage) GetStopTimes(ctx context.Context) ([]storage.StopTime, error) {
	return []storage.StopTime{{Plant: storage.PlantPL, Date: "2019-05-02", Duration: 12}}, nil
}

func testServer(t *testing.T, load bool) *httptest.Server {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	snapshot := service.NewSnapshotService(stubStorage{}, log)
	if load {
		require.NoError(t, snapshot.Load(context.Background()))
	}

	cfg := config.Config{AdminLogin: "admin", AdminPass: "secret", QueryTimeout: time.Second}
	srv := httptest.NewServer(routes(cfg, log, time.UTC, snapshot, genexcel.NewGenerateService(snapshot)))
	t.Cleanup(srv.Close)
	return srv
}

func TestRoutes(t *testing.T) {
	srv := testServer(t, true)

	for path, code := range map[string]int{
		"/":                                       http.StatusOK,
		"/?tab=stoptime":                          http.StatusOK,
		"/api/production/indicators":              http.StatusOK,
		"/api/production/table":                   http.StatusOK,
		"/api/production/stats?by=width":          http.StatusOK,
		"/api/production/trend?period=M":          http.StatusOK,
		"/api/stoptime/indicators":                http.StatusOK,
		"/api/stoptime/table":                     http.StatusOK,
		"/api/stoptime/events":                    http.StatusOK,
		"/api/charts/alloy":                       http.StatusOK,
		"/api/charts/delay-by-day?format=svg":     http.StatusOK,
		"/api/report/excel?start_date=2019-05-01": http.StatusOK,
		"/api/unknown":                            http.StatusNotFound,
	} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, code, resp.StatusCode, path)
	}
}

func TestRoutes_NotLoaded(t *testing.T) {
	srv := testServer(t, false)

	resp, err := http.Get(srv.URL + "/api/production/indicators")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestRoutes_AdminReload(t *testing.T) {
	srv := testServer(t, false)

	resp, err := http.Post(srv.URL+"/api/admin/reload", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/admin/reload", nil)
	require.NoError(t, err)
	req.SetBasicAuth("admin", "secret")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"200"`)

	resp, err = http.Get(srv.URL + "/api/production/indicators")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), `"coil_count":1`))
}

func TestSetupLogger_ErrorsGoToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.log")

	log := setupLogger(envProd, path)
	log.Info("routine message")
	log.With(slog.String("op", "test")).Error("query failed")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "query failed")
	assert.Contains(t, string(data), "op=test")
	assert.NotContains(t, string(data), "routine message")
}
