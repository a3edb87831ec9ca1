package app_test

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/gavv/httpexpect/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GintGld/chat-envboot/internal/app"
	"github.com/GintGld/chat-envboot/internal/config"
	"github.com/GintGld/chat-envboot/internal/lib/envtest"
	"github.com/GintGld/chat-envboot/internal/lib/logger/handlers/slogdiscard"
	"github.com/GintGld/chat-envboot/internal/models"
	"github.com/GintGld/chat-envboot/internal/storage/env"
)

func newConfig(dir string, withStorage bool) *config.Config {
	cfg := &config.Config{
		Env:      "local",
		Required: []string{models.BackendURLKey, models.WebsocketURLKey},
		EnvFile: config.EnvFile{
			BaseDir: dir,
			Name:    ".env",
			Prefix:  models.DefaultPrefix,
		},
		HTTPServer: config.HTTPServer{
			Address:     "localhost:0",
			Timeout:     time.Second,
			IdleTimeout: time.Second,
		},
		Cache: config.Cache{
			Size: 4,
			TTL:  time.Minute,
		},
	}
	if withStorage {
		cfg.StoragePath = filepath.Join(dir, "envboot.db")
	}
	return cfg
}

func newExpect(t *testing.T, a *app.App) *httpexpect.Expect {
	return httpexpect.WithConfig(httpexpect.Config{
		BaseURL:  "http://example.com",
		Reporter: httpexpect.NewAssertReporter(t),
		Client: &http.Client{
			Transport: httpexpect.NewFastBinder(a.Router.Handler().Handler()),
		},
	})
}

func TestBootstrapAndServe(t *testing.T) {
	dir := t.TempDir()
	envtest.WriteEnvFile(t, dir,
		"REACT_APP_BACKEND_SERVICE_URL=http://localhost:8080",
		"REACT_APP_WEBSOCKET_SERVICE_URL=ws://localhost:8081",
		"OTHER_KEY=ignored",
	)

	store := env.NewMap(nil)
	a := app.New(slogdiscard.NewDiscardLogger(), newConfig(dir, true), store, prometheus.NewRegistry())
	t.Cleanup(a.Stop)

	report := a.BootstrapEnv(context.Background())
	require.True(t, report.Found)
	assert.NotEqual(t, models.ErrRunID, report.ID)

	envtest.AssertDefined(t, store, models.BackendURLKey)
	envtest.AssertDefined(t, store, models.WebsocketURLKey)

	res, err := a.SmokeCheck()
	require.NoError(t, err)
	assert.True(t, res.OK())

	e := newExpect(t, a)

	page := e.GET("/").
		Expect().
		Status(http.StatusOK).
		ContentType("text/html").
		Body().Raw()
	envtest.AssertRootRendered(t, []byte(page))

	obj := e.GET("/env").
		Expect().
		Status(http.StatusOK).
		JSON().Object()
	obj.Path("$.env").Object().Keys().ContainsOnly(models.BackendURLKey, models.WebsocketURLKey)
	obj.Path("$.env." + models.BackendURLKey).String().IsEqual("http://localhost:8080")

	health := e.GET("/health").
		Expect().
		Status(http.StatusOK).
		JSON().Object()
	health.Value("missing").Array().IsEmpty()
	health.Value("rendered").Boolean().IsTrue()

	runs := e.GET("/runs").
		WithQuery("limit", 10).
		Expect().
		Status(http.StatusOK).
		JSON().Object()
	runs.Value("runs").Array().Length().IsEqual(1)

	run := e.GET("/runs/{id}", report.ID).
		Expect().
		Status(http.StatusOK).
		JSON().Object()
	run.Path("$.run.propagated").Array().ContainsOnly(models.BackendURLKey, models.WebsocketURLKey)
	run.Path("$.run.skipped").Array().ContainsOnly("OTHER_KEY")

	e.GET("/runs/{id}", report.ID+100).
		Expect().
		Status(http.StatusNotFound)

	e.GET("/runs/abc").
		Expect().
		Status(http.StatusBadRequest)

	e.GET("/metrics").
		Expect().
		Status(http.StatusOK).
		Body().Contains("envboot_bootstrap_propagated_keys_total 2")
}

func TestMissingEnvFileReportsUnhealthy(t *testing.T) {
	dir := t.TempDir()

	store := env.NewMap(map[string]string{"REACT_APP_BACKEND_SERVICE_URI": "http://localhost:8080"})
	a := app.New(slogdiscard.NewDiscardLogger(), newConfig(dir, false), store, prometheus.NewRegistry())
	t.Cleanup(a.Stop)

	report := a.BootstrapEnv(context.Background())
	assert.False(t, report.Found)
	assert.Equal(t, models.ErrRunID, report.ID)

	res, err := a.SmokeCheck()
	require.NoError(t, err)
	assert.False(t, res.OK())

	e := newExpect(t, a)

	health := e.GET("/health").
		Expect().
		Status(http.StatusServiceUnavailable).
		JSON().Object()
	health.Value("missing").Array().ContainsOnly(models.BackendURLKey, models.WebsocketURLKey)
	health.Path("$.suggestions." + models.BackendURLKey).Array().ContainsOnly("REACT_APP_BACKEND_SERVICE_URI")

	e.GET("/runs").
		Expect().
		Status(http.StatusNotFound).
		JSON().Object().Value("error").String().IsEqual("history disabled")
}
