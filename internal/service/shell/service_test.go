package shell_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GintGld/chat-envboot/internal/lib/envtest"
	"github.com/GintGld/chat-envboot/internal/lib/logger/handlers/slogdiscard"
	"github.com/GintGld/chat-envboot/internal/models"
	"github.com/GintGld/chat-envboot/internal/service"
	"github.com/GintGld/chat-envboot/internal/service/shell"
	"github.com/GintGld/chat-envboot/internal/storage/env"
)

func newShell(store shell.Store) *shell.Shell {
	return shell.New(slogdiscard.NewDiscardLogger(), store, models.DefaultPrefix, 4, time.Minute)
}

func TestRenderHasRootMarker(t *testing.T) {
	s := newShell(env.NewMap(nil))

	page, err := s.Render()
	require.NoError(t, err)

	envtest.AssertRootRendered(t, page)
	require.NoError(t, s.AssertRootRendered())
}

func TestRenderExposesPrefixedKeysOnly(t *testing.T) {
	store := env.NewMap(map[string]string{
		models.BackendURLKey: "http://localhost:8080",
		"SECRET":             "do-not-leak",
	})
	s := newShell(store)

	page, err := s.Render()
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	require.NoError(t, err)

	script := doc.Find("head script").Text()
	assert.Contains(t, script, models.BackendURLKey)
	assert.Contains(t, script, "localhost:8080")
	assert.NotContains(t, string(page), "do-not-leak")

	assert.Equal(t, map[string]string{models.BackendURLKey: "http://localhost:8080"}, s.Env())
}

func TestRenderFollowsStoreChanges(t *testing.T) {
	store := env.NewMap(nil)
	s := newShell(store)

	before, err := s.Render()
	require.NoError(t, err)

	require.NoError(t, store.Set(models.WebsocketURLKey, "ws://localhost:8081"))

	after, err := s.Render()
	require.NoError(t, err)

	assert.NotEqual(t, string(before), string(after))
	assert.Contains(t, string(after), models.WebsocketURLKey)
}

func TestFindRoot(t *testing.T) {
	require.NoError(t, shell.FindRoot([]byte(`<html><body><main data-testid="app-root"></main></body></html>`)))

	err := shell.FindRoot([]byte(`<html><body><div id="root"></div></body></html>`))
	require.ErrorIs(t, err, service.ErrRootNotRendered)

	err = shell.FindRoot([]byte(`<div data-testid="app-root"></div><div data-testid="app-root"></div>`))
	require.ErrorIs(t, err, service.ErrRootNotRendered)
}

func TestRenderReturnsCopy(t *testing.T) {
	s := newShell(env.NewMap(nil))

	first, err := s.Render()
	require.NoError(t, err)
	for i := range first {
		first[i] = 'x'
	}

	second, err := s.Render()
	require.NoError(t, err)
	envtest.AssertRootRendered(t, second)
	require.NoError(t, s.AssertRootRendered())
}
