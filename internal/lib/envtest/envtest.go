// Package envtest holds assertions for tests that depend on
// bootstrapped environment.
package envtest

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GintGld/chat-envboot/internal/models"
)

// TestingT is a subset of testing.TB used by assertions.
type TestingT interface {
	require.TestingT
	Helper()
}

// Lookuper is a read side of environment store.
type Lookuper interface {
	Lookup(key string) (string, bool)
}

// WriteEnvFile writes lines into dir/.env and returns its path.
func WriteEnvFile(t TestingT, dir string, lines ...string) string {
	t.Helper()

	path := filepath.Join(dir, ".env")
	content := strings.Join(lines, "\n") + "\n"

	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

// AssertDefined fails the test if key has no value in store.
func AssertDefined(t TestingT, store Lookuper, key string) bool {
	t.Helper()

	_, ok := store.Lookup(key)
	return assert.Truef(t, ok, "%s is not defined", key)
}

// AssertRootRendered fails the test if html has no root marker element.
func AssertRootRendered(t TestingT, html []byte) bool {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if !assert.NoError(t, err, "rendered page is not valid html") {
		return false
	}

	sel := doc.Find(models.RootSelector)
	return assert.Equalf(t, 1, sel.Length(), "expected exactly one %s element", models.RootSelector)
}
