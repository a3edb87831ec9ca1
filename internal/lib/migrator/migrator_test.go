package migrator_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GintGld/chat-envboot/internal/lib/migrator"
)

func TestUpIsRepeatable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.db")

	applied, err := migrator.Up(path, "")
	require.NoError(t, err)
	require.True(t, applied)

	applied, err = migrator.Up(path, "")
	require.NoError(t, err)
	require.False(t, applied)

	require.NoError(t, migrator.Down(path, ""))
}
