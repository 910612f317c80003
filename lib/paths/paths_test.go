package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayout(t *testing.T) {
	dataDir := t.TempDir()
	p := New(dataDir)

	t.Run("Named", func(t *testing.T) {
		got, err := p.Layout("cache")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dataDir, "layouts", "cache"), got)
	})

	t.Run("Absolute", func(t *testing.T) {
		got, err := p.Layout("/srv/oci/../oci")
		require.NoError(t, err)
		assert.Equal(t, "/srv/oci", got)
	})

	t.Run("EscapeIsContained", func(t *testing.T) {
		got, err := p.Layout("../../etc")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dataDir, "layouts", "etc"), got)
	})
}

func TestSnapshot(t *testing.T) {
	p := New("/var/lib/imagetree")
	assert.Equal(t, "/var/lib/imagetree/images.json", p.Snapshot())
	assert.Equal(t, "/var/lib/imagetree", p.DataDir())
}
