package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), "muxd.yaml")
	require.NoError(t, os.WriteFile(fn, []byte(content), 0o600))
	return fn
}

func Test_loadFile(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		c := Config{}
		err := loadFile(filepath.Join(t.TempDir(), "absent.yaml"), &c)
		assert.NoError(t, err)
		assert.Equal(t, Config{}, c)
	})
	t.Run("empty file", func(t *testing.T) {
		c := Config{}
		err := loadFile(writeConfig(t, ""), &c)
		assert.NoError(t, err)
		assert.Equal(t, Config{}, c)
	})
	t.Run("all fields", func(t *testing.T) {
		dir := t.TempDir()
		c := Config{}
		err := loadFile(writeConfig(t,
			"socket-dir: "+dir+"/\n"+
				"default-slice: work.slice\n"+
				"pane-scopes: false\n",
		), &c)
		require.NoError(t, err)
		assert.Equal(t, dir+"/", c.SocketDir)
		assert.Equal(t, "work.slice", c.DefaultSlice)
		require.NotNil(t, c.PaneScopes)
		assert.False(t, *c.PaneScopes)
	})
	t.Run("unknown key", func(t *testing.T) {
		c := Config{}
		err := loadFile(writeConfig(t, "socket-dri: /tmp/\n"), &c)
		assert.ErrorContains(t, err, "socket-dri")
	})
	t.Run("bad slice name", func(t *testing.T) {
		c := Config{}
		err := loadFile(writeConfig(t, "default-slice: work\n"), &c)
		assert.ErrorContains(t, err, "endswith")
	})
}

func TestDefaults(t *testing.T) {
	// accessors must work before Initialize runs
	require.Nil(t, data)
	assert.Equal(t, "", SocketDir())
	assert.Equal(t, "app-muxd.slice", DefaultSlice())
	assert.True(t, PaneScopes())
}
