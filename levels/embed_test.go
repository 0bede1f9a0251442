package levels

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	lvl, err := Parse("levels/cave.json", []byte(`{
		"entities": [
			{"type": "wall", "x": 1, "y": 2},
			{"type": "drone", "name": "d", "props": {"drone": {"chase_speed": 9}}}
		]
	}`))
	require.NoError(t, err)
	assert.Equal(t, "cave", lvl.Name)
	require.Len(t, lvl.Entities, 2)
	assert.Equal(t, 2.0, lvl.Entities[0].Y)
	assert.Equal(t, map[string]any{"chase_speed": 9.0}, lvl.Entities[1].Props["drone"])
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("bad.json", []byte(`{`))
	assert.Error(t, err)

	_, err = Parse("untyped.json", []byte(`{"entities": [{"x": 1}]}`))
	assert.ErrorContains(t, err, "no type")
}

func TestLoadEmbedded(t *testing.T) {
	for _, name := range []string{"jam", "jam.json", "levels/jam.json"} {
		lvl, err := Load(name)
		require.NoError(t, err, name)
		assert.Equal(t, "jam", lvl.Name)
		assert.NotEmpty(t, lvl.Entities)
	}

	_, err := Load("nope")
	assert.Error(t, err)
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiny.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"entities":[{"type":"player"}]}`), 0o644))

	lvl, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "tiny", lvl.Name)
}
