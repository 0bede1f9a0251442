package levels

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed *.json
var LevelsFS embed.FS

// Level is a flat list of prefab instances.
type Level struct {
	Name     string   `json:"name"`
	Entities []Entity `json:"entities,omitempty"`
}

// Entity places one prefab. Props are component overrides merged over the
// prefab, keyed like the prefab's components.
type Entity struct {
	Type  string         `json:"type"`
	Name  string         `json:"name,omitempty"`
	X     float64        `json:"x"`
	Y     float64        `json:"y"`
	Props map[string]any `json:"props,omitempty"`
}

func LoadLevelFromFS(name string) (*Level, error) {
	data, err := fs.ReadFile(LevelsFS, cleanLevelPath(name))
	if err != nil {
		return nil, fmt.Errorf("level: read %s: %w", name, err)
	}
	return Parse(name, data)
}

// Load reads a level from disk when path names an existing file and from
// the embedded levels otherwise.
func Load(path string) (*Level, error) {
	if data, err := os.ReadFile(path); err == nil {
		return Parse(path, data)
	}
	return LoadLevelFromFS(path)
}

func Parse(name string, data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("level: unmarshal %s: %w", name, err)
	}
	if lvl.Name == "" {
		lvl.Name = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	}
	for i, ent := range lvl.Entities {
		if strings.TrimSpace(ent.Type) == "" {
			return nil, fmt.Errorf("level: %s: entity %d has no type", name, i)
		}
	}
	return &lvl, nil
}

func cleanLevelPath(name string) string {
	s := filepath.ToSlash(name)
	if after, ok := strings.CutPrefix(s, "levels/"); ok {
		s = after
	}
	if filepath.Ext(s) == "" {
		s += ".json"
	}
	return s
}
