package entity

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/levelupjam/ecs"
	"github.com/milk9111/levelupjam/ecs/component"
	"github.com/milk9111/levelupjam/levels"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func patrolLevel() *levels.Level {
	return &levels.Level{
		Name: "test",
		Entities: []levels.Entity{
			{Type: "player", Name: "player", X: 10, Y: 20},
			{Type: "target_point", Name: "a", X: 100, Y: 0},
			{Type: "target_point", Name: "b", X: 300, Y: 0},
			{Type: "target_point", Name: "home", X: 0, Y: 0},
			{Type: "drone", Name: "drone", X: 200, Y: 0, Props: map[string]any{
				"drone": map[string]any{"patrol_points": []any{"a", "b"}, "drop_off": "home"},
			}},
			{Type: "safe_zone", Name: "zone", X: 500, Y: 0, Props: map[string]any{
				"safe_zone": map[string]any{"drone": "drone"},
			}},
		},
	}
}

func TestLoadLevelResolvesReferences(t *testing.T) {
	w := ecs.NewWorld()
	loaded, err := LoadLevelToWorld(w, patrolLevel())
	require.NoError(t, err)

	assert.Len(t, loaded.Entities, 6)
	assert.Equal(t, loaded.Named["player"], loaded.Player)

	drone := loaded.Named["drone"]
	d, ok := ecs.Get(w, drone, component.DroneComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, []ecs.Entity{loaded.Named["a"], loaded.Named["b"]}, d.PatrolPoints)
	assert.Equal(t, loaded.Named["home"], d.DropOff)

	tr, _ := ecs.Get(w, drone, component.TransformComponent.Kind())
	assert.Equal(t, cp.Vector{X: 200}, tr.Position())

	sz, _ := ecs.Get(w, loaded.Named["zone"], component.SafeZoneComponent.Kind())
	assert.Equal(t, drone, sz.Drone)

	p, _ := ecs.Get(w, loaded.Player, component.PlayerComponent.Kind())
	assert.Equal(t, cp.Vector{X: 10, Y: 20}, p.Home)

	n, _ := ecs.Get(w, loaded.Named["a"], component.NameComponent.Kind())
	assert.Equal(t, "a", n.Value)
}

func TestLoadLevelUnknownReference(t *testing.T) {
	lvl := patrolLevel()
	lvl.Entities[4].Props["drone"] = map[string]any{"patrol_points": []any{"a", "nowhere"}}

	w := ecs.NewWorld()
	_, err := LoadLevelToWorld(w, lvl)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nowhere")
	assert.Empty(t, ecs.Entities(w))
}

func TestLoadLevelUnknownSafeZoneDrone(t *testing.T) {
	lvl := patrolLevel()
	lvl.Entities[5].Props["safe_zone"] = map[string]any{"drone": "a"}

	w := ecs.NewWorld()
	_, err := LoadLevelToWorld(w, lvl)
	require.Error(t, err)
	assert.Empty(t, ecs.Entities(w))
}

func TestLoadLevelDuplicateName(t *testing.T) {
	lvl := patrolLevel()
	lvl.Entities[2].Name = "a"

	w := ecs.NewWorld()
	_, err := LoadLevelToWorld(w, lvl)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
	assert.Empty(t, ecs.Entities(w))
}

func TestLoadLevelUnknownType(t *testing.T) {
	w := ecs.NewWorld()
	_, err := LoadLevelToWorld(w, &levels.Level{Name: "x", Entities: []levels.Entity{
		{Type: "wall"},
		{Type: "spaceship"},
	}})
	require.Error(t, err)
	assert.Empty(t, ecs.Entities(w))

	_, err = LoadLevelToWorld(nil, &levels.Level{})
	assert.Error(t, err)
}

func TestLoadEmbeddedJamLevel(t *testing.T) {
	lvl, err := levels.LoadLevelFromFS("jam")
	require.NoError(t, err)

	w := ecs.NewWorld()
	loaded, err := LoadLevelToWorld(w, lvl)
	require.NoError(t, err)
	assert.True(t, loaded.Player.Valid())

	for _, name := range []string{"drone", "shelter", "alarm", "exit_switch", "exit_door", "director"} {
		assert.Contains(t, loaded.Named, name)
	}
	d, _ := ecs.Get(w, loaded.Named["drone"], component.DroneComponent.Kind())
	assert.Len(t, d.PatrolPoints, 2)
	assert.Equal(t, loaded.Named["drop_off"], d.DropOff)

	door, _ := ecs.Get(w, loaded.Named["exit_door"], component.ObstacleComponent.Kind())
	assert.False(t, door.ActivateOnPlayerProximity)
	assert.True(t, ecs.Has(w, loaded.Named["exit_door"], component.MoverComponent.Kind()))
}
