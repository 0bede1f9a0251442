package component

import "github.com/jakecoffman/cp"

type VolumeShape string

const (
	VolumeBox    VolumeShape = "box"
	VolumeSphere VolumeShape = "sphere"
)

// TriggerVolume is a query-only region attached to an entity. The overlap
// system reports bodies entering and leaving it.
type TriggerVolume struct {
	Name     string      `yaml:"name"`
	Shape    VolumeShape `yaml:"shape"`
	Width    float64     `yaml:"width"`
	Height   float64     `yaml:"height"`
	Radius   float64     `yaml:"radius"`
	OffsetX  float64     `yaml:"offset_x"`
	OffsetY  float64     `yaml:"offset_y"`
	Disabled bool        `yaml:"disabled"`
}

// Center returns the volume's world centre for an owner at pos.
func (v TriggerVolume) Center(pos cp.Vector) cp.Vector {
	return cp.Vector{X: pos.X + v.OffsetX, Y: pos.Y + v.OffsetY}
}

// Triggers holds every trigger volume of an entity.
type Triggers struct {
	Volumes []TriggerVolume
}

var TriggersComponent = NewComponent[Triggers]()

// Volume returns the named volume.
func (t *Triggers) Volume(name string) (*TriggerVolume, bool) {
	if t == nil {
		return nil, false
	}
	for i := range t.Volumes {
		if t.Volumes[i].Name == name {
			return &t.Volumes[i], true
		}
	}
	return nil, false
}
