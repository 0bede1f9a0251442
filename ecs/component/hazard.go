package component

const VolumeHazard = "hazard"

// Hazard damages players that enter its volume.
type Hazard struct {
	Damage int
}

var HazardComponent = NewComponent[Hazard]()
