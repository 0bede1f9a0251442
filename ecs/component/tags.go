package component

// Name is the level-unique identifier used to resolve references between
// entities at load time.
type Name struct {
	Value string
}

var NameComponent = NewComponent[Name]()

// TargetPoint marks a waypoint (patrol points, drop-off points).
type TargetPoint struct{}

var TargetPointComponent = NewComponent[TargetPoint]()

// Wall marks static level geometry.
type Wall struct{}

var WallComponent = NewComponent[Wall]()

// Crate marks a loose physics prop.
type Crate struct{}

var CrateComponent = NewComponent[Crate]()

// Prefab remembers which prefab an entity was built from so it can be
// rebuilt (respawn, hot reload).
type Prefab struct {
	Name string
}

var PrefabComponent = NewComponent[Prefab]()
