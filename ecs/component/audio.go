package component

// Sound is the subset of an ebiten audio player the effects system drives.
type Sound interface {
	Rewind() error
	Play()
	SetVolume(volume float64)
}

// Audio caches the sound players an entity has triggered, by clip name.
type Audio struct {
	Volume  float64
	Players map[string]Sound
}

var AudioComponent = NewComponent[Audio]()
