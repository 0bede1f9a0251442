package component

// Input stores per-frame input state for an entity.
type Input struct {
	MoveX       float64
	Jump        bool
	JumpPressed bool
}

var InputComponent = NewComponent[Input]()

// AutopilotStep sets the input from At seconds onward.
type AutopilotStep struct {
	At    float64 `json:"at" yaml:"at"`
	MoveX float64 `json:"move_x" yaml:"move_x"`
	Jump  bool    `json:"jump" yaml:"jump"`
}

// Autopilot replays a scripted input timeline in place of a device.
type Autopilot struct {
	Steps []AutopilotStep
	Next  int
	Start float64
	Began bool
}

var AutopilotComponent = NewComponent[Autopilot]()
