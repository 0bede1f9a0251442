package prefabs

type VectorSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type TransformComponentSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Rotation float64 `yaml:"rotation"`
}

type PhysicsBodyComponentSpec struct {
	Type          string  `yaml:"type"`
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	Radius        float64 `yaml:"radius"`
	Mass          float64 `yaml:"mass"`
	Friction      float64 `yaml:"friction"`
	Elasticity    float64 `yaml:"elasticity"`
	FixedRotation bool    `yaml:"fixed_rotation"`
	IgnoreGravity bool    `yaml:"ignore_gravity"`
}

type TriggerVolumeSpec struct {
	Name     string  `yaml:"name"`
	Shape    string  `yaml:"shape"`
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Radius   float64 `yaml:"radius"`
	OffsetX  float64 `yaml:"offset_x"`
	OffsetY  float64 `yaml:"offset_y"`
	Disabled bool    `yaml:"disabled"`
}

type TriggersComponentSpec struct {
	Volumes []TriggerVolumeSpec `yaml:"volumes"`
}

type ObstacleEffectsSpec struct {
	Sound          string `yaml:"sound"`
	Visual         string `yaml:"visual"`
	PlayOnActivate bool   `yaml:"play_on_activate"`
}

type ObstacleComponentSpec struct {
	ActivateOnPlayerProximity  bool                `yaml:"activate_on_player_proximity"`
	ActivateOnObjectProximity  bool                `yaml:"activate_on_object_proximity"`
	ActivateOnStart            bool                `yaml:"activate_on_start"`
	AutoLoop                   bool                `yaml:"auto_loop"`
	Disabled                   bool                `yaml:"disabled"`
	ReactionDelay              float64             `yaml:"reaction_delay"`
	AutoResetActivationDelay   float64             `yaml:"auto_reset_activation_delay"`
	AutoResetDeactivationDelay float64             `yaml:"auto_reset_deactivation_delay"`
	ProximityVolumes           []string            `yaml:"proximity_volumes"`
	Effects                    ObstacleEffectsSpec `yaml:"effects"`
}

type MoverComponentSpec struct {
	Direction VectorSpec `yaml:"direction"`
	Amount    float64    `yaml:"amount"`
	Speed     float64    `yaml:"speed"`
}

type LauncherComponentSpec struct {
	// Direction defaults to up when omitted. An explicit zero vector falls
	// back to the mover direction.
	Direction         *VectorSpec `yaml:"direction"`
	Strength          float64     `yaml:"strength"`
	Mode              string      `yaml:"mode"`
	Continuous        bool        `yaml:"continuous"`
	MoveTowardsTarget bool        `yaml:"move_towards_target"`
}

// DroneComponentSpec leaves zero tuning values at the stock defaults.
type DroneComponentSpec struct {
	PatrolSpeed       float64  `yaml:"patrol_speed"`
	ChaseSpeed        float64  `yaml:"chase_speed"`
	PatrolWaitTime    *float64 `yaml:"patrol_wait_time"`
	DetectionRadius   float64  `yaml:"detection_radius"`
	InteractionRadius float64  `yaml:"interaction_radius"`
	SightAngle        float64  `yaml:"sight_angle"`
	ChaseSightAngle   float64  `yaml:"chase_sight_angle"`
	LosePlayerTime    float64  `yaml:"lose_player_time"`
	DropOffHeight     float64  `yaml:"drop_off_height"`
	RotationSpeed     float64  `yaml:"rotation_speed"`
	PatrolPoints      []string `yaml:"patrol_points"`
	DropOff           string   `yaml:"drop_off"`
}

type FloatingMovementComponentSpec struct {
	MaxSpeed     float64 `yaml:"max_speed"`
	Acceleration float64 `yaml:"acceleration"`
	Deceleration float64 `yaml:"deceleration"`
	TurningBoost float64 `yaml:"turning_boost"`
}

type PlayerComponentSpec struct {
	MoveSpeed  float64 `yaml:"move_speed"`
	JumpSpeed  float64 `yaml:"jump_speed"`
	Health     int     `yaml:"health"`
	DeathDelay float64 `yaml:"death_delay"`
}

type AutopilotStepSpec struct {
	At    float64 `yaml:"at"`
	MoveX float64 `yaml:"move_x"`
	Jump  bool    `yaml:"jump"`
}

type AutopilotComponentSpec struct {
	Steps []AutopilotStepSpec `yaml:"steps"`
}

type RespawnPointComponentSpec struct {
	ID string `yaml:"id"`
}

type SafeZoneComponentSpec struct {
	Drone string `yaml:"drone"`
}

type HazardComponentSpec struct {
	Damage int `yaml:"damage"`
}

type ScriptComponentSpec struct {
	Path   string `yaml:"path"`
	Global bool   `yaml:"global"`
}

type AudioComponentSpec struct {
	Volume *float64 `yaml:"volume"`
}
