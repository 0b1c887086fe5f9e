package constants

// Field
const (
	Title        = "Pong"
	ScreenWidth  = 320
	ScreenHeight = 180
)

// Ball
const (
	BallStartSpeed     = 2.0
	BallSpeedIncrement = 0.1

	// BallMaxAngle bounds the deflection off a paddle, in degrees
	BallMaxAngle = 60.0

	// BounceAngleInterval quantizes deflection angles, in degrees
	BounceAngleInterval = 15
)

// Paddles
const (
	PaddleSpeed = 2.0

	PlayerStartX   = 20
	PlayerStartY   = 90
	ComputerStartX = 300
	ComputerStartY = 90
)

// Computer opponent
const (
	// Think delay range in seconds, longer while the ball is far away
	ThinkTimerMax = 0.5
	ThinkTimerMin = 0.2

	// AimErrorBase is the defense position error in pixels before scaling
	AimErrorBase = 10.0

	// Targets closer than this are not worth moving for
	MoveJitterThreshold = 4

	// MoveDeadband is the distance at which a moving paddle counts as arrived
	MoveDeadband = 2

	// Idle target band, drifting toward the middle
	IdleTargetMinY = 80
	IdleTargetMaxY = 100
)

// Match flow
const (
	// ServeDelay is the pause before each serve, in seconds
	ServeDelay = 3.0
)

// Score display
const (
	ScoreY        = 8
	ScoreSpacing  = 32
	ScoreFontSize = 32
)
