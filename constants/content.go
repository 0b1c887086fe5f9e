package constants

// Asset paths relative to the content root
const (
	SpriteBall       = "ball.png"
	SpritePlayer     = "player_green.png"
	SpriteComputer   = "player_red.png"
	SpriteBackground = "bg.png"

	SoundBounce        = "bounce.wav"
	SoundScorePlayer   = "score_player.wav"
	SoundScoreComputer = "score_computer.wav"

	FontScore = "m5x7.toml"
)

// Entity names used for sibling lookup
const (
	NameManager    = "GameManager"
	NameBackground = "Background"
	NameScore      = "Score"
	NameBall       = "Ball"
	NamePlayer     = "Player"
	NameComputer   = "Computer"
)

// TagPaddle marks entities the ball deflects off at an angle
const TagPaddle = "paddle"
