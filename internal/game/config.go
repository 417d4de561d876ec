package game

import "time"

// Window defaults.
const (
	WindowWidth  = 540
	WindowHeight = 960
)

// Road motion, per simulation tick.
const (
	RoadMoveSpeed = 15.0 // vertical scroll, px
	CarDriftSpeed = 5.0  // px at 90 degrees of rotation
	CarTurnRate   = 2.0  // degrees
	ShrinkStep    = 0.00005
	MinScaleX     = 0.3
)

// Road curvature: two noise octaves sampled from elapsed race time.
const (
	MainTurnTimeScale = 0.2
	WiggleTimeScale   = 6.0
	MainTurnDivisor   = 3.5 // amplitude = screen width / divisor
	WiggleDivisor     = 25.0
)

// Engine pitch.
const (
	EngineFrequency  = 220.0
	TurningFrequency = 180.0
)

// Race flow.
const (
	CountdownDuration = 4 * time.Second
	CountdownStep     = time.Second
	TickInterval      = time.Second / 60
)

// HighScoreKey names the single persisted high score.
const HighScoreKey = "HIGH_SCORE"

// Tuning holds the motion constants of a race. The zero value is not
// usable; start from DefaultTuning.
type Tuning struct {
	RoadMoveSpeed float64 `mapstructure:"roadMoveSpeed"`
	CarDriftSpeed float64 `mapstructure:"carDriftSpeed"`
	CarTurnRate   float64 `mapstructure:"carTurnRate"`
	ShrinkStep    float64 `mapstructure:"shrinkStep"`
	MinScaleX     float64 `mapstructure:"minScaleX"`

	MainTurnTimeScale float64 `mapstructure:"mainTurnTimeScale"`
	WiggleTimeScale   float64 `mapstructure:"wiggleTimeScale"`
	MainTurnDivisor   float64 `mapstructure:"mainTurnDivisor"`
	WiggleDivisor     float64 `mapstructure:"wiggleDivisor"`

	// CarryRoadOffset moves the car with the road's lateral delta on
	// top of its own drift.
	CarryRoadOffset bool `mapstructure:"carryRoadOffset"`

	EngineFrequency  float64 `mapstructure:"engineFrequency"`
	TurningFrequency float64 `mapstructure:"turningFrequency"`

	NoiseSeed int32 `mapstructure:"noiseSeed"`
}

func DefaultTuning() Tuning {
	return Tuning{
		RoadMoveSpeed:     RoadMoveSpeed,
		CarDriftSpeed:     CarDriftSpeed,
		CarTurnRate:       CarTurnRate,
		ShrinkStep:        ShrinkStep,
		MinScaleX:         MinScaleX,
		MainTurnTimeScale: MainTurnTimeScale,
		WiggleTimeScale:   WiggleTimeScale,
		MainTurnDivisor:   MainTurnDivisor,
		WiggleDivisor:     WiggleDivisor,
		EngineFrequency:   EngineFrequency,
		TurningFrequency:  TurningFrequency,
	}
}
