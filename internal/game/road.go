package game

import "math"

// Steering is the player's input for one tick.
type Steering struct {
	Left, Right bool
}

func (s Steering) Turning() bool { return s.Left || s.Right }

// RoadState is the curve and shrink state of the road during one race.
type RoadState struct {
	TotalElapsed  float64 // seconds
	LateralOffset float64
	ScaleX        float64
	LastOffset    float64
}

// CarState is the player's car. Rotation accumulates without wrapping.
type CarState struct {
	X            float64 // lateral offset from screen centre
	Rotation     float64 // degrees
	TurningLeft  bool
	TurningRight bool
}

// Frame is everything a renderer needs after one tick.
type Frame struct {
	RoadOffset   float64
	RoadDeltaX   float64
	BumperLeftX  float64
	BumperRightX float64
	ShrinkInset  float64
	ScaleX       float64

	CarX        float64
	CarRotation float64
	UpsideDown  bool

	VerticalMove float64
	StartLineY   float64
	LineY        []float64 // per lane line, translation from its layout slot
	Obstacles    []RectF

	ScoreMs   int64
	Collision bool
	GameOver  bool
}

// RoadSimulator advances one race tick by tick. It is not safe for
// concurrent use; the frame driver owns it.
type RoadSimulator struct {
	geo    Geometry
	tuning Tuning
	noise  NoiseField

	road RoadState
	car  CarState

	lineY      []float64
	startLineY float64
	obstacles  []RectF // relative: X centred on the road centre line
	screenW    float64 // width of the last tick

	scoreMs  int64
	gameOver bool
	last     Frame
}

func NewRoadSimulator(geo Geometry, tuning Tuning) *RoadSimulator {
	s := &RoadSimulator{
		geo:        geo,
		tuning:     tuning,
		noise:      NoiseField{Seed: tuning.NoiseSeed},
		road:       RoadState{ScaleX: 1},
		lineY:      make([]float64, geo.LineCount),
		startLineY: geo.StartLineY,
		screenW:    geo.ScreenWidth,
	}
	for _, o := range geo.Obstacles {
		s.obstacles = append(s.obstacles, RectF{X0: o.X - o.W/2, Y0: o.Y, X1: o.X + o.W/2, Y1: o.Y + o.H})
	}
	s.last = s.frame()
	return s
}

func (s *RoadSimulator) Road() RoadState { return s.road }
func (s *RoadSimulator) Car() CarState   { return s.car }
func (s *RoadSimulator) Last() Frame     { return s.last }
func (s *RoadSimulator) GameOver() bool  { return s.gameOver }
func (s *RoadSimulator) ScoreMs() int64  { return s.scoreMs }

// Tick advances the race by dt seconds. Once a tick reports a collision
// every later tick returns that same frame.
func (s *RoadSimulator) Tick(dt float64, in Steering, screenW, screenH float64) Frame {
	if s.gameOver {
		return s.last
	}
	t := s.tuning
	s.car.TurningLeft, s.car.TurningRight = in.Left, in.Right
	s.screenW = screenW

	s.road.TotalElapsed += dt

	mainTurn := s.noise.Value(s.road.TotalElapsed * t.MainTurnTimeScale)
	wiggle := s.noise.Value(s.road.TotalElapsed * t.WiggleTimeScale)
	offset := mainTurn*(screenW/t.MainTurnDivisor) + wiggle*(screenW/t.WiggleDivisor)

	delta := offset - s.road.LastOffset
	s.road.LastOffset = offset
	s.road.LateralOffset = offset

	// The floor is exclusive: a step that would reach it is skipped.
	if s.road.ScaleX-t.ShrinkStep > t.MinScaleX {
		s.road.ScaleX -= t.ShrinkStep
	}
	inset := s.shrinkInset()

	if in.Left {
		s.car.Rotation -= t.CarTurnRate
	}
	if in.Right {
		s.car.Rotation += t.CarTurnRate
	}

	carX := s.car.X + math.Sin(radians(s.car.Rotation))*t.CarDriftSpeed
	if t.CarryRoadOffset {
		carX += delta
	}

	if s.checkCollision(carX, inset, screenW) {
		s.gameOver = true
		f := s.frame()
		f.RoadDeltaX = delta
		f.Collision = true
		f.GameOver = true
		s.last = f
		return f
	}
	s.car.X = carX

	move := t.RoadMoveSpeed
	if IsUpsideDown(s.car.Rotation) {
		move = -move
	}
	s.scroll(move, screenH)

	s.scoreMs = int64(math.Round(s.road.TotalElapsed * 1000))

	f := s.frame()
	f.RoadDeltaX = delta
	f.VerticalMove = move
	s.last = f
	return f
}

func (s *RoadSimulator) shrinkInset() float64 {
	return s.geo.RoadWidth * (1 - s.road.ScaleX) / 2
}

// checkCollision tests the car at lateral offset carX against the
// shrunken road edges and every obstacle.
func (s *RoadSimulator) checkCollision(carX, inset, screenW float64) bool {
	carW, carH := s.geo.CarSize()
	centre := screenW/2 + carX
	carLeft := centre - carW/2
	carRight := centre + carW/2

	roadLeft := s.geo.RoadLeft + s.road.LateralOffset + inset
	roadRight := s.geo.RoadLeft + s.road.LateralOffset + s.geo.RoadWidth - inset
	if carLeft <= roadLeft || carRight >= roadRight {
		return true
	}

	car := RectCentered(centre, s.geo.CarCenterY, carW, carH)
	for _, o := range s.obstacleBoxes(screenW) {
		if car.Intersects(o) {
			return true
		}
	}
	return false
}

func (s *RoadSimulator) obstacleBoxes(screenW float64) []RectF {
	if len(s.obstacles) == 0 {
		return nil
	}
	cx := screenW/2 + s.road.LateralOffset
	out := make([]RectF, len(s.obstacles))
	for i, o := range s.obstacles {
		ox, _ := o.Center()
		out[i] = RectCentered(cx+ox*s.road.ScaleX, (o.Y0+o.Y1)/2, o.Width(), o.Height())
	}
	return out
}

// scroll moves lane lines, the start line and obstacles by move pixels.
// Lines wrap by the pattern height; obstacles loop around the screen.
func (s *RoadSimulator) scroll(move, screenH float64) {
	pattern := s.geo.LinePatternHeight()
	for i := range s.lineY {
		top := float64(i) * (s.geo.LineHeight + s.geo.LineMargin)
		s.lineY[i] += move
		if move > 0 && top+s.lineY[i] > screenH {
			s.lineY[i] -= pattern
		} else if move < 0 && top+s.geo.LineHeight+s.lineY[i] < 0 {
			s.lineY[i] += pattern
		}
	}
	s.startLineY += move

	for i := range s.obstacles {
		o := s.obstacles[i].Translate(0, move)
		h := o.Height()
		if move > 0 && o.Y0 > screenH {
			o = o.Translate(0, -(screenH + h))
		} else if move < 0 && o.Y1 < 0 {
			o = o.Translate(0, screenH+h)
		}
		s.obstacles[i] = o
	}
}

func (s *RoadSimulator) frame() Frame {
	inset := s.shrinkInset()
	off := s.road.LateralOffset
	lines := make([]float64, len(s.lineY))
	copy(lines, s.lineY)
	return Frame{
		RoadOffset:   off,
		BumperLeftX:  off + inset,
		BumperRightX: off - inset,
		ShrinkInset:  inset,
		ScaleX:       s.road.ScaleX,
		CarX:         s.car.X,
		CarRotation:  s.car.Rotation,
		UpsideDown:   IsUpsideDown(s.car.Rotation),
		StartLineY:   s.startLineY,
		LineY:        lines,
		Obstacles:    s.obstacleBoxes(s.screenW),
		ScoreMs:      s.scoreMs,
		GameOver:     s.gameOver,
	}
}
