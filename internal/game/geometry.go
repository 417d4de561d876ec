package game

import "math"

// ObstacleSpec places a static obstacle relative to the road centre
// line. Y is the top edge in screen pixels at race start.
type ObstacleSpec struct {
	X, Y float64
	W, H float64
}

// Geometry is the screen layout the simulator measures against. All
// values are in screen pixels.
type Geometry struct {
	ScreenWidth  float64
	ScreenHeight float64

	// Road layout before any curve offset or shrink.
	RoadLeft    float64
	RoadWidth   float64
	BumperWidth float64

	// Car body before CarScale; the car is centred horizontally.
	CarWidth   float64
	CarHeight  float64
	CarScale   float64
	CarCenterY float64

	LineWidth  float64
	LineHeight float64
	LineMargin float64
	LineCount  int

	StartLineY      float64
	StartLineHeight float64

	Obstacles []ObstacleSpec
}

// NewGeometry lays out the road for a w x h screen.
func NewGeometry(w, h float64) Geometry {
	roadW := w * 0.7
	lineH := h * 0.08
	lineMargin := h * 0.06
	carScale := 8.0
	carH := 11.0
	carCY := h * 0.75
	return Geometry{
		ScreenWidth:     w,
		ScreenHeight:    h,
		RoadLeft:        (w - roadW) / 2,
		RoadWidth:       roadW,
		BumperWidth:     w * 0.02,
		CarWidth:        6,
		CarHeight:       carH,
		CarScale:        carScale,
		CarCenterY:      carCY,
		LineWidth:       w * 0.015,
		LineHeight:      lineH,
		LineMargin:      lineMargin,
		LineCount:       int(math.Ceil(h/(lineH+lineMargin))) + 1,
		StartLineY:      carCY + carH*carScale/2 + h*0.01,
		StartLineHeight: h * 0.012,
	}
}

// WithDefaultObstacles returns a copy of g with three staggered
// obstacles queued above the screen, alternating road sides.
func (g Geometry) WithDefaultObstacles() Geometry {
	obs := make([]ObstacleSpec, 0, 3)
	for k := 1; k <= 3; k++ {
		side := 1.0
		if k%2 == 1 {
			side = -1.0
		}
		obs = append(obs, ObstacleSpec{
			X: side * g.RoadWidth * 0.2,
			Y: -float64(k) * g.ScreenHeight * 0.45,
			W: g.ScreenWidth * 0.1,
			H: g.ScreenHeight * 0.04,
		})
	}
	g.Obstacles = obs
	return g
}

// CarSize is the rendered car size.
func (g Geometry) CarSize() (w, h float64) {
	return g.CarWidth * g.CarScale, g.CarHeight * g.CarScale
}

// LinePatternHeight is the distance after which lane lines repeat.
func (g Geometry) LinePatternHeight() float64 {
	return float64(g.LineCount) * (g.LineHeight + g.LineMargin)
}
