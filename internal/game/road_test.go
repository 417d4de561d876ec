package game

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testW  = 540.0
	testH  = 960.0
	testDt = 1.0 / 60
)

// openRoad is wide enough that no curve or drift can reach its edges.
func openRoad() Geometry {
	g := NewGeometry(testW, testH)
	g.RoadLeft = -100000
	g.RoadWidth = 200000 + testW
	return g
}

// The two-octave noise sum is the only road curve; nothing else moves
// the offset.
func TestTickAdvancesElapsedAndOffset(t *testing.T) {
	sim := NewRoadSimulator(openRoad(), DefaultTuning())
	n := NoiseField{}

	var want, last float64
	for i := 1; i <= 120; i++ {
		f := sim.Tick(testDt, Steering{}, testW, testH)
		elapsed := float64(i) * testDt
		want = n.Value(elapsed*MainTurnTimeScale)*(testW/MainTurnDivisor) +
			n.Value(elapsed*WiggleTimeScale)*(testW/WiggleDivisor)
		require.InDelta(t, elapsed, sim.Road().TotalElapsed, 1e-9)
		require.InDelta(t, want, f.RoadOffset, 1e-6, "tick %d", i)
		require.InDelta(t, want-last, f.RoadDeltaX, 1e-6, "tick %d", i)
		last = want
	}
	assert.InDelta(t, want, sim.Road().LastOffset, 1e-6)
}

func TestScaleShrinksToFloor(t *testing.T) {
	sim := NewRoadSimulator(openRoad(), DefaultTuning())
	prev := sim.Road().ScaleX
	require.Equal(t, 1.0, prev)

	for i := 0; i < 20000; i++ {
		f := sim.Tick(testDt, Steering{}, testW, testH)
		require.False(t, f.Collision, "tick %d", i)
		require.LessOrEqual(t, f.ScaleX, prev)
		require.Greater(t, f.ScaleX, MinScaleX, "tick %d", i)
		prev = f.ScaleX
	}
	// The floor is never reached; the last step stops short of it.
	assert.LessOrEqual(t, prev, MinScaleX+ShrinkStep)
}

func TestShrinkInsetNarrowsBumpers(t *testing.T) {
	g := NewGeometry(testW, testH)
	sim := NewRoadSimulator(g, DefaultTuning())
	f := sim.Tick(0, Steering{}, testW, testH)

	wantInset := g.RoadWidth * (1 - f.ScaleX) / 2
	assert.InDelta(t, wantInset, f.ShrinkInset, 1e-9)
	assert.InDelta(t, f.RoadOffset+wantInset, f.BumperLeftX, 1e-9)
	assert.InDelta(t, f.RoadOffset-wantInset, f.BumperRightX, 1e-9)
}

func TestSteeringRotatesAndDrifts(t *testing.T) {
	sim := NewRoadSimulator(openRoad(), DefaultTuning())

	f := sim.Tick(testDt, Steering{Right: true}, testW, testH)
	assert.Equal(t, CarTurnRate, f.CarRotation)
	assert.InDelta(t, math.Sin(radians(CarTurnRate))*CarDriftSpeed, f.CarX, 1e-12)

	for i := 0; i < 45; i++ {
		f = sim.Tick(testDt, Steering{Left: true}, testW, testH)
	}
	assert.Equal(t, -88.0, f.CarRotation)
	assert.Less(t, f.CarX, 0.0)
	assert.True(t, sim.Car().TurningLeft)
	assert.False(t, sim.Car().TurningRight)

	// Both held: the turns cancel out.
	before := f.CarRotation
	f = sim.Tick(testDt, Steering{Left: true, Right: true}, testW, testH)
	assert.Equal(t, before, f.CarRotation)
}

func TestRotationIsNotClamped(t *testing.T) {
	sim := NewRoadSimulator(openRoad(), DefaultTuning())
	var f Frame
	for i := 0; i < 200; i++ {
		f = sim.Tick(testDt, Steering{Right: true}, testW, testH)
	}
	assert.Equal(t, 400.0, f.CarRotation)
	assert.False(t, f.UpsideDown)
}

func TestNormalizeDegrees(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{-10, 350},
		{370, 10},
		{0, 0},
		{360, 0},
		{-360, 0},
		{725, 5},
		{-725, 355},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, NormalizeDegrees(c.in), 1e-9, "normalize(%v)", c.in)
	}
}

func TestIsUpsideDown(t *testing.T) {
	assert.False(t, IsUpsideDown(90))
	assert.True(t, IsUpsideDown(91))
	assert.True(t, IsUpsideDown(180))
	assert.True(t, IsUpsideDown(-180))
	assert.False(t, IsUpsideDown(270))
	assert.False(t, IsUpsideDown(-10))
	assert.True(t, IsUpsideDown(-100))
}

func TestUpsideDownReversesScroll(t *testing.T) {
	sim := NewRoadSimulator(openRoad(), DefaultTuning())
	f := sim.Tick(testDt, Steering{}, testW, testH)
	assert.Equal(t, RoadMoveSpeed, f.VerticalMove)
	startY := f.StartLineY

	for i := 0; i < 50; i++ { // 100 degrees
		f = sim.Tick(testDt, Steering{Right: true}, testW, testH)
	}
	require.True(t, f.UpsideDown)
	assert.Equal(t, -RoadMoveSpeed, f.VerticalMove)

	before := f.StartLineY
	f = sim.Tick(testDt, Steering{}, testW, testH)
	assert.Equal(t, before-RoadMoveSpeed, f.StartLineY)
	assert.Greater(t, before, startY)
}

func TestBoundaryCollisionIsTerminal(t *testing.T) {
	g := NewGeometry(testW, testH)
	g.RoadWidth = 10 // narrower than the car
	g.RoadLeft = (testW - g.RoadWidth) / 2
	sim := NewRoadSimulator(g, DefaultTuning())

	f := sim.Tick(testDt, Steering{Right: true}, testW, testH)
	require.True(t, f.Collision)
	require.True(t, f.GameOver)
	require.True(t, sim.GameOver())
	assert.Equal(t, 0.0, f.CarX, "position is not applied on the colliding tick")

	road, car := sim.Road(), sim.Car()
	for i := 0; i < 10; i++ {
		next := sim.Tick(testDt, Steering{Left: true}, testW, testH)
		assert.Equal(t, f, next)
	}
	assert.Equal(t, road, sim.Road())
	assert.Equal(t, car, sim.Car())
}

func TestCollisionEdgesAreInclusive(t *testing.T) {
	g := NewGeometry(testW, testH)
	carW, _ := g.CarSize()
	sim := NewRoadSimulator(g, DefaultTuning())

	// Road exactly as wide as the car, so both edges touch.
	sim.geo.RoadLeft = testW/2 - carW/2
	sim.geo.RoadWidth = carW
	assert.True(t, sim.checkCollision(0, 0, testW))

	sim.geo.RoadLeft = testW/2 - carW/2 - 1
	sim.geo.RoadWidth = carW + 2
	assert.False(t, sim.checkCollision(0, 0, testW))
	assert.True(t, sim.checkCollision(1, 0, testW))
	assert.True(t, sim.checkCollision(-1, 0, testW))
	// The shrink inset narrows both edges.
	assert.True(t, sim.checkCollision(0, 1, testW))
}

func TestObstacleCollision(t *testing.T) {
	g := openRoad()
	g.Obstacles = []ObstacleSpec{{X: 0, Y: g.CarCenterY - 10, W: 400, H: 20}}
	sim := NewRoadSimulator(g, DefaultTuning())

	f := sim.Tick(0, Steering{}, testW, testH)
	assert.True(t, f.Collision)
	require.Len(t, f.Obstacles, 1)
}

func TestObstaclesScrollAndWrap(t *testing.T) {
	g := openRoad()
	g.Obstacles = []ObstacleSpec{{X: 5000, Y: testH - 1, W: 20, H: 30}}
	sim := NewRoadSimulator(g, DefaultTuning())

	f := sim.Tick(0, Steering{}, testW, testH)
	require.False(t, f.Collision)
	require.Len(t, f.Obstacles, 1)
	// testH-1+15 is past the bottom, so it loops to the top.
	assert.InDelta(t, testH-1+RoadMoveSpeed-(testH+30), f.Obstacles[0].Y0, 1e-9)
	assert.InDelta(t, 30, f.Obstacles[0].Height(), 1e-9)

	for i := 0; i < 200; i++ {
		f = sim.Tick(0, Steering{}, testW, testH)
		o := f.Obstacles[0]
		require.True(t, o.Y1 >= 0 && o.Y0 <= testH+RoadMoveSpeed, "tick %d: %+v", i, o)
	}
}

func TestObstaclesFollowRoadOffset(t *testing.T) {
	g := openRoad()
	g.Obstacles = []ObstacleSpec{{X: 3000, Y: 0, W: 20, H: 20}}
	sim := NewRoadSimulator(g, DefaultTuning())

	f := sim.Tick(0.5, Steering{}, testW, testH)
	cx, _ := f.Obstacles[0].Center()
	assert.InDelta(t, testW/2+f.RoadOffset+3000*f.ScaleX, cx, 1e-9)
}

func TestObstaclesDrawnWhereTheyCollide(t *testing.T) {
	g := openRoad()
	g.Obstacles = []ObstacleSpec{{X: 3000, Y: 0, W: 20, H: 20}}
	sim := NewRoadSimulator(g, DefaultTuning())

	wide := testW + 200
	f := sim.Tick(0.5, Steering{}, wide, testH)
	cx, _ := f.Obstacles[0].Center()
	assert.InDelta(t, wide/2+f.RoadOffset+3000*f.ScaleX, cx, 1e-9)
	assert.Equal(t, sim.obstacleBoxes(wide), f.Obstacles)

	// The drawn box is the one the car hit.
	g.Obstacles = []ObstacleSpec{{X: 0, Y: g.CarCenterY - 10, W: 400, H: 20}}
	sim = NewRoadSimulator(g, DefaultTuning())
	f = sim.Tick(0, Steering{}, wide, testH)
	require.True(t, f.Collision)
	carW, carH := g.CarSize()
	car := RectCentered(wide/2+f.CarX, g.CarCenterY, carW, carH)
	assert.True(t, car.Intersects(f.Obstacles[0]))
}

func TestLaneLinesWrap(t *testing.T) {
	g := openRoad()
	sim := NewRoadSimulator(g, DefaultTuning())
	pattern := g.LinePatternHeight()

	var f Frame
	for i := 0; i < 500; i++ {
		f = sim.Tick(testDt, Steering{}, testW, testH)
		for j, y := range f.LineY {
			top := float64(j)*(g.LineHeight+g.LineMargin) + y
			require.LessOrEqual(t, top, testH, "line %d tick %d", j, i)
			require.Greater(t, top, testH-pattern-1, "line %d tick %d", j, i)
		}
	}
	assert.Len(t, f.LineY, g.LineCount)
}

func TestCarryRoadOffset(t *testing.T) {
	tun := DefaultTuning()
	tun.CarryRoadOffset = true
	sim := NewRoadSimulator(openRoad(), tun)

	var sum float64
	for i := 0; i < 30; i++ {
		f := sim.Tick(testDt, Steering{}, testW, testH)
		sum += f.RoadDeltaX
		require.InDelta(t, sum, f.CarX, 1e-9)
	}
}

func TestScoreFollowsElapsedTime(t *testing.T) {
	sim := NewRoadSimulator(openRoad(), DefaultTuning())
	var f Frame
	for i := 0; i < 600; i++ {
		f = sim.Tick(testDt, Steering{}, testW, testH)
	}
	assert.Equal(t, int64(10000), f.ScoreMs)
	assert.Equal(t, int64(10000), sim.ScoreMs())
}

// A race of 600 ticks at 1/60 s with steering flipped every second.
// The road offset at each tick comes from the noise formula alone, so
// the crash tick and the car pose at that moment are fixed.
func TestAlternatingRace(t *testing.T) {
	tests := []struct {
		name      string
		steer     func(tick int) Steering
		wantTicks int
		wantScore int64
		wantCarX  float64
		wantRot   float64
	}{
		{
			name: "left toggles, right released",
			steer: func(tick int) Steering {
				return Steering{Left: (tick/60)%2 == 1}
			},
			wantTicks: 121,
			wantScore: 2000,
			wantCarX:  -217.0024196248089,
			wantRot:   -120,
		},
		{
			name: "right then left",
			steer: func(tick int) Steering {
				left := (tick/60)%2 == 1
				return Steering{Left: left, Right: !left}
			},
			wantTicks: 43,
			wantScore: 700,
			wantCarX:  130.74012969050395,
			wantRot:   86,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := NewRoadSimulator(NewGeometry(testW, testH), DefaultTuning())
			n := NoiseField{}

			var f Frame
			ticks := 0
			for i := 0; i < 600 && !f.Collision; i++ {
				f = sim.Tick(testDt, tt.steer(i), testW, testH)
				ticks++
			}

			require.True(t, f.Collision)
			assert.True(t, sim.GameOver())
			assert.Equal(t, tt.wantTicks, ticks)
			assert.Equal(t, tt.wantScore, f.ScoreMs)
			assert.InDelta(t, tt.wantCarX, f.CarX, 1e-6)
			assert.InDelta(t, tt.wantRot, f.CarRotation, 1e-9)

			elapsed := float64(ticks) * testDt
			want := n.Value(elapsed*MainTurnTimeScale)*(testW/MainTurnDivisor) +
				n.Value(elapsed*WiggleTimeScale)*(testW/WiggleDivisor)
			assert.InDelta(t, want, f.RoadOffset, 1e-6)

			assert.Equal(t, f, sim.Tick(testDt, tt.steer(ticks), testW, testH))
		})
	}
}
