package game

// RGB is an 8-bit per channel colour.
type RGB struct {
	R, G, B uint8
}

// Floats returns the colour as normalized GL components.
func (c RGB) Floats() (r, g, b float32) {
	return float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255
}

var (
	Red     = RGB{255, 0, 0}
	Blue    = RGB{0, 0, 255}
	Green   = RGB{0, 255, 0}
	Yellow  = RGB{255, 255, 0}
	Cyan    = RGB{0, 255, 255}
	Magenta = RGB{255, 0, 255}
	White   = RGB{255, 255, 255}
	Black   = RGB{0, 0, 0}
)

var Palette = struct {
	Grass     RGB
	Road      RGB
	Bumper    RGB
	LaneLine  RGB
	StartLine RGB
	Obstacle  RGB
}{
	Grass:     RGB{46, 125, 50},
	Road:      RGB{66, 66, 66},
	Bumper:    RGB{229, 57, 53},
	LaneLine:  RGB{250, 250, 250},
	StartLine: RGB{255, 255, 255},
	Obstacle:  RGB{255, 143, 0},
}

// CarColors and DecalColors are the choices the menu cycles through.
var (
	CarColors   = []RGB{Red, Blue, Green, Yellow, Cyan, Magenta, White}
	DecalColors = []RGB{White, Black, Yellow, Red}
)

// Livery is the player's car customisation. The simulation never reads
// it; it rides along to the renderer.
type Livery struct {
	CarColor     RGB
	DecalEnabled bool
	DecalColor   RGB

	carIdx, decalIdx int
}

func DefaultLivery() Livery {
	return Livery{CarColor: CarColors[0], DecalColor: DecalColors[0]}
}

func (l *Livery) NextCarColor() {
	l.carIdx = (l.carIdx + 1) % len(CarColors)
	l.CarColor = CarColors[l.carIdx]
}

func (l *Livery) NextDecalColor() {
	l.decalIdx = (l.decalIdx + 1) % len(DecalColors)
	l.DecalColor = DecalColors[l.decalIdx]
}

func (l *Livery) ToggleDecal() {
	l.DecalEnabled = !l.DecalEnabled
}
