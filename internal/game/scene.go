package game

// Layer orders quads back to front.
type Layer int

const (
	LayerGrass Layer = iota
	LayerRoad
	LayerBumper
	LayerLaneLine
	LayerStartLine
	LayerObstacle
	LayerCar
	LayerDecal
)

// Quad is a filled rectangle in screen pixels, rotated about its centre
// by Rotation radians.
type Quad struct {
	Layer    Layer
	CX, CY   float64
	W, H     float64
	Rotation float64
	Color    RGB
}

func (q Quad) Rect() RectF { return RectCentered(q.CX, q.CY, q.W, q.H) }

// BuildScene turns a frame's transform values into draw-ordered quads.
// Both frontends render exactly this list.
func BuildScene(f Frame, g Geometry, l Livery) []Quad {
	quads := make([]Quad, 0, 8+len(f.LineY)+len(f.Obstacles))
	w, h := g.ScreenWidth, g.ScreenHeight
	midX := w/2 + f.RoadOffset

	quads = append(quads, Quad{Layer: LayerGrass, CX: w / 2, CY: h / 2, W: w, H: h, Color: Palette.Grass})

	roadW := g.RoadWidth - 2*f.ShrinkInset
	quads = append(quads, Quad{Layer: LayerRoad, CX: midX, CY: h / 2, W: roadW, H: h, Color: Palette.Road})

	bw := g.BumperWidth
	quads = append(quads,
		Quad{Layer: LayerBumper, CX: g.RoadLeft - bw/2 + f.BumperLeftX, CY: h / 2, W: bw, H: h, Color: Palette.Bumper},
		Quad{Layer: LayerBumper, CX: g.RoadLeft + g.RoadWidth + bw/2 + f.BumperRightX, CY: h / 2, W: bw, H: h, Color: Palette.Bumper},
	)

	for i, dy := range f.LineY {
		top := float64(i)*(g.LineHeight+g.LineMargin) + dy
		if top > h || top+g.LineHeight < 0 {
			continue
		}
		quads = append(quads, Quad{
			Layer: LayerLaneLine,
			CX:    midX,
			CY:    top + g.LineHeight/2,
			W:     g.LineWidth,
			H:     g.LineHeight,
			Color: Palette.LaneLine,
		})
	}

	if f.StartLineY < h && f.StartLineY+g.StartLineHeight > 0 {
		quads = append(quads, Quad{
			Layer: LayerStartLine,
			CX:    midX,
			CY:    f.StartLineY + g.StartLineHeight/2,
			W:     roadW,
			H:     g.StartLineHeight,
			Color: Palette.StartLine,
		})
	}

	for _, o := range f.Obstacles {
		cx, cy := o.Center()
		quads = append(quads, Quad{Layer: LayerObstacle, CX: cx, CY: cy, W: o.Width(), H: o.Height(), Color: Palette.Obstacle})
	}

	carW, carH := g.CarSize()
	carX := w/2 + f.CarX
	rot := radians(f.CarRotation)
	quads = append(quads, Quad{Layer: LayerCar, CX: carX, CY: g.CarCenterY, W: carW, H: carH, Rotation: rot, Color: l.CarColor})
	if l.DecalEnabled {
		quads = append(quads, Quad{Layer: LayerDecal, CX: carX, CY: g.CarCenterY, W: carW / 3, H: carH, Rotation: rot, Color: l.DecalColor})
	}
	return quads
}
