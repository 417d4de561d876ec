package game

// RectF is an axis-aligned rectangle in screen-pixel space.
type RectF struct {
	X0, Y0 float64
	X1, Y1 float64
}

// RectCentered builds a rectangle from its centre and full size.
func RectCentered(cx, cy, w, h float64) RectF {
	return RectF{X0: cx - w/2, Y0: cy - h/2, X1: cx + w/2, Y1: cy + h/2}
}

func (r RectF) Intersects(o RectF) bool {
	return r.X0 < o.X1 && r.X1 > o.X0 && r.Y0 < o.Y1 && r.Y1 > o.Y0
}

func (r RectF) Width() float64  { return r.X1 - r.X0 }
func (r RectF) Height() float64 { return r.Y1 - r.Y0 }

func (r RectF) Center() (float64, float64) {
	return (r.X0 + r.X1) / 2, (r.Y0 + r.Y1) / 2
}

func (r RectF) Translate(dx, dy float64) RectF {
	return RectF{X0: r.X0 + dx, Y0: r.Y0 + dy, X1: r.X1 + dx, Y1: r.Y1 + dy}
}
