package mobject

import (
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// GradientStop is a colour pinned at a position in [0, 1] of a gradient.
type GradientStop struct {
	Color colorful.Color
	Pos   float64
}

// GradientTable is a sorted list of stops interpolated in HCL space.
type GradientTable []GradientStop

// ColorAt gets the colour at position t of the table. Positions before the
// first or after the last stop clamp to that stop.
func (g GradientTable) ColorAt(t float64) colorful.Color {
	if len(g) == 0 {
		return colorful.Color{}
	}
	if t <= g[0].Pos {
		return g[0].Color
	}
	for i := 0; i < len(g)-1; i++ {
		c1 := g[i]
		c2 := g[i+1]
		if c1.Pos <= t && t <= c2.Pos {
			if c2.Pos == c1.Pos {
				return c2.Color
			}
			return c1.Color.BlendHcl(c2.Color, (t-c1.Pos)/(c2.Pos-c1.Pos)).Clamped()
		}
	}

	// Nothing found means we're past the last stop.
	return g[len(g)-1].Color
}

// EvenGradient spreads colours evenly over [0, 1].
func EvenGradient(colors ...colorful.Color) GradientTable {
	g := make(GradientTable, len(colors))
	for i, c := range colors {
		pos := 0.0
		if len(colors) > 1 {
			pos = float64(i) / float64(len(colors)-1)
		}
		g[i] = GradientStop{Color: c, Pos: pos}
	}
	return g
}

// SetColorByGradient colours the family members that carry points along g, in
// family order.
func (m *Mobject) SetColorByGradient(g GradientTable) *Mobject {
	g = append(GradientTable(nil), g...)
	sort.SliceStable(g, func(i, j int) bool { return g[i].Pos < g[j].Pos })

	var drawn []*Mobject
	for _, f := range m.Family() {
		if len(f.Points) > 0 {
			drawn = append(drawn, f)
		}
	}
	for i, f := range drawn {
		t := 0.0
		if len(drawn) > 1 {
			t = float64(i) / float64(len(drawn)-1)
		}
		f.Color = g.ColorAt(t)
	}
	return m
}
