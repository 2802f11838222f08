package mobject

import (
	"fmt"
	"math"

	"github.com/jinzhu/copier"
	"github.com/lucasb-eyer/go-colorful"
)

// Point is a position in scene space. On an LED strip X runs along the strip
// in [0, 1]; Y is kept for layouts that fold the strip.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Mul scales p by f.
func (p Point) Mul(f float64) Point {
	return Point{p.X * f, p.Y * f}
}

// A Mobject is a node in a tree of drawable objects. Each mobject has at most
// one parent; the root is owned by whoever holds it (usually a scene).
type Mobject struct {
	Name    string
	Points  []Point
	Color   colorful.Color
	Opacity float64

	parent    *Mobject
	children  []*Mobject
	updaters  []updater
	suspended bool
	nextToken Token
}

// New creates a Mobject with the given points, fully opaque and white.
func New(name string, points ...Point) *Mobject {
	m := new(Mobject)
	m.Name = name
	m.Points = append([]Point(nil), points...)
	m.Color = colorful.Color{R: 1, G: 1, B: 1}
	m.Opacity = 1.0
	return m
}

// NewGroup creates a point-less Mobject holding the given children.
func NewGroup(name string, children ...*Mobject) *Mobject {
	g := New(name)
	g.Add(children...)
	return g
}

func (m *Mobject) String() string {
	return fmt.Sprintf("Mobject(%s)", m.Name)
}

// Parent returns the parent of m, or nil for a root.
func (m *Mobject) Parent() *Mobject {
	return m.parent
}

// Children returns the direct children of m in order.
func (m *Mobject) Children() []*Mobject {
	return append([]*Mobject(nil), m.children...)
}

// Add appends children to m, detaching them from any previous parent.
// Adding m to itself or to one of its descendants is ignored.
func (m *Mobject) Add(children ...*Mobject) *Mobject {
	for _, c := range children {
		if c == nil || c.isAncestorOf(m) {
			continue
		}
		if c.parent != nil {
			c.parent.Remove(c)
		}
		c.parent = m
		m.children = append(m.children, c)
	}
	return m
}

// Remove detaches children from m. Unknown children are ignored.
func (m *Mobject) Remove(children ...*Mobject) *Mobject {
	for _, c := range children {
		for i, k := range m.children {
			if k == c {
				m.children = append(m.children[:i], m.children[i+1:]...)
				c.parent = nil
				break
			}
		}
	}
	return m
}

func (m *Mobject) isAncestorOf(o *Mobject) bool {
	for p := o; p != nil; p = p.parent {
		if p == m {
			return true
		}
	}
	return false
}

// Family returns m followed by all of its descendants in depth-first
// pre-order. The order is stable for an unchanged tree.
func (m *Mobject) Family() []*Mobject {
	family := []*Mobject{m}
	for _, c := range m.children {
		family = append(family, c.Family()...)
	}
	return family
}

// Copy returns a deep, independent clone of m and its descendants. Updaters
// are carried over with their tokens; the clone has no parent.
func (m *Mobject) Copy() *Mobject {
	c := new(Mobject)
	if err := copier.CopyWithOption(c, m, copier.Option{DeepCopy: true}); err != nil {
		// Only reachable on a mismatched type, which cannot happen here.
		panic(err)
	}
	c.updaters = append([]updater(nil), m.updaters...)
	c.suspended = m.suspended
	c.nextToken = m.nextToken
	for _, k := range m.children {
		kc := k.Copy()
		kc.parent = c
		c.children = append(c.children, kc)
	}
	return c
}

// Interpolate sets the points, colour and opacity of m (and only m) to a
// blend of a and b. alpha 0 reproduces a exactly and alpha 1 reproduces b
// exactly. a and b are never modified.
func (m *Mobject) Interpolate(a, b *Mobject, alpha float64, path PathFunc) error {
	if len(a.Points) != len(b.Points) {
		return &StructureMismatchError{Index: 0, Start: len(a.Points), Target: len(b.Points), What: "point count"}
	}
	if path == nil {
		path = StraightPath
	}
	if len(m.Points) != len(a.Points) {
		m.Points = make([]Point, len(a.Points))
	}

	switch alpha {
	case 0:
		copy(m.Points, a.Points)
		m.Color = a.Color
		m.Opacity = a.Opacity
		return nil
	case 1:
		copy(m.Points, b.Points)
		m.Color = b.Color
		m.Opacity = b.Opacity
		return nil
	}

	for i := range a.Points {
		m.Points[i] = path(a.Points[i], b.Points[i], alpha)
	}
	if a.Color == b.Color {
		m.Color = a.Color
	} else {
		m.Color = a.Color.BlendHcl(b.Color, alpha).Clamped()
	}
	m.Opacity = lerp(a.Opacity, b.Opacity, alpha)
	return nil
}

// Become makes m a pointwise copy of o without touching the tree links or
// updaters of m.
func (m *Mobject) Become(o *Mobject) {
	m.Points = append(m.Points[:0], o.Points...)
	m.Color = o.Color
	m.Opacity = o.Opacity
}

// Center returns the centre of the bounding box of every point in the family.
// A family without points is centred at the origin.
func (m *Mobject) Center() Point {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	n := 0
	for _, f := range m.Family() {
		for _, p := range f.Points {
			minX = math.Min(minX, p.X)
			minY = math.Min(minY, p.Y)
			maxX = math.Max(maxX, p.X)
			maxY = math.Max(maxY, p.Y)
			n++
		}
	}
	if n == 0 {
		return Point{}
	}
	return Point{(minX + maxX) / 2, (minY + maxY) / 2}
}

// Shift moves every point in the family by d.
func (m *Mobject) Shift(d Point) *Mobject {
	for _, f := range m.Family() {
		for i := range f.Points {
			f.Points[i] = f.Points[i].Add(d)
		}
	}
	return m
}

// MoveTo shifts the family so that its centre lands on p.
func (m *Mobject) MoveTo(p Point) *Mobject {
	return m.Shift(p.Sub(m.Center()))
}

// Scale scales the family about its centre.
func (m *Mobject) Scale(factor float64) *Mobject {
	c := m.Center()
	for _, f := range m.Family() {
		for i := range f.Points {
			f.Points[i] = c.Add(f.Points[i].Sub(c).Mul(factor))
		}
	}
	return m
}

// SetColor sets the colour of every family member.
func (m *Mobject) SetColor(c colorful.Color) *Mobject {
	for _, f := range m.Family() {
		f.Color = c
	}
	return m
}

// SetOpacity sets the opacity of every family member.
func (m *Mobject) SetOpacity(o float64) *Mobject {
	for _, f := range m.Family() {
		f.Opacity = o
	}
	return m
}

func lerp(a, b, alpha float64) float64 {
	return (1-alpha)*a + alpha*b
}
