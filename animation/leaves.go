package animation

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matt-g-everett/ledscene/mobject"
	"github.com/matt-g-everett/ledscene/rate"
)

func blendStep(path mobject.PathFunc) StepFunc {
	return func(sub, start, target *mobject.Mobject, alpha float64) error {
		return sub.Interpolate(start, target, alpha, path)
	}
}

func copyOf(m *mobject.Mobject) SnapshotFunc {
	return func(*mobject.Mobject) *mobject.Mobject {
		return m.Copy()
	}
}

// NewWait creates an animation that changes nothing for its run time.
func NewWait(opts ...Option) *Leaf {
	opts = append([]Option{WithName("Wait"), WithRateFunc(rate.Linear)}, opts...)
	return NewLeaf(nil, nil, nil, nil, opts...)
}

// Transform morphs m into the shape, colour and opacity of target. target
// is snapshotted when the animation begins and is never modified.
func Transform(m, target *mobject.Mobject, opts ...Option) *Leaf {
	o := newOptions(opts)
	opts = append([]Option{WithName("Transform")}, opts...)
	return NewLeaf(m, blendStep(o.path), nil, copyOf(target), opts...)
}

func faded(live *mobject.Mobject, shift mobject.Point) *mobject.Mobject {
	f := live.Copy()
	f.SetOpacity(0)
	f.Shift(shift)
	return f
}

// FadeIn introduces m, raising it from transparent. WithShift slides it in
// along the given offset.
func FadeIn(m *mobject.Mobject, opts ...Option) *Leaf {
	o := newOptions(opts)
	start := func(live *mobject.Mobject) *mobject.Mobject {
		return faded(live, o.shift.Mul(-1))
	}
	target := func(live *mobject.Mobject) *mobject.Mobject {
		return live.Copy()
	}
	opts = append([]Option{WithName("FadeIn"), WithIntroducer(true)}, opts...)
	return NewLeaf(m, blendStep(o.path), start, target, opts...)
}

// FadeOut fades m to transparent and removes it. WithShift slides it out
// along the given offset.
func FadeOut(m *mobject.Mobject, opts ...Option) *Leaf {
	o := newOptions(opts)
	target := func(live *mobject.Mobject) *mobject.Mobject {
		return faded(live, o.shift)
	}
	opts = append([]Option{WithName("FadeOut"), WithRemover(true)}, opts...)
	return NewLeaf(m, blendStep(o.path), nil, target, opts...)
}

// UpdateFromAlphaFunc calls fn with m and the eased alpha on every
// interpolation. fn should derive the state of m from alpha alone.
func UpdateFromAlphaFunc(m *mobject.Mobject, fn func(m *mobject.Mobject, alpha float64), opts ...Option) *Leaf {
	step := func(sub, _, _ *mobject.Mobject, alpha float64) error {
		fn(sub, alpha)
		return nil
	}
	opts = append([]Option{WithName("UpdateFromAlphaFunc")}, opts...)
	l := NewLeaf(m, step, nil, nil, opts...)
	l.rootOnly = true
	return l
}

// A MethodBuilder records mobject methods and turns them into a Transform
// from the state of the mobject at Begin to the state after the methods.
type MethodBuilder struct {
	mob  *mobject.Mobject
	ops  []func(m *mobject.Mobject)
	opts []Option
}

// Animate starts a MethodBuilder on m.
func Animate(m *mobject.Mobject, opts ...Option) *MethodBuilder {
	return &MethodBuilder{mob: m, opts: opts}
}

// Shift records a shift by d.
func (b *MethodBuilder) Shift(d mobject.Point) *MethodBuilder {
	return b.Apply(func(m *mobject.Mobject) { m.Shift(d) })
}

// MoveTo records a move of the centre to p.
func (b *MethodBuilder) MoveTo(p mobject.Point) *MethodBuilder {
	return b.Apply(func(m *mobject.Mobject) { m.MoveTo(p) })
}

// Scale records a scale about the centre.
func (b *MethodBuilder) Scale(factor float64) *MethodBuilder {
	return b.Apply(func(m *mobject.Mobject) { m.Scale(factor) })
}

// SetColor records a colour change.
func (b *MethodBuilder) SetColor(c colorful.Color) *MethodBuilder {
	return b.Apply(func(m *mobject.Mobject) { m.SetColor(c) })
}

// SetOpacity records an opacity change.
func (b *MethodBuilder) SetOpacity(o float64) *MethodBuilder {
	return b.Apply(func(m *mobject.Mobject) { m.SetOpacity(o) })
}

// Apply records an arbitrary method.
func (b *MethodBuilder) Apply(fn func(m *mobject.Mobject)) *MethodBuilder {
	b.ops = append(b.ops, fn)
	return b
}

// With appends options to the built animation.
func (b *MethodBuilder) With(opts ...Option) *MethodBuilder {
	b.opts = append(b.opts, opts...)
	return b
}

// Build returns the Transform described by the recorded methods.
func (b *MethodBuilder) Build() (Animation, error) {
	if b.mob == nil {
		return nil, configError("mobject", "method builder has no mobject")
	}
	ops := make([]func(*mobject.Mobject), len(b.ops))
	copy(ops, b.ops)
	target := func(live *mobject.Mobject) *mobject.Mobject {
		t := live.Copy()
		for _, op := range ops {
			op(t)
		}
		return t
	}
	o := newOptions(b.opts)
	opts := append([]Option{WithName("Animate")}, b.opts...)
	return NewLeaf(b.mob, blendStep(o.path), nil, target, opts...), nil
}
