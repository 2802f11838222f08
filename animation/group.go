package animation

import (
	"fmt"
	"math"

	"github.com/matt-g-everett/ledscene/mobject"
	"github.com/matt-g-everett/ledscene/rate"
)

// epsilon guards the division by a window length and absorbs rounding at
// window boundaries.
const epsilon = 1e-9

// Window is the span of group time, in seconds, during which a child runs.
type Window struct {
	Start float64
	End   float64
}

// A Group plays several animations on one timeline. Child i starts
// lag_ratio * run_time(i-1) seconds after child i-1.
type Group struct {
	name       string
	anims      []Animation
	mob        *mobject.Mobject
	override   *float64
	rateFunc   rate.Func
	lagRatio   float64
	remover    bool
	introducer bool
	lazy       bool

	runTime   float64
	windows   []Window
	committed []bool
	begun     []bool
	state     State
	tl        *Timeline
}

// NewGroup creates a Group over anims. The default lag ratio is 0, which
// plays every child in parallel, and the default rate function is linear.
func NewGroup(anims []Animation, opts ...Option) (*Group, error) {
	o := newOptions(opts)
	g := new(Group)
	g.name = o.name
	if g.name == "" {
		g.name = "AnimationGroup"
	}
	g.anims = append([]Animation(nil), anims...)
	g.mob = o.group
	g.override = o.runTime
	g.rateFunc = o.rateFuncOr(rate.Linear)
	g.lagRatio = o.lagRatioOr(0)
	g.remover = boolOr(o.remover, false)
	g.introducer = boolOr(o.introducer, false)

	for i, a := range g.anims {
		if a == nil {
			return nil, configError("animations", "animation %d is nil", i)
		}
	}
	if math.IsNaN(g.lagRatio) || math.IsInf(g.lagRatio, 0) {
		return nil, configError("lag_ratio", "must be finite, got %v", g.lagRatio)
	}
	if g.override != nil {
		rt := *g.override
		if rt < 0 || math.IsNaN(rt) || math.IsInf(rt, 0) {
			return nil, configError("run_time", "must be a finite value >= 0, got %v", rt)
		}
	}
	g.buildTimeline()
	return g, nil
}

// Succession plays anims one after another. Each child begins only when its
// window opens, after the children before it have run their course, so a
// child snapshots the state they leave behind and may drive the same
// mobjects. The windows are laid out from the run times known when the
// Succession is created.
func Succession(anims []Animation, opts ...Option) (*Group, error) {
	opts = append([]Option{WithName("Succession"), WithLagRatio(1)}, opts...)
	g, err := NewGroup(anims, opts...)
	if err != nil {
		return nil, err
	}
	g.lazy = true
	return g, nil
}

// LaggedStart plays anims with a small stagger, 0.05 by default.
func LaggedStart(anims []Animation, opts ...Option) (*Group, error) {
	opts = append([]Option{WithName("LaggedStart"), WithLagRatio(0.05)}, opts...)
	return NewGroup(anims, opts...)
}

func (g *Group) String() string {
	return fmt.Sprintf("%s(%d)", g.name, len(g.anims))
}

// buildTimeline lays the children out from their current run times.
func (g *Group) buildTimeline() {
	g.windows = make([]Window, len(g.anims))
	g.committed = make([]bool, len(g.anims))
	start, natural := 0.0, 0.0
	for i, a := range g.anims {
		rt := a.RunTime()
		g.windows[i] = Window{Start: start, End: start + rt}
		natural = math.Max(natural, start+rt)
		start += g.lagRatio * rt
	}

	g.runTime = natural
	if g.override == nil {
		return
	}
	// An explicit run time stretches every window by the same factor.
	if natural > 0 {
		scale := *g.override / natural
		for i := range g.windows {
			g.windows[i].Start *= scale
			g.windows[i].End *= scale
		}
	}
	g.runTime = *g.override
}

// Windows returns the start and end time of each child.
func (g *Group) Windows() []Window {
	return append([]Window(nil), g.windows...)
}

// Animations returns the children in order.
func (g *Group) Animations() []Animation {
	return append([]Animation(nil), g.anims...)
}

// Begin begins every child before anything is interpolated, so all starting
// snapshots reflect the state before the group changes anything. A
// Succession only begins its first child.
func (g *Group) Begin(tl *Timeline) error {
	if err := checkState("begin", g.state); err != nil {
		return err
	}
	if tl == nil {
		tl = NewTimeline(nil)
	}
	g.tl = tl
	g.begun = make([]bool, len(g.anims))
	if g.lazy {
		if len(g.anims) > 0 {
			if err := g.beginChild(0, 0); err != nil {
				g.tl = nil
				return fmt.Errorf("%v: child 0: %w", g, err)
			}
		}
	} else {
		for i, a := range g.anims {
			if err := a.Begin(tl); err != nil {
				g.tl = nil
				return fmt.Errorf("%v: child %d: %w", g, i, err)
			}
			g.begun[i] = true
		}
		// Children with computed run times are only known now.
		g.buildTimeline()
	}

	g.state = Begun
	if g.introducer && g.mob != nil {
		tl.add(g.mob)
	}
	return nil
}

// Interpolate drives every child whose window has opened by the group time
// rate(alpha) * run_time.
func (g *Group) Interpolate(alpha float64) error {
	return g.interpolate(alpha, nil)
}

func (g *Group) interpolate(alpha float64, rf rate.Func) error {
	if err := checkState("interpolate", g.state); err != nil {
		return err
	}
	g.state = Interpolating
	if rf == nil {
		rf = g.rateFunc
	}

	t := rf(alpha) * g.runTime
	for i, a := range g.anims {
		w := g.windows[i]
		if t < w.Start-epsilon {
			g.committed[i] = false
			continue
		}
		if err := g.beginChild(i, t); err != nil {
			return fmt.Errorf("%v: child %d: %w", g, i, err)
		}
		if w.End-w.Start <= 0 {
			if !g.committed[i] {
				if err := a.Interpolate(1); err != nil {
					return fmt.Errorf("%v: child %d: %w", g, i, err)
				}
				g.committed[i] = true
			}
			continue
		}
		if err := a.Interpolate(g.localAlpha(i, t)); err != nil {
			return fmt.Errorf("%v: child %d: %w", g, i, err)
		}
	}
	return nil
}

// localAlpha maps group time t into the window of child i.
func (g *Group) localAlpha(i int, t float64) float64 {
	w := g.windows[i]
	length := w.End - w.Start
	switch {
	case t >= w.End-epsilon:
		return 1
	case length <= 0:
		return 0
	}
	return clip((t-w.Start)/math.Max(length, epsilon), 0, 1)
}

// beginChild begins child i of a Succession the first time it is needed.
// The updater claims of earlier children whose window closed by t are
// handed over first.
func (g *Group) beginChild(i int, t float64) error {
	if g.begun[i] {
		return nil
	}
	for j := 0; j < i; j++ {
		if g.begun[j] && t >= g.windows[j].End-epsilon {
			g.tl.releaseMobjects(g.anims[j].mobjects())
		}
	}
	if err := g.anims[i].Begin(g.tl); err != nil {
		return err
	}
	g.begun[i] = true
	return nil
}

// Finish commits the state at the end of the group timeline and finishes
// every child there. A remover group also removes its group mobject and
// every child mobject.
func (g *Group) Finish() error {
	return g.finish(1, nil)
}

func (g *Group) finish(alpha float64, rf rate.Func) error {
	if err := checkState("finish", g.state); err != nil {
		return err
	}
	if rf == nil {
		rf = g.rateFunc
	}

	t := rf(alpha) * g.runTime
	// Children whose window has not opened by t finish first, so the state
	// left behind is the one Interpolate would leave.
	order := make([]int, 0, len(g.anims))
	for i := range g.anims {
		if t < g.windows[i].Start-epsilon {
			order = append(order, i)
		}
	}
	for i := range g.anims {
		if t >= g.windows[i].Start-epsilon {
			order = append(order, i)
		}
	}
	for _, i := range order {
		if err := g.beginChild(i, math.Inf(1)); err != nil {
			return fmt.Errorf("%v: child %d: %w", g, i, err)
		}
		if err := g.anims[i].finish(g.localAlpha(i, t), nil); err != nil {
			return fmt.Errorf("%v: child %d: %w", g, i, err)
		}
	}
	g.state = Finished
	if g.remover {
		g.tl.remove(g.mobjects()...)
	}
	return nil
}

// RunTime returns the duration of the group in seconds.
func (g *Group) RunTime() float64 { return g.runTime }

// RateFunc returns the easing applied to the group time.
func (g *Group) RateFunc() rate.Func { return g.rateFunc }

// LagRatio returns the stagger between consecutive children.
func (g *Group) LagRatio() float64 { return g.lagRatio }

// Mobject returns the group mobject, which may be nil.
func (g *Group) Mobject() *mobject.Mobject { return g.mob }

// Remover reports whether the group removes its mobjects when finished.
func (g *Group) Remover() bool { return g.remover }

// Introducer reports whether the group adds its group mobject when begun.
func (g *Group) Introducer() bool { return g.introducer }

// State returns the lifecycle state.
func (g *Group) State() State { return g.state }

// Copy returns an unstarted group of copied children. Children that drove
// members of the group mobject drive the matching members of its copy.
func (g *Group) Copy() Animation {
	return g.copyWith(make(map[*mobject.Mobject]*mobject.Mobject))
}

func (g *Group) copyWith(mobs map[*mobject.Mobject]*mobject.Mobject) Animation {
	c := *g
	c.mob = copyMobject(g.mob, mobs)
	c.anims = make([]Animation, len(g.anims))
	for i, a := range g.anims {
		c.anims[i] = a.copyWith(mobs)
	}
	c.state = Unstarted
	c.tl = nil
	c.begun = nil
	c.buildTimeline()
	return &c
}

func (g *Group) mobjects() []*mobject.Mobject {
	var mobs []*mobject.Mobject
	seen := make(map[*mobject.Mobject]bool)
	addMob := func(m *mobject.Mobject) {
		if m != nil && !seen[m] {
			seen[m] = true
			mobs = append(mobs, m)
		}
	}
	addMob(g.mob)
	for _, a := range g.anims {
		for _, m := range a.mobjects() {
			addMob(m)
		}
	}
	return mobs
}
