package animation

import (
	"fmt"
	"math"
	"sort"

	"github.com/matt-g-everett/ledscene/mobject"
	"github.com/matt-g-everett/ledscene/rate"
)

// SpeedInfo maps checkpoints in (0, 1] of the outer timeline to speed
// factors >= 0. The speed at 0 is 1; when 1 is not given the last speed is
// held to the end. Between checkpoints speed changes linearly.
type SpeedInfo map[float64]float64

type speedNode struct {
	at    float64
	speed float64
	// area is the integral of the speed curve from 0 to at.
	area float64
}

// ChangeSpeed plays an animation with a varying speed. The wrapped
// animation covers its whole timeline exactly once whatever the speeds, so
// a faster curve finishes sooner.
type ChangeSpeed struct {
	anim     Animation
	rateFunc rate.Func
	affects  bool
	nodes    []speedNode
	total    float64

	state State
	tl    *Timeline
	outer float64
}

// SpeedOption configures a ChangeSpeed.
type SpeedOption func(*ChangeSpeed)

// WithSpeedRateFunc replaces the rate function of the wrapped animation.
func WithSpeedRateFunc(f rate.Func) SpeedOption {
	return func(cs *ChangeSpeed) { cs.rateFunc = f }
}

// AffectsSpeedUpdaters controls whether updaters registered with
// mobject.AddScaledUpdater follow the speed curve. Defaults to true.
func AffectsSpeedUpdaters(affects bool) SpeedOption {
	return func(cs *ChangeSpeed) { cs.affects = affects }
}

// NewChangeSpeed wraps anim with the speed curve described by info.
func NewChangeSpeed(anim Animation, info SpeedInfo, opts ...SpeedOption) (*ChangeSpeed, error) {
	if anim == nil {
		return nil, configError("animation", "is nil")
	}
	cs := new(ChangeSpeed)
	cs.anim = anim
	cs.affects = true
	for _, opt := range opts {
		opt(cs)
	}

	checkpoints := make([]float64, 0, len(info))
	for at, speed := range info {
		if math.IsNaN(at) || at <= 0 || at > 1 {
			return nil, configError("speedinfo", "checkpoint %v outside (0, 1]", at)
		}
		if math.IsNaN(speed) || math.IsInf(speed, 0) || speed < 0 {
			return nil, configError("speedinfo", "speed %v at %v must be a finite value >= 0", speed, at)
		}
		checkpoints = append(checkpoints, at)
	}
	sort.Float64s(checkpoints)

	cs.nodes = append(cs.nodes, speedNode{at: 0, speed: 1})
	for _, at := range checkpoints {
		cs.nodes = append(cs.nodes, speedNode{at: at, speed: info[at]})
	}
	if last := cs.nodes[len(cs.nodes)-1]; last.at != 1 {
		cs.nodes = append(cs.nodes, speedNode{at: 1, speed: last.speed})
	}

	// Trapezoids are exact for a piecewise linear curve.
	for i := 1; i < len(cs.nodes); i++ {
		prev := cs.nodes[i-1]
		cs.nodes[i].area = prev.area + (cs.nodes[i].at-prev.at)*(prev.speed+cs.nodes[i].speed)/2
	}
	cs.total = cs.nodes[len(cs.nodes)-1].area
	if cs.total <= 0 {
		return nil, configError("speedinfo", "speed curve covers no distance")
	}
	return cs, nil
}

func (cs *ChangeSpeed) String() string {
	return fmt.Sprintf("ChangeSpeed(%v)", cs.anim)
}

// segment returns the index i with nodes[i].at <= t <= nodes[i+1].at.
func (cs *ChangeSpeed) segment(t float64) int {
	i := sort.Search(len(cs.nodes), func(i int) bool { return cs.nodes[i].at >= t })
	if i > 0 {
		i--
	}
	if i > len(cs.nodes)-2 {
		i = len(cs.nodes) - 2
	}
	return i
}

// Speed returns the speed factor at outer alpha t: the rate at which the
// wrapped animation's seconds pass per real second.
func (cs *ChangeSpeed) Speed(t float64) float64 {
	t = clip(t, 0, 1)
	i := cs.segment(t)
	a, b := cs.nodes[i], cs.nodes[i+1]
	if b.at == a.at {
		return b.speed
	}
	return a.speed + (b.speed-a.speed)*(t-a.at)/(b.at-a.at)
}

// ScaledTotalTime is the area under the speed curve over [0, 1].
func (cs *ChangeSpeed) ScaledTotalTime() float64 {
	return cs.total
}

// InnerAlpha maps outer alpha t to the alpha of the wrapped animation. It is
// monotonic with InnerAlpha(0) == 0 and InnerAlpha(1) == 1.
func (cs *ChangeSpeed) InnerAlpha(t float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return 1
	}
	i := cs.segment(t)
	a := cs.nodes[i]
	area := a.area + (t-a.at)*(a.speed+cs.Speed(t))/2
	return clip(area/cs.total, 0, 1)
}

// Begin begins the wrapped animation and, when it affects speed updaters,
// makes this the speed source of tl.
func (cs *ChangeSpeed) Begin(tl *Timeline) error {
	if err := checkState("begin", cs.state); err != nil {
		return err
	}
	if tl == nil {
		tl = NewTimeline(nil)
	}
	if cs.affects {
		if err := tl.setSpeed(cs); err != nil {
			return err
		}
	}
	if err := cs.anim.Begin(tl); err != nil {
		tl.clearSpeed(cs)
		return fmt.Errorf("%v: %w", cs, err)
	}
	cs.tl = tl
	cs.outer = 0
	cs.state = Begun
	return nil
}

// Interpolate forwards the remapped alpha to the wrapped animation.
func (cs *ChangeSpeed) Interpolate(alpha float64) error {
	return cs.interpolate(alpha, nil)
}

func (cs *ChangeSpeed) interpolate(alpha float64, rf rate.Func) error {
	if err := checkState("interpolate", cs.state); err != nil {
		return err
	}
	cs.state = Interpolating
	cs.outer = alpha
	if rf == nil {
		rf = cs.rateFunc
	}
	return cs.anim.interpolate(cs.InnerAlpha(alpha), rf)
}

// Finish finishes the wrapped animation and releases the speed source.
func (cs *ChangeSpeed) Finish() error {
	return cs.finish(1, nil)
}

// finish ends the wrapped animation at the remapped alpha, so a replacement
// rate function also decides the final state.
func (cs *ChangeSpeed) finish(alpha float64, rf rate.Func) error {
	if err := checkState("finish", cs.state); err != nil {
		return err
	}
	if rf == nil {
		rf = cs.rateFunc
	}
	cs.outer = alpha
	if err := cs.anim.finish(cs.InnerAlpha(alpha), rf); err != nil {
		return fmt.Errorf("%v: %w", cs, err)
	}
	cs.tl.clearSpeed(cs)
	cs.state = Finished
	return nil
}

// RunTime is the wrapped run time divided by the area under the speed
// curve.
func (cs *ChangeSpeed) RunTime() float64 {
	return cs.anim.RunTime() / cs.total
}

// RateFunc returns the replacement rate function, or the wrapped one.
func (cs *ChangeSpeed) RateFunc() rate.Func {
	if cs.rateFunc != nil {
		return cs.rateFunc
	}
	return cs.anim.RateFunc()
}

// Mobject returns the wrapped animation's mobject.
func (cs *ChangeSpeed) Mobject() *mobject.Mobject { return cs.anim.Mobject() }

// Remover reports whether the wrapped animation is a remover.
func (cs *ChangeSpeed) Remover() bool { return cs.anim.Remover() }

// Introducer reports whether the wrapped animation is an introducer.
func (cs *ChangeSpeed) Introducer() bool { return cs.anim.Introducer() }

// State returns the lifecycle state.
func (cs *ChangeSpeed) State() State { return cs.state }

// Inner returns the wrapped animation.
func (cs *ChangeSpeed) Inner() Animation { return cs.anim }

// Copy returns an unstarted ChangeSpeed around a copy of the wrapped
// animation.
func (cs *ChangeSpeed) Copy() Animation {
	return cs.copyWith(make(map[*mobject.Mobject]*mobject.Mobject))
}

func (cs *ChangeSpeed) copyWith(mobs map[*mobject.Mobject]*mobject.Mobject) Animation {
	c := *cs
	c.anim = cs.anim.copyWith(mobs)
	c.nodes = append([]speedNode(nil), cs.nodes...)
	c.state = Unstarted
	c.tl = nil
	c.outer = 0
	return &c
}

func (cs *ChangeSpeed) mobjects() []*mobject.Mobject {
	return cs.anim.mobjects()
}
