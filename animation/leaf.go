package animation

import (
	"fmt"
	"math"

	"github.com/matt-g-everett/ledscene/mobject"
	"github.com/matt-g-everett/ledscene/rate"
)

// StepFunc writes the state of one live family member at alpha from its
// immutable snapshots. target is nil for animations without a target.
type StepFunc func(sub, start, target *mobject.Mobject, alpha float64) error

// SnapshotFunc derives a snapshot from the live mobject. The result is
// owned by the animation and must not share buffers with live.
type SnapshotFunc func(live *mobject.Mobject) *mobject.Mobject

// A Leaf animates one mobject family from a starting snapshot, optionally
// towards a target snapshot.
type Leaf struct {
	name        string
	mob         *mobject.Mobject
	runTime     float64
	runTimeFunc func(m *mobject.Mobject) float64
	rateFunc    rate.Func
	lagRatio    float64
	remover     bool
	introducer  bool
	suspend     bool
	path        mobject.PathFunc
	startFunc   SnapshotFunc
	targetFunc  SnapshotFunc
	step        StepFunc
	rootOnly    bool
	err         error

	state  State
	tl     *Timeline
	family []*mobject.Mobject
	starts []*mobject.Mobject
	ends   []*mobject.Mobject
}

// NewLeaf creates a Leaf driving m with step. A nil startFunc snapshots a
// plain copy of m; a nil targetFunc means no target snapshot.
func NewLeaf(m *mobject.Mobject, step StepFunc, startFunc, targetFunc SnapshotFunc, opts ...Option) *Leaf {
	o := newOptions(opts)
	l := new(Leaf)
	l.name = o.name
	l.mob = m
	l.runTime = o.runTimeOr(1.0)
	l.runTimeFunc = o.runTimeFunc
	l.rateFunc = o.rateFuncOr(rate.Smooth)
	l.lagRatio = o.lagRatioOr(0)
	l.remover = boolOr(o.remover, false)
	l.introducer = boolOr(o.introducer, false)
	l.suspend = boolOr(o.suspend, true)
	l.path = o.path
	l.startFunc = startFunc
	l.targetFunc = targetFunc
	l.step = step
	if l.name == "" {
		l.name = "Animation"
	}

	switch {
	case l.runTime < 0 || math.IsNaN(l.runTime) || math.IsInf(l.runTime, 0):
		l.err = configError("run_time", "must be a finite value >= 0, got %v", l.runTime)
	case math.IsNaN(l.lagRatio) || math.IsInf(l.lagRatio, 0):
		l.err = configError("lag_ratio", "must be finite, got %v", l.lagRatio)
	}
	return l
}

func (l *Leaf) String() string {
	if l.mob == nil {
		return l.name
	}
	return fmt.Sprintf("%s(%s)", l.name, l.mob.Name)
}

// Begin snapshots the family and claims its updaters on tl.
func (l *Leaf) Begin(tl *Timeline) error {
	if err := checkState("begin", l.state); err != nil {
		return err
	}
	if l.err != nil {
		return l.err
	}
	if tl == nil {
		tl = NewTimeline(nil)
	}

	if l.runTimeFunc != nil {
		rt := l.runTimeFunc(l.mob)
		if rt < 0 || math.IsNaN(rt) || math.IsInf(rt, 0) {
			return configError("run_time", "computed value must be a finite value >= 0, got %v", rt)
		}
		l.runTime = rt
	}

	if l.mob != nil {
		if err := l.snapshot(); err != nil {
			return err
		}
		if l.suspend {
			if err := tl.claim(l, l.family); err != nil {
				return fmt.Errorf("%v: %w", l, err)
			}
		}
	}

	l.tl = tl
	l.state = Begun
	if l.introducer && l.mob != nil {
		tl.add(l.mob)
	}
	return nil
}

func (l *Leaf) snapshot() error {
	var start *mobject.Mobject
	if l.startFunc != nil {
		start = l.startFunc(l.mob)
	} else {
		start = l.mob.Copy()
	}
	l.family = l.mob.Family()
	l.starts = start.Family()
	if len(l.starts) != len(l.family) {
		return &mobject.StructureMismatchError{Index: -1, Start: len(l.family), Target: len(l.starts), What: "starting family size"}
	}

	if l.targetFunc != nil {
		l.ends = l.targetFunc(l.mob).Family()
		if err := mobject.CheckFamilies(l.starts, l.ends); err != nil {
			return err
		}
	} else {
		l.ends = make([]*mobject.Mobject, len(l.starts))
	}

	if l.rootOnly {
		l.family, l.starts, l.ends = l.family[:1], l.starts[:1], l.ends[:1]
	}
	return nil
}

// Interpolate sets the family to its state at alpha.
func (l *Leaf) Interpolate(alpha float64) error {
	return l.interpolate(alpha, nil)
}

func (l *Leaf) interpolate(alpha float64, rf rate.Func) error {
	if err := checkState("interpolate", l.state); err != nil {
		return err
	}
	l.state = Interpolating
	if rf == nil {
		rf = l.rateFunc
	}
	if l.step == nil {
		return nil
	}

	n := len(l.family)
	for i, sub := range l.family {
		if err := l.step(sub, l.starts[i], l.ends[i], l.subAlpha(alpha, i, n, rf)); err != nil {
			if l.mob != nil {
				return fmt.Errorf("%v: family member %d: %w", l, i, err)
			}
			return err
		}
	}
	return nil
}

// subAlpha staggers the family members by the lag ratio. With no lag every
// member sees rf(alpha).
func (l *Leaf) subAlpha(alpha float64, index, n int, rf rate.Func) float64 {
	if l.lagRatio == 0 || n < 2 {
		return rf(alpha)
	}
	full := float64(n-1)*l.lagRatio + 1
	lower := float64(index) * l.lagRatio
	return rf(clip(alpha*full-lower, 0, 1))
}

// Finish interpolates to 1 once more and releases the updaters.
func (l *Leaf) Finish() error {
	return l.finish(1, nil)
}

func (l *Leaf) finish(alpha float64, rf rate.Func) error {
	if err := checkState("finish", l.state); err != nil {
		return err
	}
	if err := l.interpolate(alpha, rf); err != nil {
		return err
	}
	l.tl.release(l)
	l.state = Finished
	if l.remover && l.mob != nil {
		if l.suspend {
			l.mob.SuspendUpdating()
		}
		l.tl.remove(l.mob)
	}
	return nil
}

// RunTime returns the duration in seconds.
func (l *Leaf) RunTime() float64 { return l.runTime }

// RateFunc returns the easing.
func (l *Leaf) RateFunc() rate.Func { return l.rateFunc }

// Mobject returns the driven mobject.
func (l *Leaf) Mobject() *mobject.Mobject { return l.mob }

// Remover reports whether the mobject is removed on Finish.
func (l *Leaf) Remover() bool { return l.remover }

// Introducer reports whether the mobject is added on Begin.
func (l *Leaf) Introducer() bool { return l.introducer }

// State returns the lifecycle state.
func (l *Leaf) State() State { return l.state }

// StartingSnapshot returns the root of the starting snapshot, or nil before
// Begin. Callers must not modify it.
func (l *Leaf) StartingSnapshot() *mobject.Mobject {
	if len(l.starts) == 0 {
		return nil
	}
	return l.starts[0]
}

// Copy returns an unstarted Leaf with the same configuration driving a
// deep copy of the mobject.
func (l *Leaf) Copy() Animation {
	return l.copyWith(make(map[*mobject.Mobject]*mobject.Mobject))
}

func (l *Leaf) copyWith(mobs map[*mobject.Mobject]*mobject.Mobject) Animation {
	c := *l
	c.mob = copyMobject(l.mob, mobs)
	c.state = Unstarted
	c.tl = nil
	c.family, c.starts, c.ends = nil, nil, nil
	return &c
}

func (l *Leaf) mobjects() []*mobject.Mobject {
	if l.mob == nil {
		return nil
	}
	return []*mobject.Mobject{l.mob}
}
