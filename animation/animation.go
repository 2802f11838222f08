// Package animation implements the animation lifecycle and the timing
// composition engine: single animations over a mobject family, groups laid
// out on a lag-ratio timeline, and speed remapping.
//
// Every animation follows the same lifecycle:
//
//	Unstarted -> Begin -> Interpolate(alpha)* -> Finish
//
// Interpolate is a pure function of the snapshots taken at Begin and of
// alpha, so it can be called repeatedly and out of order to scrub through
// time.
package animation

import (
	"github.com/matt-g-everett/ledscene/mobject"
	"github.com/matt-g-everett/ledscene/rate"
)

// State is the lifecycle state of an animation.
type State int

const (
	Unstarted State = iota
	Begun
	Interpolating
	Finished
)

func (s State) String() string {
	switch s {
	case Unstarted:
		return "unstarted"
	case Begun:
		return "begun"
	case Interpolating:
		return "interpolating"
	case Finished:
		return "finished"
	}
	return "unknown"
}

// An Animation drives part of a mobject tree over normalized time.
//
// The set of implementations is closed: Leaf, Group and ChangeSpeed.
type Animation interface {
	// Begin captures the starting state. It must be called exactly once,
	// before any Interpolate.
	Begin(tl *Timeline) error
	// Interpolate sets the driven mobjects to their state at alpha in [0, 1].
	Interpolate(alpha float64) error
	// Finish commits the terminal state and releases the timeline.
	Finish() error

	// RunTime is the duration in seconds.
	RunTime() float64
	// RateFunc is the easing applied to alpha.
	RateFunc() rate.Func
	// Mobject is the mobject the animation drives, or nil.
	Mobject() *mobject.Mobject
	Remover() bool
	Introducer() bool
	State() State
	// Copy returns an unstarted animation with the same configuration that
	// drives a deep copy of the mobject.
	Copy() Animation

	// interpolate is Interpolate with the rate function replaced by rf when
	// rf is not nil.
	interpolate(alpha float64, rf rate.Func) error
	// finish commits the state at alpha, with the rate function replaced by
	// rf when rf is not nil, and ends the animation.
	finish(alpha float64, rf rate.Func) error
	// copyWith copies the animation. Mobjects already copied are looked up
	// in mobs, new copies are recorded there.
	copyWith(mobs map[*mobject.Mobject]*mobject.Mobject) Animation
	// mobjects lists every mobject the animation drives.
	mobjects() []*mobject.Mobject
}

// A Builder produces an Animation on demand, for example from a chain of
// deferred mobject methods.
type Builder interface {
	Build() (Animation, error)
}

// Stage receives the mobjects introduced and removed by animations.
type Stage interface {
	Add(mobs ...*mobject.Mobject)
	Remove(mobs ...*mobject.Mobject)
}

// A Timeline is the per-play context shared by every animation begun on it.
// It owns the updater suspension set and the active speed remapping.
type Timeline struct {
	stage  Stage
	claims map[*mobject.Mobject]Animation
	speed  *ChangeSpeed
}

// NewTimeline creates a Timeline reporting additions and removals to stage,
// which may be nil.
func NewTimeline(stage Stage) *Timeline {
	tl := new(Timeline)
	tl.stage = stage
	tl.claims = make(map[*mobject.Mobject]Animation)
	return tl
}

// Claimed reports whether an animation holds the updaters of m.
func (tl *Timeline) Claimed(m *mobject.Mobject) bool {
	_, ok := tl.claims[m]
	return ok
}

// ScaledDt converts a real frame delta into the delta seen by speed-scaled
// updaters: dt times the instantaneous speed of the active ChangeSpeed.
func (tl *Timeline) ScaledDt(dt float64) float64 {
	if tl.speed == nil {
		return dt
	}
	return dt * tl.speed.Speed(tl.speed.outer)
}

// UpdateContext returns the mobject update context for one frame of dt.
func (tl *Timeline) UpdateContext(dt float64) mobject.UpdateContext {
	return mobject.UpdateContext{
		Dt:       dt,
		ScaledDt: tl.ScaledDt(dt),
		Claimed:  tl.Claimed,
	}
}

func (tl *Timeline) claim(owner Animation, family []*mobject.Mobject) error {
	for _, m := range family {
		if other, ok := tl.claims[m]; ok && other != owner {
			return ErrConflict
		}
	}
	for _, m := range family {
		tl.claims[m] = owner
	}
	return nil
}

func (tl *Timeline) release(owner Animation) {
	for m, a := range tl.claims {
		if a == owner {
			delete(tl.claims, m)
		}
	}
}

// releaseMobjects drops every claim on the families of mobs.
func (tl *Timeline) releaseMobjects(mobs []*mobject.Mobject) {
	for _, m := range mobs {
		for _, f := range m.Family() {
			delete(tl.claims, f)
		}
	}
}

func (tl *Timeline) setSpeed(cs *ChangeSpeed) error {
	if tl.speed != nil && tl.speed != cs {
		return configError("affects_speed_updaters", "already set by another ChangeSpeed on this timeline")
	}
	tl.speed = cs
	return nil
}

func (tl *Timeline) clearSpeed(cs *ChangeSpeed) {
	if tl.speed == cs {
		tl.speed = nil
	}
}

func (tl *Timeline) add(mobs ...*mobject.Mobject) {
	if tl.stage != nil && len(mobs) > 0 {
		tl.stage.Add(mobs...)
	}
}

func (tl *Timeline) remove(mobs ...*mobject.Mobject) {
	if tl.stage != nil && len(mobs) > 0 {
		tl.stage.Remove(mobs...)
	}
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// copyMobject returns the copy of m recorded in mobs, or makes one and
// records it for every member of its family.
func copyMobject(m *mobject.Mobject, mobs map[*mobject.Mobject]*mobject.Mobject) *mobject.Mobject {
	if m == nil {
		return nil
	}
	if c, ok := mobs[m]; ok {
		return c
	}
	c := m.Copy()
	orig, copies := m.Family(), c.Family()
	for i := range orig {
		if _, ok := mobs[orig[i]]; !ok {
			mobs[orig[i]] = copies[i]
		}
	}
	return c
}

// Mobjects lists every mobject driven by a, including those of nested
// animations, without duplicates.
func Mobjects(a Animation) []*mobject.Mobject {
	return a.mobjects()
}
