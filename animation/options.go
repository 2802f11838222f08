package animation

import (
	"github.com/matt-g-everett/ledscene/mobject"
	"github.com/matt-g-everett/ledscene/rate"
)

// An Option configures an animation at construction.
type Option func(*options)

type options struct {
	runTime     *float64
	runTimeFunc func(m *mobject.Mobject) float64
	rateFunc    rate.Func
	lagRatio    *float64
	remover     *bool
	introducer  *bool
	suspend     *bool
	path        mobject.PathFunc
	group       *mobject.Mobject
	shift       mobject.Point
	name        string
}

func newOptions(opts []Option) *options {
	o := new(options)
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *options) runTimeOr(def float64) float64 {
	if o.runTime != nil {
		return *o.runTime
	}
	return def
}

func (o *options) lagRatioOr(def float64) float64 {
	if o.lagRatio != nil {
		return *o.lagRatio
	}
	return def
}

func (o *options) rateFuncOr(def rate.Func) rate.Func {
	if o.rateFunc != nil {
		return o.rateFunc
	}
	return def
}

func boolOr(b *bool, def bool) bool {
	if b != nil {
		return *b
	}
	return def
}

// WithRunTime sets the duration in seconds.
func WithRunTime(seconds float64) Option {
	return func(o *options) { o.runTime = &seconds }
}

// WithRunTimeFunc computes the duration from the mobject when the animation
// begins. It takes precedence over WithRunTime.
func WithRunTimeFunc(f func(m *mobject.Mobject) float64) Option {
	return func(o *options) { o.runTimeFunc = f }
}

// WithRateFunc sets the easing.
func WithRateFunc(f rate.Func) Option {
	return func(o *options) { o.rateFunc = f }
}

// WithLagRatio staggers groups, or the family members of a single animation.
func WithLagRatio(lag float64) Option {
	return func(o *options) { o.lagRatio = &lag }
}

// WithRemover marks the animation as removing its mobject when finished.
func WithRemover(remover bool) Option {
	return func(o *options) { o.remover = &remover }
}

// WithIntroducer marks the animation as adding its mobject when begun.
func WithIntroducer(introducer bool) Option {
	return func(o *options) { o.introducer = &introducer }
}

// WithSuspendUpdating controls whether the mobject's updaters are held
// while the animation runs. Defaults to true.
func WithSuspendUpdating(suspend bool) Option {
	return func(o *options) { o.suspend = &suspend }
}

// WithPath sets the path points follow between snapshots.
func WithPath(path mobject.PathFunc) Option {
	return func(o *options) { o.path = path }
}

// WithGroup sets the mobject a Group represents.
func WithGroup(m *mobject.Mobject) Option {
	return func(o *options) { o.group = m }
}

// WithShift offsets the faded end of FadeIn and FadeOut.
func WithShift(d mobject.Point) Option {
	return func(o *options) { o.shift = d }
}

// WithName labels the animation in logs.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}
