// Package scene drives animations frame by frame over a set of mobjects and
// hands every frame to a Renderer.
package scene

import (
	"context"
	"fmt"
	"log"
	"math"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/matt-g-everett/ledscene/animation"
	"github.com/matt-g-everett/ledscene/mobject"
)

const tracerName = "github.com/matt-g-everett/ledscene/scene"

// DefaultFrameRate is used when no frame rate is configured.
const DefaultFrameRate = 30.0

// A Renderer consumes the scene state after every frame. t is the scene time
// in seconds.
type Renderer interface {
	Render(t float64, mobs []*mobject.Mobject) error
}

// RendererFunc adapts a function to a Renderer.
type RendererFunc func(t float64, mobs []*mobject.Mobject) error

// Render calls f.
func (f RendererFunc) Render(t float64, mobs []*mobject.Mobject) error {
	return f(t, mobs)
}

// An UpdaterFunc runs once per frame with the real frame delta.
type UpdaterFunc func(dt float64)

type sceneUpdater struct {
	token mobject.Token
	fn    UpdaterFunc
}

// Scene holds the top-level mobjects and plays animations over them.
type Scene struct {
	frameRate float64
	renderer  Renderer
	logger    *log.Logger
	tracer    trace.Tracer

	mobs      []*mobject.Mobject
	updaters  []sceneUpdater
	nextToken mobject.Token
	time      float64
}

// Option configures a Scene.
type Option func(*Scene)

// WithFrameRate sets the number of frames per second.
func WithFrameRate(fps float64) Option {
	return func(s *Scene) { s.frameRate = fps }
}

// WithRenderer sets the frame consumer.
func WithRenderer(r Renderer) Option {
	return func(s *Scene) { s.renderer = r }
}

// WithLogger logs every play to l.
func WithLogger(l *log.Logger) Option {
	return func(s *Scene) { s.logger = l }
}

// WithTracerProvider traces plays with tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Scene) { s.tracer = tp.Tracer(tracerName) }
}

// New creates an empty Scene.
func New(opts ...Option) *Scene {
	s := new(Scene)
	s.frameRate = DefaultFrameRate
	for _, opt := range opts {
		opt(s)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	if s.frameRate <= 0 || math.IsNaN(s.frameRate) || math.IsInf(s.frameRate, 0) {
		s.frameRate = DefaultFrameRate
	}
	return s
}

// FrameRate returns the frames per second.
func (s *Scene) FrameRate() float64 {
	return s.frameRate
}

// Time returns the scene time in seconds played so far.
func (s *Scene) Time() float64 {
	return s.time
}

// Mobjects returns the top-level mobjects in drawing order.
func (s *Scene) Mobjects() []*mobject.Mobject {
	return append([]*mobject.Mobject(nil), s.mobs...)
}

// Add puts mobs on top of the scene. A top-level mobject already present is
// moved to the top; a descendant of one is left where it is.
func (s *Scene) Add(mobs ...*mobject.Mobject) {
	for _, m := range mobs {
		if m == nil || (m.Parent() != nil && s.Contains(m)) {
			continue
		}
		s.Remove(m)
		s.mobs = append(s.mobs, m)
	}
}

// Remove takes mobs off the scene.
func (s *Scene) Remove(mobs ...*mobject.Mobject) {
	for _, m := range mobs {
		for i, k := range s.mobs {
			if k == m {
				s.mobs = append(s.mobs[:i], s.mobs[i+1:]...)
				break
			}
		}
	}
}

// Contains reports whether m is part of the scene, directly or as a
// descendant of a top-level mobject.
func (s *Scene) Contains(m *mobject.Mobject) bool {
	for _, top := range s.mobs {
		for _, f := range top.Family() {
			if f == m {
				return true
			}
		}
	}
	return false
}

// AddUpdater registers fn to run every frame, animations or not.
func (s *Scene) AddUpdater(fn UpdaterFunc) mobject.Token {
	s.nextToken++
	s.updaters = append(s.updaters, sceneUpdater{token: s.nextToken, fn: fn})
	return s.nextToken
}

// RemoveUpdater unregisters a scene updater.
func (s *Scene) RemoveUpdater(t mobject.Token) bool {
	for i, u := range s.updaters {
		if u.token == t {
			s.updaters = append(s.updaters[:i], s.updaters[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Scene) hasUpdaters() bool {
	if len(s.updaters) > 0 {
		return true
	}
	for _, m := range s.mobs {
		if m.FamilyHasUpdaters() {
			return true
		}
	}
	return false
}

// Play compiles items into one animation and plays it.
func (s *Scene) Play(ctx context.Context, items ...any) error {
	return s.PlayWith(ctx, nil, items...)
}

// PlayWith is Play with options applied to the compiled group, such as
// WithRunTime, WithRateFunc or WithLagRatio.
func (s *Scene) PlayWith(ctx context.Context, opts []animation.Option, items ...any) error {
	top, err := Compile(opts, items...)
	if err != nil {
		return err
	}
	for _, m := range animation.Mobjects(top) {
		if !top.Introducer() && !s.Contains(m) {
			s.Add(m)
		}
	}
	return s.run(ctx, top, nil, false)
}

// Wait plays nothing for seconds. Updaters keep running; a scene without
// updaters just repeats its frame.
func (s *Scene) Wait(ctx context.Context, seconds float64) error {
	return s.run(ctx, animation.NewWait(animation.WithRunTime(seconds)), nil, !s.hasUpdaters())
}

// Pause holds the current frame for seconds without running updaters.
func (s *Scene) Pause(ctx context.Context, seconds float64) error {
	return s.run(ctx, animation.NewWait(animation.WithRunTime(seconds)), nil, true)
}

// WaitUntil runs updaters until stop returns true or maxSeconds pass.
func (s *Scene) WaitUntil(ctx context.Context, stop func() bool, maxSeconds float64) error {
	return s.run(ctx, animation.NewWait(animation.WithRunTime(maxSeconds)), stop, false)
}

// run begins top, interpolates it once per frame and finishes it. Between
// frames it ticks every updater not held by an animation and renders.
// Cancellation and stop only take effect between frames, stop is also
// consulted before the first one, and top is always finished unless an
// animation fails.
func (s *Scene) run(ctx context.Context, top animation.Animation, stop func() bool, frozen bool) error {
	ctx, span := s.tracer.Start(ctx, "scene.play", trace.WithAttributes(
		attribute.String("animation", fmt.Sprint(top)),
		attribute.Bool("frozen", frozen),
	))
	defer span.End()

	tl := animation.NewTimeline(s)
	if err := top.Begin(tl); err != nil {
		return spanError(span, err)
	}
	runTime := top.RunTime()
	span.SetAttributes(attribute.Float64("run_time", runTime))

	dt := 1 / s.frameRate
	total := int(math.Ceil(runTime*s.frameRate - 1e-9))
	var interrupted error
	frames := 0
	if stop != nil && stop() {
		total = 0
	}
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			interrupted = err
			break
		}
		elapsed := float64(i) * dt
		if err := top.Interpolate(clip(elapsed/runTime, 0, 1)); err != nil {
			return spanError(span, err)
		}
		if !frozen {
			s.update(tl, dt)
		}
		s.time += dt
		frames++
		if err := s.render(); err != nil {
			return spanError(span, err)
		}
		if stop != nil && stop() {
			break
		}
	}

	if err := top.Finish(); err != nil {
		return spanError(span, err)
	}
	span.SetAttributes(attribute.Int("frames", frames))
	if s.logger != nil {
		s.logger.Printf("Played %v: %.2fs in %d frames", top, runTime, frames)
	}
	if interrupted != nil {
		return spanError(span, interrupted)
	}
	return nil
}

func (s *Scene) update(tl *animation.Timeline, dt float64) {
	uc := tl.UpdateContext(dt)
	for _, m := range s.Mobjects() {
		m.Update(uc)
	}
	for _, u := range append([]sceneUpdater(nil), s.updaters...) {
		u.fn(dt)
	}
}

func (s *Scene) render() error {
	if s.renderer == nil {
		return nil
	}
	return s.renderer.Render(s.time, s.Mobjects())
}

func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func clip(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
