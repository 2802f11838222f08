package scene_test

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/matt-g-everett/ledscene/animation"
	"github.com/matt-g-everett/ledscene/mobject"
	"github.com/matt-g-everett/ledscene/scene"
)

type frames struct {
	times []float64
	mobs  [][]*mobject.Mobject
}

func (f *frames) Render(t float64, mobs []*mobject.Mobject) error {
	f.times = append(f.times, t)
	f.mobs = append(f.mobs, mobs)
	return nil
}

func bar(name string, from, to float64) *mobject.Mobject {
	return mobject.New(name, mobject.Point{X: from}, mobject.Point{X: to})
}

func newScene(fps float64, opts ...scene.Option) (*scene.Scene, *frames) {
	f := new(frames)
	opts = append([]scene.Option{scene.WithFrameRate(fps), scene.WithRenderer(f)}, opts...)
	return scene.New(opts...), f
}

func TestPlayRendersEveryFrame(t *testing.T) {
	s, f := newScene(10)
	m := bar("m", 0, 0.1)
	require.NoError(t, s.Play(context.Background(), animation.Transform(m, bar("t", 0.5, 0.6))))

	assert.Len(t, f.times, 10)
	assert.InDelta(t, 0.1, f.times[0], 1e-9)
	assert.InDelta(t, 1.0, s.Time(), 1e-9)
	assert.True(t, s.Contains(m))
	assert.Equal(t, []mobject.Point{{X: 0.5}, {X: 0.6}}, m.Points)
}

func TestDefaultFrameRate(t *testing.T) {
	assert.Equal(t, scene.DefaultFrameRate, scene.New().FrameRate())
	assert.Equal(t, scene.DefaultFrameRate, scene.New(scene.WithFrameRate(-5)).FrameRate())
}

func TestIntroducersAndRemovers(t *testing.T) {
	s, f := newScene(10)
	m := bar("m", 0, 0.1)
	ctx := context.Background()

	require.NoError(t, s.Play(ctx, animation.FadeIn(m)))
	assert.Equal(t, []*mobject.Mobject{m}, s.Mobjects())
	assert.Equal(t, []*mobject.Mobject{m}, f.mobs[0])

	require.NoError(t, s.Play(ctx, animation.FadeOut(m)))
	assert.Empty(t, s.Mobjects())
	assert.False(t, s.Contains(m))
}

func TestAddKeepsDescendantsInPlace(t *testing.T) {
	s := scene.New()
	child := bar("child", 0, 0.1)
	g := mobject.NewGroup("g", child)
	other := bar("other", 0.5, 0.6)
	s.Add(g, other)
	s.Add(child)
	assert.Equal(t, []*mobject.Mobject{g, other}, s.Mobjects())
	assert.True(t, s.Contains(child))

	// Re-adding a top-level mobject moves it to the top.
	s.Add(g)
	assert.Equal(t, []*mobject.Mobject{other, g}, s.Mobjects())
	s.Remove(g)
	assert.False(t, s.Contains(child))
}

func TestUpdatersSkipAnimatedMobjects(t *testing.T) {
	s, _ := newScene(10)
	animated, idle := bar("animated", 0, 0.1), bar("idle", 0.5, 0.6)
	var animatedTicks int
	var idleDts []float64
	animated.AddUpdater(func(*mobject.Mobject, float64) { animatedTicks++ })
	idle.AddUpdater(func(_ *mobject.Mobject, dt float64) { idleDts = append(idleDts, dt) })
	s.Add(idle)

	ctx := context.Background()
	require.NoError(t, s.Play(ctx, animation.Transform(animated, bar("t", 0.2, 0.3))))
	assert.Equal(t, 0, animatedTicks)
	require.Len(t, idleDts, 10)
	for _, dt := range idleDts {
		assert.InDelta(t, 0.1, dt, 1e-12)
	}

	// Once the animation is done the updaters run again.
	require.NoError(t, s.Wait(ctx, 0.5))
	assert.Equal(t, 5, animatedTicks)
	assert.Len(t, idleDts, 15)
}

func TestNonSuspendingAnimationKeepsUpdaters(t *testing.T) {
	s, _ := newScene(10)
	m := bar("m", 0, 0.1)
	ticks := 0
	m.AddUpdater(func(*mobject.Mobject, float64) { ticks++ })
	require.NoError(t, s.Play(context.Background(), animation.FadeIn(m, animation.WithSuspendUpdating(false))))
	assert.Equal(t, 10, ticks)
}

func TestPauseFreezesUpdaters(t *testing.T) {
	s, f := newScene(10)
	m := bar("m", 0, 0.1)
	ticks := 0
	m.AddUpdater(func(*mobject.Mobject, float64) { ticks++ })
	sceneTicks := 0
	s.AddUpdater(func(float64) { sceneTicks++ })
	s.Add(m)

	require.NoError(t, s.Pause(context.Background(), 0.5))
	assert.Equal(t, 0, ticks)
	assert.Equal(t, 0, sceneTicks)
	assert.Len(t, f.times, 5)
	assert.InDelta(t, 0.5, s.Time(), 1e-9)
}

func TestWaitRunsSceneUpdaters(t *testing.T) {
	s, f := newScene(10)
	var elapsed float64
	tok := s.AddUpdater(func(dt float64) { elapsed += dt })
	require.NoError(t, s.Wait(context.Background(), 1))
	assert.InDelta(t, 1.0, elapsed, 1e-9)
	assert.Len(t, f.times, 10)

	assert.True(t, s.RemoveUpdater(tok))
	assert.False(t, s.RemoveUpdater(tok))
	require.NoError(t, s.Wait(context.Background(), 1))
	assert.InDelta(t, 1.0, elapsed, 1e-9)
	assert.Len(t, f.times, 20)
}

func TestWaitUntilStopsEarly(t *testing.T) {
	s, f := newScene(10)
	ticks := 0
	s.AddUpdater(func(float64) { ticks++ })
	require.NoError(t, s.WaitUntil(context.Background(), func() bool { return ticks >= 3 }, 10))
	assert.Equal(t, 3, ticks)
	assert.Len(t, f.times, 3)
	assert.InDelta(t, 0.3, s.Time(), 1e-9)
}

func TestWaitUntilAlreadySatisfied(t *testing.T) {
	s, f := newScene(10)
	ticks := 0
	s.AddUpdater(func(float64) { ticks++ })
	require.NoError(t, s.WaitUntil(context.Background(), func() bool { return true }, 10))
	assert.Equal(t, 0, ticks)
	assert.Empty(t, f.times)
	assert.Equal(t, 0.0, s.Time())
}

func TestCancelStillFinishes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rendered := 0
	s := scene.New(scene.WithFrameRate(10), scene.WithRenderer(scene.RendererFunc(func(float64, []*mobject.Mobject) error {
		rendered++
		if rendered == 2 {
			cancel()
		}
		return nil
	})))

	m := bar("m", 0, 0.1)
	err := s.Play(ctx, animation.Transform(m, bar("t", 0.5, 0.6)))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, rendered)
	assert.Equal(t, []mobject.Point{{X: 0.5}, {X: 0.6}}, m.Points)
}

func TestRendererErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	s := scene.New(scene.WithFrameRate(10), scene.WithRenderer(scene.RendererFunc(func(float64, []*mobject.Mobject) error {
		return boom
	})))
	err := s.Play(context.Background(), animation.FadeIn(bar("m", 0, 0.1)))
	assert.ErrorIs(t, err, boom)
}

func TestPlayErrors(t *testing.T) {
	s := scene.New()
	ctx := context.Background()
	assert.ErrorIs(t, s.Play(ctx, 42), animation.ErrConfiguration)
	assert.ErrorIs(t, s.Play(ctx), animation.ErrConfiguration)

	err := s.Play(ctx, animation.Transform(bar("m", 0, 0.1), mobject.New("t")))
	assert.ErrorIs(t, err, mobject.ErrStructureMismatch)

	err = s.Play(ctx, animation.Animate(nil))
	assert.ErrorIs(t, err, animation.ErrConfiguration)
}

func TestCompile(t *testing.T) {
	a := animation.FadeIn(bar("m", 0, 0.1))
	single, err := scene.Compile(nil, a)
	require.NoError(t, err)
	assert.Same(t, a, single)

	built, err := scene.Compile(nil, animation.Animate(bar("n", 0, 0.1)).Shift(mobject.Point{X: 0.1}))
	require.NoError(t, err)
	assert.IsType(t, &animation.Leaf{}, built)

	grouped, err := scene.Compile([]animation.Option{animation.WithLagRatio(1)}, a, animation.FadeIn(bar("o", 0, 0.1)))
	require.NoError(t, err)
	g, ok := grouped.(*animation.Group)
	require.True(t, ok)
	assert.Equal(t, 2.0, g.RunTime())
}

func TestPlayWithRunTime(t *testing.T) {
	s, f := newScene(10)
	m1, m2 := bar("m1", 0, 0.1), bar("m2", 0.5, 0.6)
	err := s.PlayWith(context.Background(), []animation.Option{animation.WithRunTime(2)},
		animation.Transform(m1, bar("t1", 0.2, 0.3)),
		animation.Animate(m2).Shift(mobject.Point{X: 0.1}),
	)
	require.NoError(t, err)
	assert.Len(t, f.times, 20)
	assert.Equal(t, []*mobject.Mobject{m1, m2}, s.Mobjects())
	assert.InDelta(t, 0.6, m2.Points[0].X, 1e-12)
}

func TestChangeSpeedScalesUpdaters(t *testing.T) {
	s, f := newScene(30)
	m := mobject.New("m")
	var scaled, direct float64
	m.AddScaledUpdater(func(_ *mobject.Mobject, dt float64) { scaled += dt })
	m.AddUpdater(func(_ *mobject.Mobject, dt float64) { direct += dt })
	s.Add(m)

	cs, err := animation.NewChangeSpeed(animation.NewWait(), animation.SpeedInfo{1: 2})
	require.NoError(t, err)
	require.NoError(t, s.Play(context.Background(), cs))

	assert.Len(t, f.times, 20)
	assert.InDelta(t, 20.0/30.0, direct, 1e-9)
	// Scaled updaters see the inner second, give or take one frame.
	assert.InDelta(t, 1.0, scaled, 0.05)
}

func TestLogsEveryPlay(t *testing.T) {
	var buf bytes.Buffer
	s := scene.New(scene.WithFrameRate(10), scene.WithLogger(log.New(&buf, "", 0)))
	require.NoError(t, s.Play(context.Background(), animation.FadeIn(bar("m", 0, 0.1))))
	assert.Contains(t, buf.String(), "Played FadeIn(m)")
	assert.Contains(t, buf.String(), "10 frames")
}

func TestPlaysAreTraced(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	s := scene.New(scene.WithFrameRate(10), scene.WithTracerProvider(tp))
	ctx := context.Background()

	require.NoError(t, s.Play(ctx, animation.FadeIn(bar("m", 0, 0.1))))
	assert.Error(t, s.Play(ctx, animation.Transform(bar("n", 0, 0.1), mobject.New("t"))))

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "scene.play", spans[0].Name())
	attrs := make(map[string]any)
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	assert.Equal(t, int64(10), attrs["frames"])
	assert.Equal(t, "FadeIn(m)", attrs["animation"])
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}
