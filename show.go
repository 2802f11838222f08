package main

import (
	"context"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matt-g-everett/ledscene/animation"
	"github.com/matt-g-everett/ledscene/mobject"
	"github.com/matt-g-everett/ledscene/rate"
	"github.com/matt-g-everett/ledscene/scene"
)

// Hues along the tree, pink round to pink.
var treeGradient = mobject.GradientTable{
	{Color: colorful.Hcl(6.0, 0.6, 0.3), Pos: 0.0},
	{Color: colorful.Hcl(87.0, 0.6, 0.3), Pos: 0.2},
	{Color: colorful.Hcl(180.0, 0.6, 0.3), Pos: 0.5},
	{Color: colorful.Hcl(320.0, 0.6, 0.3), Pos: 0.8},
	{Color: colorful.Hcl(360.0, 0.6, 0.3), Pos: 1.0},
}

// newStrands splits the strip into n equal segments.
func newStrands(n int) *mobject.Mobject {
	strands := mobject.NewGroup("strands")
	for i := 0; i < n; i++ {
		from := float64(i) / float64(n)
		to := float64(i+1) / float64(n)
		strands.Add(mobject.New("strand", mobject.Point{X: from}, mobject.Point{X: to - 0.5/float64(n)}))
	}
	return strands.SetColorByGradient(treeGradient)
}

// playShow plays one round of the tree show on s.
func playShow(ctx context.Context, s *scene.Scene, rateFunc rate.Func) error {
	strands := newStrands(10)
	fades := make([]animation.Animation, 0, 10)
	for _, strand := range strands.Children() {
		fades = append(fades, animation.FadeIn(strand, animation.WithRateFunc(rateFunc)))
	}
	intro, err := animation.LaggedStart(fades, animation.WithLagRatio(0.3))
	if err != nil {
		return err
	}
	s.Add(strands)
	if err := s.Play(ctx, intro); err != nil {
		return err
	}

	// A comet drifts along the strip, slowing to a crawl mid-sweep.
	comet := mobject.New("comet", mobject.Point{X: 0}, mobject.Point{X: 0.04})
	comet.SetColor(colorful.Hcl(60, 0.2, 0.9))
	sweep := animation.Animate(comet, animation.WithRunTime(4), animation.WithRateFunc(rate.Linear)).
		MoveTo(mobject.Point{X: 0.98})
	built, err := sweep.Build()
	if err != nil {
		return err
	}
	slowed, err := animation.NewChangeSpeed(built, animation.SpeedInfo{0.4: 1, 0.5: 0.2, 0.6: 1})
	if err != nil {
		return err
	}
	phase := 0.0
	strands.AddScaledUpdater(func(m *mobject.Mobject, dt float64) {
		phase += dt
		m.SetOpacity(0.6 + 0.4*math.Cos(2*math.Pi*phase/3))
	})
	if err := s.Play(ctx, animation.FadeIn(comet, animation.WithRunTime(0.5))); err != nil {
		return err
	}
	if err := s.Play(ctx, slowed); err != nil {
		return err
	}

	if err := s.Wait(ctx, 2); err != nil {
		return err
	}
	strands.ClearUpdaters()

	outro, err := animation.Succession([]animation.Animation{
		animation.FadeOut(comet, animation.WithRunTime(0.5)),
		animation.FadeOut(strands, animation.WithLagRatio(0.1)),
	})
	if err != nil {
		return err
	}
	if err := s.Play(ctx, outro); err != nil {
		return err
	}
	return s.Pause(ctx, 1)
}
