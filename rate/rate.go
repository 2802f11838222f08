// Package rate provides rate functions: remappings of an animation's
// progress in [0, 1] used for easing.
package rate

import (
	"fmt"
	"math"
	"sort"

	"github.com/fogleman/ease"
)

// A Func maps linear progress in [0, 1] to eased progress. Most functions
// satisfy f(0) == 0 and f(1) == 1; ThereAndBack and friends return to 0.
type Func func(t float64) float64

// Linear leaves progress untouched.
func Linear(t float64) float64 {
	return ease.Linear(t)
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Smooth is a sigmoid ease with a steep middle and flat ends.
func Smooth(t float64) float64 {
	const inflection = 10.0
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return 1
	}
	e := sigmoid(-inflection / 2)
	return clip((sigmoid(inflection*(t-0.5))-e)/(1-2*e), 0, 1)
}

// RushInto starts slow and ends at full speed.
func RushInto(t float64) float64 {
	return 2 * Smooth(t/2)
}

// RushFrom starts at full speed and ends slow.
func RushFrom(t float64) float64 {
	return 2*Smooth(t/2+0.5) - 1
}

// DoubleSmooth eases into and out of the midpoint.
func DoubleSmooth(t float64) float64 {
	if t < 0.5 {
		return 0.5 * Smooth(2*t)
	}
	return 0.5 * (1 + Smooth(2*t-1))
}

// ThereAndBack runs forwards to the midpoint and back to the start.
func ThereAndBack(t float64) float64 {
	if t < 0.5 {
		return Smooth(2 * t)
	}
	return Smooth(2 * (1 - t))
}

// Lingering finishes at 80% of the time and holds.
func Lingering(t float64) float64 {
	return Squish(Linear, 0, 0.8)(t)
}

// Squish compresses f into the interval [a, b] of the timeline, holding
// f(0) before a and f(1) after b.
func Squish(f Func, a, b float64) Func {
	return func(t float64) float64 {
		if a == b {
			return a
		}
		switch {
		case t < a:
			return f(0)
		case t > b:
			return f(1)
		}
		return f((t - a) / (b - a))
	}
}

// Reverse plays f backwards.
func Reverse(f Func) Func {
	return func(t float64) float64 {
		return f(1 - t)
	}
}

var byName = map[string]Func{
	"linear":         Linear,
	"smooth":         Smooth,
	"rush_into":      RushInto,
	"rush_from":      RushFrom,
	"double_smooth":  DoubleSmooth,
	"there_and_back": ThereAndBack,
	"lingering":      Lingering,
	"in_quad":        ease.InQuad,
	"out_quad":       ease.OutQuad,
	"in_out_quad":    ease.InOutQuad,
	"in_cubic":       ease.InCubic,
	"out_cubic":      ease.OutCubic,
	"in_out_cubic":   ease.InOutCubic,
	"in_sine":        ease.InSine,
	"out_sine":       ease.OutSine,
	"in_out_sine":    ease.InOutSine,
	"in_expo":        ease.InExpo,
	"out_expo":       ease.OutExpo,
	"in_out_expo":    ease.InOutExpo,
	"in_back":        ease.InBack,
	"out_back":       ease.OutBack,
	"out_bounce":     ease.OutBounce,
	"out_elastic":    ease.OutElastic,
}

// ByName looks up a rate function by its snake_case name, as used in scene
// configuration files.
func ByName(name string) (Func, error) {
	f, ok := byName[name]
	if !ok {
		return nil, fmt.Errorf("unknown rate function %q", name)
	}
	return f, nil
}

// Names lists every registered rate function name in sorted order.
func Names() []string {
	names := make([]string, 0, len(byName))
	for n := range byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func clip(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
