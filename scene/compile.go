package scene

import (
	"fmt"

	"github.com/matt-g-everett/ledscene/animation"
)

// Compile turns the items of a play call into one animation. Items are
// animations or builders such as animation.Animate. A single item without
// options is returned as is; anything else becomes a parallel group that
// carries opts.
func Compile(opts []animation.Option, items ...any) (animation.Animation, error) {
	anims := make([]animation.Animation, 0, len(items))
	for i, item := range items {
		switch v := item.(type) {
		case animation.Animation:
			anims = append(anims, v)
		case animation.Builder:
			a, err := v.Build()
			if err != nil {
				return nil, fmt.Errorf("build item %d: %w", i, err)
			}
			anims = append(anims, a)
		default:
			return nil, &animation.ConfigurationError{Field: "play", Reason: fmt.Sprintf("item %d of type %T is not an animation", i, item)}
		}
	}
	if len(anims) == 0 {
		return nil, &animation.ConfigurationError{Field: "play", Reason: "nothing to play"}
	}
	if len(anims) == 1 && len(opts) == 0 {
		return anims[0], nil
	}
	g, err := animation.NewGroup(anims, opts...)
	if err != nil {
		return nil, err
	}
	return g, nil
}
