package mobject

// Token identifies an updater registered on a Mobject.
type Token uint64

// UpdaterFunc advances m by dt seconds outside of any animation.
type UpdaterFunc func(m *Mobject, dt float64)

type updater struct {
	token  Token
	fn     UpdaterFunc
	scaled bool
}

// UpdateContext carries the frame timing for one Update pass.
type UpdateContext struct {
	// Dt is the real frame delta in seconds.
	Dt float64
	// ScaledDt is handed to updaters registered with AddScaledUpdater.
	ScaledDt float64
	// Claimed reports whether an animation currently holds the updaters of
	// a mobject. Claimed mobjects are skipped. May be nil.
	Claimed func(m *Mobject) bool
}

// AddUpdater registers fn to run on every Update of m and returns the token
// needed to remove it again.
func (m *Mobject) AddUpdater(fn UpdaterFunc) Token {
	return m.addUpdater(fn, false)
}

// AddScaledUpdater registers fn like AddUpdater, but fn receives the scaled
// frame delta of the driving timeline instead of the real one.
func (m *Mobject) AddScaledUpdater(fn UpdaterFunc) Token {
	return m.addUpdater(fn, true)
}

func (m *Mobject) addUpdater(fn UpdaterFunc, scaled bool) Token {
	m.nextToken++
	m.updaters = append(m.updaters, updater{token: m.nextToken, fn: fn, scaled: scaled})
	return m.nextToken
}

// RemoveUpdater unregisters the updater with the given token and reports
// whether it was present.
func (m *Mobject) RemoveUpdater(t Token) bool {
	for i, u := range m.updaters {
		if u.token == t {
			m.updaters = append(m.updaters[:i], m.updaters[i+1:]...)
			return true
		}
	}
	return false
}

// ClearUpdaters removes every updater from m.
func (m *Mobject) ClearUpdaters() {
	m.updaters = nil
}

// Updaters returns the tokens of the updaters registered directly on m.
func (m *Mobject) Updaters() []Token {
	tokens := make([]Token, len(m.updaters))
	for i, u := range m.updaters {
		tokens[i] = u.token
	}
	return tokens
}

// FamilyHasUpdaters reports whether any member of the family has an updater.
func (m *Mobject) FamilyHasUpdaters() bool {
	for _, f := range m.Family() {
		if len(f.updaters) > 0 {
			return true
		}
	}
	return false
}

// SuspendUpdating stops the updaters of the whole family from running until
// ResumeUpdating is called. Registered updaters are kept.
func (m *Mobject) SuspendUpdating() {
	for _, f := range m.Family() {
		f.suspended = true
	}
}

// ResumeUpdating re-enables the updaters of the whole family.
func (m *Mobject) ResumeUpdating() {
	for _, f := range m.Family() {
		f.suspended = false
	}
}

// UpdatingSuspended reports whether m itself is suspended.
func (m *Mobject) UpdatingSuspended() bool {
	return m.suspended
}

// Update runs the updaters of every family member that is neither suspended
// nor claimed. The family is captured before any updater runs, so updaters
// that restructure the tree take effect on the next frame.
func (m *Mobject) Update(uc UpdateContext) {
	for _, f := range m.Family() {
		if f.suspended || (uc.Claimed != nil && uc.Claimed(f)) {
			continue
		}
		for _, u := range append([]updater(nil), f.updaters...) {
			if u.scaled {
				u.fn(f, uc.ScaledDt)
			} else {
				u.fn(f, uc.Dt)
			}
		}
	}
}
