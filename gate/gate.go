// Package gate implements the home page's one-way loading state machine:
// NotLoaded → Loaded (loading animation finished) → Shown (secondary
// content revealed). The animation plays at most once per calendar day per
// visitor.
package gate

import (
	"errors"
	"fmt"
	"time"

	"github.com/bikatr7/folio/storage"
)

// State is the position of the gate.
type State int

const (
	NotLoaded State = iota
	Loaded
	Shown
)

func (s State) String() string {
	switch s {
	case NotLoaded:
		return "not-loaded"
	case Loaded:
		return "loaded"
	case Shown:
		return "shown"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

const (
	// AnimationDuration is how long the first-visit-of-the-day animation runs.
	AnimationDuration = 2 * time.Second
	// AutoRevealAfter is the delay before content reveals itself after mount.
	AutoRevealAfter = 100 * time.Millisecond

	dateLayout = "2006-01-02"
)

// ErrNotLoaded is returned by Reveal while the loading animation is still running.
var ErrNotLoaded = errors.New("gate: content cannot be revealed before loading completes")

// Options tweak how a gate opens.
type Options struct {
	// SkipAnimation starts the gate in Loaded regardless of the last visit.
	SkipAnimation bool
	// RevealImmediately moves the gate straight to Shown once loaded.
	RevealImmediately bool
}

// Gate is one visitor's gate for one page view.
type Gate struct {
	state     State
	animation time.Duration
}

// Open reads the visitor's last visit date and decides the starting state.
// The first visit of a (UTC) day starts NotLoaded with the animation and
// records today; any later visit that day starts Loaded.
func Open(store storage.Store, now time.Time, opts Options) (*Gate, error) {
	g := &Gate{state: Loaded}

	today := now.UTC().Format(dateLayout)
	last, _ := store.Get(storage.KeyLastVisit)
	if last != today {
		if err := store.Set(storage.KeyLastVisit, today); err != nil {
			return nil, fmt.Errorf("gate: record visit: %w", err)
		}
		if !opts.SkipAnimation {
			g.state = NotLoaded
			g.animation = AnimationDuration
		}
	}
	if opts.RevealImmediately && g.state == Loaded {
		g.state = Shown
	}
	return g, nil
}

// State returns the current state.
func (g *Gate) State() State { return g.state }

// Animation is how long the loading animation should play; zero once the
// gate has loaded.
func (g *Gate) Animation() time.Duration {
	if g.state != NotLoaded {
		return 0
	}
	return g.animation
}

// Complete marks the animation as finished. It is a no-op past NotLoaded.
func (g *Gate) Complete() {
	if g.state == NotLoaded {
		g.state = Loaded
		g.animation = 0
	}
}

// Reveal shows the secondary content. It fires once; further calls are no-ops.
func (g *Gate) Reveal() error {
	switch g.state {
	case NotLoaded:
		return ErrNotLoaded
	case Loaded:
		g.state = Shown
	}
	return nil
}

// Shown reports whether secondary content is visible.
func (g *Gate) Shown() bool { return g.state == Shown }
