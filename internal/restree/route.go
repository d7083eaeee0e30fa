package restree

import (
	"fmt"

	"github.com/databroker/datahub/internal/domain"
)

// SetSource routes destPath to receive its current value whenever
// sourcePath's current value changes. A destination may
// have at most one source; setting a new one replaces the old. Routing
// a source into an Input is permitted to install, but samples arriving
// via that route are silently ignored at delivery time — Inputs only
// accept pushes from their creating app or the admin interface.
func (t *Tree) SetSource(destPath, sourcePath string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	dest, err := t.walk(destPath, false)
	if err != nil {
		return err
	}
	src, err := t.walk(sourcePath, false)
	if err != nil {
		return err
	}
	if src == dest {
		return fmt.Errorf("%w: %s cannot be its own source", domain.ErrBadParameter, sourcePath)
	}
	if entryReachesVia(src, dest) {
		return fmt.Errorf("%w: routing %s to %s would create a cycle", domain.ErrBadParameter, destPath, sourcePath)
	}

	if old := dest.res.source; old != nil {
		delete(old.res.destinations, dest)
	}
	dest.res.source = src
	src.res.destinations[dest] = struct{}{}
	dest.modifiedAt = t.clock()
	return nil
}

// entryReachesVia walks from's own source chain outward and reports
// whether it ever arrives at target.
func entryReachesVia(from, target *Entry) bool {
	seen := map[*Entry]bool{}
	for cur := from; cur != nil; cur = cur.res.source {
		if cur == target {
			return true
		}
		if seen[cur] {
			// Already-cyclic graph; treat as non-reaching rather than loop forever.
			return false
		}
		seen[cur] = true
	}
	return false
}

// RemoveSource clears destPath's source route, if any.
func (t *Tree) RemoveSource(destPath string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	dest, err := t.walk(destPath, false)
	if err != nil {
		return err
	}
	if dest.res.source != nil {
		delete(dest.res.source.res.destinations, dest)
		dest.res.source = nil
		dest.modifiedAt = t.clock()
	}
	return nil
}

// Source returns destPath's current source entry, or nil if unrouted.
func (e *Entry) Source() *Entry {
	if e.res == nil {
		return nil
	}
	return e.res.source
}

// Destinations returns the entries currently routed to receive e's
// pushes, in no particular order.
func (e *Entry) Destinations() []*Entry {
	if e.res == nil {
		return nil
	}
	out := make([]*Entry, 0, len(e.res.destinations))
	for d := range e.res.destinations {
		out = append(out, d)
	}
	return out
}
