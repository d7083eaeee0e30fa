package restree

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/databroker/datahub/internal/domain"
	"github.com/databroker/datahub/internal/observation"
)

// Tree is the hub's resource namespace: a single root Namespace entry
// with Input/Output/Observation/Placeholder leaves addressed by
// slash-separated paths. All methods are safe for
// concurrent use.
type Tree struct {
	mu               sync.RWMutex
	root             *Entry
	clock            func() float64
	deletionTracking bool
}

// NewTree creates an empty tree with just a root namespace, stamping
// new entries with wall-clock seconds by default. Deletion tracking
// starts enabled, matching the always-on tombstone bookkeeping of
// original_source/resTree.c.
func NewTree() *Tree {
	return &Tree{
		root: &Entry{name: "", kind: KindNamespace},
		clock: func() float64 {
			return float64(time.Now().UnixNano()) / 1e9
		},
		deletionTracking: true,
	}
}

// DeletionTrackingEnabled reports whether tombstones are currently
// reportable as snapshot deltas.
func (t *Tree) DeletionTrackingEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.deletionTracking
}

// SetDeletionTrackingEnabled turns deletion tracking on or off. This is
// independent of any single scan's FlushDeletions flag: while tracking
// is enabled, tombstones are visible as deletion deltas to every scan
// whose Since predates them; while it is disabled, deletes are applied
// to the tree as usual but produce no delta at all. Turning tracking off
// also purges every tombstone already accumulated in the tree, since
// there will be no further scan able to observe and flush them.
func (t *Tree) SetDeletionTrackingEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.deletionTracking = enabled
	if !enabled {
		purge(t.root)
	}
}

// SetClock overrides the tree's time source, used by the hub to keep
// entry timestamps aligned with its own clock, and by tests that need
// deterministic relevance windows for snapshot scans.
func (t *Tree) SetClock(fn func() float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clock = fn
}

// Root returns the tree's root namespace entry.
func (t *Tree) Root() *Entry { return t.root }

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// GetEntry resolves path to its entry. If withZombies is false, a
// tombstoned entry anywhere on the path is treated as not found.
func (t *Tree) GetEntry(path string, withZombies bool) (*Entry, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.walk(path, withZombies)
}

func (t *Tree) walk(path string, withZombies bool) (*Entry, error) {
	cur := t.root
	for _, seg := range splitPath(path) {
		child := cur.childByName(seg)
		if child == nil || (child.deleted && !withZombies) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		cur = child
	}
	return cur, nil
}

// ensureNamespace walks/creates the Namespace ancestors for segs,
// promoting Placeholder entries encountered along the way. It fails if
// an intermediate segment is a non-namespace, non-placeholder entry.
func (t *Tree) ensureNamespace(segs []string, ts float64) (*Entry, error) {
	cur := t.root
	for _, seg := range segs {
		child := cur.childByName(seg)
		switch {
		case child == nil:
			child = &Entry{name: seg, kind: KindNamespace, parent: cur, createdAt: ts, modifiedAt: ts}
			cur.children = append(cur.children, child)
		case child.deleted:
			child.deleted = false
			child.kind = KindNamespace
			child.res = nil
			child.createdAt = ts
			child.modifiedAt = ts
		case child.kind == KindPlaceholder:
			child.kind = KindNamespace
			child.res = nil
			child.modifiedAt = ts
		case child.kind != KindNamespace:
			return nil, fmt.Errorf("%w: %s is not a namespace", domain.ErrDuplicate, child.Path())
		}
		cur = child
	}
	return cur, nil
}

// createLeaf resolves path's parent namespace and attaches an entry of
// kind at its final segment, promoting a Placeholder in place if one is
// there, preserving any default/override already set on it. If an entry
// of the same kind already exists there, idempotent is consulted (when
// non-nil) to decide whether to return it as a success instead of
// ErrDuplicate — used by CreateInput's same-type-and-units re-creation
// rule.
func (t *Tree) createLeaf(path string, kind Kind, idempotent func(existing *Resource) bool, build func(prev *Resource) *Resource) (*Entry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ts := t.clock()
	segs := splitPath(path)
	if len(segs) == 0 {
		return nil, fmt.Errorf("%w: empty path", domain.ErrBadParameter)
	}
	parent, err := t.ensureNamespace(segs[:len(segs)-1], ts)
	if err != nil {
		return nil, err
	}
	leaf := segs[len(segs)-1]

	existing := parent.childByName(leaf)
	if existing != nil && !existing.deleted {
		if existing.kind != KindPlaceholder {
			if existing.kind == kind && idempotent != nil && idempotent(existing.res) {
				return existing, nil
			}
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicate, path)
		}
		existing.kind = kind
		existing.res = build(existing.res)
		existing.createdAt = ts
		existing.modifiedAt = ts
		return existing, nil
	}

	var prev *Resource
	if existing != nil {
		prev = existing.res
	}
	entry := &Entry{name: leaf, kind: kind, parent: parent, res: build(prev), createdAt: ts, modifiedAt: ts}
	if existing != nil {
		// Replace the tombstone in place so sibling ordering is stable.
		for i, c := range parent.children {
			if c == existing {
				parent.children[i] = entry
				break
			}
		}
	} else {
		parent.children = append(parent.children, entry)
	}
	return entry, nil
}

// CreateInput creates an Input resource at path with the given data type
// and units. Units may be empty. Re-creating an Input at the same path
// with the same data type and units is an idempotent success, returning
// the existing entry unchanged; any other mismatch is a duplicate error.
func (t *Tree) CreateInput(path string, dataType domain.DataType, units string) (*Entry, error) {
	idempotent := func(existing *Resource) bool {
		return existing.dataType == dataType && existing.units == units
	}
	return t.createLeaf(path, KindInput, idempotent, func(prev *Resource) *Resource {
		r := &Resource{dataType: dataType, units: units, destinations: map[*Entry]struct{}{}}
		inheritOverrides(r, prev)
		return r
	})
}

// CreateOutput creates an Output resource at path with the given data
// type, units, and mandatory flag.
func (t *Tree) CreateOutput(path string, dataType domain.DataType, units string, mandatory bool) (*Entry, error) {
	return t.createLeaf(path, KindOutput, nil, func(prev *Resource) *Resource {
		r := &Resource{dataType: dataType, units: units, mandatory: mandatory, destinations: map[*Entry]struct{}{}}
		inheritOverrides(r, prev)
		return r
	})
}

// CreateObservation creates an Observation resource at path with no
// filtering or transform configured (callers configure it afterward via
// the Resource returned from Entry.Resource).
func (t *Tree) CreateObservation(path string) (*Entry, error) {
	return t.createLeaf(path, KindObservation, nil, func(prev *Resource) *Resource {
		r := &Resource{
			destinations:  map[*Entry]struct{}{},
			filter:        &observation.Filter{},
			transformKind: domain.TransformNone,
			buffer:        observation.NewBuffer(0),
		}
		inheritOverrides(r, prev)
		return r
	})
}

// GetOrCreatePlaceholder resolves path, creating Namespace ancestors and
// a Placeholder leaf if nothing exists there yet. It is used whenever a
// resource is referenced (as a source, or via SetDefault/SetOverride)
// before it has been created.
func (t *Tree) GetOrCreatePlaceholder(path string) (*Entry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ts := t.clock()
	segs := splitPath(path)
	if len(segs) == 0 {
		return nil, fmt.Errorf("%w: empty path", domain.ErrBadParameter)
	}
	parent, err := t.ensureNamespace(segs[:len(segs)-1], ts)
	if err != nil {
		return nil, err
	}
	leaf := segs[len(segs)-1]
	existing := parent.childByName(leaf)
	if existing != nil && !existing.deleted {
		return existing, nil
	}
	entry := &Entry{
		name: leaf, kind: KindPlaceholder, parent: parent, createdAt: ts, modifiedAt: ts,
		res: &Resource{destinations: map[*Entry]struct{}{}},
	}
	if existing != nil {
		for i, c := range parent.children {
			if c == existing {
				parent.children[i] = entry
				break
			}
		}
	} else {
		parent.children = append(parent.children, entry)
	}
	return entry, nil
}

func inheritOverrides(r, prev *Resource) {
	if prev == nil {
		return
	}
	r.hasDefault, r.defaultVal = prev.hasDefault, prev.defaultVal
	r.hasOverride, r.overrideVal = prev.hasOverride, prev.overrideVal
	r.source = prev.source
	if prev.destinations != nil {
		r.destinations = prev.destinations
	}
}

// DeleteResource deletes the Input/Output/Observation/Placeholder at
// path. An Input or Output that still carries administrator settings
// (a default, an override, or a source route) is downgraded in place to
// a Placeholder that retains those settings rather than being
// tombstoned, so a later SetDefault/SetOverride/SetSource on the same
// path finds them still there instead of starting from a blank
// Resource. An Observation always tombstones immediately, as does an
// Input/Output with no surviving settings. The entry remains in the
// tree as a zombie, invisible to withZombies=false traversals, until a
// snapshot flush-deletions scan releases it via Purge.
func (t *Tree) DeleteResource(path string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, err := t.walk(path, false)
	if err != nil {
		return err
	}
	if e.kind == KindNamespace {
		return fmt.Errorf("%w: %s is a namespace", domain.ErrBadParameter, path)
	}
	if len(e.Children(false)) > 0 {
		return fmt.Errorf("%w: %s has children", domain.ErrBadParameter, path)
	}

	ts := t.clock()

	if (e.kind == KindInput || e.kind == KindOutput) && e.res.HasAdminSettings() {
		placeholder := &Resource{}
		inheritOverrides(placeholder, e.res)
		e.kind = KindPlaceholder
		e.res = placeholder
		e.modifiedAt = ts
		return nil
	}

	if res := e.res; res != nil && res.source != nil {
		delete(res.source.res.destinations, e)
	}
	e.deleted = true
	e.deletedAt = ts
	e.modifiedAt = ts
	return nil
}

// Purge permanently removes tombstoned entries at and below root that are
// not referenced as anyone's source. Called by the snapshot engine when a
// scan sets flush-deletions.
func (t *Tree) Purge(root *Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	purge(root)
}

func purge(e *Entry) {
	kept := e.children[:0]
	for _, c := range e.children {
		purge(c)
		if c.deleted {
			continue
		}
		kept = append(kept, c)
	}
	e.children = kept
}

// RelativePath computes the path of to relative to from. It never
// partially commits: on error it returns ("", err) with no side effects.
func (t *Tree) RelativePath(from, to string) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	fromSegs := splitPath(from)
	toSegs := splitPath(to)

	i := 0
	for i < len(fromSegs) && i < len(toSegs) && fromSegs[i] == toSegs[i] {
		i++
	}
	if i < len(fromSegs) {
		return "", fmt.Errorf("%w: %s is not an ancestor path of %s", domain.ErrBadParameter, from, to)
	}
	if i == len(toSegs) {
		return ".", nil
	}
	return strings.Join(toSegs[i:], "/"), nil
}

// Walk calls fn for e and every descendant, depth-first, parents before
// children, in child-list order. If withZombies is false, tombstoned
// subtrees are skipped entirely.
func Walk(e *Entry, withZombies bool, fn func(*Entry)) {
	if e.deleted && !withZombies {
		return
	}
	fn(e)
	for _, c := range e.children {
		Walk(c, withZombies, fn)
	}
}
