// Package restree implements the hub's Resource Tree: a hierarchical
// namespace of Entry nodes (Namespace/Input/Output/Observation/
// Placeholder) addressed by slash-separated paths
package restree

import (
	"strings"

	"github.com/databroker/datahub/internal/domain"
	"github.com/databroker/datahub/internal/observation"
)

// Kind distinguishes the five Entry variants a resource tree node can be.
type Kind int

const (
	KindNamespace Kind = iota
	KindInput
	KindOutput
	KindObservation
	KindPlaceholder
)

func (k Kind) String() string {
	switch k {
	case KindNamespace:
		return "namespace"
	case KindInput:
		return "input"
	case KindOutput:
		return "output"
	case KindObservation:
		return "observation"
	case KindPlaceholder:
		return "placeholder"
	default:
		return "unknown"
	}
}

// Entry is one node of the resource tree. Namespace entries hold no
// Resource; Input/Output/Observation/Placeholder entries do.
type Entry struct {
	name     string
	kind     Kind
	parent   *Entry
	children []*Entry

	deleted bool // tombstone: awaiting flush from a snapshot/delta scan

	createdAt  float64 // when this entry was created (or re-realized from a Placeholder)
	modifiedAt float64 // when its value or config last changed; starts equal to createdAt
	deletedAt  float64 // when DeleteResource tombstoned it; meaningless unless deleted

	res *Resource
}

// Resource holds the IO-specific state of an Input, Output, Observation,
// or Placeholder entry.
type Resource struct {
	dataType domain.DataType
	units    string

	hasDefault bool
	defaultVal *domain.Sample

	hasOverride bool
	overrideVal *domain.Sample

	current *domain.Sample

	mandatory bool   // Output only
	ownerApp  string // Input only: the creating app, for push permission checks

	jsonExample *domain.Sample // Input only, JSON type only: documents the expected shape

	source       *Entry
	destinations map[*Entry]struct{}

	handlers []*Handler

	// pending holds the latest sample pushed during an open update
	// barrier; it is flushed and cleared on EndUpdate.
	pending *domain.Sample

	filter        *observation.Filter
	transformKind domain.TransformKind
	buffer        *observation.Buffer
	backupPeriod  float64
}

// Name returns the entry's own path segment (not its full path).
func (e *Entry) Name() string { return e.name }

// Kind returns the entry's variant.
func (e *Entry) Kind() Kind { return e.kind }

// Parent returns the entry's parent, or nil for the root.
func (e *Entry) Parent() *Entry { return e.parent }

// IsDeleted reports whether the entry is a tombstone.
func (e *Entry) IsDeleted() bool { return e.deleted }

// CreatedAt returns the time the entry was created, or last re-realized
// from a Placeholder, in the tree's clock units.
func (e *Entry) CreatedAt() float64 { return e.createdAt }

// ModifiedAt returns the time the entry's value or config last changed.
// A snapshot scan compares this against its since argument to decide
// relevance, rather than relying on a flag cleared by a single caller.
func (e *Entry) ModifiedAt() float64 { return e.modifiedAt }

// DeletedAt returns the time DeleteResource tombstoned the entry. Its
// value is meaningless when IsDeleted is false.
func (e *Entry) DeletedAt() float64 { return e.deletedAt }

// Touch stamps the entry as changed at ts. Called by the push pipeline
// and admin operations whenever a resource's current value or config
// changes.
func (e *Entry) Touch(ts float64) { e.modifiedAt = ts }

// Resource returns the entry's resource body, or nil for a Namespace.
func (e *Entry) Resource() *Resource { return e.res }

// Path returns the entry's full slash-separated path from the root.
func (e *Entry) Path() string {
	if e.parent == nil {
		return "/"
	}
	var segs []string
	for n := e; n.parent != nil; n = n.parent {
		segs = append(segs, n.name)
	}
	// segs is leaf-to-root; reverse.
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return "/" + strings.Join(segs, "/")
}

// Children returns the entry's children in creation order. If
// withZombies is false, tombstoned children are omitted.
func (e *Entry) Children(withZombies bool) []*Entry {
	if withZombies {
		out := make([]*Entry, len(e.children))
		copy(out, e.children)
		return out
	}
	out := make([]*Entry, 0, len(e.children))
	for _, c := range e.children {
		if !c.deleted {
			out = append(out, c)
		}
	}
	return out
}

// childByName returns e's child named n, including tombstoned children,
// or nil if none exists.
func (e *Entry) childByName(n string) *Entry {
	for _, c := range e.children {
		if c.name == n {
			return c
		}
	}
	return nil
}
