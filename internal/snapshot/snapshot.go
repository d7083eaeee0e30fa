// Package snapshot implements the Query service's snapshot/delta scan:
// streaming the resources that are new, modified, or (optionally) newly
// deleted since a caller-supplied watermark, tagged with a unique scan token so
// concurrent callers can tell their streams apart.
package snapshot

import (
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/databroker/datahub/internal/domain"
	"github.com/databroker/datahub/internal/restree"
)

// Format selects the wire encoding of a scan's output.
type Format int

const (
	// FormatJSON encodes deltas as a JSON array.
	FormatJSON Format = iota
	// FormatOctave encodes deltas as Octave/MATLAB ASCII assignments,
	// for tooling that consumes the hub's dumps directly in Octave.
	FormatOctave
	// FormatReserved is held for a future custom encoding and is not
	// implemented.
	FormatReserved
)

// Delta is one resource's contribution to a scan.
type Delta struct {
	Path    string
	Kind    restree.Kind
	Sample  *domain.Sample
	Deleted bool
}

// Options configures a single scan.
type Options struct {
	Format Format
	// RootPath restricts the scan to the subtree rooted at this path.
	// Empty means the whole tree.
	RootPath string
	// Since is the relevance watermark: an entry is reported when its
	// value or config changed after Since, i.e. ModifiedAt() > Since.
	// Zero scans the full subtree (every entry postdates the epoch).
	// Unlike a scan that clears a shared dirty flag, Since is supplied
	// by the caller on every call, so two callers polling on different
	// cadences (or the same caller replaying the same watermark after a
	// delete) each see exactly what changed relative to their own
	// baseline rather than clobbering one another's state.
	Since float64
	// FlushDeletions releases tombstoned resources after they have been
	// reported in this scan's output. Without it, tombstones remain in
	// the tree and keep reappearing in later scans whose Since predates
	// the deletion. It has no bearing on whether a tombstone is relevant
	// in the first place — that is governed by the tree's persistent
	// deletion-tracking control (Tree.SetDeletionTrackingEnabled), which
	// defaults to on; FlushDeletions only decides when to purge.
	FlushDeletions bool
}

// Scanner drives snapshot/delta scans over a resource tree.
type Scanner struct {
	tree *restree.Tree
}

// NewScanner creates a Scanner over tree.
func NewScanner(tree *restree.Tree) *Scanner {
	return &Scanner{tree: tree}
}

// Scan walks the subtree rooted at opts.RootPath (the whole tree if
// empty) for entries relevant since opts.Since, writes them to w in the
// requested format, and invokes onComplete with the delta count (or an
// error) once streaming finishes. It returns the scan's unique token.
func (sc *Scanner) Scan(opts Options, w io.Writer, onComplete func(count int, err error)) (string, error) {
	root := sc.tree.Root()
	if opts.RootPath != "" {
		r, err := sc.tree.GetEntry(opts.RootPath, true)
		if err != nil {
			return "", err
		}
		root = r
	}

	token := uuid.NewString()

	var deltas []Delta
	restree.Walk(root, true, func(e *restree.Entry) {
		if e.Kind() == restree.KindNamespace {
			return
		}
		var relevant bool
		if e.IsDeleted() {
			relevant = sc.tree.DeletionTrackingEnabled() && e.DeletedAt() > opts.Since
		} else {
			relevant = e.ModifiedAt() > opts.Since
		}
		if !relevant {
			return
		}
		var sample *domain.Sample
		if !e.IsDeleted() {
			sample, _ = e.Resource().EffectiveValue()
		}
		deltas = append(deltas, Delta{Path: e.Path(), Kind: e.Kind(), Sample: sample, Deleted: e.IsDeleted()})
	})

	var err error
	switch opts.Format {
	case FormatJSON:
		err = encodeJSON(w, token, deltas)
	case FormatOctave:
		err = encodeOctave(w, token, deltas)
	default:
		err = fmt.Errorf("%w: unsupported snapshot format", domain.ErrBadParameter)
	}

	if err == nil && opts.FlushDeletions {
		sc.tree.Purge(root)
	}

	if onComplete != nil {
		onComplete(len(deltas), err)
	}
	return token, err
}
