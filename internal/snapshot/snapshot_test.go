package snapshot

import (
	"bytes"
	"strings"
	"testing"

	"github.com/databroker/datahub/internal/domain"
	"github.com/databroker/datahub/internal/restree"
)

// fakeClock lets a test advance the tree's notion of time deterministically,
// so relevance windows (ModifiedAt > Since) are exact rather than racing
// wall-clock precision.
type fakeClock struct{ now float64 }

func (c *fakeClock) tick() float64 {
	c.now++
	return c.now
}

func newTestTree() (*restree.Tree, *fakeClock) {
	c := &fakeClock{}
	tr := restree.NewTree()
	tr.SetClock(func() float64 { return c.now })
	return tr, c
}

func TestScanReportsNewResources(t *testing.T) {
	tr, c := newTestTree()
	c.tick()
	tr.CreateOutput("/a/b", domain.Numeric, "", false)

	sc := NewScanner(tr)
	var buf bytes.Buffer
	var count int
	token, err := sc.Scan(Options{Format: FormatJSON}, &buf, func(n int, scanErr error) {
		count = n
		if scanErr != nil {
			t.Fatalf("scan reported error: %v", scanErr)
		}
	})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected non-empty scan token")
	}
	if count != 1 {
		t.Fatalf("expected 1 delta for the newly created resource, got %d", count)
	}
	if !strings.Contains(buf.String(), "/a/b") {
		t.Fatalf("expected output to mention /a/b, got %s", buf.String())
	}
}

func TestScanIsQuietWhenSinceCoversLastChange(t *testing.T) {
	tr, c := newTestTree()
	c.tick()
	tr.CreateOutput("/a", domain.Numeric, "", false)

	sc := NewScanner(tr)
	var buf bytes.Buffer
	var count int
	sc.Scan(Options{Format: FormatJSON}, &buf, func(n int, err error) { count = n })
	if count != 1 {
		t.Fatalf("expected 1 delta on the first scan, got %d", count)
	}
	sinceLastScan := c.now

	var buf2 bytes.Buffer
	sc.Scan(Options{Format: FormatJSON, Since: sinceLastScan}, &buf2, func(n int, err error) { count = n })
	if count != 0 {
		t.Fatalf("expected 0 deltas when Since covers every change so far, got %d", count)
	}
}

func TestScanFlushDeletionsReleasesTombstone(t *testing.T) {
	tr, c := newTestTree()
	c.tick()
	tr.CreateOutput("/a", domain.Numeric, "", false)
	baseline := c.now

	c.tick()
	tr.DeleteResource("/a")

	sc := NewScanner(tr)
	var count int
	sc.Scan(Options{Format: FormatJSON, Since: baseline, FlushDeletions: true}, &bytes.Buffer{}, func(n int, err error) { count = n })
	if count != 1 {
		t.Fatalf("expected 1 delta for the deletion, got %d", count)
	}
	if _, err := tr.GetEntry("/a", true); err == nil {
		t.Fatalf("expected tombstone to be purged after flush-deletions scan")
	}
}

func TestScanReportsTombstoneWithoutFlushDeletions(t *testing.T) {
	// Deletion tracking is a persistent, default-on control independent
	// of any one call's FlushDeletions — a scan that never asks to flush
	// still sees a deletion that postdates its watermark.
	tr, c := newTestTree()
	c.tick()
	tr.CreateOutput("/a", domain.Numeric, "", false)
	baseline := c.now

	c.tick()
	tr.DeleteResource("/a")

	sc := NewScanner(tr)
	var count int
	sc.Scan(Options{Format: FormatJSON, Since: baseline}, &bytes.Buffer{}, func(n int, err error) { count = n })
	if count != 1 {
		t.Fatalf("expected the tombstone to be reported even without FlushDeletions, got %d", count)
	}
	if _, err := tr.GetEntry("/a", true); err != nil {
		t.Fatalf("expected tombstone to remain in the tree when FlushDeletions was not set: %v", err)
	}
}

func TestDisablingDeletionTrackingFlushesAccumulatedTombstones(t *testing.T) {
	tr, c := newTestTree()
	c.tick()
	tr.CreateOutput("/a", domain.Numeric, "", false)
	baseline := c.now

	c.tick()
	tr.DeleteResource("/a")

	tr.SetDeletionTrackingEnabled(false)
	if _, err := tr.GetEntry("/a", true); err == nil {
		t.Fatalf("expected disabling deletion tracking to purge the accumulated tombstone")
	}

	c.tick()
	tr.CreateOutput("/b", domain.Numeric, "", false)
	tr.DeleteResource("/b")

	sc := NewScanner(tr)
	var count int
	sc.Scan(Options{Format: FormatJSON, Since: baseline, FlushDeletions: true}, &bytes.Buffer{}, func(n int, err error) { count = n })
	if count != 0 {
		t.Fatalf("expected deletions to go unreported while tracking is disabled, got %d", count)
	}
}

func TestScanReusesSinceWatermarkAcrossIndependentCallers(t *testing.T) {
	// Two services (e.g. an admin poller and a query poller) scan the
	// same tree on their own cadences, each supplying its own baseline.
	// Neither call's Since should be disturbed by the other's scan.
	tr, c := newTestTree()
	c.tick()
	tr.CreateOutput("/a", domain.Numeric, "", false)
	t0 := c.now

	sc := NewScanner(tr)

	var countA int
	sc.Scan(Options{Format: FormatJSON, Since: t0}, &bytes.Buffer{}, func(n int, err error) { countA = n })
	if countA != 0 {
		t.Fatalf("caller A's scan at t0 should see nothing created at or before t0, got %d", countA)
	}

	c.tick()
	tr.CreateOutput("/b", domain.Numeric, "", false)

	var countB int
	sc.Scan(Options{Format: FormatJSON, Since: t0}, &bytes.Buffer{}, func(n int, err error) { countB = n })
	if countB != 1 {
		t.Fatalf("caller B's scan reusing t0 should still see /b, got %d", countB)
	}

	// Caller A repeats its own baseline; it sees the same /b that caller
	// B saw, unaffected by caller B's scan in between.
	var countA2 int
	sc.Scan(Options{Format: FormatJSON, Since: t0}, &bytes.Buffer{}, func(n int, err error) { countA2 = n })
	if countA2 != 1 {
		t.Fatalf("re-scanning at t0 should deterministically see /b again, got %d", countA2)
	}
}

func TestScanRootPathRestrictsToSubtree(t *testing.T) {
	tr, c := newTestTree()
	c.tick()
	tr.CreateOutput("/a/x", domain.Numeric, "", false)
	tr.CreateOutput("/b/y", domain.Numeric, "", false)

	sc := NewScanner(tr)
	var buf bytes.Buffer
	var count int
	sc.Scan(Options{Format: FormatJSON, RootPath: "/a"}, &buf, func(n int, err error) { count = n })
	if count != 1 {
		t.Fatalf("expected 1 delta scoped to /a, got %d", count)
	}
	if !strings.Contains(buf.String(), "/a/x") || strings.Contains(buf.String(), "/b/y") {
		t.Fatalf("expected output restricted to /a's subtree, got %s", buf.String())
	}
}

func TestOctaveFormatEncodesToken(t *testing.T) {
	tr, c := newTestTree()
	c.tick()
	tr.CreateOutput("/a", domain.Numeric, "", false)
	sc := NewScanner(tr)
	var buf bytes.Buffer
	token, err := sc.Scan(Options{Format: FormatOctave}, &buf, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), token) {
		t.Fatalf("expected octave output to embed scan token")
	}
}
