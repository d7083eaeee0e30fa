package restree

import (
	"errors"
	"testing"

	"github.com/databroker/datahub/internal/domain"
)

func TestCreateInputBuildsNamespaceAncestors(t *testing.T) {
	tr := NewTree()
	e, err := tr.CreateInput("/app1/sensors/temp", domain.Numeric, "C")
	if err != nil {
		t.Fatalf("CreateInput failed: %v", err)
	}
	if e.Kind() != KindInput {
		t.Fatalf("expected KindInput, got %v", e.Kind())
	}
	if e.Path() != "/app1/sensors/temp" {
		t.Fatalf("unexpected path: %v", e.Path())
	}
	ns, err := tr.GetEntry("/app1/sensors", false)
	if err != nil {
		t.Fatalf("expected namespace ancestor to exist: %v", err)
	}
	if ns.Kind() != KindNamespace {
		t.Fatalf("expected namespace kind, got %v", ns.Kind())
	}
}

func TestCreateDuplicateRejected(t *testing.T) {
	tr := NewTree()
	if _, err := tr.CreateInput("/a/b", domain.Numeric, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.CreateInput("/a/b", domain.String, ""); !errors.Is(err, domain.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for mismatched type, got %v", err)
	}
	if _, err := tr.CreateInput("/a/b", domain.Numeric, "C"); !errors.Is(err, domain.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for mismatched units, got %v", err)
	}
	if _, err := tr.CreateOutput("/a/c", domain.Numeric, "", false); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.CreateOutput("/a/c", domain.Numeric, "", false); !errors.Is(err, domain.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for re-creating an Output, got %v", err)
	}
}

func TestCreateInputSameTypeAndUnitsIsIdempotent(t *testing.T) {
	tr := NewTree()
	first, err := tr.CreateInput("/a/b", domain.Numeric, "C")
	if err != nil {
		t.Fatal(err)
	}
	second, err := tr.CreateInput("/a/b", domain.Numeric, "C")
	if err != nil {
		t.Fatalf("expected idempotent success re-creating identical Input, got %v", err)
	}
	if first != second {
		t.Fatalf("expected the same entry back, got a new one")
	}
}

func TestPlaceholderPromotedOnCreate(t *testing.T) {
	tr := NewTree()
	ph, err := tr.GetOrCreatePlaceholder("/a/b")
	if err != nil {
		t.Fatal(err)
	}
	ph.Resource().SetDefault(domain.NewNumeric(0, 42))

	e, err := tr.CreateOutput("/a/b", domain.Numeric, "", false)
	if err != nil {
		t.Fatalf("CreateOutput over placeholder failed: %v", err)
	}
	if e.Kind() != KindOutput {
		t.Fatalf("expected promotion to KindOutput, got %v", e.Kind())
	}
	val, ok := e.Resource().Default()
	if !ok || val.Numeric() != 42 {
		t.Fatalf("expected inherited default to survive promotion, got %v, %v", val, ok)
	}
}

func TestDeleteResourceTombstonesAndHidesFromNonZombieWalk(t *testing.T) {
	tr := NewTree()
	if _, err := tr.CreateInput("/a/b", domain.Numeric, ""); err != nil {
		t.Fatal(err)
	}
	if err := tr.DeleteResource("/a/b"); err != nil {
		t.Fatalf("DeleteResource failed: %v", err)
	}
	if _, err := tr.GetEntry("/a/b", false); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound without zombies, got %v", err)
	}
	e, err := tr.GetEntry("/a/b", true)
	if err != nil {
		t.Fatalf("expected zombie entry to still resolve: %v", err)
	}
	if !e.IsDeleted() {
		t.Fatalf("expected entry to be marked deleted")
	}
}

func TestSetSourceRejectsCycle(t *testing.T) {
	tr := NewTree()
	if _, err := tr.CreateObservation("/a"); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.CreateObservation("/b"); err != nil {
		t.Fatal(err)
	}
	if err := tr.SetSource("/b", "/a"); err != nil {
		t.Fatalf("SetSource a->b failed: %v", err)
	}
	if err := tr.SetSource("/a", "/b"); !errors.Is(err, domain.ErrBadParameter) {
		t.Fatalf("expected cycle rejection, got %v", err)
	}
}

func TestSetSourceIntoInputInstallsRouteButDeliveryIgnoresIt(t *testing.T) {
	tr := NewTree()
	in, err := tr.CreateInput("/in", domain.Numeric, "")
	if err != nil {
		t.Fatal(err)
	}
	obs, err := tr.CreateObservation("/obs")
	if err != nil {
		t.Fatal(err)
	}
	if err := tr.SetSource("/in", "/obs"); err != nil {
		t.Fatalf("expected routing into an input to install successfully, got %v", err)
	}
	if in.Source() != obs {
		t.Fatalf("expected /in's source to be /obs")
	}
}

func TestSetSourceTracksDestinations(t *testing.T) {
	tr := NewTree()
	a, _ := tr.CreateObservation("/a")
	b, _ := tr.CreateObservation("/b")
	if err := tr.SetSource("/b", "/a"); err != nil {
		t.Fatal(err)
	}
	dests := a.Destinations()
	if len(dests) != 1 || dests[0] != b {
		t.Fatalf("expected /a's destinations to contain /b, got %v", dests)
	}
	if b.Source() != a {
		t.Fatalf("expected /b's source to be /a")
	}
}

func TestRelativePathNeverPartiallyCommitsOnError(t *testing.T) {
	tr := NewTree()
	rel, err := tr.RelativePath("/a/b", "/x/y")
	if err == nil {
		t.Fatalf("expected error for non-ancestor path")
	}
	if rel != "" {
		t.Fatalf("expected empty result on error, got %q", rel)
	}
}

func TestRelativePathComputesSuffix(t *testing.T) {
	tr := NewTree()
	rel, err := tr.RelativePath("/a/b", "/a/b/c/d")
	if err != nil {
		t.Fatal(err)
	}
	if rel != "c/d" {
		t.Fatalf("expected c/d, got %q", rel)
	}
}

func TestDeleteResourceWithAdminSettingsDowngradesToPlaceholder(t *testing.T) {
	tr := NewTree()
	e, err := tr.CreateInput("/a/b", domain.Numeric, "")
	if err != nil {
		t.Fatal(err)
	}
	e.Resource().SetDefault(domain.NewNumeric(0, 42))

	if err := tr.DeleteResource("/a/b"); err != nil {
		t.Fatalf("DeleteResource failed: %v", err)
	}

	got, err := tr.GetEntry("/a/b", false)
	if err != nil {
		t.Fatalf("expected entry to remain visible as a placeholder: %v", err)
	}
	if got.Kind() != KindPlaceholder {
		t.Fatalf("expected KindPlaceholder, got %v", got.Kind())
	}
	if got.IsDeleted() {
		t.Fatalf("expected placeholder to not be a tombstone")
	}
	def, ok := got.Resource().Default()
	if !ok || def.Numeric() != 42 {
		t.Fatalf("expected default value to survive the delete, got %v ok=%v", def, ok)
	}

	if _, err := tr.CreateOutput("/a/b", domain.Numeric, "", true); err != nil {
		t.Fatalf("re-creating over the placeholder failed: %v", err)
	}
	reborn, _ := tr.GetEntry("/a/b", false)
	if reborn.Kind() != KindOutput {
		t.Fatalf("expected KindOutput, got %v", reborn.Kind())
	}
	def, ok = reborn.Resource().Default()
	if !ok || def.Numeric() != 42 {
		t.Fatalf("expected default to carry over from the placeholder into the new resource")
	}
}

func TestDeleteObservationAlwaysTombstonesEvenWithDefault(t *testing.T) {
	tr := NewTree()
	e, err := tr.CreateObservation("/a/b")
	if err != nil {
		t.Fatal(err)
	}
	e.Resource().SetDefault(domain.NewNumeric(0, 1))

	if err := tr.DeleteResource("/a/b"); err != nil {
		t.Fatalf("DeleteResource failed: %v", err)
	}
	if _, err := tr.GetEntry("/a/b", false); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected observation to tombstone regardless of admin settings, got %v", err)
	}
}

func TestChildrenWithAndWithoutZombies(t *testing.T) {
	tr := NewTree()
	tr.CreateInput("/p/a", domain.Numeric, "")
	tr.CreateInput("/p/b", domain.Numeric, "")
	tr.DeleteResource("/p/a")

	parent, _ := tr.GetEntry("/p", false)
	if len(parent.Children(false)) != 1 {
		t.Fatalf("expected 1 visible child, got %d", len(parent.Children(false)))
	}
	if len(parent.Children(true)) != 2 {
		t.Fatalf("expected 2 children including zombie, got %d", len(parent.Children(true)))
	}
}
