package scan

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ziadkadry99/pdfscan/internal/document"
	"github.com/ziadkadry99/pdfscan/internal/document/doctest"
	"github.com/ziadkadry99/pdfscan/internal/domain"
)

func newTestProbe(docs map[string]*fakeDoc) (*Probe, *fakeLibrary, *fakeRepairer) {
	lib := newFakeLibrary(docs)
	rep := newFakeRepairer(lib)
	return NewProbe(lib, rep, zerolog.Nop()), lib, rep
}

func TestProbe_Readable(t *testing.T) {
	probe, lib, rep := newTestProbe(map[string]*fakeDoc{
		"/docs/ok.pdf": {pages: []string{"hello"}},
	})

	got := probe.Probe(context.Background(), "/docs/ok.pdf")
	if got.Status != domain.StatusReadable {
		t.Errorf("status = %q, want %q", got.Status, domain.StatusReadable)
	}
	if got.Err != nil {
		t.Errorf("err = %v, want nil", got.Err)
	}
	if n := rep.callCount("/docs/ok.pdf"); n != 0 {
		t.Errorf("repair called %d times, want 0", n)
	}
	if !handlesBalanced(lib, "/docs/ok.pdf", 0) {
		t.Error("handle not released")
	}
}

func TestProbe_RepairedAfterOneAttempt(t *testing.T) {
	probe, lib, rep := newTestProbe(map[string]*fakeDoc{
		"/docs/fixable.pdf": {pages: []string{"text"}, broken: true, repairable: true},
	})

	got := probe.Probe(context.Background(), "/docs/fixable.pdf")
	if got.Status != domain.StatusRepaired {
		t.Errorf("status = %q, want %q", got.Status, domain.StatusRepaired)
	}
	if n := rep.callCount("/docs/fixable.pdf"); n != 1 {
		t.Errorf("repair called %d times, want 1", n)
	}
	if n := lib.openCount("/docs/fixable.pdf"); n != 2 {
		t.Errorf("opened %d times, want 2", n)
	}
	if !handlesBalanced(lib, "/docs/fixable.pdf", 1) {
		t.Error("handle not released")
	}
}

func TestProbe_RepairFailureExcludes(t *testing.T) {
	probe, lib, rep := newTestProbe(map[string]*fakeDoc{
		"/docs/hopeless.pdf": {pages: []string{"text"}, broken: true, repairErr: true},
	})

	got := probe.Probe(context.Background(), "/docs/hopeless.pdf")
	if got.Status != domain.StatusExcluded {
		t.Fatalf("status = %q, want %q", got.Status, domain.StatusExcluded)
	}
	if !domain.IsKind(got.Err, domain.KindRepair) {
		t.Errorf("err = %v, want repair kind", got.Err)
	}
	if n := rep.callCount("/docs/hopeless.pdf"); n != 1 {
		t.Errorf("repair called %d times, want 1", n)
	}
	// A failed repair is not followed by a retry.
	if n := lib.openCount("/docs/hopeless.pdf"); n != 1 {
		t.Errorf("opened %d times, want 1", n)
	}
}

func TestProbe_RetryFailureExcludes(t *testing.T) {
	probe, lib, rep := newTestProbe(map[string]*fakeDoc{
		"/docs/stubborn.pdf": {pages: []string{"text"}, broken: true},
	})

	got := probe.Probe(context.Background(), "/docs/stubborn.pdf")
	if got.Status != domain.StatusExcluded {
		t.Fatalf("status = %q, want %q", got.Status, domain.StatusExcluded)
	}
	if !domain.IsKind(got.Err, domain.KindUnreadable) {
		t.Errorf("err = %v, want unreadable kind", got.Err)
	}
	if n := rep.callCount("/docs/stubborn.pdf"); n != 1 {
		t.Errorf("repair called %d times, want 1", n)
	}
	if n := lib.openCount("/docs/stubborn.pdf"); n != 2 {
		t.Errorf("opened %d times, want exactly 2", n)
	}
}

func TestProbe_NoPagesIsUnreadable(t *testing.T) {
	probe, lib, rep := newTestProbe(map[string]*fakeDoc{
		"/docs/empty.pdf": {pages: nil},
	})

	got := probe.Probe(context.Background(), "/docs/empty.pdf")
	if got.Status != domain.StatusExcluded {
		t.Errorf("status = %q, want %q", got.Status, domain.StatusExcluded)
	}
	if n := rep.callCount("/docs/empty.pdf"); n != 1 {
		t.Errorf("repair called %d times, want 1", n)
	}
	if !handlesBalanced(lib, "/docs/empty.pdf", 0) {
		t.Error("handle not released after page-count failure")
	}
}

func TestProbe_FirstPageExtractionFailure(t *testing.T) {
	probe, lib, _ := newTestProbe(map[string]*fakeDoc{
		"/docs/badfirst.pdf": {pages: []string{"x", "y"}, badPages: map[int]bool{0: true}},
	})

	got := probe.Probe(context.Background(), "/docs/badfirst.pdf")
	if got.Status != domain.StatusExcluded {
		t.Errorf("status = %q, want %q", got.Status, domain.StatusExcluded)
	}
	if !handlesBalanced(lib, "/docs/badfirst.pdf", 0) {
		t.Error("handle not released after extraction failure")
	}
}

func TestProbe_MissingDocument(t *testing.T) {
	probe, _, _ := newTestProbe(map[string]*fakeDoc{})

	got := probe.Probe(context.Background(), "/docs/gone.pdf")
	if got.Status != domain.StatusExcluded {
		t.Errorf("status = %q, want %q", got.Status, domain.StatusExcluded)
	}
}

func TestProbe_CancelledRepairIsNotExclusion(t *testing.T) {
	probe, _, rep := newTestProbe(map[string]*fakeDoc{
		"/docs/fixable.pdf": {pages: []string{"text"}, broken: true, repairable: true},
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := probe.Probe(ctx, "/docs/fixable.pdf")
	if got.Status != domain.StatusInterrupted {
		t.Errorf("status = %q, want %q", got.Status, domain.StatusInterrupted)
	}
	if domain.IsKind(got.Err, domain.KindRepair) {
		t.Errorf("interrupted repair reported as a repair failure: %v", got.Err)
	}
	if n := rep.callCount("/docs/fixable.pdf"); n != 1 {
		t.Errorf("repair called %d times, want 1", n)
	}
}

func TestProbe_RepairsRealDocument(t *testing.T) {
	path := doctest.WriteFile(t, "whitepaper.pdf", doctest.ShiftedXref("The cloud is scalable."))
	probe := NewProbe(document.PureLibrary{}, document.NewPdfcpuRepairer(), zerolog.Nop())

	got := probe.Probe(context.Background(), path)
	if got.Status != domain.StatusRepaired {
		t.Fatalf("status = %q (err %v), want %q", got.Status, got.Err, domain.StatusRepaired)
	}

	m, err := NewMatcher("cloud", false, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	records := NewScanner(document.PureLibrary{}, m, zerolog.Nop()).Scan(context.Background(), path)
	if len(records) != 1 || !strings.Contains(records[0].Line, "The cloud is scalable.") {
		t.Errorf("records = %+v, want one line containing the sentence", records)
	}
}
