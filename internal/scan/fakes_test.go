package scan

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ziadkadry99/pdfscan/internal/document"
)

var (
	errBrokenXref  = errors.New("broken xref table")
	errBadPage     = errors.New("bad content stream")
	errRepairFails = errors.New("cannot rebuild document")
)

// fakeDoc is an in-memory document. A broken document fails to open until
// a repair marks it fixed.
type fakeDoc struct {
	pages    []string
	badPages map[int]bool
	broken   bool
	// repairable controls what a repair does to a broken document.
	repairable bool
	// repairErr makes the repair capability itself fail.
	repairErr bool
}

// fakeLibrary is safe for concurrent use and counts opens and closes so
// tests can check that every handle is released.
type fakeLibrary struct {
	mu     sync.Mutex
	docs   map[string]*fakeDoc
	opens  map[string]int
	closes map[string]int
}

func newFakeLibrary(docs map[string]*fakeDoc) *fakeLibrary {
	return &fakeLibrary{
		docs:   docs,
		opens:  make(map[string]int),
		closes: make(map[string]int),
	}
}

func (l *fakeLibrary) Open(path string) (document.Handle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.opens[path]++
	doc, ok := l.docs[path]
	if !ok {
		return nil, fmt.Errorf("open %s: no such file", path)
	}
	if doc.broken {
		return nil, errBrokenXref
	}
	return &fakeHandle{lib: l, path: path, doc: doc}, nil
}

func (l *fakeLibrary) openCount(path string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.opens[path]
}

type fakeHandle struct {
	lib    *fakeLibrary
	path   string
	doc    *fakeDoc
	closed bool
}

func (h *fakeHandle) PageCount() (int, error) {
	return len(h.doc.pages), nil
}

func (h *fakeHandle) ExtractText(page int) (string, error) {
	if page < 0 || page >= len(h.doc.pages) {
		return "", document.ErrPageOutOfRange
	}
	if h.doc.badPages[page] {
		return "", errBadPage
	}
	return h.doc.pages[page], nil
}

func (h *fakeHandle) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	h.lib.mu.Lock()
	h.lib.closes[h.path]++
	h.lib.mu.Unlock()
	return nil
}

// fakeRepairer applies each document's repair behaviour and counts calls.
type fakeRepairer struct {
	lib   *fakeLibrary
	mu    sync.Mutex
	calls map[string]int
}

func newFakeRepairer(lib *fakeLibrary) *fakeRepairer {
	return &fakeRepairer{lib: lib, calls: make(map[string]int)}
}

func (r *fakeRepairer) Repair(ctx context.Context, path string) error {
	r.mu.Lock()
	r.calls[path]++
	r.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	r.lib.mu.Lock()
	defer r.lib.mu.Unlock()
	doc, ok := r.lib.docs[path]
	if !ok {
		return fmt.Errorf("repair %s: no such file", path)
	}
	if doc.repairErr {
		return errRepairFails
	}
	if doc.repairable {
		doc.broken = false
	}
	return nil
}

func (r *fakeRepairer) callCount(path string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[path]
}

// handlesBalanced reports whether every successful open was closed.
func handlesBalanced(l *fakeLibrary, path string, failedOpens int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.opens[path]-failedOpens == l.closes[path]
}

// cancellingRepairer cancels the run as soon as a repair is requested.
type cancellingRepairer struct {
	cancel context.CancelFunc
}

func (r cancellingRepairer) Repair(ctx context.Context, _ string) error {
	r.cancel()
	return ctx.Err()
}
