// Package document abstracts the PDF text-extraction and repair capabilities
// behind small interfaces so the scan pipeline never touches a PDF library
// directly.
package document

import (
	"errors"
	"fmt"
	"strings"
)

// Extension is the only document type the scanner looks at.
const Extension = ".pdf"

var (
	// ErrNoPages is returned by readers for documents that open but contain no pages.
	ErrNoPages = errors.New("document has no pages")
	// ErrUnknownBackend is returned by NewLibrary for unrecognised backend names.
	ErrUnknownBackend = errors.New("unknown document backend")
	// ErrPageOutOfRange is returned by ExtractText for an invalid page index.
	ErrPageOutOfRange = errors.New("page index out of range")
)

// Library opens documents for reading.
type Library interface {
	Open(path string) (Handle, error)
}

// Handle is an open view of one document's pages. Callers must Close it on
// every exit path.
type Handle interface {
	PageCount() (int, error)
	// ExtractText returns the text of the zero-based page.
	ExtractText(page int) (string, error)
	Close() error
}

// Backend names accepted by NewLibrary.
const (
	BackendFitz = "fitz"
	BackendPure = "pure"
)

// Backends lists the valid backend names.
var Backends = []string{BackendFitz, BackendPure}

// NormalizeBackend maps a backend name to its canonical form. Case is
// ignored and an empty name means fitz.
func NormalizeBackend(name string) (string, error) {
	switch b := strings.ToLower(strings.TrimSpace(name)); b {
	case "":
		return BackendFitz, nil
	case BackendFitz, BackendPure:
		return b, nil
	default:
		return "", fmt.Errorf("%w %q: must be one of %s", ErrUnknownBackend, name, strings.Join(Backends, ", "))
	}
}

// NewLibrary returns the Library implementation registered under name.
func NewLibrary(name string) (Library, error) {
	b, err := NormalizeBackend(name)
	if err != nil {
		return nil, err
	}
	if b == BackendPure {
		return PureLibrary{}, nil
	}
	return FitzLibrary{}, nil
}

func checkPage(page, count int) error {
	if page < 0 || page >= count {
		return fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, page, count)
	}
	return nil
}
